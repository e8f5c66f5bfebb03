package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
)

type MeHandler struct {
	repo domain.Repository
}

func NewMeHandler(repo domain.Repository) *MeHandler {
	return &MeHandler{repo: repo}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == nil {
		httperr.Unauthorized(c, "user_not_in_context", "Missing user.")
		return
	}

	tenant, err := h.repo.GetTenant(c.Request.Context(), tenantParam(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	staffID, _ := c.Get(middleware.ContextStaffID)
	role, _ := c.Get(middleware.ContextUserRole)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       userID,
			"role":     role,
			"staff_id": staffID,
		},
		"tenant": gin.H{
			"id":       tenant.ID,
			"name":     tenant.Name,
			"slug":     tenant.Slug,
			"active":   tenant.Active,
			"settings": tenant.Settings,
		},
	})
}
