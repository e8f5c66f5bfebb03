package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/httpresp"
	ucAvailability "github.com/BruksfildServices01/booking-engine/internal/usecase/availability"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	findSlots       *ucAvailability.FindSlots
	dayAvailability *ucAvailability.GetDayAvailability
}

func NewAvailabilityHandler(
	findSlots *ucAvailability.FindSlots,
	dayAvailability *ucAvailability.GetDayAvailability,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		findSlots:       findSlots,
		dayAvailability: dayAvailability,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type SearchSlotsRequest struct {
	ServiceID uuid.UUID   `json:"service_id" binding:"required"`
	FromUtc   time.Time   `json:"from_utc" binding:"required"`
	ToUtc     time.Time   `json:"to_utc" binding:"required"`
	StaffIDs  []uuid.UUID `json:"staff_ids"`
}

// ======================================================
// SEARCH
// ======================================================

func (h *AvailabilityHandler) SearchSlots(c *gin.Context) {
	var req SearchSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	slots, err := h.findSlots.Execute(c.Request.Context(), domain.SlotQuery{
		TenantID:  tenantParam(c),
		ServiceID: req.ServiceID,
		FromUtc:   req.FromUtc,
		ToUtc:     req.ToUtc,
		StaffIDs:  req.StaffIDs,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// DAY
// ======================================================

func (h *AvailabilityHandler) DayAvailability(c *gin.Context) {
	staffID, ok := uuidParam(c, "staffId")
	if !ok {
		return
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Use date=YYYY-MM-DD.")
		return
	}

	day, err := h.dayAvailability.Execute(c.Request.Context(), tenantParam(c), staffID, date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, day)
}
