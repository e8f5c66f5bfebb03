package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-engine/internal/domain/settings"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/httpresp"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	ucStaffSettings "github.com/BruksfildServices01/booking-engine/internal/usecase/staffsettings"
)

// ======================================================
// HANDLER
// ======================================================

type StaffSettingsHandler struct {
	getUC    *ucStaffSettings.GetEffectiveSettings
	updateUC *ucStaffSettings.UpdateStaffOverride
}

func NewStaffSettingsHandler(
	getUC *ucStaffSettings.GetEffectiveSettings,
	updateUC *ucStaffSettings.UpdateStaffOverride,
) *StaffSettingsHandler {
	return &StaffSettingsHandler{getUC: getUC, updateUC: updateUC}
}

// ======================================================
// GET
// ======================================================

func (h *StaffSettingsHandler) Get(c *gin.Context) {
	staffID, ok := uuidParam(c, "staffId")
	if !ok {
		return
	}

	view, err := h.getUC.Execute(c.Request.Context(), tenantParam(c), staffID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, view)
}

// ======================================================
// UPDATE
// ======================================================

// Update takes the override document itself (same tolerant format as the
// stored one: day names, numeric strings, snake or camel keys) plus an
// optional "reset" flag.
func (h *StaffSettingsHandler) Update(c *gin.Context) {
	staffID, ok := uuidParam(c, "staffId")
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	var flags struct {
		Reset bool `json:"reset"`
	}
	if err := json.Unmarshal(body, &flags); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	view, err := h.updateUC.Execute(c.Request.Context(), ucStaffSettings.UpdateInput{
		TenantID:     tenantParam(c),
		StaffID:      staffID,
		Patch:        settings.ParseOverride(string(body)),
		Reset:        flags.Reset,
		ActingUserID: middleware.UserID(c),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, view)
}
