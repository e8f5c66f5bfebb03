package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/httpresp"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/booking-engine/internal/usecase/appointment"
	ucBooking "github.com/BruksfildServices01/booking-engine/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC     *ucBooking.CreateDirect
	rescheduleUC *ucBooking.Reschedule
	cancelUC     *ucBooking.Cancel
	noShowUC     *ucBooking.MarkNoShow
	listByDateUC *ucAppointment.ListAppointmentsByDate
}

func NewAppointmentHandler(
	createUC *ucBooking.CreateDirect,
	rescheduleUC *ucBooking.Reschedule,
	cancelUC *ucBooking.Cancel,
	noShowUC *ucBooking.MarkNoShow,
	listByDateUC *ucAppointment.ListAppointmentsByDate,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:     createUC,
		rescheduleUC: rescheduleUC,
		cancelUC:     cancelUC,
		noShowUC:     noShowUC,
		listByDateUC: listByDateUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	StaffID      uuid.UUID  `json:"staff_id" binding:"required"`
	ServiceID    *uuid.UUID `json:"service_id"`
	StartUtc     time.Time  `json:"start_utc" binding:"required"`
	EndUtc       time.Time  `json:"end_utc"`
	Kind         string     `json:"kind"`
	ClientID     *uuid.UUID `json:"client_id"`
	GuestContact string     `json:"guest_contact"`
	ClientType   string     `json:"client_type"`
	ClientName   string     `json:"client_name"`
	Notes        string     `json:"notes"`
}

type RescheduleRequest struct {
	StartUtc time.Time `json:"start_utc" binding:"required"`
	EndUtc   time.Time `json:"end_utc" binding:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateDirectInput{
		TenantID:     tenantParam(c),
		StaffID:      req.StaffID,
		ServiceID:    req.ServiceID,
		StartUtc:     req.StartUtc,
		EndUtc:       req.EndUtc,
		Kind:         req.Kind,
		ClientID:     req.ClientID,
		GuestContact: req.GuestContact,
		ClientType:   req.ClientType,
		ClientName:   req.ClientName,
		Notes:        req.Notes,
		ActingUserID: middleware.UserID(c),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.rescheduleUC.Execute(c.Request.Context(), ucBooking.RescheduleInput{
		TenantID:      tenantParam(c),
		AppointmentID: id,
		NewStartUtc:   req.StartUtc,
		NewEndUtc:     req.EndUtc,
		ActingUserID:  middleware.UserID(c),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	// body is optional
	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	res, err := h.cancelUC.Execute(c.Request.Context(), ucBooking.CancelInput{
		TenantID:      tenantParam(c),
		AppointmentID: id,
		Reason:        req.Reason,
		ActingUserID:  middleware.UserID(c),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.noShowUC.Execute(c.Request.Context(), tenantParam(c), id, middleware.UserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	staffID, ok := uuidParam(c, "staffId")
	if !ok {
		return
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Use date=YYYY-MM-DD.")
		return
	}

	entries, err := h.listByDateUC.Execute(c.Request.Context(), tenantParam(c), staffID, date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, entries)
}
