package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/httpresp"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	ucBooking "github.com/BruksfildServices01/booking-engine/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	createHold  *ucBooking.CreateHold
	releaseHold *ucBooking.ReleaseHold
	book        *ucBooking.Book
}

func NewBookingHandler(
	createHold *ucBooking.CreateHold,
	releaseHold *ucBooking.ReleaseHold,
	book *ucBooking.Book,
) *BookingHandler {
	return &BookingHandler{
		createHold:  createHold,
		releaseHold: releaseHold,
		book:        book,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateHoldRequest struct {
	ServiceID  uuid.UUID `json:"service_id" binding:"required"`
	StaffID    uuid.UUID `json:"staff_id" binding:"required"`
	StartUtc   time.Time `json:"start_utc" binding:"required"`
	EndUtc     time.Time `json:"end_utc" binding:"required"`
	TTLSeconds int       `json:"ttl_seconds"`
}

type HoldResponse struct {
	HoldID     uuid.UUID `json:"hold_id"`
	Token      string    `json:"token"`
	StaffID    uuid.UUID `json:"staff_id"`
	StartUtc   time.Time `json:"start_utc"`
	EndUtc     time.Time `json:"end_utc"`
	ExpiresUtc time.Time `json:"expires_utc"`
}

type BookRequest struct {
	HoldToken    string     `json:"hold_token" binding:"required"`
	ClientID     *uuid.UUID `json:"client_id"`
	GuestContact string     `json:"guest_contact"`
	ClientType   string     `json:"client_type"`
	ClientName   string     `json:"client_name"`
	Notes        string     `json:"notes"`
}

// ======================================================
// HOLDS
// ======================================================

func (h *BookingHandler) CreateHold(c *gin.Context) {
	var req CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	hold, err := h.createHold.Execute(c.Request.Context(), ucBooking.CreateHoldInput{
		TenantID:  tenantParam(c),
		ServiceID: req.ServiceID,
		StaffID:   req.StaffID,
		StartUtc:  req.StartUtc,
		EndUtc:    req.EndUtc,
		TTL:       time.Duration(req.TTLSeconds) * time.Second,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, HoldResponse{
		HoldID:     hold.ID,
		Token:      hold.Token,
		StaffID:    hold.StaffID,
		StartUtc:   hold.StartUtc,
		EndUtc:     hold.EndUtc,
		ExpiresUtc: hold.ExpiresUtc,
	})
}

func (h *BookingHandler) ReleaseHold(c *gin.Context) {
	if err := h.releaseHold.Execute(c.Request.Context(), tenantParam(c), c.Param("token")); err != nil {
		httperr.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ======================================================
// BOOK
// ======================================================

func (h *BookingHandler) Book(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), ucBooking.BookInput{
		TenantID:     tenantParam(c),
		HoldToken:    req.HoldToken,
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
