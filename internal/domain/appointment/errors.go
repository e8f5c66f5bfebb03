package appointment

import "github.com/BruksfildServices01/booking-engine/internal/httperr"

const (
	CodeInvalidRange         = "invalid_range"
	CodeSlotUnavailable      = "slot_unavailable"
	CodeHoldInvalidOrExpired = "hold_invalid_or_expired"
	CodeBookingConflict      = "booking_conflict"
	CodeNotFound             = "not_found"
	CodeInvalidState         = "invalid_state"
	CodeStaffBusy            = "staff_busy"
	CodeInvalidKind          = "invalid_kind"
	CodeInvalidSettings      = "invalid_settings"
)

var (
	ErrInvalidRange         = httperr.ErrBusiness(CodeInvalidRange)
	ErrSlotUnavailable      = httperr.ErrBusiness(CodeSlotUnavailable)
	ErrHoldInvalidOrExpired = httperr.ErrBusiness(CodeHoldInvalidOrExpired)
	ErrBookingConflict      = httperr.ErrBusiness(CodeBookingConflict)
	ErrNotFound             = httperr.ErrBusiness(CodeNotFound)
	ErrInvalidState         = httperr.ErrBusiness(CodeInvalidState)
	ErrInvalidKind          = httperr.ErrBusiness(CodeInvalidKind)
	ErrInvalidSettings      = httperr.ErrBusiness(CodeInvalidSettings)

	// ErrStaffBusy is returned when the per-staff lock could not be taken
	// before the caller's deadline.
	ErrStaffBusy = httperr.ErrBusiness(CodeStaffBusy)
)
