package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/booking-engine/internal/domain/interval"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Reschedule(ap *models.Appointment, start, end, now time.Time) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}
	if !end.After(start) || start.Before(now) {
		return ErrInvalidRange
	}

	ap.StartUtc = start.UTC()
	ap.EndUtc = end.UTC()
	ap.Status = string(StatusRescheduled)
	ap.UpdatedUtc = now
	return nil
}

// Cancel marks the appointment canceled and reports whether the
// cancellation falls inside the cancellation window. The window never
// blocks the cancellation.
func Cancel(ap *models.Appointment, reason string, windowHours int, now time.Time) (feeMayApply bool, err error) {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return false, err
	}

	feeMayApply = ap.StartUtc.Sub(now) < time.Duration(windowHours)*time.Hour

	ap.Status = string(StatusCanceled)
	ap.CancelReason = strings.TrimSpace(reason)
	ap.UpdatedUtc = now
	return feeMayApply, nil
}

// MarkNoShow does not check that the start has passed; that is up to the caller.
func MarkNoShow(ap *models.Appointment, now time.Time) error {
	if err := CanMarkNoShow(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusNoShow)
	ap.UpdatedUtc = now
	return nil
}

func Span(ap models.Appointment) interval.Range {
	return interval.Range{Start: ap.StartUtc, End: ap.EndUtc}
}

func HoldSpan(h models.AppointmentHold) interval.Range {
	return interval.Range{Start: h.StartUtc, End: h.EndUtc}
}

// IsLive reports whether the hold still claims its slot at now.
func IsLive(h models.AppointmentHold, now time.Time) bool {
	return h.ExpiresUtc.After(now)
}
