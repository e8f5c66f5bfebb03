package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/interval"
	"github.com/BruksfildServices01/booking-engine/internal/domain/settings"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// ======================================================
// RESCHEDULE
// ======================================================

type RescheduleInput struct {
	TenantID      uuid.UUID
	AppointmentID uuid.UUID
	NewStartUtc   time.Time
	NewEndUtc     time.Time
	ActingUserID  *uuid.UUID
}

type Reschedule struct {
	Deps
}

func NewReschedule(d Deps) *Reschedule {
	return &Reschedule{Deps: d.withDefaults()}
}

// Execute moves the appointment. The new range must be valid and not start
// in the past, and may not overlap any other non-canceled appointment of
// the same staff member.
func (uc *Reschedule) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	span := interval.New(in.NewStartUtc, in.NewEndUtc)
	if !span.Valid() || span.Start.Before(uc.now()) {
		return nil, domain.ErrInvalidRange
	}

	current, err := uc.Repo.GetAppointment(ctx, in.TenantID, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanReschedule(domain.Status(current.Status)); err != nil {
		return nil, err
	}

	var ap *models.Appointment

	err = uc.guarded(ctx, in.TenantID, current.StaffID, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetAppointment(ctx, in.TenantID, in.AppointmentID)
		if err != nil {
			return err
		}

		busy, err := appointmentCollides(ctx, tx, in.TenantID, ap.StaffID, span, &ap.ID)
		if err != nil {
			return err
		}
		if busy {
			return domain.ErrSlotUnavailable
		}

		if err := domain.Reschedule(ap, span.Start, span.End, uc.now()); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			if httperr.IsExclusionConflict(err) {
				return domain.ErrSlotUnavailable
			}
			return fmt.Errorf("update appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Metrics.ObserveTransition("reschedule")
	uc.Logger.Info("appointment rescheduled",
		zap.String("tenant_id", in.TenantID.String()),
		zap.String("appointment_id", ap.ID.String()),
		zap.Time("start_utc", ap.StartUtc),
	)
	uc.Audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.ActingUserID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: entityRef(ap.ID),
		Metadata: map[string]any{
			"from_start_utc": current.StartUtc,
			"to_start_utc":   ap.StartUtc,
		},
	})

	return ap, nil
}

// ======================================================
// CANCEL
// ======================================================

type CancelInput struct {
	TenantID      uuid.UUID
	AppointmentID uuid.UUID
	Reason        string
	ActingUserID  *uuid.UUID
}

type CancelResult struct {
	Appointment *models.Appointment `json:"appointment"`
	FeeMayApply bool                `json:"fee_may_apply"`
}

type Cancel struct {
	Deps
}

func NewCancel(d Deps) *Cancel {
	return &Cancel{Deps: d.withDefaults()}
}

// Execute always cancels a non-terminal appointment. FeeMayApply is true
// when the start is closer than the effective cancellation window.
func (uc *Cancel) Execute(
	ctx context.Context,
	in CancelInput,
) (*CancelResult, error) {

	tenant, err := uc.Repo.GetTenant(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	var res CancelResult

	err = uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		ap, err := tx.GetAppointment(ctx, in.TenantID, in.AppointmentID)
		if err != nil {
			return err
		}

		// janela do staff (override) ou do tenant
		var staff *models.Staff
		if s, err := tx.GetStaff(ctx, in.TenantID, ap.StaffID); err == nil {
			staff = s
		}
		window := settings.ResolveFor(tenant.Settings, staff).CancellationWindowHours

		fee, err := domain.Cancel(ap, in.Reason, window, uc.now())
		if err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}

		res = CancelResult{Appointment: ap, FeeMayApply: fee}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Metrics.ObserveTransition("cancel")
	uc.Logger.Info("appointment canceled",
		zap.String("tenant_id", in.TenantID.String()),
		zap.String("appointment_id", res.Appointment.ID.String()),
		zap.Bool("fee_may_apply", res.FeeMayApply),
	)
	uc.Audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.ActingUserID,
		Action:   "appointment_canceled",
		Entity:   "appointment",
		EntityID: entityRef(res.Appointment.ID),
		Metadata: map[string]any{
			"reason":        res.Appointment.CancelReason,
			"fee_may_apply": res.FeeMayApply,
		},
	})

	return &res, nil
}

// ======================================================
// NO-SHOW
// ======================================================

type MarkNoShow struct {
	Deps
}

func NewMarkNoShow(d Deps) *MarkNoShow {
	return &MarkNoShow{Deps: d.withDefaults()}
}

// Execute does not require the start to have passed.
func (uc *MarkNoShow) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	appointmentID uuid.UUID,
	actingUserID *uuid.UUID,
) (*models.Appointment, error) {

	var ap *models.Appointment

	err := uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetAppointment(ctx, tenantID, appointmentID)
		if err != nil {
			return err
		}
		if err := domain.MarkNoShow(ap, uc.now()); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Metrics.ObserveTransition("no_show")
	uc.Logger.Info("appointment marked no-show",
		zap.String("tenant_id", tenantID.String()),
		zap.String("appointment_id", ap.ID.String()),
	)
	uc.Audit.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   actingUserID,
		Action:   "appointment_no_show",
		Entity:   "appointment",
		EntityID: entityRef(ap.ID),
	})

	return ap, nil
}
