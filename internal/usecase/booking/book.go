package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	TenantID  uuid.UUID
	HoldToken string

	ClientID     *uuid.UUID
	GuestContact string
	ClientType   string
	ClientName   string
	Notes        string

	ActingUserID *uuid.UUID
}

// ======================================================
// USE CASE
// ======================================================

type Book struct {
	Deps
}

func NewBook(d Deps) *Book {
	return &Book{Deps: d.withDefaults()}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute swaps a live hold for a confirmed appointment. A second call with
// the same token fails with ErrHoldInvalidOrExpired. When an appointment
// took the range after the hold was placed it fails with
// ErrBookingConflict and the hold is left in place.
func (uc *Book) Execute(
	ctx context.Context,
	in BookInput,
) (*models.Appointment, error) {

	token := strings.TrimSpace(in.HoldToken)
	if token == "" {
		return nil, domain.ErrHoldInvalidOrExpired
	}

	// --------------------------------------------------
	// 1️⃣ Hold vivo (descobre o staff para o lock)
	// --------------------------------------------------
	peek, err := uc.Repo.GetLiveHold(ctx, in.TenantID, token, uc.now())
	if err != nil {
		uc.observeFailure(err)
		return nil, err
	}

	var ap *models.Appointment

	err = uc.guarded(ctx, in.TenantID, peek.StaffID, func(tx domain.Repository) error {
		now := uc.now()

		// relido dentro do lock: outro book pode ter consumido o hold
		hold, err := tx.GetLiveHold(ctx, in.TenantID, token, now)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 2️⃣ Conflito com agendamentos
		// --------------------------------------------------
		busy, err := appointmentCollides(ctx, tx, in.TenantID, hold.StaffID, domain.HoldSpan(*hold), nil)
		if err != nil {
			return err
		}
		if busy {
			return domain.ErrBookingConflict
		}

		// --------------------------------------------------
		// 3️⃣ Agendamento + consumo do hold
		// --------------------------------------------------
		ap = &models.Appointment{
			TenantID:        in.TenantID,
			ServiceID:       hold.ServiceID,
			StaffID:         hold.StaffID,
			ClientID:        in.ClientID,
			ClientType:      clientType(in.ClientType, in.ClientID, in.GuestContact),
			GuestContact:    strings.TrimSpace(in.GuestContact),
			ClientName:      strings.TrimSpace(in.ClientName),
			StartUtc:        hold.StartUtc,
			EndUtc:          hold.EndUtc,
			Status:          string(domain.InitialStatus()),
			Kind:            string(domain.KindAppointment),
			Notes:           strings.TrimSpace(in.Notes),
			CreatedByUserID: in.ActingUserID,
			CreatedAt:       now,
			UpdatedUtc:      now,
		}
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			if httperr.IsExclusionConflict(err) {
				return domain.ErrBookingConflict
			}
			return fmt.Errorf("create appointment: %w", err)
		}

		deleted, err := tx.DeleteHold(ctx, in.TenantID, token)
		if err != nil {
			return fmt.Errorf("delete hold: %w", err)
		}
		if !deleted {
			return domain.ErrHoldInvalidOrExpired
		}
		return nil
	})

	if err != nil {
		uc.observeFailure(err)
		if httperr.IsBusiness(err, domain.CodeBookingConflict) {
			uc.Logger.Info("booking conflict",
				zap.String("tenant_id", in.TenantID.String()),
				zap.String("staff_id", peek.StaffID.String()),
				zap.String("hold_id", peek.ID.String()),
			)
			uc.Audit.Dispatch(audit.Event{
				TenantID: in.TenantID,
				UserID:   in.ActingUserID,
				Action:   "booking_conflict",
				Entity:   "appointment_hold",
				EntityID: entityRef(peek.ID),
			})
		}
		return nil, err
	}

	uc.Metrics.ObserveBooking("confirmed")
	uc.Logger.Info("booking confirmed",
		zap.String("tenant_id", in.TenantID.String()),
		zap.String("staff_id", ap.StaffID.String()),
		zap.String("appointment_id", ap.ID.String()),
		zap.String("hold_id", peek.ID.String()),
	)

	// --------------------------------------------------
	// 4️⃣ Auditoria
	// --------------------------------------------------
	uc.Audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.ActingUserID,
		Action:   "appointment_booked",
		Entity:   "appointment",
		EntityID: entityRef(ap.ID),
		Metadata: map[string]any{"hold_id": peek.ID, "client_type": ap.ClientType},
	})

	return ap, nil
}

func (uc *Book) observeFailure(err error) {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		uc.Metrics.ObserveBooking(be.Code)
		return
	}
	uc.Metrics.ObserveBooking("error")
}
