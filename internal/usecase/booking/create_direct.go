package booking

import (
	"context"
	"fmt"
	"strings"
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
// INPUT
// ======================================================

// CreateDirectInput creates an appointment (or a block / time off) without
// a hold, as done from the staff calendar.
type CreateDirectInput struct {
	TenantID uuid.UUID
	StaffID  uuid.UUID

	// ServiceID is optional for blocks and time off.
	ServiceID *uuid.UUID

	StartUtc time.Time
	// Zero EndUtc derives the end from the service duration, or the
	// effective default duration without a service.
	EndUtc time.Time

	Kind string

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

type CreateDirect struct {
	Deps
}

func NewCreateDirect(d Deps) *CreateDirect {
	return &CreateDirect{Deps: d.withDefaults()}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateDirect) Execute(
	ctx context.Context,
	in CreateDirectInput,
) (*models.Appointment, error) {

	kind, ok := domain.ParseKind(strings.ToLower(strings.TrimSpace(in.Kind)))
	if !ok {
		return nil, domain.ErrInvalidKind
	}

	// --------------------------------------------------
	// 1️⃣ Tenant / staff / serviço
	// --------------------------------------------------
	tenant, err := uc.Repo.GetTenant(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	staff, err := uc.Repo.GetStaff(ctx, in.TenantID, in.StaffID)
	if err != nil {
		return nil, err
	}

	var serviceID uuid.UUID
	duration := time.Duration(settings.ResolveFor(tenant.Settings, staff).DefaultAppointmentMinutes) * time.Minute

	if in.ServiceID != nil {
		service, err := uc.Repo.GetService(ctx, in.TenantID, *in.ServiceID)
		if err != nil {
			return nil, err
		}
		serviceID = service.ID
		if service.DurationMin > 0 {
			duration = time.Duration(service.DurationMin) * time.Minute
		}
	}

	// --------------------------------------------------
	// 2️⃣ Intervalo
	// --------------------------------------------------
	end := in.EndUtc
	if end.IsZero() {
		end = in.StartUtc.Add(duration)
	}
	span := interval.New(in.StartUtc, end)
	if !span.Valid() {
		return nil, domain.ErrInvalidRange
	}

	// --------------------------------------------------
	// 3️⃣ Conflitos + criação (lock + tx)
	// --------------------------------------------------
	var ap *models.Appointment

	err = uc.guarded(ctx, in.TenantID, in.StaffID, func(tx domain.Repository) error {
		now := uc.now()

		busy, err := appointmentCollides(ctx, tx, in.TenantID, in.StaffID, span, nil)
		if err != nil {
			return err
		}
		held, err := holdCollides(ctx, tx, in.TenantID, in.StaffID, span, now)
		if err != nil {
			return err
		}
		if busy || held {
			return domain.ErrSlotUnavailable
		}

		ap = &models.Appointment{
			TenantID:        in.TenantID,
			ServiceID:       serviceID,
			StaffID:         in.StaffID,
			StartUtc:        span.Start.UTC(),
			EndUtc:          span.End.UTC(),
			Status:          string(domain.InitialStatus()),
			Kind:            string(kind),
			Notes:           strings.TrimSpace(in.Notes),
			CreatedByUserID: in.ActingUserID,
			CreatedAt:       now,
			UpdatedUtc:      now,
		}
		if kind == domain.KindAppointment {
			ap.ClientID = in.ClientID
			ap.ClientType = clientType(in.ClientType, in.ClientID, in.GuestContact)
			ap.GuestContact = strings.TrimSpace(in.GuestContact)
			ap.ClientName = strings.TrimSpace(in.ClientName)
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			if httperr.IsExclusionConflict(err) {
				return domain.ErrSlotUnavailable
			}
			return fmt.Errorf("create appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Metrics.ObserveTransition("create")
	uc.Logger.Info("appointment created",
		zap.String("tenant_id", in.TenantID.String()),
		zap.String("staff_id", in.StaffID.String()),
		zap.String("appointment_id", ap.ID.String()),
		zap.String("kind", ap.Kind),
	)

	uc.Audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.ActingUserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: entityRef(ap.ID),
		Metadata: map[string]any{"kind": ap.Kind},
	})

	return ap, nil
}
