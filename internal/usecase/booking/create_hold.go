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
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

const DefaultHoldTTL = 5 * time.Minute

// ======================================================
// INPUT
// ======================================================

type CreateHoldInput struct {
	TenantID  uuid.UUID
	ServiceID uuid.UUID
	StaffID   uuid.UUID
	StartUtc  time.Time
	EndUtc    time.Time

	// TTL <= 0 uses the use case default.
	TTL time.Duration
}

// ======================================================
// USE CASE
// ======================================================

type CreateHold struct {
	Deps
	defaultTTL time.Duration
}

func NewCreateHold(d Deps, defaultTTL time.Duration) *CreateHold {
	if defaultTTL <= 0 {
		defaultTTL = DefaultHoldTTL
	}
	return &CreateHold{Deps: d.withDefaults(), defaultTTL: defaultTTL}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute places a soft claim on [StartUtc, EndUtc) for the staff member.
// It fails with ErrSlotUnavailable when a non-canceled appointment or a
// live hold overlaps the range.
func (uc *CreateHold) Execute(
	ctx context.Context,
	in CreateHoldInput,
) (*models.AppointmentHold, error) {

	// --------------------------------------------------
	// 1️⃣ Intervalo
	// --------------------------------------------------
	span := interval.New(in.StartUtc, in.EndUtc)
	if !span.Valid() {
		return nil, domain.ErrInvalidRange
	}

	ttl := in.TTL
	if ttl <= 0 {
		ttl = uc.defaultTTL
	}

	// --------------------------------------------------
	// 2️⃣ Staff + serviço do tenant
	// --------------------------------------------------
	staff, err := uc.Repo.GetStaff(ctx, in.TenantID, in.StaffID)
	if err != nil {
		return nil, err
	}
	if !staff.Active {
		uc.Metrics.ObserveHold("slot_unavailable")
		return nil, domain.ErrSlotUnavailable
	}
	if _, err := uc.Repo.GetService(ctx, in.TenantID, in.ServiceID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Conflitos + criação (lock + tx)
	// --------------------------------------------------
	var hold *models.AppointmentHold

	err = uc.guarded(ctx, in.TenantID, in.StaffID, func(tx domain.Repository) error {
		now := uc.now()

		busy, err := appointmentCollides(ctx, tx, in.TenantID, in.StaffID, span, nil)
		if err != nil {
			return err
		}
		if busy {
			return domain.ErrSlotUnavailable
		}

		held, err := holdCollides(ctx, tx, in.TenantID, in.StaffID, span, now)
		if err != nil {
			return err
		}
		if held {
			return domain.ErrSlotUnavailable
		}

		hold = &models.AppointmentHold{
			TenantID:   in.TenantID,
			ServiceID:  in.ServiceID,
			StaffID:    in.StaffID,
			StartUtc:   span.Start.UTC(),
			EndUtc:     span.End.UTC(),
			Token:      newHoldToken(),
			ExpiresUtc: now.Add(ttl),
			CreatedAt:  now,
		}
		if err := tx.CreateHold(ctx, hold); err != nil {
			return fmt.Errorf("create hold: %w", err)
		}
		return nil
	})

	if err != nil {
		if httperr.IsBusiness(err, domain.CodeSlotUnavailable) {
			uc.Metrics.ObserveHold("slot_unavailable")
			uc.Logger.Info("hold rejected",
				zap.String("tenant_id", in.TenantID.String()),
				zap.String("staff_id", in.StaffID.String()),
				zap.Time("start_utc", span.Start),
			)
		}
		return nil, err
	}

	uc.Metrics.ObserveHold("created")
	uc.Logger.Info("hold created",
		zap.String("tenant_id", in.TenantID.String()),
		zap.String("staff_id", in.StaffID.String()),
		zap.String("hold_id", hold.ID.String()),
		zap.Time("expires_utc", hold.ExpiresUtc),
	)

	// --------------------------------------------------
	// 4️⃣ Auditoria
	// --------------------------------------------------
	uc.Audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		Action:   "hold_created",
		Entity:   "appointment_hold",
		EntityID: entityRef(hold.ID),
		Metadata: map[string]any{
			"staff_id":  in.StaffID,
			"start_utc": hold.StartUtc,
			"end_utc":   hold.EndUtc,
		},
	})

	return hold, nil
}

// newHoldToken is 32 hex chars of a random UUID.
func newHoldToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
