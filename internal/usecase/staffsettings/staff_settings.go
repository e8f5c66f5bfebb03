// Package staffsettings reads and edits the per-staff settings override and
// shows the configuration the availability engine will actually use.
package staffsettings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/settings"
	"github.com/BruksfildServices01/booking-engine/internal/infra/lock"
	"github.com/BruksfildServices01/booking-engine/internal/logging"
)

// View is the stored override next to the resolved result.
type View struct {
	StaffID   uuid.UUID          `json:"staff_id"`
	Effective settings.Effective `json:"effective"`
	Override  settings.Override  `json:"override"`
}

// ======================================================
// GET
// ======================================================

type GetEffectiveSettings struct {
	repo domain.Repository
}

func NewGetEffectiveSettings(repo domain.Repository) *GetEffectiveSettings {
	return &GetEffectiveSettings{repo: repo}
}

func (uc *GetEffectiveSettings) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	staffID uuid.UUID,
) (*View, error) {
	return loadView(ctx, uc.repo, tenantID, staffID)
}

// ======================================================
// UPDATE
// ======================================================

type UpdateInput struct {
	TenantID uuid.UUID
	StaffID  uuid.UUID

	// Patch fields that are set replace the stored ones.
	Patch settings.Override
	// Reset drops the stored override before the patch is applied.
	Reset bool

	ActingUserID *uuid.UUID
}

type UpdateStaffOverride struct {
	repo   domain.Repository
	locker domain.Locker
	audit  *audit.Dispatcher
	logger *zap.Logger
}

func NewUpdateStaffOverride(
	repo domain.Repository,
	locker domain.Locker,
	dispatcher *audit.Dispatcher,
	logger *zap.Logger,
) *UpdateStaffOverride {
	if locker == nil {
		locker = lock.NewLocalLocker(lock.DefaultWait)
	}
	return &UpdateStaffOverride{
		repo:   repo,
		locker: locker,
		audit:  dispatcher,
		logger: logging.OrNop(logger),
	}
}

// Execute merges the patch into the stored override. A result with no
// fields set clears the column so the staff inherits the tenant again.
func (uc *UpdateStaffOverride) Execute(
	ctx context.Context,
	in UpdateInput,
) (*View, error) {

	// --------------------------------------------------
	// 1️⃣ Validação do patch
	// --------------------------------------------------
	if err := in.Patch.Validate(); err != nil {
		uc.logger.Info("staff settings rejected",
			zap.String("staff_id", in.StaffID.String()),
			zap.Error(err),
		)
		return nil, domain.ErrInvalidSettings
	}

	// --------------------------------------------------
	// 2️⃣ Merge sob o lock do staff
	// --------------------------------------------------
	release, err := uc.locker.Lock(ctx, in.TenantID, in.StaffID)
	if err != nil {
		return nil, err
	}
	defer release()

	var doc string
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		staff, err := tx.GetStaff(ctx, in.TenantID, in.StaffID)
		if err != nil {
			return err
		}

		current := settings.ParseOverride(staff.SettingsOverride)
		if in.Reset {
			current = settings.Override{}
		}
		doc = current.Merge(in.Patch).Encode()

		if err := tx.UpdateStaffOverride(ctx, in.TenantID, in.StaffID, doc); err != nil {
			return fmt.Errorf("update staff override: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("staff settings updated",
		zap.String("tenant_id", in.TenantID.String()),
		zap.String("staff_id", in.StaffID.String()),
		zap.Bool("cleared", doc == ""),
	)

	// --------------------------------------------------
	// 3️⃣ Auditoria
	// --------------------------------------------------
	staffID := in.StaffID
	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.ActingUserID,
		Action:   "staff_settings_updated",
		Entity:   "staff",
		EntityID: &staffID,
		Metadata: map[string]any{"override": doc, "reset": in.Reset},
	})

	return loadView(ctx, uc.repo, in.TenantID, in.StaffID)
}

// ======================================================
// HELPERS
// ======================================================

func loadView(
	ctx context.Context,
	repo domain.Repository,
	tenantID uuid.UUID,
	staffID uuid.UUID,
) (*View, error) {

	tenant, err := repo.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	staff, err := repo.GetStaff(ctx, tenantID, staffID)
	if err != nil {
		return nil, err
	}

	return &View{
		StaffID:   staff.ID,
		Effective: settings.ResolveFor(tenant.Settings, staff),
		Override:  settings.ParseOverride(staff.SettingsOverride),
	}, nil
}
