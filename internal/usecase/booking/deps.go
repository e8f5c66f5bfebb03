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
	"github.com/BruksfildServices01/booking-engine/internal/infra/lock"
	"github.com/BruksfildServices01/booking-engine/internal/logging"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
)

// Deps is shared by every booking use case. Only Repo is required.
type Deps struct {
	Repo    domain.Repository
	Locker  domain.Locker
	Audit   *audit.Dispatcher
	Logger  *zap.Logger
	Metrics *metrics.BookingMetrics
	Now     func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Locker == nil {
		d.Locker = lock.NewLocalLocker(lock.DefaultWait)
	}
	d.Logger = logging.OrNop(d.Logger)
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func (d Deps) now() time.Time {
	return d.Now().UTC()
}

// guarded runs fn under the per-staff lock and inside one storage
// transaction. Every check-then-act on a staff calendar goes through here.
func (d Deps) guarded(
	ctx context.Context,
	tenantID uuid.UUID,
	staffID uuid.UUID,
	fn func(tx domain.Repository) error,
) error {
	release, err := d.Locker.Lock(ctx, tenantID, staffID)
	if err != nil {
		d.Logger.Warn("staff lock not acquired",
			zap.String("tenant_id", tenantID.String()),
			zap.String("staff_id", staffID.String()),
			zap.Error(err),
		)
		return err
	}
	defer release()

	return d.Repo.Transaction(ctx, fn)
}

// appointmentCollides reports whether a non-canceled appointment of the
// staff overlaps r. excludeID is left out of the check.
func appointmentCollides(
	ctx context.Context,
	repo domain.Repository,
	tenantID uuid.UUID,
	staffID uuid.UUID,
	r interval.Range,
	excludeID *uuid.UUID,
) (bool, error) {
	apps, err := repo.ListBusyAppointments(ctx, tenantID, staffID, r, excludeID)
	if err != nil {
		return false, fmt.Errorf("list appointments: %w", err)
	}
	return len(apps) > 0, nil
}

func holdCollides(
	ctx context.Context,
	repo domain.Repository,
	tenantID uuid.UUID,
	staffID uuid.UUID,
	r interval.Range,
	now time.Time,
) (bool, error) {
	holds, err := repo.ListLiveHolds(ctx, tenantID, staffID, r, now)
	if err != nil {
		return false, fmt.Errorf("list holds: %w", err)
	}
	return len(holds) > 0, nil
}

func entityRef(id uuid.UUID) *uuid.UUID {
	return &id
}
