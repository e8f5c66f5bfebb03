package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
)

// ======================================================
// RELEASE
// ======================================================

type ReleaseHold struct {
	Deps
}

func NewReleaseHold(d Deps) *ReleaseHold {
	return &ReleaseHold{Deps: d.withDefaults()}
}

// Execute drops a hold the client abandoned. Unknown tokens fail with
// ErrHoldInvalidOrExpired.
func (uc *ReleaseHold) Execute(ctx context.Context, tenantID uuid.UUID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrHoldInvalidOrExpired
	}

	deleted, err := uc.Repo.DeleteHold(ctx, tenantID, token)
	if err != nil {
		return fmt.Errorf("delete hold: %w", err)
	}
	if !deleted {
		return domain.ErrHoldInvalidOrExpired
	}

	uc.Metrics.ObserveHold("released")
	uc.Logger.Info("hold released", zap.String("tenant_id", tenantID.String()))
	return nil
}

// ======================================================
// SWEEPER
// ======================================================

// HoldSweeper deletes expired holds periodically. Expired holds are already
// ignored by every check; this only keeps the table small.
type HoldSweeper struct {
	Deps
	every time.Duration
}

func NewHoldSweeper(d Deps, every time.Duration) *HoldSweeper {
	return &HoldSweeper{Deps: d.withDefaults(), every: every}
}

// Run blocks until ctx is done. A non-positive interval returns at once.
func (s *HoldSweeper) Run(ctx context.Context) {
	if s.every <= 0 {
		return
	}

	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.Logger.Warn("hold sweep failed", zap.Error(err))
			}
		}
	}
}

func (s *HoldSweeper) SweepOnce(ctx context.Context) (int64, error) {
	n, err := s.Repo.DeleteExpiredHolds(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.Metrics.ObserveSwept(n)
		s.Logger.Debug("expired holds swept", zap.Int64("count", n))
	}
	return n, nil
}
