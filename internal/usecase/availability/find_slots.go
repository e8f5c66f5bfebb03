package availability

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/interval"
	"github.com/BruksfildServices01/booking-engine/internal/domain/settings"
	"github.com/BruksfildServices01/booking-engine/internal/logging"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

// ======================================================
// USE CASE
// ======================================================

type FindSlots struct {
	repo    domain.Repository
	logger  *zap.Logger
	metrics *metrics.BookingMetrics
	now     func() time.Time
}

func NewFindSlots(
	repo domain.Repository,
	logger *zap.Logger,
	m *metrics.BookingMetrics,
) *FindSlots {
	return &FindSlots{
		repo:    repo,
		logger:  logging.OrNop(logger),
		metrics: m,
		now:     time.Now,
	}
}

// WithClock replaces the clock used to decide which holds are live.
func (uc *FindSlots) WithClock(now func() time.Time) *FindSlots {
	uc.now = now
	return uc
}

// ======================================================
// EXECUTE
// ======================================================

// Execute lists the bookable slots of every active staff member (optionally
// filtered) for every calendar day touched by [FromUtc, ToUtc], ordered by
// start. Whole days are searched; slots are not clipped to the range. A
// service that does not belong to the tenant yields no slots.
func (uc *FindSlots) Execute(
	ctx context.Context,
	in domain.SlotQuery,
) ([]domain.Slot, error) {

	started := time.Now()
	defer func() { uc.metrics.ObserveSearch(time.Since(started).Seconds()) }()

	if in.ToUtc.Before(in.FromUtc) {
		return nil, domain.ErrInvalidRange
	}

	// --------------------------------------------------
	// 1️⃣ Tenant + serviço
	// --------------------------------------------------
	tenant, err := uc.repo.GetTenant(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	service, err := uc.repo.GetService(ctx, in.TenantID, in.ServiceID)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Slot{}, nil
	}
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Staff ativo
	// --------------------------------------------------
	staff, err := uc.repo.ListActiveStaff(ctx, in.TenantID, in.StaffIDs)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	slots := []domain.Slot{}

	for i := range staff {
		st := &staff[i]
		found, err := uc.staffSlots(ctx, tenant, st, service, in.FromUtc, in.ToUtc, now)
		if err != nil {
			return nil, err
		}
		slots = append(slots, found...)
	}

	// --------------------------------------------------
	// 3️⃣ Ordenação global
	// --------------------------------------------------
	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].StartUtc.Equal(slots[j].StartUtc) {
			return slots[i].StartUtc.Before(slots[j].StartUtc)
		}
		return slots[i].StaffID.String() < slots[j].StaffID.String()
	})

	uc.logger.Debug("slots searched",
		zap.String("tenant_id", in.TenantID.String()),
		zap.String("service_id", in.ServiceID.String()),
		zap.Int("staff", len(staff)),
		zap.Int("slots", len(slots)),
	)

	return slots, nil
}

func (uc *FindSlots) staffSlots(
	ctx context.Context,
	tenant *models.Tenant,
	st *models.Staff,
	service *models.Service,
	from, to time.Time,
	now time.Time,
) ([]domain.Slot, error) {

	eff := settings.ResolveFor(tenant.Settings, st)
	loc := eff.Location()
	step := eff.Granularity()

	duration := time.Duration(service.DurationMin) * time.Minute
	if duration <= 0 {
		duration = time.Duration(eff.DefaultAppointmentMinutes) * time.Minute
	}
	before := time.Duration(max(service.BufferBeforeMin, 0)) * time.Minute
	after := time.Duration(max(service.BufferAfterMin, 0)) * time.Minute
	total := before + duration + after

	var out []domain.Slot

	for _, day := range timezone.Days(from, to, loc) {
		if !eff.IsBusinessDay(day.Weekday()) {
			continue
		}

		windows, err := dayWindows(ctx, uc.repo, tenant.ID, st.ID, eff, day)
		if err != nil {
			return nil, err
		}
		if len(windows) == 0 {
			continue
		}

		busy, err := busyIntervals(ctx, uc.repo, tenant.ID, st.ID, hull(windows), now)
		if err != nil {
			return nil, err
		}

		for _, w := range windows {
			for cur := w.Start; !cur.Add(total).After(w.End); cur = cur.Add(step) {
				span := interval.Range{Start: cur, End: cur.Add(total)}
				if span.OverlapsAny(busy) {
					continue
				}
				out = append(out, domain.Slot{
					StartUtc: cur.Add(before),
					EndUtc:   cur.Add(before + duration),
					StaffID:  st.ID,
				})
			}
		}
	}

	return out, nil
}
