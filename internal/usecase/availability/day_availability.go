package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/interval"
	"github.com/BruksfildServices01/booking-engine/internal/domain/settings"
	"github.com/BruksfildServices01/booking-engine/internal/logging"
)

type GetDayAvailability struct {
	repo   domain.Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewGetDayAvailability(repo domain.Repository, logger *zap.Logger) *GetDayAvailability {
	return &GetDayAvailability{
		repo:   repo,
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
}

func (uc *GetDayAvailability) WithClock(now func() time.Time) *GetDayAvailability {
	uc.now = now
	return uc
}

// Execute returns the raw free ranges of one staff member on the calendar
// date of `date` (year/month/day only), read in the staff's effective
// timezone.
func (uc *GetDayAvailability) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	staffID uuid.UUID,
	date time.Time,
) (*domain.DayAvailability, error) {

	tenant, err := uc.repo.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	staff, err := uc.repo.GetStaff(ctx, tenantID, staffID)
	if err != nil {
		return nil, err
	}

	eff := settings.ResolveFor(tenant.Settings, staff)
	loc := eff.Location()
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)

	out := &domain.DayAvailability{
		FreeRanges:             []domain.FreeRange{},
		StepMinutes:            eff.SlotGranularityMinutes,
		DefaultDurationMinutes: eff.DefaultAppointmentMinutes,
	}

	if !staff.Active || !eff.IsBusinessDay(day.Weekday()) {
		return out, nil
	}
	out.Online = true

	windows, err := dayWindows(ctx, uc.repo, tenantID, staffID, eff, day)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return out, nil
	}

	busy, err := busyIntervals(ctx, uc.repo, tenantID, staffID, hull(windows), uc.now())
	if err != nil {
		return nil, err
	}

	for _, w := range windows {
		for _, free := range interval.Subtract(w, busy) {
			out.FreeRanges = append(out.FreeRanges, domain.FreeRange{
				StartUtc: free.Start,
				EndUtc:   free.End,
			})
		}
	}

	uc.logger.Debug("day availability",
		zap.String("tenant_id", tenantID.String()),
		zap.String("staff_id", staffID.String()),
		zap.String("date", day.Format("2006-01-02")),
		zap.Int("free_ranges", len(out.FreeRanges)),
	)

	return out, nil
}
