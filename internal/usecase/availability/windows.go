package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/interval"
	"github.com/BruksfildServices01/booking-engine/internal/domain/settings"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// dayWindows returns the merged open windows (UTC) of one staff member on
// the local calendar day starting at day.
//
// Base windows are the tenant business-hours rows of the weekday clipped to
// open/close, or open/close alone when the tenant has no usable rows. Staff
// availability rows, when present, restrict the base windows further.
func dayWindows(
	ctx context.Context,
	repo domain.Repository,
	tenantID uuid.UUID,
	staffID uuid.UUID,
	eff settings.Effective,
	day time.Time,
) ([]interval.Range, error) {

	open, ok := eff.OpenWindow(day)
	if !ok {
		return nil, nil
	}
	loc := eff.Location()
	weekday := int(day.Weekday())

	base := []interval.Range{open}

	hours, err := repo.ListBusinessHours(ctx, tenantID, weekday)
	if err != nil {
		return nil, fmt.Errorf("list business hours: %w", err)
	}
	if rows := rowWindows(day, loc, hoursPairs(hours)); len(rows) > 0 {
		base = clip(rows, []interval.Range{open})
	}

	avail, err := repo.ListStaffAvailability(ctx, tenantID, staffID, weekday)
	if err != nil {
		return nil, fmt.Errorf("list staff availability: %w", err)
	}
	if rows := rowWindows(day, loc, availabilityPairs(avail)); len(rows) > 0 {
		base = clip(rows, base)
	}

	return interval.Merge(base), nil
}

// busyIntervals collects the non-canceled appointments and live holds of
// the staff overlapping r.
func busyIntervals(
	ctx context.Context,
	repo domain.Repository,
	tenantID uuid.UUID,
	staffID uuid.UUID,
	r interval.Range,
	now time.Time,
) ([]interval.Range, error) {

	apps, err := repo.ListBusyAppointments(ctx, tenantID, staffID, r, nil)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	holds, err := repo.ListLiveHolds(ctx, tenantID, staffID, r, now)
	if err != nil {
		return nil, fmt.Errorf("list holds: %w", err)
	}

	busy := make([]interval.Range, 0, len(apps)+len(holds))
	for _, ap := range apps {
		busy = append(busy, domain.Span(ap))
	}
	for _, h := range holds {
		busy = append(busy, domain.HoldSpan(h))
	}
	return interval.Merge(busy), nil
}

// hull spans every window; windows must be merged (sorted).
func hull(windows []interval.Range) interval.Range {
	return interval.Range{Start: windows[0].Start, End: windows[len(windows)-1].End}
}

type clockPair struct{ start, end string }

func hoursPairs(rows []models.BusinessHours) []clockPair {
	out := make([]clockPair, 0, len(rows))
	for _, r := range rows {
		out = append(out, clockPair{r.StartTime, r.EndTime})
	}
	return out
}

func availabilityPairs(rows []models.StaffAvailability) []clockPair {
	out := make([]clockPair, 0, len(rows))
	for _, r := range rows {
		out = append(out, clockPair{r.StartTime, r.EndTime})
	}
	return out
}

// rowWindows anchors HH:mm rows on day; rows with bad times or end <= start
// are ignored.
func rowWindows(day time.Time, loc *time.Location, rows []clockPair) []interval.Range {
	var out []interval.Range
	for _, p := range rows {
		if r, ok := settings.ClockWindow(day, p.start, p.end, loc); ok {
			out = append(out, r)
		}
	}
	return out
}

// clip intersects every row with every base window.
func clip(rows, base []interval.Range) []interval.Range {
	var out []interval.Range
	for _, r := range rows {
		for _, b := range base {
			if x, ok := interval.Intersect(r, b); ok {
				out = append(out, x)
			}
		}
	}
	return out
}
