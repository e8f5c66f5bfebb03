package appointment

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/interval"
	"github.com/BruksfildServices01/booking-engine/internal/domain/settings"
	"github.com/BruksfildServices01/booking-engine/internal/dto"
)

// KindHold marks calendar entries that come from live holds.
const KindHold = "hold"

type ListAppointmentsByDate struct {
	repo domain.Repository
	now  func() time.Time
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
		now:  time.Now,
	}
}

func (uc *ListAppointmentsByDate) WithClock(now func() time.Time) *ListAppointmentsByDate {
	uc.now = now
	return uc
}

// Execute lists the non-canceled appointments and live holds of a staff
// member on one local calendar day, ordered by start.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	staffID uuid.UUID,
	date time.Time,
) ([]dto.CalendarEntryDTO, error) {

	tenant, err := uc.repo.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	staff, err := uc.repo.GetStaff(ctx, tenantID, staffID)
	if err != nil {
		return nil, err
	}

	loc := settings.ResolveFor(tenant.Settings, staff).Location()

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	day := interval.New(start, start.AddDate(0, 0, 1))

	appointments, err := uc.repo.ListBusyAppointments(ctx, tenantID, staffID, day, nil)
	if err != nil {
		return nil, err
	}

	holds, err := uc.repo.ListLiveHolds(ctx, tenantID, staffID, day, uc.now().UTC())
	if err != nil {
		return nil, err
	}

	out := make([]dto.CalendarEntryDTO, 0, len(appointments)+len(holds))
	for _, ap := range appointments {
		out = append(out, dto.CalendarEntryDTO{
			ID:         ap.ID,
			Kind:       ap.Kind,
			Status:     ap.Status,
			StartUtc:   ap.StartUtc,
			EndUtc:     ap.EndUtc,
			ServiceID:  ap.ServiceID,
			ClientName: ap.ClientName,
		})
	}
	for _, h := range holds {
		expires := h.ExpiresUtc
		out = append(out, dto.CalendarEntryDTO{
			ID:         h.ID,
			Kind:       KindHold,
			StartUtc:   h.StartUtc,
			EndUtc:     h.EndUtc,
			ServiceID:  h.ServiceID,
			ExpiresUtc: &expires,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartUtc.Before(out[j].StartUtc)
	})

	return out, nil
}
