package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/infra/repository"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

var now = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func TestListAppointmentsByDate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()

	tenant := repo.AddTenant(models.Tenant{
		Name:     "Studio",
		Settings: models.TenantSettings{Timezone: "UTC"},
	})
	staff := repo.AddStaff(models.Staff{TenantID: tenant.ID, DisplayName: "Ana", Active: true})

	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
	}

	appointments := []models.Appointment{
		{StartUtc: at(14, 0), EndUtc: at(15, 0), Status: string(domain.StatusConfirmed), Kind: "appt", ClientName: "Bia"},
		{StartUtc: at(9, 0), EndUtc: at(10, 0), Status: string(domain.StatusConfirmed), Kind: "block"},
		{StartUtc: at(11, 0), EndUtc: at(12, 0), Status: string(domain.StatusCanceled), Kind: "appt"},
		// next day
		{StartUtc: at(9, 0).AddDate(0, 0, 1), EndUtc: at(10, 0).AddDate(0, 0, 1), Status: string(domain.StatusConfirmed), Kind: "appt"},
	}
	for i := range appointments {
		appointments[i].TenantID = tenant.ID
		appointments[i].StaffID = staff.ID
		require.NoError(t, repo.CreateAppointment(ctx, &appointments[i]))
	}

	require.NoError(t, repo.CreateHold(ctx, &models.AppointmentHold{
		TenantID: tenant.ID, StaffID: staff.ID, Token: "live",
		StartUtc: at(12, 0), EndUtc: at(12, 30), ExpiresUtc: now.Add(5 * time.Minute),
	}))
	require.NoError(t, repo.CreateHold(ctx, &models.AppointmentHold{
		TenantID: tenant.ID, StaffID: staff.ID, Token: "stale",
		StartUtc: at(13, 0), EndUtc: at(13, 30), ExpiresUtc: now.Add(-time.Minute),
	}))

	uc := NewListAppointmentsByDate(repo).WithClock(func() time.Time { return now })

	out, err := uc.Execute(ctx, tenant.ID, staff.ID, at(0, 0))
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "block", out[0].Kind)
	assert.Equal(t, KindHold, out[1].Kind)
	assert.NotNil(t, out[1].ExpiresUtc)
	assert.Equal(t, "Bia", out[2].ClientName)

	_, err = uc.Execute(ctx, tenant.ID, uuid.New(), at(0, 0))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
