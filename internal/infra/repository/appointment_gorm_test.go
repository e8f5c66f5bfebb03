package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/interval"
)

func newMockRepo(t *testing.T) (*AppointmentGormRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewAppointmentGormRepository(db), mock
}

func TestGormGetTenantNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetTenant(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormGetStaffWrapsDriverErrors(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "staff" WHERE id = \$1 AND tenant_id = \$2`).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetStaff(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "get staff")
}

func TestGormListBusyAppointmentsSkipsCanceled(t *testing.T) {
	repo, mock := newMockRepo(t)
	tenant, staff, self := uuid.New(), uuid.New(), uuid.New()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	rng := interval.New(start, start.Add(time.Hour))

	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE .*status <> \$3.*id <> \$6 ORDER BY start_utc ASC`).
		WithArgs(tenant, staff, "canceled", rng.End, rng.Start, self).
		WillReturnRows(sqlmock.NewRows([]string{"id", "start_utc", "end_utc", "status"}).
			AddRow(uuid.New(), start, start.Add(30*time.Minute), "confirmed"))

	apps, err := repo.ListBusyAppointments(context.Background(), tenant, staff, rng, &self)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormGetLiveHoldExpired(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "appointment_holds" WHERE tenant_id = \$1 AND token = \$2 AND expires_utc > \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetLiveHold(context.Background(), uuid.New(), "abc", time.Now())
	assert.ErrorIs(t, err, domain.ErrHoldInvalidOrExpired)
}

func TestGormDeleteHoldReportsRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	tenant := uuid.New()

	mock.ExpectExec(`DELETE FROM "appointment_holds" WHERE tenant_id = \$1 AND token = \$2`).
		WithArgs(tenant, "tok").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "appointment_holds" WHERE tenant_id = \$1 AND token = \$2`).
		WithArgs(tenant, "tok").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.DeleteHold(context.Background(), tenant, "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteHold(context.Background(), tenant, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdateStaffOverride(t *testing.T) {
	repo, mock := newMockRepo(t)
	tenant, staff := uuid.New(), uuid.New()
	doc := `{"openTime":"13:00"}`

	mock.ExpectExec(`UPDATE "staff" SET "settings_override"=\$1,"updated_at"=\$2 WHERE id = \$3 AND tenant_id = \$4`).
		WithArgs(doc, sqlmock.AnyArg(), staff, tenant).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "staff" SET "settings_override"=\$1,"updated_at"=\$2 WHERE id = \$3 AND tenant_id = \$4`).
		WithArgs("", sqlmock.AnyArg(), staff, tenant).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateStaffOverride(context.Background(), tenant, staff, doc))

	err := repo.UpdateStaffOverride(context.Background(), tenant, staff, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDeleteExpiredHolds(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM "appointment_holds" WHERE expires_utc <= \$1`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpiredHolds(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestGormTransactionLocksAndRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "appointment_holds" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.Transaction(context.Background(), func(tx domain.Repository) error {
		_, err := tx.ListLiveHolds(context.Background(), uuid.New(), uuid.New(),
			interval.New(time.Now(), time.Now().Add(time.Hour)), time.Now())
		require.NoError(t, err)
		return domain.ErrSlotUnavailable
	})
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionCommits(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "appointment_holds"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Transaction(context.Background(), func(tx domain.Repository) error {
		// nested calls reuse the same transaction
		return tx.Transaction(context.Background(), func(inner domain.Repository) error {
			_, err := inner.DeleteHold(context.Background(), uuid.New(), "tok")
			return err
		})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
