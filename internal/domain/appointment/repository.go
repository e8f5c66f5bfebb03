package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/domain/interval"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// Repository is everything the engine reads from and writes to storage.
// Lookups of a missing or foreign-tenant row return ErrNotFound.
type Repository interface {
	// -------- Tenant / Staff / Service --------
	GetTenant(
		ctx context.Context,
		tenantID uuid.UUID,
	) (*models.Tenant, error)

	GetStaff(
		ctx context.Context,
		tenantID uuid.UUID,
		staffID uuid.UUID,
	) (*models.Staff, error)

	// ListActiveStaff returns the tenant's active staff; a non-empty ids
	// restricts the result to that set.
	ListActiveStaff(
		ctx context.Context,
		tenantID uuid.UUID,
		ids []uuid.UUID,
	) ([]models.Staff, error)

	// UpdateStaffOverride replaces the staff settings override document;
	// "" clears it.
	UpdateStaffOverride(
		ctx context.Context,
		tenantID uuid.UUID,
		staffID uuid.UUID,
		doc string,
	) error

	GetService(
		ctx context.Context,
		tenantID uuid.UUID,
		serviceID uuid.UUID,
	) (*models.Service, error)

	// -------- Hours --------
	ListBusinessHours(
		ctx context.Context,
		tenantID uuid.UUID,
		weekday int,
	) ([]models.BusinessHours, error)

	ListStaffAvailability(
		ctx context.Context,
		tenantID uuid.UUID,
		staffID uuid.UUID,
		weekday int,
	) ([]models.StaffAvailability, error)

	// -------- Appointment --------

	// ListBusyAppointments returns non-canceled appointments of the staff
	// overlapping r, ordered by start. excludeID, when set, is left out.
	ListBusyAppointments(
		ctx context.Context,
		tenantID uuid.UUID,
		staffID uuid.UUID,
		r interval.Range,
		excludeID *uuid.UUID,
	) ([]models.Appointment, error)

	GetAppointment(
		ctx context.Context,
		tenantID uuid.UUID,
		appointmentID uuid.UUID,
	) (*models.Appointment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Hold --------

	// ListLiveHolds returns holds of the staff overlapping r whose expiry is
	// after now.
	ListLiveHolds(
		ctx context.Context,
		tenantID uuid.UUID,
		staffID uuid.UUID,
		r interval.Range,
		now time.Time,
	) ([]models.AppointmentHold, error)

	// GetLiveHold returns ErrHoldInvalidOrExpired for an unknown token or
	// an expired hold.
	GetLiveHold(
		ctx context.Context,
		tenantID uuid.UUID,
		token string,
		now time.Time,
	) (*models.AppointmentHold, error)

	CreateHold(
		ctx context.Context,
		h *models.AppointmentHold,
	) error

	// DeleteHold removes the hold with the given token and reports whether
	// a row was removed.
	DeleteHold(
		ctx context.Context,
		tenantID uuid.UUID,
		token string,
	) (bool, error)

	DeleteExpiredHolds(
		ctx context.Context,
		now time.Time,
	) (int64, error)

	// -------- Tx --------

	// Transaction runs fn against a repository bound to one storage
	// transaction. An error from fn rolls everything back.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error
}

// Locker serializes check-then-act sequences per (tenant, staff). Lock waits
// at most until ctx is done or the implementation's own wait bound elapses,
// then fails with ErrStaffBusy.
type Locker interface {
	Lock(ctx context.Context, tenantID, staffID uuid.UUID) (release func(), err error)
}
