package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/interval"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB

	// set on transaction-bound copies; conflict reads lock the rows they see
	forUpdate bool
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) locking(q *gorm.DB) *gorm.DB {
	if r.forUpdate {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func lookupErr(what string, err error, missing error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return missing
	}
	return fmt.Errorf("get %s: %w", what, err)
}

// --------------------------------------------------
// Tenant / Staff / Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetTenant(
	ctx context.Context,
	tenantID uuid.UUID,
) (*models.Tenant, error) {

	var t models.Tenant
	if err := r.db.WithContext(ctx).
		Where("id = ?", tenantID).
		First(&t).Error; err != nil {
		return nil, lookupErr("tenant", err, domain.ErrNotFound)
	}
	return &t, nil
}

func (r *AppointmentGormRepository) GetStaff(
	ctx context.Context,
	tenantID uuid.UUID,
	staffID uuid.UUID,
) (*models.Staff, error) {

	var s models.Staff
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", staffID, tenantID).
		First(&s).Error; err != nil {
		return nil, lookupErr("staff", err, domain.ErrNotFound)
	}
	return &s, nil
}

func (r *AppointmentGormRepository) UpdateStaffOverride(
	ctx context.Context,
	tenantID uuid.UUID,
	staffID uuid.UUID,
	doc string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Staff{}).
		Where("id = ? AND tenant_id = ?", staffID, tenantID).
		Update("settings_override", doc)
	if res.Error != nil {
		return fmt.Errorf("update staff override: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AppointmentGormRepository) ListActiveStaff(
	ctx context.Context,
	tenantID uuid.UUID,
	ids []uuid.UUID,
) ([]models.Staff, error) {

	q := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}

	var staff []models.Staff
	if err := q.Order("display_name ASC, id ASC").Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	tenantID uuid.UUID,
	serviceID uuid.UUID,
) (*models.Service, error) {

	var s models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", serviceID, tenantID).
		First(&s).Error; err != nil {
		return nil, lookupErr("service", err, domain.ErrNotFound)
	}
	return &s, nil
}

// --------------------------------------------------
// Hours
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBusinessHours(
	ctx context.Context,
	tenantID uuid.UUID,
	weekday int,
) ([]models.BusinessHours, error) {

	var rows []models.BusinessHours
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND weekday = ?", tenantID, weekday).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentGormRepository) ListStaffAvailability(
	ctx context.Context,
	tenantID uuid.UUID,
	staffID uuid.UUID,
	weekday int,
) ([]models.StaffAvailability, error) {

	var rows []models.StaffAvailability
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND staff_id = ? AND weekday = ?", tenantID, staffID, weekday).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBusyAppointments(
	ctx context.Context,
	tenantID uuid.UUID,
	staffID uuid.UUID,
	rng interval.Range,
	excludeID *uuid.UUID,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND staff_id = ? AND status <> ? AND start_utc < ? AND end_utc > ?",
			tenantID,
			staffID,
			string(domain.StatusCanceled),
			rng.End,
			rng.Start,
		)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var apps []models.Appointment
	if err := r.locking(q).
		Order("start_utc ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	tenantID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.locking(r.db.WithContext(ctx)).
		Where("id = ? AND tenant_id = ?", appointmentID, tenantID).
		First(&ap).Error; err != nil {
		return nil, lookupErr("appointment", err, domain.ErrNotFound)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Hold
// --------------------------------------------------

func (r *AppointmentGormRepository) ListLiveHolds(
	ctx context.Context,
	tenantID uuid.UUID,
	staffID uuid.UUID,
	rng interval.Range,
	now time.Time,
) ([]models.AppointmentHold, error) {

	var holds []models.AppointmentHold
	if err := r.locking(r.db.WithContext(ctx)).
		Where(
			"tenant_id = ? AND staff_id = ? AND expires_utc > ? AND start_utc < ? AND end_utc > ?",
			tenantID,
			staffID,
			now,
			rng.End,
			rng.Start,
		).
		Order("start_utc ASC").
		Find(&holds).Error; err != nil {
		return nil, err
	}
	return holds, nil
}

func (r *AppointmentGormRepository) GetLiveHold(
	ctx context.Context,
	tenantID uuid.UUID,
	token string,
	now time.Time,
) (*models.AppointmentHold, error) {

	var h models.AppointmentHold
	if err := r.locking(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND token = ? AND expires_utc > ?", tenantID, token, now).
		First(&h).Error; err != nil {
		return nil, lookupErr("hold", err, domain.ErrHoldInvalidOrExpired)
	}
	return &h, nil
}

func (r *AppointmentGormRepository) CreateHold(
	ctx context.Context,
	h *models.AppointmentHold,
) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *AppointmentGormRepository) DeleteHold(
	ctx context.Context,
	tenantID uuid.UUID,
	token string,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND token = ?", tenantID, token).
		Delete(&models.AppointmentHold{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *AppointmentGormRepository) DeleteExpiredHolds(
	ctx context.Context,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Where("expires_utc <= ?", now).
		Delete(&models.AppointmentHold{})
	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Tx
// --------------------------------------------------

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	if r.forUpdate {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx, forUpdate: true})
	})
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
