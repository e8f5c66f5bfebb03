package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/config"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// NewDB opens postgres, migrates the schema and installs the overlap
// constraint on appointments.
func NewDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("database ready")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.Staff{},
		&models.Service{},
		&models.BusinessHours{},
		&models.StaffAvailability{},
		&models.Appointment{},
		&models.AppointmentHold{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := db.Exec(`
        UPDATE tenants
        SET settings_timezone = 'America/Sao_Paulo'
        WHERE settings_timezone IS NULL OR settings_timezone = ''
    `).Error; err != nil {
		return fmt.Errorf("backfill timezone: %w", err)
	}

	for _, stmt := range overlapConstraint {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("overlap constraint: %w", err)
		}
	}
	return nil
}

// overlapConstraint rejects two non-canceled appointments of one staff
// member with overlapping [start, end) ranges (SQLSTATE 23P01).
var overlapConstraint = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
    ) THEN
        ALTER TABLE appointments
        ADD CONSTRAINT appointments_no_overlap
        EXCLUDE USING gist (
            tenant_id WITH =,
            staff_id WITH =,
            tstzrange(start_utc, end_utc, '[)') WITH &&
        ) WHERE (status <> 'canceled');
    END IF;
END
$$`,
}
