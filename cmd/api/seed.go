package main

import (
	"go.uber.org/zap"

	infraRepo "github.com/BruksfildServices01/booking-engine/internal/infra/repository"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// seedDemo gives STORAGE=memory something to book against.
func seedDemo(repo *infraRepo.MemoryRepository, logger *zap.Logger) {
	tenant := repo.AddTenant(models.Tenant{
		Name:   "Demo",
		Slug:   "demo",
		Active: true,
		Settings: models.TenantSettings{
			SlotGranularityMinutes:    15,
			CancellationWindowHours:   24,
			Timezone:                  "UTC",
			BusinessDays:              "1,2,3,4,5",
			OpenTime:                  "09:00",
			CloseTime:                 "18:00",
			DefaultAppointmentMinutes: 30,
		},
	})

	staff := repo.AddStaff(models.Staff{
		TenantID:    tenant.ID,
		DisplayName: "Demo Staff",
		Active:      true,
	})

	service := repo.AddService(models.Service{
		TenantID:    tenant.ID,
		Name:        "Consultation",
		DurationMin: 30,
		Capacity:    1,
	})

	logger.Info("memory storage seeded",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("staff_id", staff.ID.String()),
		zap.String("service_id", service.ID.String()),
	)
}
