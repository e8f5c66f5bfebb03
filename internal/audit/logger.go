package audit

import (
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/logging"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// Logger writes audit events to the audit_logs table.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Write(ev Event) error {
	log := models.AuditLog{
		TenantID: ev.TenantID,
		UserID:   ev.UserID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: encodeMetadata(ev.Metadata),
	}

	return l.db.Create(&log).Error
}

// LogSink writes audit events to the application log; used when no
// database is configured.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logging.OrNop(logger)}
}

func (s *LogSink) Write(ev Event) error {
	fields := []zap.Field{
		zap.String("action", ev.Action),
		zap.String("tenant_id", ev.TenantID.String()),
		zap.String("entity", ev.Entity),
	}
	if ev.EntityID != nil {
		fields = append(fields, zap.String("entity_id", ev.EntityID.String()))
	}
	if ev.UserID != nil {
		fields = append(fields, zap.String("user_id", ev.UserID.String()))
	}
	if meta := encodeMetadata(ev.Metadata); meta != "" {
		fields = append(fields, zap.String("metadata", meta))
	}

	s.logger.Info("audit", fields...)
	return nil
}

func encodeMetadata(metadata any) string {
	if metadata == nil {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}
