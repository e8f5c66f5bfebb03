package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 200
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// ======================================================
// FILTER
// ======================================================

type auditFilter struct {
	Action   string
	Entity   string
	EntityID *uuid.UUID
	UserID   *uuid.UUID
	From     *time.Time
	To       *time.Time // exclusive, day after the requested date

	Page  int
	Limit int
}

func parseAuditFilter(c *gin.Context) (auditFilter, string, bool) {
	f := auditFilter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Page:   1,
		Limit:  auditDefaultLimit,
	}

	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		f.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= auditMaxLimit {
		f.Limit = v
	}

	for key, dst := range map[string]**uuid.UUID{"entity_id": &f.EntityID, "user_id": &f.UserID} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, "invalid_" + key, false
		}
		*dst = &id
	}

	if raw := c.Query("from"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			return f, "invalid_from", false
		}
		f.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			return f, "invalid_to", false
		}
		to = to.AddDate(0, 0, 1)
		f.To = &to
	}

	return f, "", true
}

func (f auditFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.EntityID != nil {
		q = q.Where("entity_id = ?", *f.EntityID)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	return q
}

// ======================================================
// LIST
// ======================================================

func (h *AuditLogsHandler) List(c *gin.Context) {
	f, code, ok := parseAuditFilter(c)
	if !ok {
		httperr.BadRequest(c, code, "Invalid audit log filter.")
		return
	}

	// sempre protegido por tenant
	q := f.apply(h.db.
		WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("tenant_id = ?", tenantParam(c)))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Failed to count audit logs.")
		return
	}

	logs := []models.AuditLog{}
	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Failed to list audit logs.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  f.Page,
		"limit": f.Limit,
		"total": total,
		"logs":  logs,
	})
}
