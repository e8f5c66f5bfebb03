package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
)

const dateLayout = "2006-01-02"

// tenantParam is already checked against the token by RequireTenant.
func tenantParam(c *gin.Context) uuid.UUID {
	return middleware.TenantID(c)
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return uuid.Nil, false
	}
	return id, true
}

// parseDate reads a calendar date; only year/month/day are used downstream.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
