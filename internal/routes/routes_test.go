package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/config"
	"github.com/BruksfildServices01/booking-engine/internal/infra/lock"
	"github.com/BruksfildServices01/booking-engine/internal/infra/repository"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

const secret = "test-secret"

type server struct {
	t       *testing.T
	router  *gin.Engine
	token   string
	tenant  models.Tenant
	staff   models.Staff
	service models.Service
	day     time.Time
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepository()
	tenant := repo.AddTenant(models.Tenant{
		Name:   "Studio",
		Slug:   "studio",
		Active: true,
		Settings: models.TenantSettings{
			SlotGranularityMinutes:    30,
			CancellationWindowHours:   24,
			Timezone:                  "UTC",
			BusinessDays:              "0,1,2,3,4,5,6",
			OpenTime:                  "09:00",
			CloseTime:                 "17:00",
			DefaultAppointmentMinutes: 30,
		},
	})
	staff := repo.AddStaff(models.Staff{TenantID: tenant.ID, DisplayName: "Ana", Active: true})
	service := repo.AddService(models.Service{TenantID: tenant.ID, Name: "Cut", DurationMin: 30, Capacity: 1})

	dispatcher := audit.NewDispatcher(audit.NewLogSink(nil), nil)
	t.Cleanup(dispatcher.Close)

	reg := prometheus.NewRegistry()
	cfg := &config.Config{JWTSecret: secret, HoldTTL: 5 * time.Minute}

	r := gin.New()
	RegisterRoutes(r, Infra{
		Config:   cfg,
		Repo:     repo,
		Locker:   lock.NewLocalLocker(time.Second),
		Audit:    dispatcher,
		Metrics:  metrics.NewBookingMetrics(reg),
		Gatherer: reg,
	})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      uuid.NewString(),
		"tenantId": tenant.ID.String(),
		"role":     "admin",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	return &server{
		t:       t,
		router:  r,
		token:   token,
		tenant:  tenant,
		staff:   staff,
		service: service,
		day:     time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 7),
	}
}

func (s *server) at(hour, minute int) time.Time {
	return s.day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func (s *server) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, "/api/"+s.tenant.ID.String()+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type holdBody struct {
	Token string `json:"token"`
}

type appointmentBody struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type errorBody struct {
	Error   string `json:"error_code"`
	Message string `json:"message"`
}

func (s *server) hold(h, m int) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, "/holds", gin.H{
		"service_id": s.service.ID,
		"staff_id":   s.staff.ID,
		"start_utc":  s.at(h, m),
		"end_utc":    s.at(h, m+30),
	})
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	s.hold(10, 0)

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "booking_holds_total")
}

func TestAPIRequiresMatchingTenant(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/"+uuid.NewString()+"/me", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/"+s.tenant.ID.String()+"/me", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"studio"`)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestSearchSlots(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/availability/slots/search", gin.H{
		"service_id": s.service.ID,
		"from_utc":   s.day,
		"to_utc":     s.at(23, 0),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode[struct {
		Total int `json:"total"`
	}](t, w)
	assert.Equal(t, 16, body.Total)

	w = s.do(http.MethodPost, "/availability/slots/search", gin.H{
		"service_id": s.service.ID,
		"from_utc":   s.day.Add(24 * time.Hour),
		"to_utc":     s.day,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_range", decode[errorBody](t, w).Error)

	w = s.do(http.MethodPost, "/availability/slots/search", gin.H{"from_utc": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode[errorBody](t, w).Error)
}

func TestDayAvailability(t *testing.T) {
	s := newServer(t)

	path := "/staff/" + s.staff.ID.String() + "/day-availability?date=" + s.day.Format("2006-01-02")
	w := s.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"online":true`)

	w = s.do(http.MethodGet, "/staff/"+s.staff.ID.String()+"/day-availability?date=03/02/2026", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/staff/not-a-uuid/day-availability?date=2026-03-02", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHoldBookFlow(t *testing.T) {
	s := newServer(t)

	w := s.hold(10, 0)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := decode[holdBody](t, w).Token
	require.Len(t, token, 32)

	w = s.hold(10, 0)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_unavailable", decode[errorBody](t, w).Error)

	w = s.do(http.MethodPost, "/bookings", gin.H{"hold_token": token, "client_name": "Bia"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ap := decode[appointmentBody](t, w)
	assert.Equal(t, "confirmed", ap.Status)

	w = s.do(http.MethodPost, "/bookings", gin.H{"hold_token": token})
	assert.Equal(t, http.StatusGone, w.Code)
	assert.Equal(t, "hold_invalid_or_expired", decode[errorBody](t, w).Error)

	w = s.do(http.MethodPatch, "/appointments/"+ap.ID.String()+"/cancel", gin.H{"reason": "sick"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"fee_may_apply":false`)

	w = s.do(http.MethodPatch, "/appointments/"+ap.ID.String()+"/no-show", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestReleaseHold(t *testing.T) {
	s := newServer(t)

	token := decode[holdBody](t, s.hold(11, 0)).Token

	w := s.do(http.MethodDelete, "/holds/"+token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodDelete, "/holds/"+token, nil)
	assert.Equal(t, http.StatusGone, w.Code)

	assert.Equal(t, http.StatusCreated, s.hold(11, 0).Code)
}

func TestAppointmentsEndpoints(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/appointments", gin.H{
		"staff_id":   s.staff.ID,
		"service_id": s.service.ID,
		"start_utc":  s.at(13, 0),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ap := decode[appointmentBody](t, w)

	w = s.do(http.MethodPost, "/appointments", gin.H{
		"staff_id":  s.staff.ID,
		"start_utc": s.at(13, 0),
		"kind":      "block",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPatch, "/appointments/"+ap.ID.String()+"/reschedule", gin.H{
		"start_utc": s.at(14, 0),
		"end_utc":   s.at(14, 30),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "rescheduled", decode[appointmentBody](t, w).Status)

	w = s.do(http.MethodGet, "/staff/"+s.staff.ID.String()+"/appointments?date="+s.day.Format("2006-01-02"), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"total":1`)
	assert.Contains(t, w.Body.String(), `"status":"rescheduled"`)

	w = s.do(http.MethodPatch, "/appointments/"+uuid.NewString()+"/no-show", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPatch, "/appointments/bad/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaffSettingsEndpoints(t *testing.T) {
	s := newServer(t)
	path := "/staff/" + s.staff.ID.String() + "/settings"

	w := s.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"open_time":"09:00"`)

	w = s.do(http.MethodPut, path, gin.H{
		"openTime":     "13:00",
		"businessDays": []string{"sun", "Monday", "ter", "4", "thu", "fri", "sat"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"open_time":"13:00"`)
	assert.Contains(t, w.Body.String(), `"business_days":[0,1,2,3,4,5,6]`)

	// 13:00-17:00 in 30 minute steps
	w = s.do(http.MethodPost, "/availability/slots/search", gin.H{
		"service_id": s.service.ID,
		"from_utc":   s.day,
		"to_utc":     s.at(23, 0),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 8, decode[struct {
		Total int `json:"total"`
	}](t, w).Total)

	w = s.do(http.MethodPut, path, gin.H{"timezone": "Nowhere/Land"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_settings", decode[errorBody](t, w).Error)

	w = s.do(http.MethodPut, path, gin.H{"reset": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"open_time":"09:00"`)

	w = s.do(http.MethodPut, "/staff/"+uuid.NewString()+"/settings", gin.H{"openTime": "08:00"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
