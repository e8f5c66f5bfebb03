package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/config"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/handlers"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/booking-engine/internal/usecase/appointment"
	ucAvailability "github.com/BruksfildServices01/booking-engine/internal/usecase/availability"
	ucBooking "github.com/BruksfildServices01/booking-engine/internal/usecase/booking"
	ucStaffSettings "github.com/BruksfildServices01/booking-engine/internal/usecase/staffsettings"
)

// Infra is everything the routes need that cmd/api builds once per process.
type Infra struct {
	Config  *config.Config
	Repo    domain.Repository
	Locker  domain.Locker
	Audit   *audit.Dispatcher
	Logger  *zap.Logger
	Metrics *metrics.BookingMetrics

	// Gatherer backs /metrics; nil uses the default registry.
	Gatherer prometheus.Gatherer

	// DB is nil in memory mode; audit log listing is then not exposed.
	DB *gorm.DB
}

func RegisterRoutes(r *gin.Engine, in Infra) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(in.Config.CORSOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	deps := ucBooking.Deps{
		Repo:    in.Repo,
		Locker:  in.Locker,
		Audit:   in.Audit,
		Logger:  in.Logger,
		Metrics: in.Metrics,
	}

	// ======================================================
	// 🧠 USE CASES: AVAILABILITY
	// ======================================================
	findSlotsUC := ucAvailability.NewFindSlots(in.Repo, in.Logger, in.Metrics)
	dayAvailabilityUC := ucAvailability.NewGetDayAvailability(in.Repo, in.Logger)

	// ======================================================
	// 🧠 USE CASES: BOOKING
	// ======================================================
	createHoldUC := ucBooking.NewCreateHold(deps, in.Config.HoldTTL)
	releaseHoldUC := ucBooking.NewReleaseHold(deps)
	bookUC := ucBooking.NewBook(deps)

	createAppointmentUC := ucBooking.NewCreateDirect(deps)
	rescheduleUC := ucBooking.NewReschedule(deps)
	cancelUC := ucBooking.NewCancel(deps)
	noShowUC := ucBooking.NewMarkNoShow(deps)

	// ======================================================
	// 🧠 USE CASES: CALENDAR
	// ======================================================
	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(in.Repo)

	// ======================================================
	// 🧠 USE CASES: STAFF SETTINGS
	// ======================================================
	getStaffSettingsUC := ucStaffSettings.NewGetEffectiveSettings(in.Repo)
	updateStaffSettingsUC := ucStaffSettings.NewUpdateStaffOverride(in.Repo, in.Locker, in.Audit, in.Logger)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	meHandler := handlers.NewMeHandler(in.Repo)
	staffSettingsHandler := handlers.NewStaffSettingsHandler(getStaffSettingsUC, updateStaffSettingsUC)
	availabilityHandler := handlers.NewAvailabilityHandler(findSlotsUC, dayAvailabilityUC)
	bookingHandler := handlers.NewBookingHandler(createHoldUC, releaseHoldUC, bookUC)
	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		rescheduleUC,
		cancelUC,
		noShowUC,
		listAppointmentsByDateUC,
	)

	// ======================================================
	// 🩺 OPERACIONAL
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if in.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(in.Gatherer, promhttp.HandlerOpts{})))
	} else {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// ======================================================
	// 🔐 API (JSON, por tenant)
	// ======================================================
	secured := r.Group("/api/:tenant")
	secured.Use(middleware.AuthMiddleware(in.Config), middleware.RequireTenant("tenant"))
	{
		secured.GET("/me", meHandler.GetMe)

		// ------------------------------
		// AVAILABILITY
		// ------------------------------
		secured.POST("/availability/slots/search", availabilityHandler.SearchSlots)
		secured.GET("/staff/:staffId/day-availability", availabilityHandler.DayAvailability)
		secured.GET("/staff/:staffId/appointments", appointmentHandler.ListByDate)

		// ------------------------------
		// STAFF SETTINGS
		// ------------------------------
		secured.GET("/staff/:staffId/settings", staffSettingsHandler.Get)
		secured.PUT("/staff/:staffId/settings", staffSettingsHandler.Update)

		// ------------------------------
		// HOLDS / BOOKINGS
		// ------------------------------
		secured.POST("/holds", bookingHandler.CreateHold)
		secured.DELETE("/holds/:token", bookingHandler.ReleaseHold)
		secured.POST("/bookings", bookingHandler.Book)

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		secured.POST("/appointments", appointmentHandler.Create)
		secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
		secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
		secured.PATCH("/appointments/:id/no-show", appointmentHandler.NoShow)

		if in.DB != nil {
			secured.GET("/audit-logs", handlers.NewAuditLogsHandler(in.DB).List)
		}
	}
}
