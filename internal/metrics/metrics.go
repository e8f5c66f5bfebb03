package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the availability and
// booking flows.
type BookingMetrics struct {
	holdsTotal       *prometheus.CounterVec
	bookingsTotal    *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	searchLatency    prometheus.Histogram
	sweptHolds       prometheus.Counter
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		holdsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "holds_total",
			Help:      "Hold attempts by result",
		}, []string{"result"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "bookings_total",
			Help:      "Booking confirmations by result",
		}, []string{"result"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "transitions_total",
			Help:      "Appointment state transitions by action",
		}, []string{"action"}),
		searchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "booking",
			Name:      "slots_search_seconds",
			Help:      "Latency of slot searches",
			Buckets:   prometheus.DefBuckets,
		}),
		sweptHolds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "expired_holds_swept_total",
			Help:      "Expired holds removed by the sweeper",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.holdsTotal, m.bookingsTotal, m.transitionsTotal, m.searchLatency, m.sweptHolds)
	return m
}

func (m *BookingMetrics) ObserveHold(result string) {
	if m == nil {
		return
	}
	m.holdsTotal.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) ObserveTransition(action string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(action).Inc()
}

func (m *BookingMetrics) ObserveSearch(seconds float64) {
	if m == nil {
		return
	}
	m.searchLatency.Observe(seconds)
}

func (m *BookingMetrics) ObserveSwept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.sweptHolds.Add(float64(n))
}
