package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookingMetricsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveHold("created")
	m.ObserveHold("created")
	m.ObserveHold("slot_unavailable")
	m.ObserveBooking("confirmed")
	m.ObserveTransition("cancel")
	m.ObserveSearch(0.02)
	m.ObserveSwept(3)
	m.ObserveSwept(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.holdsTotal.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.holdsTotal.WithLabelValues("slot_unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingsTotal.WithLabelValues("confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitionsTotal.WithLabelValues("cancel")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sweptHolds))
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveHold("created")
	m.ObserveBooking("confirmed")
	m.ObserveTransition("cancel")
	m.ObserveSearch(0.1)
	m.ObserveSwept(1)
}
