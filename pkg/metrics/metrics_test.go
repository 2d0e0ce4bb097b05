package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	m := NewWithRegistry("test", prometheus.NewRegistry())

	m.ObserveAvailabilityDecision("overlap")
	m.ObserveAvailabilityDecision("overlap")
	m.ObserveStatusTransition("completed", "confirmed", false)
	m.ObserveDBQuery("SELECT", time.Millisecond, errors.New("boom"))
	m.ObserveTxRetry("serializable")
	m.ObserveHTTPRequest("GET", "/api/v1/bookings/{bookingId}", 200, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AvailabilityDecisions.WithLabelValues("overlap")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("completed", "confirmed", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("SELECT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TxRetriesTotal.WithLabelValues("serializable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/bookings/{bookingId}", "200")))
}

func TestNewWithRegistry_DuplicatePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWithRegistry("test", reg)

	assert.Panics(t, func() { NewWithRegistry("test", reg) })
}
