package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func getTestMetrics() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}

// Helper function to get counter value
func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("Failed to write counter metric: %v", err)
	}
	return metric.Counter.GetValue()
}

// Helper function to get gauge value
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := gauge.Write(metric); err != nil {
		t.Fatalf("Failed to write gauge metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestRecordBroadcast(t *testing.T) {
	m := getTestMetrics()

	m.RecordBroadcast(3)
	m.RecordBroadcast(0)

	assert.Equal(t, float64(2), getCounterValue(t, m.BroadcastsTotal))
	assert.Equal(t, float64(3), getCounterValue(t, m.BroadcastDeliveriesTotal))
}

func TestBusinessCounters(t *testing.T) {
	m := getTestMetrics()

	m.IncrementRoomCreated()
	m.IncrementTokenIssued()
	m.IncrementTokenIssued()
	m.RecordOrphaned("room")
	m.SetWSConnections(4)

	assert.Equal(t, float64(1), getCounterValue(t, m.RoomCreatedTotal))
	assert.Equal(t, float64(2), getCounterValue(t, m.TokenIssuedTotal))
	assert.Equal(t, float64(1), getCounterValue(t, m.OrphanedProviderTotal.WithLabelValues("room")))
	assert.Equal(t, float64(4), getGaugeValue(t, m.WSConnectionsActive))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementRoomCreated()
		m.RecordBroadcast(1)
		m.RecordExternalAPICall("/rooms", "POST", 200, time.Millisecond, nil)
	})
}

func TestRecordExternalAPICall(t *testing.T) {
	m := getTestMetrics()

	m.RecordExternalAPICall("/rooms", "POST", 201, 10*time.Millisecond, nil)
	m.RecordExternalAPICall("/rooms", "POST", 503, 10*time.Millisecond, nil)
	m.RecordExternalAPICall("/rooms", "POST", 0, 10*time.Millisecond, errors.New("dial tcp: connection refused"))

	assert.Equal(t, float64(1), getCounterValue(t, m.ExternalAPIRequestsTotal.WithLabelValues("/rooms", "POST", "201")))
	assert.Equal(t, float64(1), getCounterValue(t, m.ExternalAPIErrors.WithLabelValues("/rooms", "service_unavailable")))
	assert.Equal(t, float64(1), getCounterValue(t, m.ExternalAPIErrors.WithLabelValues("/rooms", "connection_refused")))
}

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		err        error
		want       string
	}{
		{"unauthorized", 401, nil, "unauthorized"},
		{"rate limited", 429, nil, "too_many_requests"},
		{"other 4xx", 422, nil, "client_error"},
		{"other 5xx", 500, nil, "server_error"},
		{"timeout", 0, errors.New("context deadline exceeded"), "timeout"},
		{"dns", 0, errors.New("dial tcp: lookup api: no such host"), "dns_error"},
		{"generic", 0, errors.New("boom"), "network_error"},
		{"none", 200, nil, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getErrorType(tt.statusCode, tt.err))
		})
	}
}

type stubCounter struct {
	rooms        int64
	participants int64
	err          error
}

func (s *stubCounter) CountRooms(ctx context.Context) (int64, error) {
	return s.rooms, s.err
}

func (s *stubCounter) CountParticipants(ctx context.Context) (int64, error) {
	return s.participants, s.err
}

func TestBusinessMetricsCollector_Collect(t *testing.T) {
	m := getTestMetrics()
	c, err := NewBusinessMetricsCollector(&stubCounter{rooms: 5, participants: 12}, m, "@every 1h", zap.NewNop())
	require.NoError(t, err)

	c.Collect()

	assert.Equal(t, float64(5), getGaugeValue(t, m.RoomsTotal))
	assert.Equal(t, float64(12), getGaugeValue(t, m.ParticipantsTotal))
}

func TestBusinessMetricsCollector_CollectError(t *testing.T) {
	m := getTestMetrics()
	m.SetRoomsTotal(7)
	c, err := NewBusinessMetricsCollector(&stubCounter{err: errors.New("db down")}, m, "@every 1h", zap.NewNop())
	require.NoError(t, err)

	c.Collect()

	// gauges keep their last known value
	assert.Equal(t, float64(7), getGaugeValue(t, m.RoomsTotal))
}

func TestBusinessMetricsCollector_InvalidSchedule(t *testing.T) {
	_, err := NewBusinessMetricsCollector(&stubCounter{}, getTestMetrics(), "not a schedule", zap.NewNop())
	assert.Error(t, err)
}
