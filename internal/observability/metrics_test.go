package observability_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/secureguard/phishsim-service/internal/observability"
)

func TestMetricsClickCounters(t *testing.T) {
	metrics := observability.NewMetrics()

	assert.Zero(t, metrics.ClickCount("FIRST_CLICK"))

	metrics.RecordClick("FIRST_CLICK")
	metrics.RecordClick("ALREADY_CLICKED")
	metrics.RecordClick("ALREADY_CLICKED")

	assert.Equal(t, int64(1), metrics.ClickCount("FIRST_CLICK"))
	assert.Equal(t, int64(2), metrics.ClickCount("ALREADY_CLICKED"))
	assert.Zero(t, metrics.ClickCount("TOKEN_NOT_FOUND"))
}

func TestMetricsNilReceiverSafe(t *testing.T) {
	var metrics *observability.Metrics

	metrics.RecordRequest("/api/campaigns", "GET", 200, time.Millisecond)
	metrics.RecordError("/api/campaigns", "GET", "INTERNAL_ERROR")
	metrics.RecordClick("FIRST_CLICK")

	assert.Zero(t, metrics.ClickCount("FIRST_CLICK"))
}
