package metrics

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessMetrics_Record(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider("cardvault")
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	business, err := NewBusinessMetrics(provider.MeterProvider(), "cardvault")
	require.NoError(t, err)

	business.RecordOperation(ctx, "cards", "card_insert", "success")
	business.RecordOperation(ctx, "cards", "card_insert", "error")
	business.RecordDuration(ctx, "cards", "card_insert", 25*time.Millisecond, "success")

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/metrics", nil)
	provider.Handler().ServeHTTP(recorder, request)

	body := recorder.Body.String()
	assert.Contains(t, body, "cardvault_operations_total")
	assert.Contains(t, body, "cardvault_operation_duration_seconds")
	assert.Contains(t, body, `operation="card_insert"`)
}

func TestNoOpBusinessMetrics(t *testing.T) {
	ctx := context.Background()
	business := NewNoOpBusinessMetrics()

	// Must not panic or record anything.
	business.RecordOperation(ctx, "cards", "card_insert", "success")
	business.RecordDuration(ctx, "cards", "card_insert", time.Second, "success")
}
