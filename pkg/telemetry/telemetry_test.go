package telemetry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"emaktab-snapshot/pkg/telemetry"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := telemetry.Init(context.Background(), telemetry.Config{Enabled: false, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_WritesTraces(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	shutdown, err := telemetry.Init(ctx, telemetry.Config{Enabled: true, Dir: dir, ServiceName: "test-svc"})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(ctx, "unit")
	span.End()

	counter, err := otel.Meter("test").Int64Counter("unit_total")
	require.NoError(t, err)
	counter.Add(ctx, 1)

	require.NoError(t, shutdown(ctx))

	traces, err := os.ReadFile(filepath.Join(dir, "test-svc_traces.log"))
	require.NoError(t, err)
	assert.Contains(t, string(traces), `"Name":"unit"`)

	metrics, err := os.ReadFile(filepath.Join(dir, "test-svc_metrics.log"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "unit_total")
}
