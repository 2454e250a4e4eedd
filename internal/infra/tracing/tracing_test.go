package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/fastprodman/redpacket/internal/config"
)

func TestSetup_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	for _, cfg := range []config.TracingConfig{
		{},
		{Enabled: true},
		{Endpoint: "http://localhost:4318"},
	} {
		shutdown, err := Setup(t.Context(), "test", cfg)
		require.NoError(t, err)
		require.NoError(t, shutdown(context.Background()))
	}
}

func TestEnd_RecordsError(t *testing.T) {
	t.Parallel()

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	tracer := tp.Tracer("test")

	_, ok := tracer.Start(t.Context(), "ok")
	End(ok, nil)

	_, failed := tracer.Start(t.Context(), "failed")
	End(failed, errors.New("boom"))

	spans := rec.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, codes.Unset, spans[0].Status().Code)
	require.Equal(t, codes.Error, spans[1].Status().Code)
	require.Equal(t, "boom", spans[1].Status().Description)
}
