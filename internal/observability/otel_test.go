package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/abhisek/pathwise/internal/logger"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Options{}, logger.Nop())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_StdoutExporter(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown, err := Init(context.Background(), Options{
		Enabled:     true,
		ServiceName: "pathwise-test",
		SampleRatio: 1,
		Writer:      &buf,
	}, logger.Nop())
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "progress.SubmitQuiz")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), "progress.SubmitQuiz")
	assert.Contains(t, buf.String(), "pathwise-test")
}

func TestClampRatio(t *testing.T) {
	assert.Equal(t, 0.0, clampRatio(-1))
	assert.Equal(t, 0.5, clampRatio(0.5))
	assert.Equal(t, 1.0, clampRatio(3))
}
