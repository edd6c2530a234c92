package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/pathwise/internal/logger"
)

func sampleEvent() Event {
	return Event{
		Type:        TypePathResequenced,
		UserID:      "u1",
		CourseID:    "reliability",
		PathID:      "p1",
		NextAssetID: "asset-reliability-errors-beginner-doc",
		Reason:      "struggling",
		Outcome:     "struggling",
		ETAMinutes:  42,
		At:          time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestMemory(t *testing.T) {
	var m Memory
	require.NoError(t, m.Publish(context.Background(), sampleEvent()))
	require.NoError(t, m.Publish(context.Background(), Event{Type: "other"}))

	got := m.Events()
	require.Len(t, got, 2)
	assert.Equal(t, "u1", got[0].UserID)
	assert.Equal(t, "other", got[1].Type)
	assert.NoError(t, m.Close())
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := NewLogPublisher(logger.FromZap(zap.New(core)))

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))

	entries := logs.FilterMessage(TypePathResequenced).All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "u1", fields["user"])
	assert.Equal(t, int64(42), fields["eta_minutes"])
	assert.Equal(t, "asset-reliability-errors-beginner-doc", fields["next_asset"])
}

func TestNewRedisPublisher_Errors(t *testing.T) {
	_, err := NewRedisPublisher(context.Background(), RedisOptions{}, logger.Nop())
	assert.Error(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// Port 1 on loopback refuses connections.
	_, err = NewRedisPublisher(ctx, RedisOptions{Addr: "127.0.0.1:1"}, logger.Nop())
	assert.ErrorContains(t, err, "redis ping")
}
