package events

import (
	"context"

	"github.com/abhisek/pathwise/internal/logger"
)

// LogPublisher writes events to the structured log. It is the fallback
// when no Redis address is configured.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log.With("service", "EventLog")}
}

func (p *LogPublisher) Publish(_ context.Context, ev Event) error {
	p.log.Info(ev.Type,
		"user", ev.UserID,
		"course", ev.CourseID,
		"path", ev.PathID,
		"attempt", ev.AttemptID,
		"next_asset", ev.NextAssetID,
		"outcome", ev.Outcome,
		"eta_minutes", ev.ETAMinutes,
		"reason", ev.Reason,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
