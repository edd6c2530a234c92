// Package events publishes path updates to interested listeners.
package events

import (
	"context"
	"sync"
	"time"
)

// TypePathResequenced is emitted after every committed quiz submission.
const TypePathResequenced = "path.resequenced"

type Event struct {
	Type        string    `json:"type"`
	UserID      string    `json:"userId"`
	CourseID    string    `json:"courseId"`
	PathID      string    `json:"pathId"`
	AttemptID   string    `json:"attemptId"`
	NextAssetID string    `json:"nextAssetId,omitempty"`
	Reason      string    `json:"reason"`
	Outcome     string    `json:"outcome"`
	ETAMinutes  int       `json:"etaMinutes"`
	At          time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Memory keeps published events in order; used by tests and as a
// stand-in when nothing should leave the process.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Publish(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *Memory) Close() error { return nil }

// Events returns a copy of everything published so far.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}
