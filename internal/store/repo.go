package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict is returned when a versioned write finds that the
	// stored record changed since it was read.
	ErrVersionConflict = errors.New("version conflict")
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int   // max results (0 = unlimited)
	After  int64 // sequence > After
	Before int64 // sequence < Before
}

// Course is an authored course.
type Course struct {
	ID          string `json:"courseId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// EnrollmentActive marks an enrollment the learner is currently working on.
const EnrollmentActive = "active"

// Enrollment links a user to a course.
type Enrollment struct {
	UserID     string    `json:"userId"`
	CourseID   string    `json:"courseId"`
	Status     string    `json:"status"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

// StudyNote is a generated revision note for a struggling attempt.
type StudyNote struct {
	ID          string    `json:"noteId"`
	Seq         int64     `json:"-"`
	UserID      string    `json:"userId"`
	AttemptID   string    `json:"attemptId"`
	AssetID     string    `json:"assetId"`
	Topic       string    `json:"topic"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	FocusPoints []string  `json:"focusPoints"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	// QueryLLMRequests returns events newest first.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
}

// NoteRepo stores study notes.
type NoteRepo interface {
	SaveNote(ctx context.Context, note *StudyNote) error
	NotesForUser(ctx context.Context, userID string, limit int) ([]StudyNote, error)
}
