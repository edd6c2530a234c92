// Package screen defines the contract between the router and the learner
// screens, plus the service surface those screens drive.
package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Service is what the screens need from the progress layer.
// *progress.Service satisfies it.
type Service interface {
	Dashboard(ctx context.Context, userID string) (*progress.Dashboard, error)
	PathView(ctx context.Context, userID, courseID string) (*progress.PathView, error)
	GetQuiz(ctx context.Context, userID, topic string, mode quiz.Mode) (*progress.Quiz, error)
	SubmitQuiz(ctx context.Context, userID string, req progress.SubmitRequest) (*progress.SubmitResult, error)
}

// Session carries the learner identity and service into every screen.
type Session struct {
	Ctx    context.Context
	Svc    Service
	UserID string
}

// StatusMsg updates the header with the learner's name and remaining time.
type StatusMsg struct {
	UserName   string
	ETAMinutes int
}

// ErrMsg reports a failed service call to the screen that issued it.
type ErrMsg struct {
	Err error
}
