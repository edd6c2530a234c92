package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/learner"
	"github.com/abhisek/pathwise/internal/path"
	"github.com/abhisek/pathwise/internal/quiz"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func seedUser(t *testing.T, s *Store, id string) *learner.User {
	t.Helper()
	require.NoError(t, s.UpsertUserProfile(context.Background(), learner.New(id, "User "+id, "engineer")))
	u, err := s.GetUser(context.Background(), id)
	require.NoError(t, err)
	return u
}

func seedPath(t *testing.T, s *Store, userID string) *path.Path {
	t.Helper()
	p, err := path.New("path-"+userID, userID, "go101", []asset.Key{
		asset.NewKey("go101", "errors", "beginner", "video"),
		asset.NewKey("go101", "errors", "beginner", "doc"),
		asset.NewKey("go101", "errors", "intermediate", "video"),
	})
	require.NoError(t, err)
	created, err := s.CreatePath(context.Background(), p)
	require.NoError(t, err)
	require.True(t, created)
	got, err := s.GetPath(context.Background(), userID, "go101")
	require.NoError(t, err)
	return got
}

func TestUsers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.GetUser(ctx, "nobody")
	assert.True(t, errors.Is(err, ErrNotFound), "err = %v", err)

	u := seedUser(t, s, "u2")
	seedUser(t, s, "u1")
	assert.Equal(t, int64(1), u.Version)
	assert.Equal(t, "doc_first", u.PreferredFormat)
	assert.Equal(t, 0.5, u.Mastery.Get("errors"))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)

	// reseeding refreshes the profile but keeps tracking state
	u.Track("errors", asset.FormatVideo, 95, 1.0)
	p := seedPath(t, s, "u2")
	require.NoError(t, s.CommitOutcome(ctx, Outcome{
		Attempt: &quiz.Attempt{ID: "a1", UserID: "u2", Topic: "errors", CreatedAt: time.Now()},
		User:    u,
		Path:    p,
	}))
	require.NoError(t, s.UpsertUserProfile(ctx, &learner.User{ID: "u2", Name: "Renamed", Role: "lead"}))

	got, err := s.GetUser(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "lead", got.Role)
	assert.InDelta(t, 0.65, got.Mastery["errors"], 1e-9)
	assert.Equal(t, "video_first", got.PreferredFormat)
	require.Len(t, got.FormatStats, 1)
	assert.Equal(t, int64(2), got.Version)
}

func TestCatalog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertCourse(ctx, Course{ID: "go101", Title: "Go 101"}))
	c, err := s.GetCourse(ctx, "go101")
	require.NoError(t, err)
	assert.Equal(t, "Go 101", c.Title)

	_, err = s.GetCourse(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	video := asset.New(asset.NewKey("go101", "Error Handling", "beginner", "video"), "Intro", 12)
	doc := asset.New(asset.NewKey("go101", "Error Handling", "beginner", "doc"), "Reading", 0)
	require.NoError(t, s.UpsertAsset(ctx, doc, 1))
	require.NoError(t, s.UpsertAsset(ctx, video, 0))

	got, err := s.GetAsset(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, video.Key, got.Key)
	assert.Equal(t, 12.0, got.ExpectedMinutes)

	_, err = s.GetAsset(ctx, "asset-missing")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := s.CourseAssets(ctx, "go101")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, video.ID, list[0].ID)

	byID, err := s.AssetsByID(ctx, []string{doc.ID, "asset-missing"})
	require.NoError(t, err)
	assert.Len(t, byID, 1)
	assert.Equal(t, 10.0, byID[doc.ID].Expected())
}

func TestQuestions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.UpsertQuestion(ctx, quiz.Question{
			ID:           fmt.Sprintf("q%d", i),
			Topic:        "errors",
			Prompt:       "?",
			Options:      []string{"a", "b"},
			CorrectIndex: 1,
		}))
	}
	require.NoError(t, s.UpsertQuestion(ctx, quiz.Question{ID: "g1", Topic: "generics", Options: []string{"x"}}))

	qs, err := s.QuestionsByTopic(ctx, "errors")
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, []string{"a", "b"}, qs[0].Options)
	assert.Equal(t, 1, qs[0].CorrectIndex)

	qs, err = s.QuestionsByID(ctx, "errors", []string{"q2", "g1", "zz"})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "q2", qs[0].ID)
}

func TestEnrollment(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.ActiveEnrollment(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Enroll(ctx, Enrollment{UserID: "u1", CourseID: "go101", EnrolledAt: base}))
	require.NoError(t, s.Enroll(ctx, Enrollment{UserID: "u1", CourseID: "k8s", EnrolledAt: base.Add(time.Hour)}))

	e, err := s.ActiveEnrollment(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "k8s", e.CourseID)

	require.NoError(t, s.Enroll(ctx, Enrollment{UserID: "u1", CourseID: "k8s", Status: "completed"}))
	e, err = s.ActiveEnrollment(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "go101", e.CourseID)
}

func TestPaths(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.GetPath(ctx, "u1", "go101")
	assert.ErrorIs(t, err, ErrNotFound)

	p := seedPath(t, s, "u1")
	assert.Equal(t, int64(1), p.Version)
	require.Len(t, p.Nodes, 3)
	assert.Equal(t, "asset-go101-errors-beginner-video", p.NextAssetID)
	assert.Equal(t, asset.LevelIntermediate, p.Nodes[2].Key.Level)
	assert.Equal(t, path.AddedByCourse, p.Nodes[2].AddedBy)
	require.NoError(t, p.Validate())

	// a second seed leaves the stored path alone
	again, err := path.New("other", "u1", "go101", nil)
	require.NoError(t, err)
	created, err := s.CreatePath(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestCommitOutcome(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "u1")
	p := seedPath(t, s, "u1")

	_, err := p.Move(3, 0)
	require.NoError(t, err)
	p.Nodes[1].Status = path.StatusNeedsReview
	p.LastUpdatedReason = "moved"
	p.ETAMinutes = 17
	u.Track("errors", asset.FormatVideo, 40, 1.0)

	err = s.CommitOutcome(ctx, Outcome{
		Attempt: &quiz.Attempt{
			ID: "a1", UserID: "u1", CourseID: "go101", PathID: p.ID,
			AssetID: "asset-go101-errors-beginner-video", Topic: "errors",
			Format: asset.FormatVideo, Level: asset.LevelBeginner,
			Score: 40, TimeSpentMinutes: 10, TimeRatio: 1, AttemptNo: 1,
			WrongQuestionIDs: []string{"q1"}, CreatedAt: time.Now(),
		},
		User: u,
		Path: p,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), u.Version)
	assert.Equal(t, int64(2), p.Version)

	stored, err := s.GetPath(ctx, "u1", "go101")
	require.NoError(t, err)
	assert.Equal(t, p.AssetIDs(), stored.AssetIDs())
	assert.Equal(t, path.StatusNeedsReview, stored.Nodes[1].Status)
	assert.Equal(t, 3, stored.Nodes[0].ID)
	assert.Equal(t, "moved", stored.LastUpdatedReason)
	assert.Equal(t, 17, stored.ETAMinutes)

	attempts, err := s.RecentAttempts(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, []string{"q1"}, attempts[0].WrongQuestionIDs)
	assert.Equal(t, []string{}, attempts[0].AskedQuestionIDs)
	assert.Equal(t, asset.FormatVideo, attempts[0].Format)
}

func TestCommitOutcome_VersionConflict(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "u1")
	seedPath(t, s, "u1")

	// two writers read the same versions
	u1, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	p1, err := s.GetPath(ctx, "u1", "go101")
	require.NoError(t, err)
	u2 := u1.Clone()
	p2 := p1.Clone()

	first := Outcome{Attempt: &quiz.Attempt{ID: "a1", UserID: "u1", Topic: "errors", CreatedAt: time.Now()}, User: u1, Path: p1}
	require.NoError(t, s.CommitOutcome(ctx, first))

	p2.Nodes[0].Status = path.StatusCompleted
	p2.CurrentIndex = 1
	stale := Outcome{Attempt: &quiz.Attempt{ID: "a2", UserID: "u1", Topic: "errors", CreatedAt: time.Now()}, User: u2, Path: p2}
	err = s.CommitOutcome(ctx, stale)
	require.ErrorIs(t, err, ErrVersionConflict)
	assert.Equal(t, int64(1), u2.Version, "failed commit must not advance versions")
	assert.Equal(t, int64(1), p2.Version)

	n, err := s.CountAttempts(ctx, "u1", "errors")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "stale attempt must not be written")

	stored, err := s.GetPath(ctx, "u1", "go101")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CurrentIndex)
	assert.Equal(t, path.StatusPending, stored.Nodes[0].Status)
}

func TestCommitOutcome_PathConflictRollsBackUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "u1")
	p := seedPath(t, s, "u1")
	p.Version = 99

	u.Track("errors", asset.FormatDoc, 100, 1.0)
	err := s.CommitOutcome(ctx, Outcome{Attempt: &quiz.Attempt{ID: "a1", UserID: "u1", CreatedAt: time.Now()}, User: u, Path: p})
	require.ErrorIs(t, err, ErrVersionConflict)

	got, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Empty(t, got.FormatStats)
}

func TestRecentAttempts_Order(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "u1")
	p := seedPath(t, s, "u1")
	for i := 1; i <= 4; i++ {
		topic := "errors"
		if i%2 == 0 {
			topic = "generics"
		}
		require.NoError(t, s.CommitOutcome(ctx, Outcome{
			Attempt: &quiz.Attempt{ID: fmt.Sprintf("a%d", i), UserID: "u1", Topic: topic, AttemptNo: i, CreatedAt: time.Now()},
			User:    u,
			Path:    p,
		}))
	}

	recent, err := s.RecentAttempts(ctx, "u1", 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "a4", recent[0].ID)
	assert.Equal(t, "a2", recent[2].ID)

	n, err := s.CountAttempts(ctx, "u1", "generics")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNotes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.SaveNote(ctx, &StudyNote{
			ID: fmt.Sprintf("n%d", i), UserID: "u1", Topic: "errors",
			Title: "t", Summary: "s", FocusPoints: []string{"a", "b"},
		}))
	}
	notes, err := s.NotesForUser(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "n3", notes[0].ID)
	assert.Equal(t, []string{"a", "b"}, notes[0].FocusPoints)

	none, err := s.NotesForUser(ctx, "u2", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Events()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "m", Purpose: "study-note", Success: true}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "m", Purpose: "study-note", ErrorMessage: "boom"}))

	events, err := repo.QueryLLMRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.False(t, events[0].Success)
	assert.Equal(t, "boom", events[0].ErrorMessage)
	assert.True(t, events[1].Success)
	assert.Greater(t, events[0].Sequence, events[1].Sequence)

	after, err := repo.QueryLLMRequests(ctx, QueryOpts{After: events[1].Sequence})
	require.NoError(t, err)
	assert.Len(t, after, 1)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("PATHWISE_DB", filepath.Join(dir, "custom", "p.db"))
	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom", "p.db"), got)
	assert.DirExists(t, filepath.Join(dir, "custom"))

	t.Setenv("PATHWISE_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	got, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pathwise", "pathwise.db"), got)
}
