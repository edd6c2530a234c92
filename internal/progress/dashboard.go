package progress

import (
	"context"
	"errors"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/eta"
	"github.com/abhisek/pathwise/internal/mastery"
	"github.com/abhisek/pathwise/internal/path"
	"github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/store"
)

const (
	// OnTrackMaxMinutes is the longest latest attempt still labelled on track.
	OnTrackMaxMinutes = 10
	EfficiencyOnTrack = "On Track"
	EfficiencySlow    = "Slow"

	dashboardAttempts = 5
	dashboardNotes    = 3
)

// UserView is the learner section of a dashboard.
type UserView struct {
	ID              string              `json:"userId"`
	Name            string              `json:"name"`
	Role            string              `json:"role"`
	PreferredFormat string              `json:"preferredFormat"`
	FormatStats     mastery.FormatStats `json:"formatStats"`
	Mastery         mastery.Map         `json:"masteryMap"`
}

// AssetRef is the short form of an asset used for display lookups.
type AssetRef struct {
	Topic string `json:"topic"`
	Title string `json:"title"`
}

type Dashboard struct {
	User           UserView            `json:"user"`
	Course         *store.Course       `json:"course"`
	Enrollment     *store.Enrollment   `json:"enrollment"`
	Path           *path.Path          `json:"path"`
	NextAsset      *asset.Asset        `json:"nextAsset"`
	ETAMinutes     int                 `json:"etaMinutes"`
	Progress       path.Progress       `json:"progress"`
	TimeEfficiency string              `json:"timeEfficiency"`
	RecentAttempts []quiz.Attempt      `json:"recentAttempts"`
	AssetIndex     map[string]AssetRef `json:"assetIndex"`
	Notes          []store.StudyNote   `json:"notes"`
}

// Dashboard assembles the learner overview for the active enrollment.
func (s *Service) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	ctx, span := s.tracer.Start(ctx, "progress.Dashboard")
	defer span.End()

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	enrollment, p, err := s.resolvePath(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	course, err := s.repo.GetCourse(ctx, enrollment.CourseID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	ratios, attempts, err := s.recentRatios(ctx, userID, eta.RecentWindow)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalogFor(ctx, p)
	if err != nil {
		return nil, err
	}
	courseAssets, err := s.repo.CourseAssets(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}
	notes, err := s.repo.NotesForUser(ctx, userID, dashboardNotes)
	if err != nil {
		return nil, err
	}

	index := make(map[string]AssetRef, len(courseAssets)+len(catalog))
	for _, a := range courseAssets {
		index[a.ID] = AssetRef{Topic: a.Topic(), Title: a.Title}
	}
	for id, a := range catalog {
		index[id] = AssetRef{Topic: a.Topic(), Title: a.Title}
	}

	recent := attempts
	if len(recent) > dashboardAttempts {
		recent = recent[:dashboardAttempts]
	}
	if recent == nil {
		recent = []quiz.Attempt{}
	}
	if notes == nil {
		notes = []store.StudyNote{}
	}

	return &Dashboard{
		User: UserView{
			ID:              user.ID,
			Name:            user.Name,
			Role:            user.Role,
			PreferredFormat: user.PreferredFormat,
			FormatStats:     user.FormatStats,
			Mastery:         user.Mastery,
		},
		Course:         course,
		Enrollment:     enrollment,
		Path:           p,
		NextAsset:      catalog[p.NextAssetID],
		ETAMinutes:     eta.Estimate(p, catalog, ratios),
		Progress:       p.Progress(),
		TimeEfficiency: TimeEfficiency(attempts),
		RecentAttempts: recent,
		AssetIndex:     index,
		Notes:          notes,
	}, nil
}

// TimeEfficiency labels the newest attempt: on track when it took at most
// OnTrackMaxMinutes, or when there are no attempts yet.
func TimeEfficiency(newestFirst []quiz.Attempt) string {
	if len(newestFirst) == 0 || newestFirst[0].TimeSpentMinutes <= OnTrackMaxMinutes {
		return EfficiencyOnTrack
	}
	return EfficiencySlow
}
