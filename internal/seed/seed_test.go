package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/logger"
	"github.com/abhisek/pathwise/internal/path"
	"github.com/abhisek/pathwise/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(store.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadYAML(t *testing.T) {
	cat, err := Load("testdata/small.yaml")
	require.NoError(t, err)

	require.Len(t, cat.Courses, 1)
	c := cat.Courses[0]
	assert.Equal(t, "go101", c.ID)

	assets := c.Assets()
	require.Len(t, assets, 3)
	assert.Equal(t, "asset-go101-basics-beginner-video", assets[0].ID)
	assert.Equal(t, 12.0, assets[0].ExpectedMinutes)
	assert.Equal(t, float64(asset.DefaultExpectedMinutes), assets[1].Expected())

	require.Len(t, cat.Questions, 2)
	assert.Equal(t, 1, cat.Questions[1].CorrectIndex)
	assert.Equal(t, []string{"go101"}, cat.Users[0].Enrollments)
	assert.Empty(t, cat.Users[1].Enrollments)
}

func TestLoadJSON(t *testing.T) {
	cat, err := Load("testdata/small.json")
	require.NoError(t, err)
	assert.Equal(t, "k8s", cat.Courses[0].ID)
	assert.Len(t, cat.Courses[0].Keys(), 2)
}

func TestLoadSampleCatalog(t *testing.T) {
	cat, err := Load("../../seeds/go-foundations.yaml")
	require.NoError(t, err)
	assert.NotEmpty(t, cat.Questions)
	assert.NotEmpty(t, cat.Users)
}

func TestParseRejects(t *testing.T) {
	base := `
format_version: %s
courses:
  - id: go101
    title: Go
    modules:
      - topic: basics
        assets:
          - { level: beginner, format: %s, title: A }
%s`
	tests := []struct {
		name    string
		version string
		format  string
		extra   string
		want    string
	}{
		{"major two", "2.0.0", "video", "", "unsupported"},
		{"not semver", "banana", "video", "", "not a semantic version"},
		{"unknown format", "1.0.0", "podcast", "", "invalid catalog"},
		{"unknown field", "1.0.0", "video", "owner: me\n", "invalid catalog"},
		{
			"answer out of range", "1.0.0", "video",
			"questions:\n  - { id: q1, topic: basics, prompt: P, options: [a, b], correct_index: 2 }\n",
			"correct_index 2 out of range",
		},
		{
			"unknown enrollment", "1.0.0", "video",
			"users:\n  - { id: u1, name: A, enrollments: [rust] }\n",
			"unknown course rust",
		},
		{
			"duplicate user", "1.0.0", "video",
			"users:\n  - { id: u1, name: A }\n  - { id: u1, name: B }\n",
			"duplicate user u1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(fmt.Sprintf(base, tt.version, tt.format, tt.extra)))
			require.Error(t, err)
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Errorf("err = %v, want ErrInvalidCatalog", err)
			}
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		v    string
		want bool
	}{
		{"1.0.0", true},
		{"v1.4.2", true},
		{"1", true},
		{"v0.9.0", false},
		{"2.0.0", false},
		{"", false},
	}
	for _, tt := range tests {
		err := CheckVersion(tt.v)
		if got := err == nil; got != tt.want {
			t.Errorf("CheckVersion(%q) = %v, want ok=%v", tt.v, err, tt.want)
		}
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	cat, err := Load("testdata/small.yaml")
	require.NoError(t, err)

	im := NewImporter(s, logger.Nop())
	rep, err := im.Import(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, Report{Courses: 1, Assets: 3, Questions: 2, Users: 2, Enrollments: 1, PathsCreated: 1}, rep)

	p, err := s.GetPath(ctx, "u1", "go101")
	require.NoError(t, err)
	require.Len(t, p.Nodes, 3)
	assert.Equal(t, 0, p.CurrentIndex)
	assert.Equal(t, "asset-go101-basics-beginner-video", p.NextAssetID)
	for _, n := range p.Nodes {
		assert.Equal(t, path.StatusPending, n.Status)
		assert.Equal(t, path.AddedByCourse, n.AddedBy)
	}

	assets, err := s.CourseAssets(ctx, "go101")
	require.NoError(t, err)
	require.Len(t, assets, 3)
	assert.Equal(t, "Interfaces", assets[2].Title)

	qs, err := s.QuestionsByTopic(ctx, "basics")
	require.NoError(t, err)
	assert.Len(t, qs, 2)

	_, err = s.ActiveEnrollment(ctx, "u2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestImportKeepsExistingPaths(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	cat, err := Load("testdata/small.yaml")
	require.NoError(t, err)
	im := NewImporter(s, logger.Nop())

	_, err = im.Import(ctx, cat)
	require.NoError(t, err)
	first, err := s.GetPath(ctx, "u1", "go101")
	require.NoError(t, err)

	rep, err := im.Import(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.PathsCreated)
	assert.Equal(t, 1, rep.PathsKept)

	again, err := s.GetPath(ctx, "u1", "go101")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.Version, again.Version)
}
