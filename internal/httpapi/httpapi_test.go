package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/events"
	"github.com/abhisek/pathwise/internal/logger"
	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/seed"
	"github.com/abhisek/pathwise/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	OK      bool            `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *events.Memory) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(store.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	cat, err := seed.Load("../seed/testdata/small.yaml")
	require.NoError(t, err)
	_, err = seed.NewImporter(s, logger.Nop()).Import(context.Background(), cat)
	require.NoError(t, err)

	pub := &events.Memory{}
	svc := progress.NewService(s, logger.Nop(), progress.WithPublisher(pub))
	return NewRouter(RouterConfig{Log: logger.Nop(), Progress: svc}), pub
}

func do(t *testing.T, r http.Handler, method, target string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func TestHealthAndBanner(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	code, env := do(t, r, http.MethodGet, "/api/engine/", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.OK)
	assert.Contains(t, string(env.Data), Banner)
}

func TestListUsers(t *testing.T) {
	r, _ := newTestRouter(t)
	code, env := do(t, r, http.MethodGet, "/api/user/all", nil)
	require.Equal(t, http.StatusOK, code)

	var users []struct {
		ID              string `json:"userId"`
		PreferredFormat string `json:"preferredFormat"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
}

func TestGetQuizHidesAnswers(t *testing.T) {
	r, _ := newTestRouter(t)

	code, env := do(t, r, http.MethodGet, "/api/engine/u1/quiz?topic=basics", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"questionId"`)
	assert.NotContains(t, string(env.Data), "correct")

	code, env = do(t, r, http.MethodGet, "/api/engine/u1/quiz", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.OK)
	assert.Contains(t, env.Message, "topic required")

	code, _ = do(t, r, http.MethodGet, "/api/engine/nobody/quiz?topic=basics", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSubmitQuiz(t *testing.T) {
	r, pub := newTestRouter(t)

	body := map[string]any{
		"assetId":      "asset-go101-basics-beginner-video",
		"topic":        "basics",
		"timeSpentMin": 6,
		"answers":      map[string]int{"q1": 0, "q2": 1},
	}
	code, env := do(t, r, http.MethodPost, "/api/engine/u1/quiz/submit", body)
	require.Equal(t, http.StatusOK, code, env.Message)

	var res struct {
		Score       int     `json:"score"`
		TimeRatio   float64 `json:"timeRatio"`
		Outcome     string  `json:"outcome"`
		NextAssetID string  `json:"nextAssetId"`
		AttemptID   string  `json:"attemptId"`
		UpdatedPath struct {
			Version int64 `json:"version"`
		} `json:"updatedPath"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, 0.5, res.TimeRatio)
	assert.Equal(t, "great_pass", res.Outcome)
	assert.Equal(t, "asset-go101-basics-intermediate-video", res.NextAssetID)
	assert.NotEmpty(t, res.AttemptID)
	assert.Equal(t, int64(2), res.UpdatedPath.Version)
	assert.Len(t, pub.Events(), 1)

	code, env = do(t, r, http.MethodGet, "/api/user/u1/dashboard", nil)
	require.Equal(t, http.StatusOK, code)
	var dash struct {
		RecentAttempts []json.RawMessage `json:"recentAttempts"`
		TimeEfficiency string            `json:"timeEfficiency"`
		NextAsset      struct {
			ID string `json:"assetId"`
		} `json:"nextAsset"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.Len(t, dash.RecentAttempts, 1)
	assert.Equal(t, "On Track", dash.TimeEfficiency)
	assert.Equal(t, "asset-go101-basics-intermediate-video", dash.NextAsset.ID)
}

func TestSubmitQuizErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name   string
		target string
		body   any
		want   int
	}{
		{"missing fields", "/api/engine/u1/quiz/submit", map[string]any{"topic": "basics"}, http.StatusBadRequest},
		{"bad answers", "/api/engine/u1/quiz/submit", map[string]any{"assetId": "a", "topic": "t", "answers": []int{1}}, http.StatusBadRequest},
		{"unknown asset", "/api/engine/u1/quiz/submit", map[string]any{"assetId": "asset-x", "topic": "basics", "answers": map[string]int{}}, http.StatusNotFound},
		{"unknown user", "/api/engine/ghost/quiz/submit", map[string]any{"assetId": "asset-go101-basics-beginner-video", "topic": "basics", "answers": map[string]int{}}, http.StatusNotFound},
		{"not enrolled", "/api/engine/u2/quiz/submit", map[string]any{"assetId": "asset-go101-basics-beginner-video", "topic": "basics", "answers": map[string]int{}}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, r, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.want, code)
			assert.False(t, env.OK)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestPathAndNotes(t *testing.T) {
	r, _ := newTestRouter(t)

	code, env := do(t, r, http.MethodGet, "/api/user/u1/path", nil)
	require.Equal(t, http.StatusOK, code)
	var view struct {
		Path struct {
			Nodes []json.RawMessage `json:"nodes"`
		} `json:"path"`
		ETAMinutes int `json:"etaMinutes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Len(t, view.Path.Nodes, 3)
	assert.Equal(t, 37, view.ETAMinutes)

	code, _ = do(t, r, http.MethodGet, "/api/user/u1/path?courseId=rust", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = do(t, r, http.MethodGet, "/api/user/u1/notes", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))

	code, _ = do(t, r, http.MethodGet, "/api/user/u1/notes?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("user x: %w", store.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: topic required", progress.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("commit: %w", store.ErrVersionConflict), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newTestRouter(t)
	code, env := do(t, r, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.OK)
}
