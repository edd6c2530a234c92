package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/pathwise/internal/learner"
	"github.com/abhisek/pathwise/internal/logger"
	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/store"
)

// Banner is returned by the engine root route.
const Banner = "Engine service running"

const defaultNotesLimit = 20

// Progress is the service surface behind the API. *progress.Service
// satisfies it.
type Progress interface {
	GetQuiz(ctx context.Context, userID, topic string, mode quiz.Mode) (*progress.Quiz, error)
	SubmitQuiz(ctx context.Context, userID string, req progress.SubmitRequest) (*progress.SubmitResult, error)
	ListUsers(ctx context.Context) ([]learner.Summary, error)
	Dashboard(ctx context.Context, userID string) (*progress.Dashboard, error)
	PathView(ctx context.Context, userID, courseID string) (*progress.PathView, error)
	Notes(ctx context.Context, userID string, limit int) ([]store.StudyNote, error)
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type EngineHandler struct {
	log *logger.Logger
	svc Progress
}

func NewEngineHandler(log *logger.Logger, svc Progress) *EngineHandler {
	return &EngineHandler{log: log.With("handler", "EngineHandler"), svc: svc}
}

// GET /api/engine/
func (h *EngineHandler) Root(c *gin.Context) {
	RespondOK(c, gin.H{"message": Banner})
}

// GET /api/engine/:userId/quiz?topic=&mode=
func (h *EngineHandler) GetQuiz(c *gin.Context) {
	q, err := h.svc.GetQuiz(c.Request.Context(), c.Param("userId"), c.Query("topic"), quiz.ParseMode(c.Query("mode")))
	if err != nil {
		h.fail(c, err)
		return
	}
	RespondOK(c, q)
}

// POST /api/engine/:userId/quiz/submit
func (h *EngineHandler) SubmitQuiz(c *gin.Context) {
	var req progress.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, fmt.Errorf("%w: %v", progress.ErrInvalidInput, err))
		return
	}
	res, err := h.svc.SubmitQuiz(c.Request.Context(), c.Param("userId"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	RespondOK(c, res)
}

func (h *EngineHandler) fail(c *gin.Context, err error) {
	if StatusFor(err) == http.StatusInternalServerError {
		h.log.Error("engine request failed", "path", c.FullPath(), "user_id", c.Param("userId"), "error", err)
	}
	RespondError(c, err)
}

type UserHandler struct {
	log *logger.Logger
	svc Progress
}

func NewUserHandler(log *logger.Logger, svc Progress) *UserHandler {
	return &UserHandler{log: log.With("handler", "UserHandler"), svc: svc}
}

// GET /api/user/all
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	RespondOK(c, users)
}

// GET /api/user/:userId/dashboard
func (h *UserHandler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	RespondOK(c, d)
}

// GET /api/user/:userId/path?courseId=
func (h *UserHandler) Path(c *gin.Context) {
	v, err := h.svc.PathView(c.Request.Context(), c.Param("userId"), c.Query("courseId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	RespondOK(c, v)
}

// GET /api/user/:userId/notes?limit=
func (h *UserHandler) Notes(c *gin.Context) {
	limit := defaultNotesLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			RespondError(c, fmt.Errorf("%w: limit must be a positive integer", progress.ErrInvalidInput))
			return
		}
		limit = n
	}
	notes, err := h.svc.Notes(c.Request.Context(), c.Param("userId"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	RespondOK(c, notes)
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	if StatusFor(err) == http.StatusInternalServerError {
		h.log.Error("user request failed", "path", c.FullPath(), "user_id", c.Param("userId"), "error", err)
	}
	RespondError(c, err)
}
