// Package httpapi exposes the engine and user routes over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/abhisek/pathwise/internal/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Progress    Progress
	ServiceName string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		router.Use(otelgin.Middleware(cfg.ServiceName,
			otelgin.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/healthcheck" }),
		))
	}
	router.Use(requestLogger(cfg.Log))

	engine := NewEngineHandler(cfg.Log, cfg.Progress)
	users := NewUserHandler(cfg.Log, cfg.Progress)

	router.GET("/healthcheck", HealthCheck)

	api := router.Group("/api")
	eng := api.Group("/engine")
	{
		eng.GET("/", engine.Root)
		eng.GET("/:userId/quiz", engine.GetQuiz)
		eng.POST("/:userId/quiz/submit", engine.SubmitQuiz)
	}
	usr := api.Group("/user")
	{
		usr.GET("/all", users.List)
		usr.GET("/:userId/dashboard", users.Dashboard)
		usr.GET("/:userId/path", users.Path)
		usr.GET("/:userId/notes", users.Notes)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Envelope{OK: false, Message: "route not found"})
	})
	return router
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Request.URL.Path == "/healthcheck" {
			return
		}
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Server runs the router until its context is cancelled.
type Server struct {
	srv             *http.Server
	log             *logger.Logger
	shutdownTimeout time.Duration
}

func NewServer(addr string, handler http.Handler, shutdownTimeout time.Duration, log *logger.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log:             log,
		shutdownTimeout: shutdownTimeout,
	}
}

// Run serves until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "address", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.log.Info("http server shutting down")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
