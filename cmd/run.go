package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/coach"
	"github.com/abhisek/pathwise/internal/config"
	"github.com/abhisek/pathwise/internal/events"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/logger"
	"github.com/abhisek/pathwise/internal/observability"
	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/store"
)

// runtime is everything a command needs, built from configuration.
type runtime struct {
	cfg       *config.Config
	log       *logger.Logger
	store     *store.Store
	publisher events.Publisher
	coach     *coach.Service
	svc       *progress.Service
	shutdown  observability.ShutdownFunc
}

type setupOpts struct {
	coach bool // start study-note workers when an LLM is configured
	quiet bool // discard logs; stderr output would tear a full-screen UI
}

// setup loads config, opens the store and wires the progress service.
func setup(cmd *cobra.Command, opts setupOpts) (*runtime, error) {
	ctx := cmd.Context()
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log := logger.Nop()
	if !opts.quiet {
		if log, err = logger.New(cfg.Env); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	rt := &runtime{cfg: cfg, log: log}
	if err := rt.open(cmd); err != nil {
		rt.close()
		return nil, err
	}

	rt.shutdown, err = observability.Init(ctx, observability.Options{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Env,
		Version:     version,
		Endpoint:    cfg.Otel.Endpoint,
		Insecure:    cfg.Otel.Insecure,
		SampleRatio: cfg.Otel.SampleRatio,
	}, log)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	rt.publisher = rt.newPublisher(ctx)

	svcOpts := []progress.Option{
		progress.WithPublisher(rt.publisher),
		progress.WithMaxRetries(cfg.Engine.MaxRetries),
	}
	if opts.coach {
		if c := rt.newCoach(ctx); c != nil {
			rt.coach = c
			svcOpts = append(svcOpts, progress.WithCoach(c))
		}
	}
	rt.svc = progress.NewService(rt.store, log, svcOpts...)
	return rt, nil
}

func (rt *runtime) open(cmd *cobra.Command) error {
	dsn := rt.cfg.Database.DSN
	if rt.cfg.Database.Driver == store.DriverSQLite && dsn == "" {
		p, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		dsn = p
	}
	st, err := store.Open(rt.cfg.Database.Driver, dsn)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	rt.store = st
	rt.log.Debug("store opened", "driver", rt.cfg.Database.Driver, "dialect", st.Dialect())
	return nil
}

func (rt *runtime) newPublisher(ctx context.Context) events.Publisher {
	if rt.cfg.Redis.Addr == "" {
		return events.NewLogPublisher(rt.log)
	}
	p, err := events.NewRedisPublisher(ctx, rt.redisOptions(), rt.log)
	if err != nil {
		rt.log.Warn("redis unavailable, logging path events instead", "addr", rt.cfg.Redis.Addr, "error", err)
		return events.NewLogPublisher(rt.log)
	}
	return p
}

func (rt *runtime) redisOptions() events.RedisOptions {
	return events.RedisOptions{
		Addr:     rt.cfg.Redis.Addr,
		Password: rt.cfg.Redis.Password,
		DB:       rt.cfg.Redis.DB,
		Channel:  rt.cfg.Redis.Channel,
	}
}

func (rt *runtime) newCoach(ctx context.Context) *coach.Service {
	if rt.cfg.Coach.Workers == 0 {
		return nil
	}
	llmCfg, ok := rt.cfg.LLMConfig()
	if !ok {
		rt.log.Info("no LLM provider configured, study notes disabled")
		return nil
	}
	provider, err := llm.NewProvider(ctx, llmCfg, rt.store.Events(), rt.log)
	if err != nil {
		rt.log.Warn("LLM provider not available, study notes disabled", "provider", llmCfg.Provider, "error", err)
		return nil
	}

	cc := coach.DefaultConfig()
	cc.Workers = rt.cfg.Coach.Workers
	if rt.cfg.Coach.QueueSize > 0 {
		cc.QueueSize = rt.cfg.Coach.QueueSize
	}
	rt.log.Info("study notes enabled", "provider", llmCfg.Provider, "workers", cc.Workers)
	return coach.NewService(ctx, provider, rt.store, rt.log, cc)
}

// close drains the coach before the store so queued notes can still be saved.
func (rt *runtime) close() {
	if rt.coach != nil {
		rt.coach.Close()
	}
	if rt.publisher != nil {
		_ = rt.publisher.Close()
	}
	if rt.shutdown != nil {
		if err := rt.shutdown(context.Background()); err != nil {
			rt.log.Warn("tracing shutdown failed", "error", err)
		}
	}
	if rt.store != nil {
		_ = rt.store.Close()
	}
	rt.log.Sync()
}
