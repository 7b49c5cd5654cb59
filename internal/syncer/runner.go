package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RunnerConfig holds scheduler settings.
type RunnerConfig struct {
	Interval time.Duration // Time between full sync cycles
}

// DefaultRunnerConfig returns sensible defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Interval: 15 * time.Minute,
	}
}

// Runner executes the pipeline on a fixed interval. There is no retry
// with backoff anywhere: a failed cycle is simply retried on the next
// scheduled one.
type Runner struct {
	cfg      RunnerConfig
	pipeline *Pipeline
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a scheduler around the pipeline.
func NewRunner(cfg RunnerConfig, pipeline *Pipeline, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:      cfg,
		pipeline: pipeline,
		logger:   logger,
	}
}

// Start begins the sync loop. The first cycle runs immediately.
func (r *Runner) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run()

	r.logger.Info("catalog sync runner started", "interval", r.cfg.Interval)
	return nil
}

// Stop gracefully shuts down, waiting for an in-flight cycle.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("catalog sync runner stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	// Sync immediately on start.
	r.runOnce()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.runOnce()
		}
	}
}

func (r *Runner) runOnce() {
	if err := r.pipeline.Run(r.ctx); err != nil {
		r.logger.Error("catalog sync failed", "err", err)
	}
}
