package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/observability"
)

// Runner executes the forecast cycle on a fixed interval until the context
// is cancelled. Cycle errors are logged and do not stop the schedule.
type Runner struct {
	pipeline *Pipeline
	interval time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewRunner creates a Runner. Pass clockwork.NewRealClock() in production;
// tests inject a fake clock for deterministic scheduling.
func NewRunner(p *Pipeline, interval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		pipeline: p,
		interval: interval,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run blocks until ctx is cancelled, firing one forecast cycle per tick.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("forecast scheduler started", "interval", r.interval)
	if r.metrics != nil {
		r.metrics.PipelineRunning.Set(1)
		defer r.metrics.PipelineRunning.Set(0)
	}

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("forecast scheduler stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if err := r.pipeline.RunCycle(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				r.logger.Error("forecast cycle failed", "error", err)
			}
		}
	}
}
