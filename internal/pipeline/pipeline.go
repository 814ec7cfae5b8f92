// Package pipeline runs the periodic forecast job: pull the latest
// wind-speed dataset from the input stream, simulate it, republish the
// result.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/domain"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/observability"
)

// LatestExtractor fetches the most recent wind dataset from the input
// stream. ok is false when the stream holds no messages yet.
type LatestExtractor interface {
	ExtractLatest(ctx context.Context) (dataset domain.WindDataset, ok bool, err error)
}

// ResultLoader publishes a simulation result to the output stream.
type ResultLoader interface {
	Load(ctx context.Context, result domain.SimulationResult) error
}

// Pipeline wires extractor, simulator, and loader into one forecast cycle.
type Pipeline struct {
	extractor LatestExtractor
	simulator domain.Simulator
	loader    ResultLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(e LatestExtractor, s domain.Simulator, l ResultLoader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor: e,
		simulator: s,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one forecast cycle has
// published a result.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no forecast cycle has completed yet")
	}
	return nil
}

// MarkReady records an out-of-band readiness signal, e.g. a successful
// config generation at startup.
func (p *Pipeline) MarkReady() {
	p.ready.Store(true)
}

// RunCycle executes one forecast cycle. An empty input stream is logged
// and skipped; simulation and publish errors propagate to the scheduler,
// which logs them and keeps the service alive.
func (p *Pipeline) RunCycle(ctx context.Context) error {
	runID := uuid.NewString()
	log := p.logger.With("run_id", runID)

	dataset, ok, err := p.extractor.ExtractLatest(ctx)
	if err != nil {
		p.observeCycle("error")
		return err
	}
	if !ok {
		log.Warn("no forecast message available, skipping cycle")
		p.observeCycle("empty")
		return nil
	}
	log.Debug("forecast dataset received", "fields", len(dataset.Fields), "timestamp", dataset.Timestamp)

	start := time.Now()
	result, err := p.simulator.SimulateWindTimeseries(ctx, dataset)
	if p.metrics != nil {
		p.metrics.SimulationDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		p.observeCycle("error")
		return err
	}

	// Internal aggregate, not part of the published forecast.
	delete(result, domain.TotalProductionField)

	if err := p.loader.Load(ctx, result); err != nil {
		p.observeCycle("error")
		return err
	}

	log.Info("forecast published", "fields", len(result))
	p.observeCycle("success")
	p.ready.Store(true)
	return nil
}

func (p *Pipeline) observeCycle(outcome string) {
	if p.metrics != nil {
		p.metrics.ForecastCycles.WithLabelValues(outcome).Inc()
	}
}
