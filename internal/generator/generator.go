package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/domain"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/graph"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/observability"
)

// Generator drives artifact synthesis: it queries the knowledge graph
// through the adapter, synthesizes the config structures, and writes them
// out as YAML. Every invocation builds its structures fresh; nothing is
// cached across runs.
type Generator struct {
	graph   *graph.Adapter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Generator. Pass nil metrics to skip instrumentation.
func New(adapter *graph.Adapter, logger *slog.Logger, metrics *observability.Metrics) *Generator {
	return &Generator{graph: adapter, logger: logger, metrics: metrics}
}

// TurbineTypes generates the turbine-types artifact for the scenario and
// site. When outputPath is non-empty the artifact is also written there.
func (g *Generator) TurbineTypes(ctx context.Context, scenario, site, outputPath string) (*domain.TurbineTypesConfig, error) {
	cfg, err := g.turbineTypes(ctx, scenario, site, outputPath)
	g.observe("turbine_types", err)
	return cfg, err
}

func (g *Generator) turbineTypes(ctx context.Context, scenario, site, outputPath string) (*domain.TurbineTypesConfig, error) {
	attrs, err := g.graph.TurbineTypeAttributes(ctx, scenario, site)
	if err != nil {
		return nil, fmt.Errorf("retrieve turbine types: %w", err)
	}

	cfg, err := SynthesizeTurbineTypes(attrs)
	if err != nil {
		return nil, err
	}
	g.logger.Info("turbine types synthesized", "scenario", scenario, "site", site, "types", len(cfg.Order))

	if outputPath != "" {
		if err := WriteFile(outputPath, TurbineTypesDoc(cfg)); err != nil {
			return nil, err
		}
		g.logger.Info("turbine types artifact written", "path", outputPath)
	}
	return cfg, nil
}

// Park generates the park artifact for the scenario and site. When
// outputPath is non-empty the artifact is also written there.
func (g *Generator) Park(ctx context.Context, scenario, site, outputPath string) (*domain.ParkConfig, error) {
	cfg, err := g.park(ctx, scenario, site, outputPath)
	g.observe("park", err)
	return cfg, err
}

func (g *Generator) park(ctx context.Context, scenario, site, outputPath string) (*domain.ParkConfig, error) {
	parkAttrs, err := g.graph.WindparkAttributes(ctx, scenario, site)
	if err != nil {
		return nil, fmt.Errorf("retrieve windpark info: %w", err)
	}
	turbineAttrs, err := g.graph.TurbineAttributes(ctx, scenario, site)
	if err != nil {
		return nil, fmt.Errorf("retrieve turbine info: %w", err)
	}

	cfg := SynthesizePark(site, parkAttrs, turbineAttrs)
	g.logger.Info("park config synthesized", "scenario", scenario, "site", site, "turbines", len(cfg.Turbines))

	if outputPath != "" {
		if err := WriteFile(outputPath, ParkDoc(cfg)); err != nil {
			return nil, err
		}
		g.logger.Info("park artifact written", "path", outputPath)
	}
	return cfg, nil
}

func (g *Generator) observe(artifact string, err error) {
	if g.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	g.metrics.ConfigGenerations.WithLabelValues(artifact, outcome).Inc()
}

// TurbineTypesPath returns the conventional artifact path for a park,
// relative to the directory holding the service config file.
func TurbineTypesPath(configDir, parkName string) string {
	return filepath.Join(configDir, "eolica-configs", "turbine-types",
		fmt.Sprintf("turbinetypes_%s.yaml", slugify(parkName)))
}

// ParkPath returns the conventional park artifact path for a park.
func ParkPath(configDir, parkName string) string {
	return filepath.Join(configDir, "eolica-configs", "park",
		fmt.Sprintf("park_%s.yaml", slugify(parkName)))
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
