// Command eolica runs the wind generation forecast service: on startup it
// regenerates the park and turbine-types configuration from the knowledge
// graph (falling back to the static files when the graph is disabled or
// unreachable), then periodically pulls the latest wind-speed forecast
// from the input stream, simulates it, and republishes the result.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/adapter/engine"
	httpadapter "github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/adapter/http"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/adapter/stream"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/config"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/generator"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/graph"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/observability"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/pipeline"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/sparql"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, logCloser, err := observability.NewLogger(observability.LoggerOptions{
		Level:       cfg.Service.LogLevel,
		Format:      cfg.Service.LogFormat,
		Destination: cfg.Service.LogDestination,
	})
	if err != nil {
		slog.Error("failed to build logger", "error", err)
		os.Exit(1)
	}
	if logCloser != nil {
		defer logCloser.Close()
	}
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Regenerate config artifacts from the knowledge graph when enabled.
	// Any failure here degrades to the static config files on disk.
	parkConfig := cfg.Eolica.ConfigPark
	turbineTypesConfig := cfg.Eolica.ConfigTurbineTypes
	generated := generateConfigs(ctx, cfg, *configPath, logger, metrics)
	if generated.park != "" {
		parkConfig = generated.park
	}
	if generated.turbineTypes != "" {
		turbineTypesConfig = generated.turbineTypes
	}
	logger.Info("configuration selected",
		"park_config", parkConfig,
		"turbine_types_config", turbineTypesConfig,
		"simulation_config", cfg.Eolica.ConfigSimulation,
	)

	simulator := engine.NewClient(cfg.Engine.Endpoint, cfg.Engine.Timeout(), parkConfig, cfg.Eolica.ConfigSimulation, logger)
	reader := stream.NewReader(cfg, logger)
	writer := stream.NewWriter(cfg, logger)

	p := pipeline.New(reader, simulator, writer, logger, metrics)
	if generated.park != "" {
		p.MarkReady()
	}
	runner := pipeline.NewRunner(p, cfg.Service.Frequency(), clockwork.NewRealClock(), logger, metrics)

	srv := httpadapter.NewServer(cfg.Service.HTTPAddr, p, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start forecast scheduler.
	go func() {
		if err := runner.Run(ctx); err != nil {
			logger.Error("scheduler error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Service.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("stream writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}

type generatedPaths struct {
	turbineTypes string
	park         string
}

// generateConfigs builds both artifacts from the graph database. Errors
// are logged, never fatal: the service keeps running on the static config.
func generateConfigs(ctx context.Context, cfg *config.Config, configPath string, logger *slog.Logger, metrics *observability.Metrics) generatedPaths {
	if err := cfg.ValidateGeneration(); err != nil {
		logger.Info("skipping config generation", "reason", err)
		return generatedPaths{}
	}

	client := sparql.NewClient(cfg.GraphDB.Endpoint, cfg.GraphDB.Timeout(), logger, metrics)
	adapter := graph.NewAdapter(client, logger, metrics)
	gen := generator.New(adapter, logger, metrics)

	configDir := filepath.Dir(configPath)
	scenario := cfg.Eolica.Scenario
	park := cfg.Eolica.ParkName

	var out generatedPaths

	typesPath := generator.TurbineTypesPath(configDir, park)
	if _, err := gen.TurbineTypes(ctx, scenario, park, typesPath); err != nil {
		logger.Error("turbine types generation failed", "error", err)
	} else {
		out.turbineTypes = typesPath
	}

	parkPath := generator.ParkPath(configDir, park)
	if _, err := gen.Park(ctx, scenario, park, parkPath); err != nil {
		logger.Error("park config generation failed", "error", err)
	} else {
		out.park = parkPath
	}

	return out
}
