// Command genconfig generates the park and turbine-types YAML artifacts
// from the knowledge graph without starting the forecast service. It reads
// the same config file as the service; graphdb must be enabled there.
//
// Usage:
//
//	go run ./cmd/genconfig -config config.yml \
//	  -types-out eolica-configs/turbine-types/turbinetypes_windpark_alkmaar.yaml \
//	  -park-out eolica-configs/park/park_windpark_alkmaar.yaml
//
// When -types-out / -park-out are omitted the conventional paths next to
// the config file are used. -scenario and -site override the config file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/config"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/generator"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/graph"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/observability"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/sparql"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to config file")
	scenario := flag.String("scenario", "", "scenario name (default: from config)")
	site := flag.String("site", "", "global wind atlas site name (default: eolica.park_name)")
	typesOut := flag.String("types-out", "", "turbine-types artifact path")
	parkOut := flag.String("park-out", "", "park artifact path")
	only := flag.String("only", "", "generate a single artifact: types or park")
	flag.Parse()

	if err := run(*configPath, *scenario, *site, *typesOut, *parkOut, *only); err != nil {
		fmt.Fprintf(os.Stderr, "genconfig: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, scenario, site, typesOut, parkOut, only string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if site == "" {
		site = cfg.Eolica.ParkName
	}
	if scenario == "" {
		scenario = cfg.Eolica.Scenario
	}
	if site != "" {
		// A -site override satisfies the park_name requirement.
		cfg.Eolica.ParkName = site
	}
	if err := cfg.ValidateGeneration(); err != nil {
		return err
	}
	if only != "" && only != "types" && only != "park" {
		return fmt.Errorf("unknown artifact %q (want types or park)", only)
	}

	logger, _, err := observability.NewLogger(observability.LoggerOptions{
		Level:  cfg.Service.LogLevel,
		Format: "text",
	})
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if typesOut == "" {
		typesOut = generator.TurbineTypesPath(configDir, site)
	}
	if parkOut == "" {
		parkOut = generator.ParkPath(configDir, site)
	}

	client := sparql.NewClient(cfg.GraphDB.Endpoint, cfg.GraphDB.Timeout(), logger, nil)
	gen := generator.New(graph.NewAdapter(client, logger, nil), logger, nil)

	ctx := context.Background()

	if only == "" || only == "types" {
		if _, err := gen.TurbineTypes(ctx, scenario, site, typesOut); err != nil {
			return fmt.Errorf("turbine types: %w", err)
		}
		fmt.Println(typesOut)
	}
	if only == "" || only == "park" {
		if _, err := gen.Park(ctx, scenario, site, parkOut); err != nil {
			return fmt.Errorf("park: %w", err)
		}
		fmt.Println(parkOut)
	}
	return nil
}
