package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the service configuration, read from a YAML file with
// environment-variable overrides for deployment-specific settings.
type Config struct {
	GraphDB GraphDBConfig `yaml:"graphdb"`
	Eolica  EolicaConfig  `yaml:"eolica"`
	Stream  StreamConfig  `yaml:"stream"`
	Engine  EngineConfig  `yaml:"engine"`
	Service ServiceConfig `yaml:"service"`
}

// GraphDBConfig points at the SPARQL endpoint used for config generation.
// When Enabled is false the service runs entirely from the static config
// files named in EolicaConfig.
type GraphDBConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	TimeoutS int    `yaml:"timeout_s"`
}

// Timeout returns the SPARQL HTTP timeout.
func (g GraphDBConfig) Timeout() time.Duration {
	if g.TimeoutS <= 0 {
		return 30 * time.Second
	}
	return time.Duration(g.TimeoutS) * time.Second
}

// EolicaConfig parametrizes the simulation run: the scenario and park that
// scope the graph queries, the static fallback config files, and the
// forecast stream names.
type EolicaConfig struct {
	Scenario           string `yaml:"scenario"`
	ParkName           string `yaml:"park_name"`
	ConfigPark         string `yaml:"config_park"`
	ConfigTurbineTypes string `yaml:"turbine_types_config"`
	ConfigSimulation   string `yaml:"config_simulation"`
	InputStream        string `yaml:"input_stream"`
	OutputStream       string `yaml:"output_stream"`
}

// StreamConfig locates the forecast stream store.
type StreamConfig struct {
	Brokers []string `yaml:"brokers"`
	GroupID string   `yaml:"group_id"`
}

// EngineConfig locates the external wind-park simulation engine.
type EngineConfig struct {
	Endpoint string `yaml:"endpoint"`
	TimeoutS int    `yaml:"timeout_s"`
}

// Timeout returns the engine HTTP timeout.
func (e EngineConfig) Timeout() time.Duration {
	if e.TimeoutS <= 0 {
		return 120 * time.Second
	}
	return time.Duration(e.TimeoutS) * time.Second
}

// ServiceConfig holds scheduling and observability settings.
type ServiceConfig struct {
	FrequencyS     int    `yaml:"frequency_s"`
	HTTPAddr       string `yaml:"http_addr"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	LogDestination string `yaml:"log_destination"`
	ShutdownS      int    `yaml:"shutdown_timeout_s"`
}

// Frequency returns the forecast cycle interval.
func (s ServiceConfig) Frequency() time.Duration {
	if s.FrequencyS <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(s.FrequencyS) * time.Second
}

// ShutdownTimeout returns the graceful shutdown deadline.
func (s ServiceConfig) ShutdownTimeout() time.Duration {
	if s.ShutdownS <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.ShutdownS) * time.Second
}

// Load reads the YAML config file at path, applies environment overrides,
// and fills in defaults. A .env file next to the working directory is
// honored when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if len(cfg.Stream.Brokers) == 0 {
		return nil, errors.New("stream.brokers is required")
	}
	if cfg.Eolica.InputStream == "" {
		return nil, errors.New("eolica.input_stream is required")
	}
	if cfg.Eolica.OutputStream == "" {
		return nil, errors.New("eolica.output_stream is required")
	}

	return cfg, nil
}

// ValidateGeneration checks the fields required to generate config
// artifacts from the graph database, naming the first missing one.
func (c *Config) ValidateGeneration() error {
	if !c.GraphDB.Enabled {
		return errors.New("graphdb is not enabled in the config file")
	}
	if c.GraphDB.Endpoint == "" {
		return errors.New("graphdb.endpoint not found in config file")
	}
	if c.Eolica.ParkName == "" {
		return errors.New("eolica.park_name not found in config file")
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GRAPHDB_ENDPOINT"); v != "" {
		cfg.GraphDB.Endpoint = v
	}
	if v := os.Getenv("GRAPHDB_ENABLED"); v != "" {
		cfg.GraphDB.Enabled = v == "true"
	}
	if v := os.Getenv("STREAM_BROKERS"); v != "" {
		cfg.Stream.Brokers = splitBrokers(v)
	}
	if v := os.Getenv("ENGINE_ENDPOINT"); v != "" {
		cfg.Engine.Endpoint = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Service.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Service.LogFormat = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Service.HTTPAddr = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Eolica.Scenario == "" {
		cfg.Eolica.Scenario = "BaselineAlkmaar"
	}
	if cfg.Stream.GroupID == "" {
		cfg.Stream.GroupID = "eolica-runtime"
	}
	if cfg.Service.HTTPAddr == "" {
		cfg.Service.HTTPAddr = ":8080"
	}
	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = "info"
	}
	if cfg.Service.LogFormat == "" {
		cfg.Service.LogFormat = "json"
	}
}

func splitBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
