// Package engine reaches the external wind-park simulation engine over
// HTTP. The simulation physics lives entirely on the other side of this
// boundary.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/domain"
)

// Client implements domain.Simulator against the engine's HTTP API. The
// engine reads the park and simulation config artifacts from a volume
// shared with this service, so only their paths go over the wire.
type Client struct {
	baseURL          string
	parkConfig       string
	simulationConfig string
	httpClient       *http.Client
	logger           *slog.Logger
}

// NewClient creates an engine client bound to the given config artifacts.
func NewClient(baseURL string, timeout time.Duration, parkConfig, simulationConfig string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:          baseURL,
		parkConfig:       parkConfig,
		simulationConfig: simulationConfig,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// simulateRequest is the engine's wire format: the dataset fields as
// published on the input stream, the message timestamp, and the config
// artifact paths the engine simulates against.
type simulateRequest struct {
	Dataset          map[string]json.RawMessage `json:"dataset"`
	Timestamp        time.Time                  `json:"timestamp"`
	ParkConfig       string                     `json:"park_config,omitempty"`
	SimulationConfig string                     `json:"simulation_config,omitempty"`
}

// SimulateWindTimeseries submits the dataset and returns the simulated
// production series keyed by field name.
func (c *Client) SimulateWindTimeseries(ctx context.Context, dataset domain.WindDataset) (domain.SimulationResult, error) {
	body, err := json.Marshal(simulateRequest{
		Dataset:          dataset.Fields,
		Timestamp:        dataset.Timestamp,
		ParkConfig:       c.parkConfig,
		SimulationConfig: c.simulationConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("serialize simulation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/simulate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("simulation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("engine error: status %d: %s", resp.StatusCode, respBody)
	}

	var result domain.SimulationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode simulation result: %w", err)
	}

	c.logger.Debug("simulation completed", "fields", len(result))
	return result, nil
}
