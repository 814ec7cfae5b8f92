// Package sparql implements the graph query executor: SPARQL 1.1 SELECT
// over HTTP POST with JSON results, decoded into typed rows.
package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/domain"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/observability"
)

// Row is one result row: the decoded cells in the order of the query's
// projection variables.
type Row []domain.Value

// Client sends SELECT queries to a SPARQL endpoint. It performs no retries;
// transport and query errors propagate to the caller.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a SPARQL client for the given endpoint. Pass nil
// metrics to skip instrumentation.
func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// response mirrors the SPARQL 1.1 JSON results format.
type response struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]binding `json:"bindings"`
	} `json:"results"`
}

// Select executes a SELECT query and returns one row per result binding,
// columns ordered per the query's declared projection variables.
func (c *Client) Select(ctx context.Context, query string) ([]Row, error) {
	start := time.Now()
	rows, err := c.doSelect(ctx, query)
	if c.metrics != nil {
		c.metrics.SparqlDuration.Observe(time.Since(start).Seconds())
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		c.metrics.SparqlQueries.WithLabelValues(outcome).Inc()
	}
	return rows, err
}

func (c *Client) doSelect(ctx context.Context, query string) ([]Row, error) {
	form := url.Values{"query": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sparql request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sparql endpoint error: status %d: %s", resp.StatusCode, body)
	}

	var sr response
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode sparql response: %w", err)
	}

	rows := make([]Row, 0, len(sr.Results.Bindings))
	for _, entry := range sr.Results.Bindings {
		row := make(Row, 0, len(sr.Head.Vars))
		for _, v := range sr.Head.Vars {
			cell, ok := entry[v]
			if !ok {
				return nil, fmt.Errorf("variable %q unbound in result row", v)
			}
			decoded, err := decodeCell(cell)
			if err != nil {
				return nil, fmt.Errorf("variable %q: %w", v, err)
			}
			row = append(row, decoded)
		}
		rows = append(rows, row)
	}

	c.logger.Debug("sparql select completed", "rows", len(rows))
	return rows, nil
}
