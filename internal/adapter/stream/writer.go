package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/config"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/domain"
)

// Writer publishes simulation results to the output stream.
// It implements pipeline.ResultLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a producer for the configured output stream.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Stream.Brokers...),
		Topic:        cfg.Eolica.OutputStream,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Load serializes the simulation result and publishes it as one message.
func (w *Writer) Load(ctx context.Context, result domain.SimulationResult) error {
	msg, err := serializeResult(result)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeResult marshals a simulation result into a stream message.
func serializeResult(result domain.SimulationResult) (kafkago.Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize simulation result: %w", err)
	}
	return kafkago.Message{
		Value: data,
		Headers: []kafkago.Header{
			{Key: "produced_at", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}, nil
}
