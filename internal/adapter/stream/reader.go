// Package stream adapts the forecast stream store (Kafka topics) to the
// pipeline's extractor and loader interfaces.
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

const readTimeout = 10 * time.Second

// Reader fetches the newest message from the input stream. The input
// stream is a single-partition topic written by the upstream forecast job;
// only the most recent dataset is ever simulated, older messages are
// deliberately skipped.
type Reader struct {
	broker string
	topic  string
	logger *slog.Logger

	// dial is swapped in tests.
	dial func(ctx context.Context, network, address, topic string, partition int) (conn, error)
}

// conn is the subset of kafka-go's partition connection the reader uses.
type conn interface {
	ReadLastOffset() (int64, error)
	Seek(offset int64, whence int) (int64, error)
	SetReadDeadline(t time.Time) error
	ReadMessage(maxBytes int) (kafkago.Message, error)
	Close() error
}

// NewReader creates a Reader for the configured input stream.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	return &Reader{
		broker: cfg.Stream.Brokers[0],
		topic:  cfg.Eolica.InputStream,
		logger: logger,
		dial: func(ctx context.Context, network, address, topic string, partition int) (conn, error) {
			return kafkago.DialLeader(ctx, network, address, topic, partition)
		},
	}
}

// ExtractLatest reads the last message of the input stream and parses it
// as a wind dataset. ok is false when the stream holds no messages.
func (r *Reader) ExtractLatest(ctx context.Context) (domain.WindDataset, bool, error) {
	c, err := r.dial(ctx, "tcp", r.broker, r.topic, 0)
	if err != nil {
		return domain.WindDataset{}, false, fmt.Errorf("dial input stream: %w", err)
	}
	defer c.Close()

	last, err := c.ReadLastOffset()
	if err != nil {
		return domain.WindDataset{}, false, fmt.Errorf("read last offset: %w", err)
	}
	if last == 0 {
		return domain.WindDataset{}, false, nil
	}

	if _, err := c.Seek(last-1, kafkago.SeekAbsolute); err != nil {
		return domain.WindDataset{}, false, fmt.Errorf("seek to latest message: %w", err)
	}

	deadline := time.Now().Add(readTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.SetReadDeadline(deadline); err != nil {
		return domain.WindDataset{}, false, fmt.Errorf("set read deadline: %w", err)
	}

	msg, err := c.ReadMessage(10e6)
	if err != nil {
		return domain.WindDataset{}, false, fmt.Errorf("read latest message: %w", err)
	}

	dataset, err := parseDataset(msg)
	if err != nil {
		return domain.WindDataset{}, false, err
	}

	r.logger.Debug("latest forecast message read", "offset", msg.Offset, "timestamp", msg.Time)
	return dataset, true, nil
}

// parseDataset deserializes a stream message into a wind dataset. The
// message value is a JSON object mapping field names to JSON-encoded
// values, as published by the upstream forecast job.
func parseDataset(msg kafkago.Message) (domain.WindDataset, error) {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(msg.Value, &fields); err != nil {
		return domain.WindDataset{}, fmt.Errorf("parse forecast message: %w", err)
	}
	return domain.WindDataset{Fields: fields, Timestamp: msg.Time}, nil
}
