//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/adapter/engine"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/adapter/stream"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/config"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/domain"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/observability"
	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/pipeline"
)

const (
	testInputTopic  = "test-wind-speed-forecast"
	testOutputTopic = "test-wind-production-forecast"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-broker Kafka container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster
// controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp",
		net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}), "create topic %s", topic)
}

func testConfig(broker string) *config.Config {
	return &config.Config{
		Eolica: config.EolicaConfig{
			InputStream:  testInputTopic,
			OutputStream: testOutputTopic,
		},
		Stream: config.StreamConfig{
			Brokers: []string{broker},
			GroupID: fmt.Sprintf("test-eolica-%d", time.Now().UnixNano()),
		},
	}
}

func publishDataset(ctx context.Context, t *testing.T, broker string, value []byte, ts time.Time) {
	t.Helper()

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testInputTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{
		Value: value,
		Time:  ts,
	}))
}

// stubEngine answers /simulate with a fixed result, echoing nothing of the
// request beyond recording it.
func stubEngine(t *testing.T, result string) (*httptest.Server, *[][]byte) {
	t.Helper()
	var requests [][]byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		requests = append(requests, body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(result))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

// TestStreamReaderWriter verifies the adapter layer: stream.Reader pulls the
// newest message of the input topic and stream.Writer publishes a result to
// the output topic.
func TestStreamReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testInputTopic)
	createTopic(t, broker, testOutputTopic)

	cfg := testConfig(broker)
	baseDate := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	// Publish two datasets; only the second must be extracted.
	publishDataset(ctx, t, broker, []byte(`{"wind_speed": [1.0]}`), baseDate.Add(-time.Hour))
	publishDataset(ctx, t, broker, []byte(`{"wind_speed": [4.2, 5.1]}`), baseDate)

	reader := stream.NewReader(cfg, discardLogger())

	var dataset domain.WindDataset
	var ok bool
	for {
		var err error
		dataset, ok, err = reader.ExtractLatest(ctx)
		require.NoError(t, err)
		if ok {
			break
		}
		if ctx.Err() != nil {
			t.Fatal("timed out waiting for message on input topic")
		}
		time.Sleep(time.Second)
	}
	assert.Equal(t, json.RawMessage(`[4.2, 5.1]`), dataset.Fields["wind_speed"], "newest message wins")

	// Publish a result and read it back from the output topic.
	writer := stream.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.Load(ctx, domain.SimulationResult{
		"Alkmaar 1": json.RawMessage(`[100, 200]`),
	}))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testOutputTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from output topic")

	var published map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(msg.Value, &published))
	assert.Contains(t, published, "Alkmaar 1")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	require.Contains(t, headers, "produced_at")
	_, err = time.Parse(time.RFC3339, headers["produced_at"])
	assert.NoError(t, err, "produced_at should be valid RFC3339")
}

// TestForecastCycleEndToEnd wires the full cycle (Reader → engine → Writer)
// with real Kafka and a stub simulation engine.
func TestForecastCycleEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testInputTopic)
	createTopic(t, broker, testOutputTopic)

	cfg := testConfig(broker)
	publishDataset(ctx, t, broker,
		[]byte(`{"wind_speed": [4.2, 5.1], "wind_direction": [180, 190]}`),
		time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC))

	engineSrv, engineRequests := stubEngine(t,
		`{"Alkmaar 1": [100, 200], "Alkmaar 2": [90, 180], "total_production": [190, 380]}`)

	reader := stream.NewReader(cfg, discardLogger())
	writer := stream.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	simulator := engine.NewClient(engineSrv.URL, 30*time.Second, "", "", discardLogger())

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, simulator, writer, discardLogger(), metrics)

	// The input message may not be visible immediately after the produce.
	require.Eventually(t, func() bool {
		_, ok, err := reader.ExtractLatest(ctx)
		return err == nil && ok
	}, time.Minute, time.Second, "input message never became readable")

	require.NoError(t, p.RunCycle(ctx))
	assert.NoError(t, p.CheckReadiness(ctx), "a completed cycle makes the service ready")

	// The engine saw the published dataset.
	require.NotEmpty(t, *engineRequests)
	var engineReq struct {
		Dataset map[string]json.RawMessage `json:"dataset"`
	}
	require.NoError(t, json.Unmarshal((*engineRequests)[0], &engineReq))
	assert.Contains(t, engineReq.Dataset, "wind_speed")
	assert.Contains(t, engineReq.Dataset, "wind_direction")

	// The output topic carries the result without the internal aggregate.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testOutputTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from output topic")

	var published map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(msg.Value, &published))
	assert.Contains(t, published, "Alkmaar 1")
	assert.Contains(t, published, "Alkmaar 2")
	assert.NotContains(t, published, "total_production", "internal aggregate must be stripped")
}

// TestEmptyInputStream verifies that a cycle against an empty input topic is
// a clean no-op.
func TestEmptyInputStream(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testInputTopic)
	createTopic(t, broker, testOutputTopic)

	cfg := testConfig(broker)
	engineSrv, engineRequests := stubEngine(t, `{}`)

	reader := stream.NewReader(cfg, discardLogger())
	writer := stream.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	simulator := engine.NewClient(engineSrv.URL, 30*time.Second, "", "", discardLogger())

	p := pipeline.New(reader, simulator, writer, discardLogger(), observability.NewMetricsForTesting())

	require.NoError(t, p.RunCycle(ctx))
	assert.Empty(t, *engineRequests, "nothing to simulate on an empty stream")
	assert.Error(t, p.CheckReadiness(ctx))
}
