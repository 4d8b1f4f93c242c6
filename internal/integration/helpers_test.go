//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/navaid-service/internal/nasr/nasrtest"
	"github.com/couchcryptid/navaid-service/internal/registry"
	"github.com/couchcryptid/navaid-service/internal/resolve"
)

const kafkaImage = "confluentinc/confluent-local:7.6.1"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node KRaft broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := kafka.Run(ctx, kafkaImage, kafka.WithClusterID("navaid-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// newResolver builds a resolver over the Seattle-area sample registry.
func newResolver(t *testing.T) *resolve.Resolver {
	t.Helper()
	apt, nav, fix := nasrtest.SampleFiles()
	r, err := registry.Build(registry.Sources{
		Airports: strings.NewReader(apt),
		Navaids:  strings.NewReader(nav),
		Fixes:    strings.NewReader(fix),
	})
	require.NoError(t, err)
	store := registry.NewStore()
	store.Replace(r)
	return resolve.New(store)
}
