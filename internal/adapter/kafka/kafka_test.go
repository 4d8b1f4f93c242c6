package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/navaid-service/internal/domain"
)

func TestMapMessageToRawMessage(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("req-1"),
		Value:     []byte(`{"kind":"navaid","code":"SEA270005"}`),
		Topic:     "navaid-requests",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("dispatch")},
		},
	}

	raw := mapMessageToRawMessage(msg)

	assert.Equal(t, []byte("req-1"), raw.Key)
	assert.JSONEq(t, `{"kind":"navaid","code":"SEA270005"}`, string(raw.Value))
	assert.Equal(t, "navaid-requests", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "dispatch", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func TestToKafkaMessage(t *testing.T) {
	resolvedAt := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC).Format(time.RFC3339)
	out := domain.OutputMessage{
		Key:   []byte("req-1"),
		Value: []byte(`{"reference":"SEA"}`),
		Headers: map[string]string{
			"resolved_at": resolvedAt,
			"kind":        "navaid",
		},
	}

	msg := toKafkaMessage(out)

	assert.Equal(t, []byte("req-1"), msg.Key)
	assert.Equal(t, `{"reference":"SEA"}`, string(msg.Value))
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "kind", msg.Headers[0].Key)
	assert.Equal(t, []byte("navaid"), msg.Headers[0].Value)
	assert.Equal(t, "resolved_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(resolvedAt), msg.Headers[1].Value)
}

func TestToKafkaMessage_NoHeaders(t *testing.T) {
	msg := toKafkaMessage(domain.OutputMessage{Key: []byte("k"), Value: []byte("{}")})
	assert.Empty(t, msg.Headers)
}
