package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	require.Error(t, err)
}

func TestProducer_PublishEncodesJSON(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "gzip")

	require.NoError(t, p.Publish(context.Background(), "deck.events", []byte("s1"), map[string]int{"slide": 2}))
	require.NoError(t, p.PublishMessage(context.Background(), "deck.logs", "plain"))

	require.Len(t, w.msgs, 2)
	assert.Equal(t, "deck.events", w.msgs[0].Topic)
	assert.Equal(t, []byte("s1"), w.msgs[0].Key)
	var got map[string]int
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, 2, got["slide"])
	assert.Nil(t, w.msgs[1].Key)
	assert.Equal(t, "plain", string(w.msgs[1].Value))
}

func TestProducer_PublishBatch(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "lz4")

	require.NoError(t, p.PublishBatch(context.Background(), "deck.events", nil))
	require.NoError(t, p.PublishBatch(context.Background(), "deck.events", []Message{
		{Key: []byte("a"), Value: []byte(`{"n":1}`)},
		{Key: []byte("b"), Value: struct{ N int }{2}},
	}))
	require.Len(t, w.msgs, 2)
	assert.JSONEq(t, `{"N":2}`, string(w.msgs[1].Value))

	w.err = errors.New("leader not available")
	assert.Error(t, p.PublishBatch(context.Background(), "deck.events", []Message{{Value: "x"}}))
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Snappy, parseCompression("snappy"))
	assert.Equal(t, kafka.Gzip, parseCompression("brotli"))
}

func TestProducerConfig_Writer(t *testing.T) {
	cfg := defaultProducerConfig()
	WithBrokers([]string{"a:9092"})(cfg)
	WithKeyedPartitions(true)(cfg)
	WithBatching(10, 2048, 0)(cfg)
	require.NoError(t, cfg.validate())

	w := cfg.writer()
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.Equal(t, 10, w.BatchSize)
	assert.Equal(t, int64(2048), w.BatchBytes)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
}

func TestProducerConfig_RejectsUnknownCompression(t *testing.T) {
	_, err := NewProducer(WithBrokers([]string{"a:9092"}), WithDelivery(1, 3, "brotli"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brotli")
}
