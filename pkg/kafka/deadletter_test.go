package kafka

import (
	"context"
	"sync"
	"testing"

	"github.com/IBM/sarama"
	"github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/pkg/topics"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type publishedMessage struct {
	topic   string
	key     string
	message any
}

type fakeProducer struct {
	mu        sync.Mutex
	published []publishedMessage
	err       error
}

func (f *fakeProducer) Publish(_ context.Context, topic, key string, message any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.published = append(f.published, publishedMessage{topic: topic, key: key, message: message})
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func (f *fakeProducer) messages() []publishedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]publishedMessage, len(f.published))
	copy(out, f.published)
	return out
}

func TestDecodeEnvelope(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"event":"OrderCreated","payload":{"orderId":"o-1"}}`))

	require.NoError(t, err)
	require.Equal(t, domain.EventOrderCreated, env.Event)
	require.JSONEq(t, `{"orderId":"o-1"}`, string(env.Payload))
}

func TestDecodeEnvelope_Malformed(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{"event":`))

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to decode envelope")
}

func TestSendToDeadLetter(t *testing.T) {
	producer := &fakeProducer{}
	msg := &sarama.ConsumerMessage{
		Topic:     topics.Orders,
		Partition: 2,
		Offset:    41,
		Key:       []byte("o-1"),
		Value:     []byte(`not json`),
	}

	_, cause := DecodeEnvelope(msg.Value)
	require.Error(t, cause)

	SendToDeadLetter(context.Background(), producer, zap.NewNop(), msg, cause)

	published := producer.messages()
	require.Len(t, published, 1)
	require.Equal(t, topics.DeadLetter, published[0].topic)
	require.Equal(t, "o-1", published[0].key)

	record, ok := published[0].message.(DeadLetterRecord)
	require.True(t, ok)
	require.Equal(t, topics.Orders, record.SourceTopic)
	require.Equal(t, int32(2), record.Partition)
	require.Equal(t, int64(41), record.Offset)
	require.Equal(t, "not json", record.Payload)
	require.Contains(t, record.Reason, "failed to decode envelope")
	require.False(t, record.FailedAt.IsZero())
}

func TestSendToDeadLetter_PublishFailureDoesNotPanic(t *testing.T) {
	producer := &fakeProducer{err: sarama.ErrOutOfBrokers}
	msg := &sarama.ConsumerMessage{Topic: topics.Orders, Value: []byte(`oops`)}

	_, cause := DecodeEnvelope(msg.Value)
	SendToDeadLetter(context.Background(), producer, zap.NewNop(), msg, cause)

	require.Empty(t, producer.messages())
}
