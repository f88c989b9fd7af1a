package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"github.com/streamcart/order-saga/pkg/correlation"
	"github.com/streamcart/order-saga/pkg/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

type Producer interface {
	Publish(ctx context.Context, topic, key string, message any) error
	Close() error
}

type publishMeta struct {
	key   string
	event string
}

// asyncProducer publishes fire-and-forget: Publish returns once the record
// is handed to the broker client, and delivery failures surface through the
// error drain as log records. The consumption loop is never blocked on an
// outbound ack, which makes the outbound side at-least-once, not
// exactly-once.
type asyncProducer struct {
	producer sarama.AsyncProducer
	logger   *zap.Logger
	wg       sync.WaitGroup
}

func NewProducer(brokers []string, logger *zap.Logger) (Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = false
	config.Producer.Return.Errors = true

	ap, err := sarama.NewAsyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("error creating producer: %w", err)
	}

	p := &asyncProducer{
		producer: ap,
		logger:   logger,
	}

	p.wg.Add(1)
	go p.drainErrors()

	return p, nil
}

func (p *asyncProducer) drainErrors() {
	defer p.wg.Done()

	for perr := range p.producer.Errors() {
		fields := []zap.Field{
			zap.String("topic", perr.Msg.Topic),
			zap.Error(perr.Err),
		}
		if meta, ok := perr.Msg.Metadata.(publishMeta); ok {
			fields = append(fields,
				zap.String("key", meta.key),
				zap.String("event", meta.event),
			)
		}

		p.logger.Error("Failed to publish event", fields...)
	}
}

func (p *asyncProducer) Publish(ctx context.Context, topic, key string, message any) error {
	jsonMsg, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("error marshalling message for topic %s: %w", topic, err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	var headers []sarama.RecordHeader
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(k),
			Value: []byte(v),
		})
	}
	headers = correlation.Attach(ctx, headers)

	meta := publishMeta{key: key}
	if env, ok := message.(domain.Envelope); ok {
		meta.event = env.Event
	}

	msg := &sarama.ProducerMessage{
		Topic:    topic,
		Key:      sarama.StringEncoder(key),
		Value:    sarama.ByteEncoder(jsonMsg),
		Headers:  headers,
		Metadata: meta,
	}

	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *asyncProducer) Close() error {
	err := p.producer.Close()
	p.wg.Wait()
	return err
}
