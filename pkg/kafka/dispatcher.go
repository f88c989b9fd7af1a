package kafka

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"go.uber.org/zap"
)

// Dispatcher is an explicit registration table mapping a topic to its
// handler. A group subscribed to several topics plugs Handle into the
// ConsumerGroup and registers one handler per topic.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   *zap.Logger
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}
}

func (d *Dispatcher) Register(topic string, handler HandlerFunc) {
	d.handlers[topic] = handler
}

func (d *Dispatcher) Topics() []string {
	topics := make([]string, 0, len(d.handlers))
	for topic := range d.handlers {
		topics = append(topics, topic)
	}

	return topics
}

func (d *Dispatcher) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	handler, ok := d.handlers[msg.Topic]
	if !ok {
		mylogger.Warn(ctx, d.logger, "No handler registered for topic", zap.String("topic", msg.Topic))
		return nil
	}

	return handler(ctx, msg)
}
