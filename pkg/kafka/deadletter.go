package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/pkg/topics"
	"go.uber.org/zap"
)

const decodeAttempts = 3

// DeadLetterRecord wraps a structurally undecodable message for the
// dead-letter topic. Payload is the raw record value, kept verbatim so the
// original bytes survive for inspection.
type DeadLetterRecord struct {
	SourceTopic string    `json:"sourceTopic"`
	Partition   int32     `json:"partition"`
	Offset      int64     `json:"offset"`
	Reason      string    `json:"reason"`
	Payload     string    `json:"payload"`
	FailedAt    time.Time `json:"failedAt"`
}

// DecodeEnvelope decodes a record value into the event envelope, retrying a
// bounded number of times before giving up. Callers route the failure to the
// dead-letter topic; a decode failure never crashes the consumer.
func DecodeEnvelope(value []byte) (domain.Envelope, error) {
	var env domain.Envelope
	var err error

	for i := 0; i < decodeAttempts; i++ {
		if err = json.Unmarshal(value, &env); err == nil {
			return env, nil
		}
	}

	return domain.Envelope{}, fmt.Errorf("failed to decode envelope after %d attempts: %w", decodeAttempts, err)
}

// SendToDeadLetter routes a poisoned record to the dead-letter topic. The
// inbound record is acknowledged either way: losing the dead-letter copy on
// a publish failure is accepted over blocking the pipeline.
func SendToDeadLetter(ctx context.Context, producer Producer, logger *zap.Logger, msg *sarama.ConsumerMessage, cause error) {
	record := DeadLetterRecord{
		SourceTopic: msg.Topic,
		Partition:   msg.Partition,
		Offset:      msg.Offset,
		Reason:      cause.Error(),
		Payload:     string(msg.Value),
		FailedAt:    time.Now(),
	}

	mylogger.Warn(
		ctx,
		logger,
		"Routing undecodable message to dead letter topic",
		zap.String("topic", msg.Topic),
		zap.Int32("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
		zap.Error(cause),
	)

	if err := producer.Publish(ctx, topics.DeadLetter, string(msg.Key), record); err != nil {
		mylogger.Error(
			ctx,
			logger,
			"Failed to publish to dead letter topic",
			zap.String("source_topic", msg.Topic),
			zap.Error(err),
		)
	}
}
