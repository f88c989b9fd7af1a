// Package correlation carries an opaque trace token from inbound requests
// and events through to every outbound event. The token lives in transport
// metadata (a Kafka record header or an HTTP header) and in the context of
// the in-flight unit of work, never in event payloads.
package correlation

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// HeaderName is the Kafka record header the token travels in.
const HeaderName = "correlationId"

// HTTPHeader is the boundary header honored and echoed by the HTTP surfaces.
const HTTPHeader = "X-Correlation-Id"

type ctxKey struct{}

func Generate() string {
	return uuid.NewString()
}

// NewContext scopes id to ctx so that any event published during the unit of
// work picks the token up without explicit threading.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// FromMessage extracts the token from a consumed record's headers.
func FromMessage(msg *sarama.ConsumerMessage) (string, bool) {
	for _, h := range msg.Headers {
		if h != nil && string(h.Key) == HeaderName && len(h.Value) > 0 {
			return string(h.Value), true
		}
	}

	return "", false
}

// Attach appends the token from ctx to outbound record headers. Events built
// outside a correlated context go out untagged; the consumer side logs that
// as a defect.
func Attach(ctx context.Context, headers []sarama.RecordHeader) []sarama.RecordHeader {
	id, ok := FromContext(ctx)
	if !ok {
		return headers
	}

	return append(headers, sarama.RecordHeader{
		Key:   []byte(HeaderName),
		Value: []byte(id),
	})
}
