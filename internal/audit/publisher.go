// Package audit captures structured audit events from the ingestion path.
// Audit is best-effort by design: a sink failure is logged and counted, never
// propagated into the ingestion result.
package audit

import (
	"context"

	"sensorgate/pkg/requestcontext"
)

// Sink receives emitted events. Implementations: in-memory (tests, dev) and
// Kafka (production fan-out).
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher stamps and forwards audit events to a sink.
type Publisher struct {
	sink Sink
}

func NewPublisher(sink Sink) *Publisher {
	return &Publisher{sink: sink}
}

// Emit forwards one event, defaulting the timestamp to the request time.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	return p.sink.Append(ctx, event)
}
