package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensorgate/pkg/requestcontext"
)

func TestPublisherStampsTimestamp(t *testing.T) {
	sink := NewInMemorySink()
	pub := NewPublisher(sink)

	at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), at)

	err := pub.Emit(ctx, Event{
		DeviceID: "dev-A",
		Action:   string(EventRecordIngested),
		RecordID: "42",
	})
	require.NoError(t, err)

	events := sink.ListByDevice(ctx, "dev-A")
	require.Len(t, events, 1)
	assert.Equal(t, string(EventRecordIngested), events[0].Action)
	assert.True(t, events[0].Timestamp.Equal(at))
}

func TestPublisherKeepsExplicitTimestamp(t *testing.T) {
	sink := NewInMemorySink()
	pub := NewPublisher(sink)

	at := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	err := pub.Emit(context.Background(), Event{
		Timestamp: at,
		DeviceID:  "dev-A",
		Action:    string(EventIngestDenied),
		Reason:    "device inactive",
	})
	require.NoError(t, err)

	events := sink.ListByDevice(context.Background(), "dev-A")
	require.Len(t, events, 1)
	assert.True(t, events[0].Timestamp.Equal(at))
}

func TestPublisherCarriesRequestID(t *testing.T) {
	sink := NewInMemorySink()
	pub := NewPublisher(sink)

	ctx := requestcontext.WithRequestID(context.Background(), "req-123")
	require.NoError(t, pub.Emit(ctx, Event{DeviceID: "dev-A", Action: string(EventRecordIngested)}))

	events := sink.ListByDevice(ctx, "dev-A")
	require.Len(t, events, 1)
	assert.Equal(t, "req-123", events[0].RequestID)
}
