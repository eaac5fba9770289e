package audit

import (
	"context"
	"sync"
)

// InMemorySink buffers events in memory. Used in tests and when no broker is
// configured.
type InMemorySink struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemorySink() *InMemorySink {
	return &InMemorySink{}
}

func (s *InMemorySink) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListByDevice returns buffered events for one device, oldest first.
func (s *InMemorySink) ListByDevice(_ context.Context, deviceID string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.DeviceID == deviceID {
			out = append(out, e)
		}
	}
	return out
}
