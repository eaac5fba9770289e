package registry

import (
	"context"
	"sync"

	"sensorgate/pkg/platform/sentinel"
)

// InMemoryStore keeps the device registry in a map. Used in development and
// tests; the administrative seed happens through Put.
type InMemoryStore struct {
	mu      sync.RWMutex
	devices map[string]Device
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{devices: make(map[string]Device)}
}

// Put inserts or replaces a registry entry. This is the out-of-core
// administrative surface; the gate itself never writes.
func (s *InMemoryStore) Put(_ context.Context, device Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[device.ID] = device
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, deviceID string) (*Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if device, ok := s.devices[deviceID]; ok {
		return &device, nil
	}
	return nil, sentinel.ErrNotFound
}
