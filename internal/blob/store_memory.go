package blob

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"sensorgate/pkg/platform/sentinel"
	"sensorgate/pkg/requestcontext"
)

// InMemoryStore keeps blobs in a map. Development and test use.
type InMemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]Blob
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{blobs: make(map[string]Blob)}
}

func (s *InMemoryStore) Put(ctx context.Context, content []byte, filename string) (string, error) {
	blobID := uuid.NewString()

	// Copy so later caller mutations can't reach stored state.
	stored := make([]byte, len(content))
	copy(stored, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[blobID] = Blob{
		ID:        blobID,
		Content:   stored,
		Filename:  filename,
		SizeBytes: int64(len(stored)),
		StoredAt:  requestcontext.Now(ctx),
	}
	return blobID, nil
}

func (s *InMemoryStore) Get(_ context.Context, blobID string) (*Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.blobs[blobID]; ok {
		return &b, nil
	}
	return nil, sentinel.ErrNotFound
}

// Len reports the number of stored blobs. Test helper for orphan assertions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
