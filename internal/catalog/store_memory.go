package catalog

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"sensorgate/pkg/requestcontext"
)

// InMemoryStore keeps records in insertion order with a numeric sequence as
// the native identifier, mirroring the Postgres backend's bigserial.
type InMemoryStore struct {
	mu      sync.RWMutex
	seq     int64
	records []*Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Insert(ctx context.Context, rec *Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	stored := *rec
	stored.ID = strconv.FormatInt(s.seq, 10)
	stored.ReceivedAt = requestcontext.Now(ctx)
	s.records = append(s.records, &stored)
	return stored.ID, nil
}

func (s *InMemoryStore) Recent(_ context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		return []*Record{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sorted := make([]*Record, len(s.records))
	copy(sorted, s.records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].ReceivedAt.Equal(sorted[j].ReceivedAt) {
			return sorted[i].ReceivedAt.After(sorted[j].ReceivedAt)
		}
		return seqOf(sorted[i].ID) > seqOf(sorted[j].ID)
	})

	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	out := make([]*Record, len(sorted))
	for i, rec := range sorted {
		cp := *rec
		out[i] = &cp
	}
	return out, nil
}

func seqOf(id string) int64 {
	n, _ := strconv.ParseInt(id, 10, 64)
	return n
}
