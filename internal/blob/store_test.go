package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"sensorgate/pkg/platform/sentinel"
)

// BlobStoreSuite runs the shared store contract against each backend.
type BlobStoreSuite struct {
	suite.Suite
	newStore func(t *testing.T) Store
	ctx      context.Context
}

func TestInMemoryStore(t *testing.T) {
	suite.Run(t, &BlobStoreSuite{
		newStore: func(*testing.T) Store { return NewInMemoryStore() },
	})
}

func TestFSStore(t *testing.T) {
	suite.Run(t, &BlobStoreSuite{
		newStore: func(t *testing.T) Store {
			store, err := NewFSStore(t.TempDir())
			if err != nil {
				t.Fatalf("create fs store: %v", err)
			}
			return store
		},
	})
}

func (s *BlobStoreSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *BlobStoreSuite) TestPutThenGetRoundTrips() {
	store := s.newStore(s.T())
	content := []byte("spoken text payload")

	blobID, err := store.Put(s.ctx, content, "audio_20260115.wav")
	s.Require().NoError(err)
	s.Require().NotEmpty(blobID)

	b, err := store.Get(s.ctx, blobID)
	s.Require().NoError(err)
	s.Equal(content, b.Content)
	s.Equal("audio_20260115.wav", b.Filename)
	s.Equal(int64(len(content)), b.SizeBytes)
	s.False(b.StoredAt.IsZero())
}

func (s *BlobStoreSuite) TestNoDeduplication() {
	store := s.newStore(s.T())
	content := []byte("identical bytes")

	first, err := store.Put(s.ctx, content, "a.wav")
	s.Require().NoError(err)
	second, err := store.Put(s.ctx, content, "a.wav")
	s.Require().NoError(err)

	s.NotEqual(first, second, "identical content must yield distinct blob ids")

	// Both copies remain independently retrievable.
	b1, err := store.Get(s.ctx, first)
	s.Require().NoError(err)
	b2, err := store.Get(s.ctx, second)
	s.Require().NoError(err)
	s.Equal(b1.Content, b2.Content)
}

func (s *BlobStoreSuite) TestGetUnknownIDIsNotFound() {
	store := s.newStore(s.T())

	_, err := store.Get(s.ctx, "7f9c38f1-9d62-4b3a-8f27-0f6a3a1ce0aa")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *BlobStoreSuite) TestEmptyContentIsStorable() {
	store := s.newStore(s.T())

	blobID, err := store.Put(s.ctx, []byte{}, "empty.wav")
	s.Require().NoError(err)

	b, err := store.Get(s.ctx, blobID)
	s.Require().NoError(err)
	s.Empty(b.Content)
	s.Zero(b.SizeBytes)
}

func TestFSStoreRejectsNonUUIDKeys(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("create fs store: %v", err)
	}

	// Path traversal attempts must read as not-found, never escape the root.
	_, err = store.Get(context.Background(), "../../etc/passwd")
	if err != sentinel.ErrNotFound {
		t.Fatalf("expected ErrNotFound for traversal key, got %v", err)
	}
}
