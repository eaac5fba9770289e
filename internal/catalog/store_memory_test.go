package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sensorgate/pkg/requestcontext"
)

type CatalogSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func (s *CatalogSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) insertAt(t time.Time, deviceID, text string) string {
	id, err := s.store.Insert(requestcontext.WithTime(s.ctx, t), &Record{
		DeviceID:        deviceID,
		ClientTimestamp: "2026-01-15T10:00:00",
		RawText:         text,
		ImageName:       "scan.png",
	})
	s.Require().NoError(err)
	return id
}

func (s *CatalogSuite) TestInsertAssignsIDAndReceivedAt() {
	at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	id := s.insertAt(at, "dev-A", "Hello world")
	s.NotEmpty(id)

	records, err := s.store.Recent(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(id, records[0].ID)
	s.True(records[0].ReceivedAt.Equal(at), "received_at must be the server-assigned time")
	s.Equal("2026-01-15T10:00:00", records[0].ClientTimestamp)
}

func (s *CatalogSuite) TestRecentOrdersNewestFirst() {
	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	s.insertAt(base, "dev-A", "first")
	s.insertAt(base.Add(2*time.Second), "dev-A", "third")
	s.insertAt(base.Add(time.Second), "dev-A", "second")

	records, err := s.store.Recent(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(records, 3)
	s.Equal("third", records[0].RawText)
	s.Equal("second", records[1].RawText)
	s.Equal("first", records[2].RawText)
}

func (s *CatalogSuite) TestRecentBreaksTimestampTiesByID() {
	// Two records at the identical instant: the later insert wins.
	at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	s.insertAt(at, "dev-A", "earlier insert")
	laterID := s.insertAt(at, "dev-B", "later insert")

	records, err := s.store.Recent(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(laterID, records[0].ID)
	s.Equal("later insert", records[0].RawText)
}

func (s *CatalogSuite) TestRecentRespectsLimit() {
	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.insertAt(base.Add(time.Duration(i)*time.Second), "dev-A", "entry")
	}

	records, err := s.store.Recent(s.ctx, 3)
	s.Require().NoError(err)
	s.Len(records, 3)
}

func (s *CatalogSuite) TestRecentOnEmptyCatalog() {
	records, err := s.store.Recent(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *CatalogSuite) TestRecentWithFewerRecordsThanLimit() {
	s.insertAt(time.Now(), "dev-A", "only one")

	records, err := s.store.Recent(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(records, 1)
}

func (s *CatalogSuite) TestInsertIgnoresCallerAssignedFields() {
	at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	id, err := s.store.Insert(requestcontext.WithTime(s.ctx, at), &Record{
		ID:         "forged",
		ReceivedAt: at.Add(-time.Hour),
		DeviceID:   "dev-A",
		RawText:    "text",
		ImageName:  "scan.png",
	})
	s.Require().NoError(err)
	s.NotEqual("forged", id)

	records, err := s.store.Recent(s.ctx, 1)
	s.Require().NoError(err)
	s.True(records[0].ReceivedAt.Equal(at))
}
