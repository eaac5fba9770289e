//go:build integration

package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sensorgate/internal/catalog"
	"sensorgate/pkg/requestcontext"
	"sensorgate/pkg/testutil/containers"
)

type PostgresCatalogSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *catalog.PostgresStore
}

func TestPostgresCatalogSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresCatalogSuite))
}

func (s *PostgresCatalogSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = catalog.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresCatalogSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "ingested_records"))
}

func (s *PostgresCatalogSuite) insertAt(t time.Time, text, blobID string) string {
	ctx := requestcontext.WithTime(context.Background(), t)
	id, err := s.store.Insert(ctx, &catalog.Record{
		DeviceID:        "dev-A",
		ClientTimestamp: "2026-01-15T10:00:00",
		RawText:         text,
		ImageName:       "scan.png",
		BlobID:          blobID,
	})
	s.Require().NoError(err)
	return id
}

func (s *PostgresCatalogSuite) TestInsertAndRecentOrdering() {
	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	s.insertAt(base, "first", "")
	s.insertAt(base.Add(2*time.Second), "third", "")
	s.insertAt(base.Add(time.Second), "second", "")

	records, err := s.store.Recent(context.Background(), 10)
	s.Require().NoError(err)
	s.Require().Len(records, 3)
	s.Equal("third", records[0].RawText)
	s.Equal("second", records[1].RawText)
	s.Equal("first", records[2].RawText)
}

func (s *PostgresCatalogSuite) TestTimestampTiesBreakByID() {
	at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	s.insertAt(at, "earlier insert", "")
	laterID := s.insertAt(at, "later insert", "")

	records, err := s.store.Recent(context.Background(), 2)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(laterID, records[0].ID)
}

func (s *PostgresCatalogSuite) TestNullBlobRoundTrip() {
	s.insertAt(time.Now().UTC(), "no attachment", "")
	s.insertAt(time.Now().UTC().Add(time.Second), "with attachment", "7f9c38f1-9d62-4b3a-8f27-0f6a3a1ce0aa")

	records, err := s.store.Recent(context.Background(), 2)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.True(records[0].HasBlob())
	s.False(records[1].HasBlob())
}

func (s *PostgresCatalogSuite) TestEmptyCatalog() {
	records, err := s.store.Recent(context.Background(), 10)
	s.Require().NoError(err)
	s.Empty(records)
}
