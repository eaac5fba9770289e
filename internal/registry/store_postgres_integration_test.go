//go:build integration

package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"sensorgate/internal/platform/logger"
	"sensorgate/internal/registry"
	dErrors "sensorgate/pkg/domain-errors"
	"sensorgate/pkg/testutil/containers"
)

type PostgresRegistrySuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *registry.PostgresStore
}

func TestPostgresRegistrySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresRegistrySuite))
}

func (s *PostgresRegistrySuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = registry.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresRegistrySuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "devices"))
	s.Require().NoError(s.postgres.SeedDevice(ctx, "dev-A", true))
	s.Require().NoError(s.postgres.SeedDevice(ctx, "dev-suspended", false))
}

func (s *PostgresRegistrySuite) TestFindActiveDevice() {
	device, err := s.store.FindByID(context.Background(), "dev-A")
	s.Require().NoError(err)
	s.Equal("dev-A", device.ID)
	s.True(device.Active)
}

func (s *PostgresRegistrySuite) TestFindSuspendedDevice() {
	device, err := s.store.FindByID(context.Background(), "dev-suspended")
	s.Require().NoError(err)
	s.False(device.Active)
}

func (s *PostgresRegistrySuite) TestUnknownDeviceDeniedByService() {
	svc := registry.NewService(s.store, logger.New())

	err := svc.Authorize(context.Background(), "dev-unknown")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
