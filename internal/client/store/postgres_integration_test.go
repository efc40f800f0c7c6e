//go:build integration

package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ngx/internal/client/models"
	"ngx/internal/client/store"
	"ngx/pkg/domain"
	"ngx/pkg/platform/sentinel"
	"ngx/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *store.Postgres
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration suite in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.pg.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateClients(s.ctx))
}

func (s *PostgresStoreSuite) newClient(name, email string, programType models.ProgramType) *models.Client {
	addr, err := domain.NewEmail(email)
	s.Require().NoError(err)
	phone, err := domain.NewPhoneNumber("+1 415 555 0134")
	s.Require().NoError(err)
	c, err := models.NewClient(name, addr, &phone, programType, "", time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	return c
}

func (s *PostgresStoreSuite) TestSaveAndFindRoundTrip() {
	c := s.newClient("Maria Lopez", "maria@example.com", models.ProgramPrime)
	c.SetMetadata("source", "referral", c.CreatedAt)
	s.Require().NoError(s.store.Save(s.ctx, c))

	found, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(c.ID, found.ID)
	s.Equal(c.Name, found.Name)
	s.Equal(c.Email, found.Email)
	s.Require().NotNil(found.Phone)
	s.Equal("+14155550134", found.Phone.String())
	s.Equal(c.ProgramType, found.ProgramType)
	s.Equal(c.Status, found.Status)
	s.Equal("referral", found.Metadata["source"])
	s.WithinDuration(c.CreatedAt, found.CreatedAt, time.Millisecond)

	byEmail, err := s.store.FindByEmail(s.ctx, c.Email)
	s.Require().NoError(err)
	s.Equal(c.ID, byEmail.ID)
}

func (s *PostgresStoreSuite) TestFindMissingReturnsSentinel() {
	_, err := s.store.FindByID(s.ctx, domain.NewClientID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpsertUpdatesInPlace() {
	c := s.newClient("Maria Lopez", "maria@example.com", models.ProgramPrime)
	s.Require().NoError(s.store.Save(s.ctx, c))

	s.Require().NoError(c.Activate(time.Now().UTC()))
	s.Require().NoError(s.store.Save(s.ctx, c))

	found, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusActive, found.Status)

	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *PostgresStoreSuite) TestEmailUniqueIndexBackstop() {
	first := s.newClient("Maria Lopez", "maria@example.com", models.ProgramPrime)
	s.Require().NoError(s.store.Save(s.ctx, first))

	second := s.newClient("Other Maria", "maria@example.com", models.ProgramPrime)
	err := s.store.Save(s.ctx, second)
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestFiltersAndPagination() {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		programType := models.ProgramPrime
		if i >= 3 {
			programType = models.ProgramLongevity
		}
		addr, err := domain.NewEmail(fmt.Sprintf("client%02d@example.com", i))
		s.Require().NoError(err)
		c, err := models.NewClient(fmt.Sprintf("Client %02d", i), addr, nil, programType, "", base.Add(time.Duration(i)*time.Hour))
		s.Require().NoError(err)
		s.Require().NoError(s.store.Save(s.ctx, c))
	}

	prime, err := s.store.FindByProgramType(s.ctx, models.ProgramPrime, models.Page{Limit: 10})
	s.Require().NoError(err)
	s.Len(prime, 3)

	n, err := s.store.CountByProgramType(s.ctx, models.ProgramPrime)
	s.Require().NoError(err)
	s.Equal(3, n)

	trial, err := s.store.CountByStatus(s.ctx, models.StatusTrial)
	s.Require().NoError(err)
	s.Equal(5, trial)

	first, err := s.store.FindAll(s.ctx, models.Page{Limit: 2})
	s.Require().NoError(err)
	second, err := s.store.FindAll(s.ctx, models.Page{Limit: 2, Offset: 2})
	s.Require().NoError(err)
	s.Require().Len(first, 2)
	s.Require().Len(second, 2)
	s.Equal("Client 00", first[0].Name)
	s.Equal("Client 02", second[0].Name)
}

func (s *PostgresStoreSuite) TestSearchEscapesLikeMetacharacters() {
	c := s.newClient("Maria 100% Lopez", "maria@example.com", models.ProgramPrime)
	s.Require().NoError(s.store.Save(s.ctx, c))
	other := s.newClient("Jon Snow", "jon@example.com", models.ProgramPrime)
	s.Require().NoError(s.store.Save(s.ctx, other))

	results, err := s.store.Search(s.ctx, "100%", models.Page{Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(c.ID, results[0].ID)

	n, err := s.store.CountBySearch(s.ctx, "100%")
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *PostgresStoreSuite) TestSearchMatchesNameEmailAndNotes() {
	c := s.newClient("Maria Lopez", "maria@ngx.fit", models.ProgramPrime)
	c.AddNote("prefers morning sessions", c.CreatedAt)
	s.Require().NoError(s.store.Save(s.ctx, c))

	for _, query := range []string{"maria", "NGX.FIT", "morning"} {
		results, err := s.store.Search(s.ctx, query, models.Page{Limit: 10})
		s.Require().NoError(err)
		s.Len(results, 1, "query %q", query)
	}
}

func (s *PostgresStoreSuite) TestDelete() {
	c := s.newClient("Maria Lopez", "maria@example.com", models.ProgramPrime)
	s.Require().NoError(s.store.Save(s.ctx, c))

	deleted, err := s.store.Delete(s.ctx, c.ID)
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.store.Delete(s.ctx, c.ID)
	s.Require().NoError(err)
	s.False(deleted)

	exists, err := s.store.Exists(s.ctx, c.ID)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *PostgresStoreSuite) TestAnalyticsAggregation() {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	specs := []struct {
		status  models.ClientStatus
		program models.ProgramType
		offset  time.Duration
	}{
		{models.StatusActive, models.ProgramPrime, 0},
		{models.StatusTrial, models.ProgramPrime, 24 * time.Hour},
		{models.StatusCancelled, models.ProgramLongevity, 48 * time.Hour},
		{models.StatusActive, models.ProgramHybrid, 72 * time.Hour},
	}
	for i, spec := range specs {
		addr, err := domain.NewEmail(fmt.Sprintf("client%02d@example.com", i))
		s.Require().NoError(err)
		c, err := models.NewClient(fmt.Sprintf("Client %02d", i), addr, nil, spec.program, spec.status, base.Add(spec.offset))
		s.Require().NoError(err)
		s.Require().NoError(s.store.Save(s.ctx, c))
	}

	data, err := s.store.AnalyticsData(s.ctx, models.AnalyticsFilter{})
	s.Require().NoError(err)
	s.Equal(4, data.TotalClients)
	s.Equal(2, data.StatusCounts[models.StatusActive])
	s.Equal(2, data.ProgramCounts[models.ProgramPrime])
	s.InDelta(0.5, data.ActiveRate, 1e-9)
	s.InDelta(0.25, data.ChurnRate, 1e-9)

	start := base.Add(36 * time.Hour)
	filtered, err := s.store.AnalyticsData(s.ctx, models.AnalyticsFilter{StartDate: &start})
	s.Require().NoError(err)
	s.Equal(2, filtered.TotalClients)

	prime := models.ProgramPrime
	byProgram, err := s.store.AnalyticsData(s.ctx, models.AnalyticsFilter{ProgramType: &prime})
	s.Require().NoError(err)
	s.Equal(2, byProgram.TotalClients)
}
