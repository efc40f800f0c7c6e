package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ngx/internal/client/models"
	"ngx/pkg/domain"
	"ngx/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) newClient(name, email string, programType models.ProgramType, createdAt time.Time) *models.Client {
	addr, err := domain.NewEmail(email)
	s.Require().NoError(err)
	c, err := models.NewClient(name, addr, nil, programType, "", createdAt)
	s.Require().NoError(err)
	return c
}

func (s *MemoryStoreSuite) TestSaveAndLookups() {
	s.Run("saves and finds by id", func() {
		c := s.newClient("Maria Lopez", "maria@example.com", models.ProgramPrime, time.Now().UTC())
		s.Require().NoError(s.store.Save(s.ctx, c))

		found, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(c.Name, found.Name)
		s.Equal(c.Email, found.Email)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(s.ctx, domain.NewClientID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("finds by email", func() {
		c := s.newClient("Jon Snow", "jon@example.com", models.ProgramHybrid, time.Now().UTC())
		s.Require().NoError(s.store.Save(s.ctx, c))

		found, err := s.store.FindByEmail(s.ctx, c.Email)
		s.Require().NoError(err)
		s.Equal(c.ID, found.ID)
	})

	s.Run("save is an idempotent upsert", func() {
		c := s.newClient("Ana Ruiz", "ana@example.com", models.ProgramPrime, time.Now().UTC())
		s.Require().NoError(s.store.Save(s.ctx, c))
		s.Require().NoError(s.store.Save(s.ctx, c))

		n, err := s.store.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(3, n) // two clients from earlier subtests plus this one
	})
}

// Stores hand out clones: mutating a loaded client must not leak into the
// store until it is saved back.
func (s *MemoryStoreSuite) TestNoAliasing() {
	c := s.newClient("Maria Lopez", "maria@example.com", models.ProgramPrime, time.Now().UTC())
	s.Require().NoError(s.store.Save(s.ctx, c))

	loaded, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Require().NoError(loaded.Activate(time.Now().UTC()))

	fresh, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusTrial, fresh.Status, "unsaved mutation must not be visible")
}

func (s *MemoryStoreSuite) TestFiltersAndCounts() {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, spec := range []struct {
		program models.ProgramType
		status  models.ClientStatus
	}{
		{models.ProgramPrime, models.StatusActive},
		{models.ProgramPrime, models.StatusTrial},
		{models.ProgramLongevity, models.StatusActive},
		{models.ProgramHybrid, models.StatusCancelled},
	} {
		c := s.newClient(fmt.Sprintf("Client %02d", i), fmt.Sprintf("client%02d@example.com", i), spec.program, base.Add(time.Duration(i)*time.Hour))
		c.Status = spec.status
		s.Require().NoError(s.store.Save(s.ctx, c))
	}
	page := models.Page{Limit: 10}

	s.Run("by program type", func() {
		clients, err := s.store.FindByProgramType(s.ctx, models.ProgramPrime, page)
		s.Require().NoError(err)
		s.Len(clients, 2)

		n, err := s.store.CountByProgramType(s.ctx, models.ProgramPrime)
		s.Require().NoError(err)
		s.Equal(2, n)
	})

	s.Run("by status", func() {
		clients, err := s.store.FindByStatus(s.ctx, models.StatusActive, page)
		s.Require().NoError(err)
		s.Len(clients, 2)

		n, err := s.store.CountByStatus(s.ctx, models.StatusActive)
		s.Require().NoError(err)
		s.Equal(2, n)
	})

	s.Run("counts agree with find filters", func() {
		clients, err := s.store.FindAll(s.ctx, page)
		s.Require().NoError(err)
		n, err := s.store.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(n, len(clients))
	})
}

func (s *MemoryStoreSuite) TestSearch() {
	now := time.Now().UTC()
	maria := s.newClient("Maria Lopez", "maria@ngx.fit", models.ProgramPrime, now)
	jon := s.newClient("Jon Snow", "jon@example.com", models.ProgramLongevity, now.Add(time.Minute))
	s.Require().NoError(s.store.Save(s.ctx, maria))
	s.Require().NoError(s.store.Save(s.ctx, jon))

	s.Run("matches name case-insensitively", func() {
		results, err := s.store.Search(s.ctx, "maria", models.Page{Limit: 10})
		s.Require().NoError(err)
		s.Require().Len(results, 1)
		s.Equal(maria.ID, results[0].ID)
	})

	s.Run("matches email", func() {
		results, err := s.store.Search(s.ctx, "example.com", models.Page{Limit: 10})
		s.Require().NoError(err)
		s.Len(results, 1)
	})

	s.Run("count matches search predicate", func() {
		n, err := s.store.CountBySearch(s.ctx, "ngx.fit")
		s.Require().NoError(err)
		s.Equal(1, n)
	})
}

// Ordering must be stable across pages for a fixed filter.
func (s *MemoryStoreSuite) TestStablePagination() {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		c := s.newClient(fmt.Sprintf("Client %02d", i), fmt.Sprintf("page%02d@example.com", i), models.ProgramPrime, base.Add(time.Duration(i)*time.Hour))
		s.Require().NoError(s.store.Save(s.ctx, c))
	}

	first, err := s.store.FindAll(s.ctx, models.Page{Limit: 2, Offset: 0})
	s.Require().NoError(err)
	second, err := s.store.FindAll(s.ctx, models.Page{Limit: 2, Offset: 2})
	s.Require().NoError(err)
	third, err := s.store.FindAll(s.ctx, models.Page{Limit: 2, Offset: 4})
	s.Require().NoError(err)

	var names []string
	for _, c := range append(append(first, second...), third...) {
		names = append(names, c.Name)
	}
	s.Equal([]string{"Client 00", "Client 01", "Client 02", "Client 03", "Client 04"}, names)
}

func (s *MemoryStoreSuite) TestDelete() {
	c := s.newClient("Maria Lopez", "maria@example.com", models.ProgramPrime, time.Now().UTC())
	s.Require().NoError(s.store.Save(s.ctx, c))

	deleted, err := s.store.Delete(s.ctx, c.ID)
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.store.Delete(s.ctx, c.ID)
	s.Require().NoError(err)
	s.False(deleted, "deleting an absent client is not an error")

	exists, err := s.store.Exists(s.ctx, c.ID)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *MemoryStoreSuite) TestAnalytics() {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	active := s.newClient("Active One", "a1@example.com", models.ProgramPrime, base)
	active.Status = models.StatusActive
	trial := s.newClient("Trial One", "t1@example.com", models.ProgramPrime, base.Add(30*24*time.Hour))
	longevity := s.newClient("Longevity One", "l1@example.com", models.ProgramLongevity, base.Add(60*24*time.Hour))
	longevity.Status = models.StatusCancelled
	for _, c := range []*models.Client{active, trial, longevity} {
		s.Require().NoError(s.store.Save(s.ctx, c))
	}

	s.Run("unfiltered", func() {
		data, err := s.store.AnalyticsData(s.ctx, models.AnalyticsFilter{})
		s.Require().NoError(err)
		s.Equal(3, data.TotalClients)
		s.Equal(1, data.StatusCounts[models.StatusActive])
		s.Equal(2, data.ProgramCounts[models.ProgramPrime])
		s.InDelta(1.0/3.0, data.ActiveRate, 1e-9)
		s.InDelta(1.0/3.0, data.ChurnRate, 1e-9)
	})

	s.Run("filtered by program", func() {
		prime := models.ProgramPrime
		data, err := s.store.AnalyticsData(s.ctx, models.AnalyticsFilter{ProgramType: &prime})
		s.Require().NoError(err)
		s.Equal(2, data.TotalClients)
	})

	s.Run("filtered by date range", func() {
		start := base.Add(15 * 24 * time.Hour)
		data, err := s.store.AnalyticsData(s.ctx, models.AnalyticsFilter{StartDate: &start})
		s.Require().NoError(err)
		s.Equal(2, data.TotalClients)
	})
}
