// Package store provides ClientStore implementations: an in-memory map for
// tests and single-process use, a PostgreSQL store, and a Redis-backed
// caching decorator.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"ngx/internal/client/models"
	"ngx/pkg/domain"
	"ngx/pkg/platform/sentinel"
)

// InMemory implements service.ClientStore with a mutex-guarded map. It is
// the canonical test double: it satisfies the full contract, including
// stable ordering (created_at, then id) and last-write-wins saves.
type InMemory struct {
	mu      sync.RWMutex
	clients map[domain.ClientID]*models.Client
}

func NewInMemory() *InMemory {
	return &InMemory{clients: make(map[domain.ClientID]*models.Client)}
}

func (s *InMemory) Save(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client.ID] = client.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.ClientID) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	client, ok := s.clients[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return client.Clone(), nil
}

func (s *InMemory) FindByEmail(_ context.Context, email domain.Email) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, client := range s.clients {
		if client.Email == email {
			return client.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindAll(_ context.Context, page models.Page) ([]*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(s.sorted(func(*models.Client) bool { return true }), page), nil
}

func (s *InMemory) FindByStatus(_ context.Context, status models.ClientStatus, page models.Page) ([]*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(s.sorted(func(c *models.Client) bool { return c.Status == status }), page), nil
}

func (s *InMemory) FindByProgramType(_ context.Context, programType models.ProgramType, page models.Page) ([]*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(s.sorted(func(c *models.Client) bool { return c.ProgramType == programType }), page), nil
}

func (s *InMemory) Search(_ context.Context, query string, page models.Page) ([]*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(s.sorted(matchesQuery(query)), page), nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients), nil
}

func (s *InMemory) CountByStatus(_ context.Context, status models.ClientStatus) (int, error) {
	return s.countWhere(func(c *models.Client) bool { return c.Status == status }), nil
}

func (s *InMemory) CountByProgramType(_ context.Context, programType models.ProgramType) (int, error) {
	return s.countWhere(func(c *models.Client) bool { return c.ProgramType == programType }), nil
}

func (s *InMemory) CountBySearch(_ context.Context, query string) (int, error) {
	return s.countWhere(matchesQuery(query)), nil
}

func (s *InMemory) Exists(_ context.Context, id domain.ClientID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.clients[id]
	return ok, nil
}

func (s *InMemory) ExistsByEmail(_ context.Context, email domain.Email) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, client := range s.clients {
		if client.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemory) Delete(_ context.Context, id domain.ClientID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[id]; !ok {
		return false, nil
	}
	delete(s.clients, id)
	return true, nil
}

func (s *InMemory) AnalyticsData(_ context.Context, filter models.AnalyticsFilter) (*models.AnalyticsData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []*models.Client
	for _, client := range s.clients {
		if filter.Matches(client) {
			matched = append(matched, client)
		}
	}
	return models.ComputeAnalytics(matched), nil
}

// sorted returns matching clients ordered by created_at, then id, so paging
// over a fixed filter is stable.
func (s *InMemory) sorted(match func(*models.Client) bool) []*models.Client {
	var out []*models.Client
	for _, client := range s.clients {
		if match(client) {
			out = append(out, client.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (s *InMemory) countWhere(match func(*models.Client) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, client := range s.clients {
		if match(client) {
			n++
		}
	}
	return n
}

func matchesQuery(query string) func(*models.Client) bool {
	q := strings.ToLower(query)
	return func(c *models.Client) bool {
		return strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(c.Email.String(), q) ||
			strings.Contains(strings.ToLower(c.Notes), q)
	}
}

func paginate(clients []*models.Client, page models.Page) []*models.Client {
	if page.Offset >= len(clients) {
		return nil
	}
	clients = clients[page.Offset:]
	if page.Limit > 0 && page.Limit < len(clients) {
		clients = clients[:page.Limit]
	}
	return clients
}
