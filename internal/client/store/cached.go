package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"ngx/internal/client/models"
	"ngx/internal/client/service"
	"ngx/pkg/domain"
)

// DefaultCacheTTL bounds staleness of by-id reads. Writes invalidate
// eagerly, so the TTL only matters for out-of-band mutations.
const DefaultCacheTTL = 5 * time.Minute

// Cached decorates a ClientStore with a Redis TTL cache on by-id reads.
// Save and Delete invalidate; list, search, count, and analytics queries
// pass straight through so they always reflect the store. Cache failures
// degrade to the inner store, never into the caller.
type Cached struct {
	inner  service.ClientStore
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

type CachedOption func(*Cached)

func WithTTL(ttl time.Duration) CachedOption {
	return func(c *Cached) { c.ttl = ttl }
}

func WithCacheLogger(logger *slog.Logger) CachedOption {
	return func(c *Cached) { c.logger = logger }
}

// NewCached wraps inner with a Redis cache.
func NewCached(inner service.ClientStore, cache *redis.Client, opts ...CachedOption) *Cached {
	c := &Cached{inner: inner, cache: cache, ttl: DefaultCacheTTL}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

func cacheKey(id domain.ClientID) string {
	return "ngx:client:" + id.String()
}

func (c *Cached) Save(ctx context.Context, client *models.Client) error {
	if err := c.inner.Save(ctx, client); err != nil {
		return err
	}
	c.invalidate(ctx, client.ID)
	return nil
}

func (c *Cached) FindByID(ctx context.Context, id domain.ClientID) (*models.Client, error) {
	if cached := c.lookup(ctx, id); cached != nil {
		return cached, nil
	}
	client, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, client)
	return client, nil
}

func (c *Cached) Delete(ctx context.Context, id domain.ClientID) (bool, error) {
	deleted, err := c.inner.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		c.invalidate(ctx, id)
	}
	return deleted, nil
}

// Pass-through reads. Email lookups skip the cache: they back uniqueness
// checks, where staleness would let duplicates through.

func (c *Cached) FindByEmail(ctx context.Context, email domain.Email) (*models.Client, error) {
	return c.inner.FindByEmail(ctx, email)
}

func (c *Cached) FindAll(ctx context.Context, page models.Page) ([]*models.Client, error) {
	return c.inner.FindAll(ctx, page)
}

func (c *Cached) FindByStatus(ctx context.Context, status models.ClientStatus, page models.Page) ([]*models.Client, error) {
	return c.inner.FindByStatus(ctx, status, page)
}

func (c *Cached) FindByProgramType(ctx context.Context, programType models.ProgramType, page models.Page) ([]*models.Client, error) {
	return c.inner.FindByProgramType(ctx, programType, page)
}

func (c *Cached) Search(ctx context.Context, query string, page models.Page) ([]*models.Client, error) {
	return c.inner.Search(ctx, query, page)
}

func (c *Cached) Count(ctx context.Context) (int, error) {
	return c.inner.Count(ctx)
}

func (c *Cached) CountByStatus(ctx context.Context, status models.ClientStatus) (int, error) {
	return c.inner.CountByStatus(ctx, status)
}

func (c *Cached) CountByProgramType(ctx context.Context, programType models.ProgramType) (int, error) {
	return c.inner.CountByProgramType(ctx, programType)
}

func (c *Cached) CountBySearch(ctx context.Context, query string) (int, error) {
	return c.inner.CountBySearch(ctx, query)
}

func (c *Cached) Exists(ctx context.Context, id domain.ClientID) (bool, error) {
	return c.inner.Exists(ctx, id)
}

func (c *Cached) ExistsByEmail(ctx context.Context, email domain.Email) (bool, error) {
	return c.inner.ExistsByEmail(ctx, email)
}

func (c *Cached) AnalyticsData(ctx context.Context, filter models.AnalyticsFilter) (*models.AnalyticsData, error) {
	return c.inner.AnalyticsData(ctx, filter)
}

func (c *Cached) lookup(ctx context.Context, id domain.ClientID) *models.Client {
	payload, err := c.cache.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "client cache read failed", "client_id", id, "error", err)
		}
		return nil
	}
	var client models.Client
	if err := json.Unmarshal(payload, &client); err != nil {
		c.logger.WarnContext(ctx, "client cache entry corrupt", "client_id", id, "error", err)
		c.invalidate(ctx, id)
		return nil
	}
	return &client
}

func (c *Cached) fill(ctx context.Context, client *models.Client) {
	payload, err := json.Marshal(client)
	if err != nil {
		c.logger.WarnContext(ctx, "client cache marshal failed", "client_id", client.ID, "error", err)
		return
	}
	if err := c.cache.Set(ctx, cacheKey(client.ID), payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "client cache write failed", "client_id", client.ID, "error", err)
	}
}

func (c *Cached) invalidate(ctx context.Context, id domain.ClientID) {
	if err := c.cache.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.logger.WarnContext(ctx, "client cache invalidation failed", "client_id", id, "error", err)
	}
}
