// Package container wires the application graph. Dependencies are built
// lazily, memoized, and torn down together, so main and the tests share one
// composition root.
package container

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ngx/internal/client/handler"
	clientmetrics "ngx/internal/client/metrics"
	"ngx/internal/client/service"
	"ngx/internal/client/store"
	"ngx/internal/events"
	"ngx/internal/platform/config"
	"ngx/internal/platform/logger"
	"ngx/internal/platform/postgres"
	"ngx/internal/platform/redis"
	"ngx/internal/platform/token"
)

// Health statuses reported by HealthCheck.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Health is the aggregate health report.
type Health struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Container owns every long-lived dependency. Getters build on first use and
// memoize; Reset tears everything down so the next getter rebuilds.
type Container struct {
	cfg config.Config

	mu            sync.Mutex
	logger        *slog.Logger
	db            *sql.DB
	redisClient   *redis.Client
	redisProbed   bool
	publisher     events.Publisher
	kafka         *events.Kafka
	clientStore   service.ClientStore
	clientService *service.Service
	clientHandler *handler.Handler
	tokenService  *token.Service
}

// Prometheus collectors register globally and cannot be re-registered, so
// metrics survive Reset.
var (
	metricsOnce sync.Once
	metricsInst *clientmetrics.Metrics
)

// New builds an empty container around the given configuration.
func New(cfg config.Config) *Container {
	return &Container{cfg: cfg}
}

// Config returns the runtime configuration.
func (c *Container) Config() config.Config {
	return c.cfg
}

// Logger returns the process logger.
func (c *Container) Logger() *slog.Logger {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loggerLocked()
}

func (c *Container) loggerLocked() *slog.Logger {
	if c.logger == nil {
		c.logger = logger.New(c.cfg.LogLevel, c.cfg.LogFormat)
	}
	return c.logger
}

// Metrics returns the client-slice Prometheus instruments.
func (c *Container) Metrics() *clientmetrics.Metrics {
	metricsOnce.Do(func() {
		metricsInst = clientmetrics.New()
	})
	return metricsInst
}

// DB returns the PostgreSQL pool, or nil when no database is configured.
func (c *Container) DB(ctx context.Context) (*sql.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil || c.cfg.DatabaseURL == "" {
		return c.db, nil
	}
	db, err := postgres.Open(ctx, c.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	c.db = db
	return c.db, nil
}

// Redis returns the cache client, or nil when caching is not configured.
func (c *Container) Redis(ctx context.Context) (*redis.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.redisProbed {
		return c.redisClient, nil
	}
	client, err := redis.New(ctx, c.cfg.Redis)
	if err != nil {
		return nil, err
	}
	c.redisClient = client
	c.redisProbed = true
	return c.redisClient, nil
}

// Publisher returns the event sink: Kafka when brokers are configured, the
// in-process publisher otherwise.
func (c *Container) Publisher(ctx context.Context) (events.Publisher, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publisherLocked(ctx)
}

func (c *Container) publisherLocked(_ context.Context) (events.Publisher, error) {
	if c.publisher != nil {
		return c.publisher, nil
	}
	if len(c.cfg.Kafka.Brokers) == 0 {
		c.publisher = events.NewMemory()
		return c.publisher, nil
	}
	kafka, err := events.NewKafka(c.cfg.Kafka.Brokers, c.cfg.Kafka.Topic, c.loggerLocked())
	if err != nil {
		return nil, err
	}
	c.kafka = kafka
	c.publisher = kafka
	return c.publisher, nil
}

// ClientStore returns the persistence backend: PostgreSQL when configured,
// in-memory otherwise, wrapped in the Redis cache when one is available.
func (c *Container) ClientStore(ctx context.Context) (service.ClientStore, error) {
	if _, err := c.DB(ctx); err != nil {
		return nil, err
	}
	cache, err := c.Redis(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clientStore != nil {
		return c.clientStore, nil
	}

	var backend service.ClientStore
	if c.db != nil {
		backend = store.NewPostgres(c.db)
	} else {
		backend = store.NewInMemory()
	}
	if cache != nil {
		backend = store.NewCached(backend, cache.Client,
			store.WithTTL(c.cfg.Redis.TTL),
			store.WithCacheLogger(c.loggerLocked()),
		)
	}
	c.clientStore = backend
	return c.clientStore, nil
}

// ClientService returns the client use-case service.
func (c *Container) ClientService(ctx context.Context) (*service.Service, error) {
	st, err := c.ClientStore(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clientService != nil {
		return c.clientService, nil
	}
	pub, err := c.publisherLocked(ctx)
	if err != nil {
		return nil, err
	}
	c.clientService = service.New(st,
		service.WithLogger(c.loggerLocked()),
		service.WithPublisher(pub),
		service.WithMetrics(c.Metrics()),
	)
	return c.clientService, nil
}

// ClientHandler returns the HTTP handler for client endpoints.
func (c *Container) ClientHandler(ctx context.Context) (*handler.Handler, error) {
	svc, err := c.ClientService(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clientHandler == nil {
		c.clientHandler = handler.New(svc, c.loggerLocked())
	}
	return c.clientHandler, nil
}

// TokenService returns the admin JWT service.
func (c *Container) TokenService() *token.Service {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tokenService == nil {
		c.tokenService = token.NewService(c.cfg.AdminJWTKey, "ngx")
	}
	return c.tokenService
}

// HealthCheck probes every configured dependency concurrently. The aggregate
// is healthy when all probes pass and degraded when any probe on a
// constructed dependency fails; unhealthy is reserved for construction
// failures, where the container could not build its graph at all.
func (c *Container) HealthCheck(ctx context.Context) Health {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health := Health{Status: StatusHealthy, Components: map[string]string{}}
	var mu sync.Mutex
	set := func(name, status string) {
		mu.Lock()
		defer mu.Unlock()
		health.Components[name] = status
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if c.cfg.DatabaseURL == "" {
			set("database", "not_configured")
			return nil
		}
		db, err := c.DB(ctx)
		if err != nil {
			set("database", StatusUnhealthy)
			return err
		}
		if err := db.PingContext(ctx); err != nil {
			// The pool exists; losing it afterwards degrades rather than
			// fails the container.
			set("database", StatusUnhealthy)
			return nil
		}
		set("database", StatusHealthy)
		return nil
	})

	g.Go(func() error {
		if c.cfg.Redis.URL == "" {
			set("cache", "not_configured")
			return nil
		}
		client, err := c.Redis(ctx)
		if err == nil && client != nil {
			err = client.Health(ctx)
		}
		if err != nil {
			set("cache", StatusUnhealthy)
		} else {
			set("cache", StatusHealthy)
		}
		// Optional dependency: never fails the group.
		return nil
	})

	g.Go(func() error {
		if len(c.cfg.Kafka.Brokers) == 0 {
			set("events", "not_configured")
			return nil
		}
		_, err := c.Publisher(ctx)
		if err == nil && c.kafka != nil {
			err = c.kafka.Ping(ctx)
		}
		if err != nil {
			set("events", StatusUnhealthy)
		} else {
			set("events", StatusHealthy)
		}
		return nil
	})

	err := g.Wait()
	for _, status := range health.Components {
		if status == StatusUnhealthy {
			health.Status = StatusDegraded
		}
	}
	if err != nil {
		health.Status = StatusUnhealthy
	}
	return health
}

// Reset closes every dependency and clears the memoized graph. The next
// getter rebuilds from configuration. Mainly for tests and full reloads.
func (c *Container) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kafka != nil {
		c.kafka.Close()
	}
	if c.redisClient != nil {
		_ = c.redisClient.Close()
	}
	if c.db != nil {
		_ = c.db.Close()
	}

	c.logger = nil
	c.db = nil
	c.redisClient = nil
	c.redisProbed = false
	c.publisher = nil
	c.kafka = nil
	c.clientStore = nil
	c.clientService = nil
	c.clientHandler = nil
	c.tokenService = nil
}
