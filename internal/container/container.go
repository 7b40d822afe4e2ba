package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shorturl/internal/events"
	"github.com/serroba/shorturl/internal/handlers"
	"github.com/serroba/shorturl/internal/health"
	"github.com/serroba/shorturl/internal/messaging"
	"github.com/serroba/shorturl/internal/middleware"
	"github.com/serroba/shorturl/internal/shortener"
	"github.com/serroba/shorturl/internal/store"
	"go.uber.org/zap"
)

// ErrStoreNotConfigured means the selected backend is missing its connection settings.
var ErrStoreNotConfigured = errors.New("store not configured")

const (
	startupTimeout     = 10 * time.Second
	cacheWarmerGroup   = "cache-warmer"
	postgresDependency = "postgres"
	redisDependency    = "redis"
)

// Postgres owns the connection pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

// Shutdown closes the pool.
func (p *Postgres) Shutdown() error {
	p.Pool.Close()

	return nil
}

// Redis owns the Redis client.
type Redis struct {
	Client *redis.Client
}

// Shutdown closes the client.
func (r *Redis) Shutdown() error {
	return r.Client.Close()
}

// Stores holds the backends the service was wired with. Records and Counter are nil
// when the store could not be configured.
type Stores struct {
	Records shortener.Repository
	Counter shortener.Counter
	Checks  map[string]health.Checker
}

func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		return NewLogger(opts.LogFormat, opts.LogLevel)
	})
}

func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Redis, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("%w: redis address is empty", ErrStoreNotConfigured)
		}

		return &Redis{Client: NewRedisClient(opts.RedisAddr)}, nil
	})
}

// NewRedisClient returns a client whose commands stop at the caller's context deadline
// instead of the driver's own read and write timeouts.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:                  addr,
		ContextTimeoutEnabled: true,
	})
}

func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Postgres, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("%w: database url is empty", ErrStoreNotConfigured)
		}

		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err = pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		applied, err := store.Migrate(ctx, pool)
		if err != nil {
			pool.Close()

			return nil, fmt.Errorf("migrate postgres: %w", err)
		}

		logger.Info("postgres ready", zap.Int("migrations_applied", applied))

		return &Postgres{Pool: pool}, nil
	})
}

// RepositoryPackage selects the URL store. A store that cannot be configured is logged
// and leaves the service running unconfigured rather than failing startup.
func RepositoryPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Stores, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		stores, err := buildStores(i, opts, logger)
		if err != nil {
			logger.Error("url store is not configured, shortening disabled",
				zap.String("store", opts.Store),
				zap.Error(err),
			)

			return &Stores{}, nil
		}

		logger.Info("url store ready", zap.String("store", opts.Store))

		return stores, nil
	})
}

func buildStores(i *do.Injector, opts *Options, logger *zap.Logger) (*Stores, error) {
	switch opts.Store {
	case StoreMemory:
		m := store.NewMemoryStore()

		return &Stores{Records: m, Counter: m}, nil
	case StorePostgres:
		pg, err := do.Invoke[*Postgres](i)
		if err != nil {
			return nil, err
		}

		s := store.NewPostgresStore(pg.Pool)
		stores := &Stores{
			Records: s,
			Counter: s,
			Checks:  map[string]health.Checker{postgresDependency: pg.Pool},
		}

		if opts.CacheTTL > 0 && opts.RedisAddr != "" {
			r := do.MustInvoke[*Redis](i)
			cache := store.NewRecordCache(r.Client, opts.CacheTTL)
			stores.Records = store.NewCachedRepository(s, cache, logger)
			stores.Checks[redisDependency] = health.NewRedisChecker(r.Client)
		}

		return stores, nil
	case StoreRedis:
		r, err := do.Invoke[*Redis](i)
		if err != nil {
			return nil, err
		}

		s := store.NewRedisStore(r.Client)

		return &Stores{
			Records: s,
			Counter: s,
			Checks:  map[string]health.Checker{redisDependency: health.NewRedisChecker(r.Client)},
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown store %q", ErrStoreNotConfigured, opts.Store)
	}
}

func ServicePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		stores := do.MustInvoke[*Stores](i)

		svcOpts := []shortener.Option{
			shortener.WithStoreTimeout(opts.StoreTimeout),
			shortener.WithLogger(logger),
		}

		if opts.PublishEvents {
			group, err := do.Invoke[*messaging.PublisherGroup](i)
			if err != nil {
				logger.Warn("event publishing disabled", zap.Error(err))
			} else {
				publish := messaging.NewPublishFunc[events.LinkCreated](group.Publisher(), events.TopicLinkCreated)
				svcOpts = append(svcOpts, shortener.WithCreatedHook(events.PublishingHook(publish, opts.StoreTimeout, logger)))
			}
		}

		return shortener.NewService(stores.Records, stores.Counter, svcOpts...), nil
	})
}

func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		r, err := do.Invoke[*Redis](i)
		if err != nil {
			return nil, err
		}

		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := messaging.NewRedisStreamPublisher(r.Client, logger)
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// ConsumerGroupPackage wires the consumer that writes newly created links into the
// Redis read cache.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		r, err := do.Invoke[*Redis](i)
		if err != nil {
			return nil, err
		}

		subscriber, err := messaging.NewRedisStreamSubscriber(r.Client, cacheWarmerGroup, logger)
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		warmer := events.NewCacheWarmer(store.NewRecordCache(r.Client, opts.CacheTTL), logger)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer[events.LinkCreated](subscriber, events.TopicLinkCreated, warmer.Handle, logger))

		return group, nil
	})
}

func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		stores := do.MustInvoke[*Stores](i)
		service := do.MustInvoke[*shortener.Service](i)

		handlers.RegisterReservedPaths(router)

		api := humachi.New(router, huma.DefaultConfig("URL Shortener", "1.0.0"))
		api.UseMiddleware(middleware.RequestLogger(logger))

		urlHandler := handlers.NewURLHandler(service, opts.ShortBaseURL(), opts.ExpiredURL, logger)
		handlers.RegisterRoutes(api, urlHandler)
		health.RegisterRoutes(api, health.NewHandler(stores.Checks, service.Configured(), health.WithPingTimeout(opts.StoreTimeout)))

		return api, nil
	})
}
