package health

import (
	"context"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
)

// DefaultPingTimeout bounds each dependency ping.
const DefaultPingTimeout = 2 * time.Second

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	Healthy        = "healthy"
	Unhealthy      = "unhealthy"
)

// Checker defines the interface for checking service health.
// *pgxpool.Pool satisfies it directly.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Handler handles health check operations.
type Handler struct {
	checks      map[string]Checker
	configured  bool
	pingTimeout time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

// WithPingTimeout overrides DefaultPingTimeout.
func WithPingTimeout(timeout time.Duration) Option {
	return func(h *Handler) {
		if timeout > 0 {
			h.pingTimeout = timeout
		}
	}
}

// NewHandler creates a new health handler. configured reports whether the URL store
// was wired at startup; an unconfigured service is always degraded.
func NewHandler(checks map[string]Checker, configured bool, opts ...Option) *Handler {
	h := &Handler{
		checks:      checks,
		configured:  configured,
		pingTimeout: DefaultPingTimeout,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status       string            `json:"status"`
		Store        string            `json:"store"`
		Dependencies map[string]string `json:"dependencies"`
	}
}

// Check performs a health check of the application and its dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = StatusOK
	resp.Body.Store = "configured"
	resp.Body.Dependencies = make(map[string]string, len(h.checks))

	if !h.configured {
		resp.Body.Store = "unconfigured"
		resp.Body.Status = StatusDegraded
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if err := h.ping(ctx, h.checks[name]); err != nil {
			resp.Body.Dependencies[name] = Unhealthy
			resp.Body.Status = StatusDegraded

			continue
		}

		resp.Body.Dependencies[name] = Healthy
	}

	return resp, nil
}

func (h *Handler) ping(ctx context.Context, checker Checker) error {
	ctx, cancel := context.WithTimeout(ctx, h.pingTimeout)
	defer cancel()

	return checker.Ping(ctx)
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}
