package container

import (
	"fmt"
	"time"
)

// Store backends selectable with --store.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Options is the service configuration. humacli fills it from flags and
// SERVICE_* environment variables.
type Options struct {
	Port          int           `default:"8888"           help:"Port to listen on"                                     short:"p"`
	BaseURL       string        `default:""               help:"Public base URL of short links (default http://localhost:<port>)"`
	Store         string        `default:"redis"          help:"URL store backend: memory, postgres or redis"          short:"s"`
	DatabaseURL   string        `default:""               help:"PostgreSQL connection string"`
	RedisAddr     string        `default:""               help:"Redis server address (required for the redis store)"   short:"r"`
	CacheTTL      time.Duration `default:"1h"             help:"Redis read cache TTL in front of postgres (0 disables)"`
	StoreTimeout  time.Duration `default:"3s"             help:"Timeout for each store call"`
	ExpiredURL    string        `default:"/link-expired"  help:"Redirect target for unknown or expired codes"`
	PublishEvents bool          `default:"false"          help:"Publish link-created events to Redis Streams"`
	LogFormat     string        `default:"console"        help:"Log format: console or json"`
	LogLevel      string        `default:"info"           help:"Log level"`
}

// ShortBaseURL returns the prefix used to build full short URLs.
func (o *Options) ShortBaseURL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}
