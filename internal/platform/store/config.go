package store

import (
	"time"

	"trendscope/internal/platform/config"
	"trendscope/internal/platform/logger"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string
	PG      PGConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	IdleTimeout    time.Duration
	ConnectRetries int           // ping attempts before Open gives up
	PingTimeout    time.Duration // per attempt
}

// ConfigFrom reads SERVICE_PGSQL_* from c. Postgres is enabled only when a URL is set
func ConfigFrom(c config.Conf, appName string) Config {
	pg := c.Prefix("SERVICE_PGSQL_")
	url := pg.MayString("DBURL", "")
	return Config{
		AppName: appName,
		PG: PGConfig{
			Enabled:        url != "",
			URL:            url,
			MaxConns:       int32(pg.MayInt("MAX_CONNS", 4)),
			LogSQL:         pg.MayBool("LOG_SQL", false),
			SlowQueryMs:    pg.MayInt("SLOW_MS", 200),
			IdleTimeout:    pg.MayDuration("IDLE_TIMEOUT", 5*time.Minute),
			ConnectRetries: pg.MayInt("CONNECT_RETRIES", 6),
			PingTimeout:    pg.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
	}
}

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}
