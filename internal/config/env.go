package config

import "time"

type DBDriver string

const (
	DriverPostgres DBDriver = "postgres"
	DriverSQLite   DBDriver = "sqlite"
)

type Database struct {
	Driver   DBDriver `mapstructure:"DATABASE_DRIVER" default:"postgres"`
	Host     string   `mapstructure:"DATABASE_HOST" default:"localhost"`
	Port     int      `mapstructure:"DATABASE_PORT" default:"5432"`
	Name     string   `mapstructure:"DATABASE_NAME" default:"tracerx"`
	User     string   `mapstructure:"DATABASE_USER" default:"postgres"`
	Password string   `mapstructure:"DATABASE_PASSWORD" default:"tracerx"`
	Path     string   `mapstructure:"DATABASE_PATH" default:"./tracerx.db"`
}

type Redis struct {
	Enable   bool   `mapstructure:"REDIS_ENABLE" default:"false"`
	Host     string `mapstructure:"REDIS_HOST" default:"127.0.0.1"`
	Port     int    `mapstructure:"REDIS_PORT" default:"6379"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB" default:"0"`
}

type Server struct {
	Platform string `mapstructure:"PLATFORM" default:"tracerx"`
	Service  string `mapstructure:"SERVICE" default:"api"`
	Port     int    `mapstructure:"WEB_PORT" default:"3000"`
	Env      string `mapstructure:"ENV" default:"dev"`
}

type Log struct {
	LogPath  string `mapstructure:"LOG_PATH" default:"./info.log"`
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
}

type Trace struct {
	Version        string `mapstructure:"TRACE_VERSION" default:"0.0.1"`
	TraceEndpoint  string `mapstructure:"TRACE_ENDPOINT" default:""`
	MetricEndpoint string `mapstructure:"METRIC_ENDPOINT" default:""`
	Stdout         bool   `mapstructure:"TRACE_STDOUT" default:"false"`
}

type Barcode struct {
	LockKey    string        `mapstructure:"BARCODE_LOCK_KEY" default:"tracerx:barcode:lock"`
	LockTTL    time.Duration `mapstructure:"BARCODE_LOCK_TTL" default:"5s"`
	MaxRetries int           `mapstructure:"BARCODE_MAX_RETRIES" default:"3"`
}

type Catalog struct {
	Path   string `mapstructure:"CATALOG_PATH" default:""`
	Strict bool   `mapstructure:"CATALOG_STRICT" default:"false"`
}

type Notify struct {
	Channel  string `mapstructure:"NOTIFY_CHANNEL" default:"tracerx:notify"`
	PoolSize int    `mapstructure:"NOTIFY_POOL_SIZE" default:"16"`
}
