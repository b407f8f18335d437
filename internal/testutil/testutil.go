package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	r "github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-envconfig"

	"github.com/scienceol/tracerx/pkg/middleware/db"
	"github.com/scienceol/tracerx/pkg/repo/migrate"
	"github.com/scienceol/tracerx/pkg/repo/model"
)

// Env selects external backends for integration runs. Unset values fall
// back to a temporary sqlite file and skip the Redis tests.
type Env struct {
	PostgresDSN string `env:"TEST_POSTGRES_DSN"`
	RedisAddr   string `env:"TEST_REDIS_ADDR"`
}

var (
	envOnce sync.Once
	env     Env
	envErr  error

	// postgres tests share one database and must not interleave.
	pgMu sync.Mutex
)

func LoadEnv(tb testing.TB) Env {
	tb.Helper()
	envOnce.Do(func() {
		envErr = envconfig.Process(context.Background(), &env)
	})
	if envErr != nil {
		tb.Fatalf("failed to read test env: %v", envErr)
	}
	return env
}

// DB returns a migrated, empty datastore closed at the end of the test.
func DB(tb testing.TB) *db.Datastore {
	tb.Helper()
	ctx := context.Background()
	e := LoadEnv(tb)

	conf := &db.Config{
		Driver:  db.DriverSQLite,
		Path:    filepath.Join(tb.TempDir(), "tracerx.db"),
		LogConf: db.LogConf{Level: "silent"},
	}
	if e.PostgresDSN != "" {
		pgMu.Lock()
		tb.Cleanup(pgMu.Unlock)
		conf = &db.Config{
			Driver:  db.DriverPostgres,
			DSN:     e.PostgresDSN,
			LogConf: db.LogConf{Level: "silent"},
		}
	}

	ds, err := db.Open(ctx, conf)
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	if err := migrate.Table(ctx, ds); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	truncate(tb, ds)
	tb.Cleanup(func() {
		if e.PostgresDSN != "" {
			truncate(tb, ds)
		}
		_ = ds.Close()
	})
	return ds
}

func truncate(tb testing.TB, ds *db.Datastore) {
	tb.Helper()
	if err := ds.DBIns().Where("1 = 1").Delete(&model.Sample{}).Error; err != nil {
		tb.Fatalf("failed to clean sample table: %v", err)
	}
}

// Redis connects to TEST_REDIS_ADDR or skips the test.
func Redis(tb testing.TB) *r.Client {
	tb.Helper()
	e := LoadEnv(tb)
	if e.RedisAddr == "" {
		tb.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	client := r.NewClient(&r.Options{Addr: e.RedisAddr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		tb.Fatalf("failed to ping test redis: %v", err)
	}
	tb.Cleanup(func() { _ = client.Close() })
	return client
}
