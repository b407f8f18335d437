package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/scienceol/tracerx/pkg/middleware/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type LogConf struct {
	Level string
}

type Config struct {
	Driver  string
	Host    string
	Port    int
	User    string
	PW      string
	DBName  string
	Path    string
	DSN     string
	LogConf LogConf
}

type Datastore struct {
	db *gorm.DB
}

type txKey struct{}

var datastore *Datastore

// InitDB opens the global datastore and exits the process on failure.
func InitDB(ctx context.Context, conf *Config) {
	ds, err := Open(ctx, conf)
	if err != nil {
		logger.Fatalf(ctx, "init db fail err: %+v", err)
	}
	datastore = ds
}

func Open(ctx context.Context, conf *Config) (*Datastore, error) {
	var dialector gorm.Dialector
	switch conf.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(conf.Path + "?_busy_timeout=5000")
	case DriverPostgres, "":
		dsn := conf.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
				conf.Host, conf.User, conf.PW, conf.DBName, conf.Port)
		}
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown database driver: %s", conf.Driver)
	}

	d, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(conf.LogConf.Level),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", conf.Driver, err)
	}
	if err := d.Use(tracing.NewPlugin()); err != nil {
		return nil, fmt.Errorf("install gorm tracing: %w", err)
	}

	sqlDB, err := d.DB()
	if err != nil {
		return nil, err
	}
	if conf.Driver == DriverSQLite {
		// sqlite allows a single writer; one connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping %s: %w", conf.Driver, err)
	}
	return &Datastore{db: d}, nil
}

func newGormLogger(level string) gormLogger.Interface {
	lv := gormLogger.Warn
	switch strings.ToLower(level) {
	case "debug":
		lv = gormLogger.Info
	case "error":
		lv = gormLogger.Error
	case "silent":
		lv = gormLogger.Silent
	}
	return gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  lv,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func DB() *Datastore {
	return datastore
}

func (d *Datastore) DBIns() *gorm.DB {
	return d.db
}

// DBWithContext returns the transaction bound to ctx by ExecTx, or the base
// handle otherwise.
func (d *Datastore) DBWithContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return d.db.WithContext(ctx)
}

// ExecTx runs fn in a transaction. Nested calls join the outer transaction.
func (d *Datastore) ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (d *Datastore) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func CloseDB(ctx context.Context) {
	if datastore == nil {
		return
	}
	if err := datastore.Close(); err != nil {
		logger.Errorf(ctx, "close db err: %+v", err)
	}
}
