package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/scienceol/tracerx/internal/config"
	"github.com/scienceol/tracerx/pkg/core/notify/events"
	"github.com/scienceol/tracerx/pkg/middleware/db"
	"github.com/scienceol/tracerx/pkg/middleware/logger"
	"github.com/scienceol/tracerx/pkg/middleware/redis"
	"github.com/scienceol/tracerx/pkg/middleware/trace"
	"github.com/scienceol/tracerx/pkg/repo/migrate"
	"github.com/scienceol/tracerx/pkg/utils"
	"github.com/scienceol/tracerx/pkg/web"

	_ "github.com/scienceol/tracerx/docs" // swagger docs
)

func NewWeb() *cobra.Command {
	return &cobra.Command{
		Use:          "apiserver",
		Long:         "Start the API server",
		SilenceUsage: true,
		PreRunE:      initWeb,
		RunE:         newRouter,
		PostRunE:     cleanWebResource,
	}
}

func NewMigrate() *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Long:         "Run database migrations",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			InitDB(cmd.Context())
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate.Table(cmd.Context(), db.DB())
		},
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			db.CloseDB(cmd.Context())
			return nil
		},
	}
}

// InitDB opens the global datastore from config.
func InitDB(ctx context.Context) {
	conf := config.Global()
	db.InitDB(ctx, &db.Config{
		Driver:  string(conf.Database.Driver),
		Host:    conf.Database.Host,
		Port:    conf.Database.Port,
		User:    conf.Database.User,
		PW:      conf.Database.Password,
		DBName:  conf.Database.Name,
		Path:    conf.Database.Path,
		LogConf: db.LogConf{Level: conf.Log.LogLevel},
	})
}

func initWeb(cmd *cobra.Command, _ []string) error {
	conf := config.Global()
	trace.InitTrace(cmd.Context(), &trace.InitConfig{
		ServiceName:    fmt.Sprintf("%s-%s", conf.Server.Platform, conf.Server.Service),
		Version:        conf.Trace.Version,
		Env:            conf.Server.Env,
		TraceEndpoint:  conf.Trace.TraceEndpoint,
		MetricEndpoint: conf.Trace.MetricEndpoint,
		Stdout:         conf.Trace.Stdout,
	})
	InitDB(cmd.Context())
	if conf.Database.Driver == config.DriverSQLite {
		// sqlite deployments are single node; keep the schema in step on boot
		if err := migrate.Table(cmd.Context(), db.DB()); err != nil {
			return err
		}
	}
	if conf.Redis.Enable {
		redis.InitRedis(cmd.Context(), &redis.Redis{
			Host:     conf.Redis.Host,
			Port:     conf.Redis.Port,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
	}
	return nil
}

func newRouter(cmd *cobra.Command, _ []string) error {
	if config.Global().Server.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	closeRouter, err := web.NewRouter(cmd.Context(), router)
	if err != nil {
		logger.Errorf(cmd.Context(), "init router err: %+v", err)
		return err
	}
	defer closeRouter()

	port := config.Global().Server.Port
	httpServer := http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       30 * time.Second,
		TLSNextProto:      make(map[string]func(*http.Server, *tls.Conn, http.Handler)),
	}

	fmt.Printf("API Server starting on http://0.0.0.0:%d\n", port)
	utils.SafelyGo(func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf(cmd.Context(), "start server err: %v", err)
			os.Exit(1)
		}
	}, func(err error) {
		logger.Errorf(cmd.Context(), "run http server err: %+v", err)
		os.Exit(1)
	})

	fmt.Printf("Server started. Press Ctrl+C to shutdown.\n")
	<-cmd.Context().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("shut down server err: %+v", err)
	}
	return nil
}

func cleanWebResource(cmd *cobra.Command, _ []string) error {
	ctx := context.WithoutCancel(cmd.Context())
	if err := events.NewEvents().Close(ctx); err != nil {
		logger.Warnf(ctx, "close events err: %+v", err)
	}
	redis.CloseRedis(ctx)
	db.CloseDB(ctx)
	trace.CloseTrace()
	return nil
}
