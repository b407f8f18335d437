package logger

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ServiceEnv struct {
	Platform string
	Service  string
	Env      string
}

type LogConfig struct {
	Path     string
	LogLevel string
	ServiceEnv
}

var (
	base  = zap.NewNop()
	sugar = otelzap.New(base).Sugar()
)

// Init replaces the package logger. Until it is called every log call is a
// no-op, which keeps tests quiet.
func Init(conf *LogConfig) {
	level, err := zapcore.ParseLevel(conf.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.TimeKey = "time"

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), level),
	}
	if conf.Path != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   conf.Path,
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileWriter, level))
	}

	base = zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.Fields(
			zap.String("platform", conf.Platform),
			zap.String("service", conf.Service),
			zap.String("env", conf.Env),
		),
	)
	sugar = otelzap.New(base, otelzap.WithMinLevel(level)).Sugar()
}

func Close() {
	_ = sugar.Sync()
	_ = base.Sync()
}

func Debugf(ctx context.Context, format string, args ...any) {
	sugar.Ctx(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...any) {
	sugar.Ctx(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...any) {
	sugar.Ctx(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	sugar.Ctx(ctx).Errorf(format, args...)
}

func Fatalf(ctx context.Context, format string, args ...any) {
	sugar.Ctx(ctx).Fatalf(format, args...)
}

// LogWithWriter logs one line per request once the handler chain returns.
func LogWithWriter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path
		if raw := ctx.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}
		ctx.Next()

		status := ctx.Writer.Status()
		latency := time.Since(start)
		switch {
		case status >= 500:
			Errorf(ctx, "%s %s %d %s %s", ctx.Request.Method, path, status, latency, ctx.ClientIP())
		case status >= 400:
			Warnf(ctx, "%s %s %d %s %s", ctx.Request.Method, path, status, latency, ctx.ClientIP())
		default:
			Infof(ctx, "%s %s %d %s %s", ctx.Request.Method, path, status, latency, ctx.ClientIP())
		}
	}
}
