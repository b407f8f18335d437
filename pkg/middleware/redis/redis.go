package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/extra/rediscmd/v9"
	r "github.com/redis/go-redis/v9"

	"github.com/scienceol/tracerx/pkg/middleware/logger"
)

type Redis struct {
	Host     string
	Port     int
	Password string
	DB       int
}

const slowCommand = 100 * time.Millisecond

var redisClient *r.Client

func InitRedis(ctx context.Context, conf *Redis) {
	var err error
	redisClient, err = initRedis(ctx, conf)
	if err != nil {
		logger.Fatalf(ctx, "init redis fail err: %+v", err)
	}
}

func initRedis(ctx context.Context, conf *Redis) (*r.Client, error) {
	client := r.NewClient(&r.Options{
		Addr:     fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Password: conf.Password,
		DB:       conf.DB,
	})
	client.AddHook(&logHook{})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func CloseRedis(_ context.Context) {
	if redisClient != nil {
		redisClient.Close()
	}
}

// GetClient returns nil when redis is disabled.
func GetClient() *r.Client {
	return redisClient
}

// logHook reports failed and slow commands.
type logHook struct{}

func (logHook) DialHook(next r.DialHook) r.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (logHook) ProcessHook(next r.ProcessHook) r.ProcessHook {
	return func(ctx context.Context, cmd r.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		cost := time.Since(start)
		if err != nil && err != r.Nil {
			logger.Errorf(ctx, "redis cmd: %s err: %+v", rediscmd.CmdString(cmd), err)
		} else if cost > slowCommand {
			logger.Warnf(ctx, "redis slow cmd: %s cost: %s", rediscmd.CmdString(cmd), cost)
		}
		return err
	}
}

func (logHook) ProcessPipelineHook(next r.ProcessPipelineHook) r.ProcessPipelineHook {
	return func(ctx context.Context, cmds []r.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && err != r.Nil {
			for _, cmd := range cmds {
				if cmd.Err() != nil {
					logger.Errorf(ctx, "redis pipeline cmd: %s err: %+v", rediscmd.CmdString(cmd), cmd.Err())
				}
			}
		}
		return err
	}
}
