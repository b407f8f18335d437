package barcode

import (
	"context"
	"errors"
	"sync"
	"time"

	r "github.com/redis/go-redis/v9"

	"github.com/scienceol/tracerx/pkg/common/uuid"
	"github.com/scienceol/tracerx/pkg/middleware/logger"
)

// Locker serializes barcode minting. Lock blocks until the lock is held or
// ctx ends; the returned release func is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context) (release func(), err error)
}

type localLocker struct {
	ch chan struct{}
}

// NewLocalLocker returns a process-local Locker.
func NewLocalLocker() Locker {
	return &localLocker{ch: make(chan struct{}, 1)}
}

func (l *localLocker) Lock(ctx context.Context) (func(), error) {
	select {
	case l.ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-l.ch }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

var releaseScript = r.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ErrLockLost reports that the lock expired and another holder took it
// before release.
var ErrLockLost = errors.New("barcode lock released by another holder")

type redisLocker struct {
	client *r.Client
	key    string
	ttl    time.Duration
	retry  time.Duration
}

// NewRedisLocker returns a Locker shared by every replica using the same key.
// ttl bounds how long a crashed holder can block others.
func NewRedisLocker(client *r.Client, key string, ttl time.Duration) Locker {
	return &redisLocker{
		client: client,
		key:    key,
		ttl:    ttl,
		retry:  25 * time.Millisecond,
	}
}

func (l *redisLocker) Lock(ctx context.Context) (func(), error) {
	token := uuid.NewV4().String()
	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx := context.WithoutCancel(ctx)
			n, err := releaseScript.Run(releaseCtx, l.client, []string{l.key}, token).Int()
			if err != nil {
				logger.Errorf(releaseCtx, "release barcode lock err: %+v", err)
				return
			}
			if n == 0 {
				logger.Warnf(releaseCtx, "release barcode lock: %v", ErrLockLost)
			}
		})
	}, nil
}
