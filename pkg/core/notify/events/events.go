package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/panjf2000/ants/v2"
	r "github.com/redis/go-redis/v9"

	"github.com/scienceol/tracerx/internal/config"
	"github.com/scienceol/tracerx/pkg/common/code"
	"github.com/scienceol/tracerx/pkg/common/uuid"
	"github.com/scienceol/tracerx/pkg/core/notify"
	"github.com/scienceol/tracerx/pkg/middleware/logger"
	"github.com/scienceol/tracerx/pkg/middleware/redis"
	"github.com/scienceol/tracerx/pkg/utils"
)

// Events fans messages out to registered handlers. With a redis client the
// messages travel over pub/sub so every replica sees them; without one they
// stay in process.
type Events struct {
	handlers *haxmap.Map[notify.Action, notify.HandleFunc]
	subs     *haxmap.Map[notify.Action, *r.PubSub]
	client   *r.Client
	prefix   string
	pool     *ants.Pool
	wait     sync.WaitGroup
	closeCh  chan struct{}
	closed   sync.Once
}

type Config struct {
	Client   *r.Client
	Channel  string
	PoolSize int
}

var (
	once   sync.Once
	center *Events
)

// NewEvents returns the process-wide center built from the global config.
func NewEvents() notify.MsgCenter {
	once.Do(func() {
		conf := config.Global().Notify
		center = New(&Config{
			Client:   redis.GetClient(),
			Channel:  conf.Channel,
			PoolSize: conf.PoolSize,
		})
	})
	return center
}

func New(conf *Config) *Events {
	size := conf.PoolSize
	if size <= 0 {
		size = ants.DefaultAntsPoolSize
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		pool, _ = ants.NewPool(ants.DefaultAntsPoolSize)
	}
	return &Events{
		handlers: haxmap.New[notify.Action, notify.HandleFunc](),
		subs:     haxmap.New[notify.Action, *r.PubSub](),
		client:   conf.Client,
		prefix:   conf.Channel,
		pool:     pool,
		closeCh:  make(chan struct{}),
	}
}

func (e *Events) channel(action notify.Action) string {
	if e.prefix == "" {
		return string(action)
	}
	return e.prefix + ":" + string(action)
}

func (e *Events) Registry(ctx context.Context, msgName notify.Action, handleFunc notify.HandleFunc) error {
	select {
	case <-e.closeCh:
		return code.NotifyClosedErr
	default:
	}
	if _, loaded := e.handlers.GetOrSet(msgName, handleFunc); loaded {
		return code.NotifyActionAlreadyRegistryErr.WithMsg(string(msgName))
	}
	if e.client == nil {
		return nil
	}

	sub := e.client.Subscribe(ctx, e.channel(msgName))
	if _, err := sub.Receive(ctx); err != nil {
		e.handlers.Del(msgName)
		_ = sub.Close()
		return code.NotifySendMsgErr.WithErr(err)
	}
	e.subs.Set(msgName, sub)

	e.wait.Add(1)
	utils.SafelyGo(func() {
		defer e.wait.Done()
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					logger.Infof(ctx, "exit redis channel name: %s", msgName)
					return
				}
				if msg == nil {
					continue
				}
				e.dispatch(ctx, msgName, msg.Payload)
			case <-ctx.Done():
				logger.Infof(ctx, "exit redis channel name: %s", msgName)
				return
			case <-e.closeCh:
				return
			}
		}
	}, func(err error) {
		logger.Errorf(ctx, "registry handle msg err: %+v", err)
	})
	return nil
}

func (e *Events) dispatch(ctx context.Context, action notify.Action, payload string) {
	handle, ok := e.handlers.Get(action)
	if !ok {
		return
	}
	if err := e.pool.Submit(func() {
		if err := utils.SafelyRun(func() {
			if err := handle(ctx, payload); err != nil {
				logger.Errorf(ctx, "handle msg fail name: %s, err: %+v", action, err)
			}
		}); err != nil {
			logger.Errorf(ctx, "handle msg panic name: %s, err: %+v", action, err)
		}
	}); err != nil {
		logger.Errorf(ctx, "submit msg fail name: %s, err: %+v", action, err)
	}
}

func (e *Events) Broadcast(ctx context.Context, msg *notify.SendMsg) error {
	select {
	case <-e.closeCh:
		return code.NotifyClosedErr
	default:
	}
	msg.Timestamp = time.Now().Unix()
	if msg.UUID.IsNil() {
		msg.UUID = uuid.NewV4()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return code.NotifySendMsgErr.WithErr(err)
	}

	if e.client == nil {
		e.dispatch(context.WithoutCancel(ctx), msg.Action, string(data))
		return nil
	}
	if err := e.client.Publish(ctx, e.channel(msg.Action), data).Err(); err != nil {
		logger.Errorf(ctx, "send msg fail action: %s, err: %+v", msg.Action, err)
		return code.NotifySendMsgErr.WithErr(err)
	}
	return nil
}

// Close stops the subscriptions, waits for the readers and drains the pool.
func (e *Events) Close(ctx context.Context) error {
	e.closed.Do(func() {
		close(e.closeCh)
		e.subs.ForEach(func(action notify.Action, sub *r.PubSub) bool {
			if err := sub.Close(); err != nil {
				logger.Warnf(ctx, "close subscription %s err: %+v", action, err)
			}
			return true
		})
		e.wait.Wait()
		if err := e.pool.ReleaseTimeout(5 * time.Second); err != nil {
			logger.Warnf(ctx, "release notify pool err: %+v", err)
		}
	})
	return nil
}
