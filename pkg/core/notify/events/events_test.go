package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/scienceol/tracerx/internal/testutil"
	"github.com/scienceol/tracerx/pkg/common/code"
	"github.com/scienceol/tracerx/pkg/common/uuid"
	"github.com/scienceol/tracerx/pkg/core/notify"
)

func waitMsg(t *testing.T, ch <-chan string) *notify.SendMsg {
	t.Helper()
	select {
	case raw := <-ch:
		msg := &notify.SendMsg{}
		if err := json.Unmarshal([]byte(raw), msg); err != nil {
			t.Fatalf("unmarshal %q: %v", raw, err)
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for message")
	}
	return nil
}

func exercise(t *testing.T, e *Events) {
	t.Helper()
	ctx := context.Background()
	got := make(chan string, 1)
	if err := e.Registry(ctx, notify.SamplesCreated, func(_ context.Context, msg string) error {
		got <- msg
		return nil
	}); err != nil {
		t.Fatalf("Registry: %v", err)
	}

	err := e.Registry(ctx, notify.SamplesCreated, func(context.Context, string) error { return nil })
	if !errors.Is(err, code.NotifyActionAlreadyRegistryErr) {
		t.Fatalf("second Registry err = %v", err)
	}

	if err := e.Broadcast(ctx, &notify.SendMsg{
		Action:   notify.SamplesCreated,
		Barcodes: []string{"000001", "000002"},
	}); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	msg := waitMsg(t, got)
	if msg.Action != notify.SamplesCreated || len(msg.Barcodes) != 2 || msg.Barcodes[1] != "000002" {
		t.Fatalf("msg = %+v", msg)
	}
	if msg.Timestamp == 0 || msg.UUID.IsNil() {
		t.Fatalf("timestamp/uuid not stamped: %+v", msg)
	}
}

func TestLocalEvents(t *testing.T) {
	e := New(&Config{PoolSize: 2})
	exercise(t, e)

	if err := e.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := e.Close(context.Background()); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	err := e.Broadcast(context.Background(), &notify.SendMsg{Action: notify.SamplesCreated})
	if !errors.Is(err, code.NotifyClosedErr) {
		t.Fatalf("Broadcast after close err = %v", err)
	}
}

func TestLocalEventsHandlerPanic(t *testing.T) {
	e := New(&Config{PoolSize: 1})
	defer e.Close(context.Background())

	ctx := context.Background()
	calls := make(chan struct{}, 2)
	if err := e.Registry(ctx, notify.SamplesCreated, func(context.Context, string) error {
		calls <- struct{}{}
		panic("boom")
	}); err != nil {
		t.Fatalf("Registry: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := e.Broadcast(ctx, &notify.SendMsg{Action: notify.SamplesCreated}); err != nil {
			t.Fatalf("Broadcast: %v", err)
		}
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("handler not invoked after panic")
		}
	}
}

func TestRedisEvents(t *testing.T) {
	client := testutil.Redis(t)
	e := New(&Config{Client: client, Channel: "tracerx:test:" + uuid.NewV4().String(), PoolSize: 2})
	defer e.Close(context.Background())
	exercise(t, e)
}
