package notify

import (
	"context"

	"github.com/scienceol/tracerx/pkg/common/uuid"
)

type Action string

const (
	SamplesCreated Action = "samples-created"
)

// SendMsg is published once per committed batch and relayed verbatim to
// websocket clients.
type SendMsg struct {
	Action    Action    `json:"action"`
	Barcodes  []string  `json:"barcodes"`
	UUID      uuid.UUID `json:"uuid"`
	Timestamp int64     `json:"timestamp"`
}

type HandleFunc func(ctx context.Context, msg string) error

type MsgCenter interface {
	Registry(ctx context.Context, msgName Action, handleFunc HandleFunc) error
	Broadcast(ctx context.Context, msg *SendMsg) error
	Close(ctx context.Context) error
}
