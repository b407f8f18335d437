package repo

import (
	"context"
	"encoding/json"
)

// RemoteRepo talks to a running tracerx server.
type RemoteRepo interface {
	PushSamples(ctx context.Context, samples json.RawMessage) (string, error)
	NextBarcodes(ctx context.Context, count int) ([]string, error)
}
