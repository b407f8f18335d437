package repo

import (
	"context"

	"github.com/scienceol/tracerx/pkg/repo/model"
)

type SampleRepo interface {
	// Tx runs fn inside one transaction; repo calls made with the ctx handed
	// to fn join it.
	Tx(ctx context.Context, fn func(txCtx context.Context) error) error
	ListSamples(ctx context.Context) ([]*model.Sample, error)
	BatchCreateSamples(ctx context.Context, samples []*model.Sample) error
	ListBarcodes(ctx context.Context) ([]string, error)
	GetSampleByBarcode(ctx context.Context, barcode string) (*model.Sample, error)
	GetSamplesByBarcodes(ctx context.Context, barcodes []string) (map[string]*model.Sample, error)
}
