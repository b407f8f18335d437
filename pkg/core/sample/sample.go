package sample

import (
	"context"
)

type Service interface {
	List(ctx context.Context) ([]*SampleResp, error)
	// BatchCreate stores every request in one transaction and returns the
	// barcodes in request order. Missing barcodes are minted.
	BatchCreate(ctx context.Context, reqs []*SampleReq) ([]string, error)
	Derive(ctx context.Context, req *DeriveReq) ([]string, error)
	GetByBarcode(ctx context.Context, barcode string) (*SampleResp, error)
	// NextBarcodes previews the next count barcodes without reserving them.
	NextBarcodes(ctx context.Context, count int) ([]string, error)
}
