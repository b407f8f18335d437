package sample

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/scienceol/tracerx/pkg/common/code"
	"github.com/scienceol/tracerx/pkg/middleware/db"
	"github.com/scienceol/tracerx/pkg/repo"
	"github.com/scienceol/tracerx/pkg/repo/model"
	"github.com/scienceol/tracerx/pkg/utils"
)

type sampleImpl struct {
	*db.Datastore
}

func NewSampleImpl(ds *db.Datastore) repo.SampleRepo {
	return &sampleImpl{Datastore: ds}
}

func (s *sampleImpl) Tx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return s.ExecTx(ctx, fn)
}

func (s *sampleImpl) ListSamples(ctx context.Context) ([]*model.Sample, error) {
	samples := make([]*model.Sample, 0)
	if err := s.DBWithContext(ctx).Order("created_at asc, barcode asc").Find(&samples).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return samples, nil
}

// BatchCreateSamples inserts every row in one statement batch inside a
// transaction. A unique violation on barcode surfaces as
// code.DuplicateBarcode.
func (s *sampleImpl) BatchCreateSamples(ctx context.Context, samples []*model.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	err := s.ExecTx(ctx, func(txCtx context.Context) error {
		return s.DBWithContext(txCtx).Create(&samples).Error
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return code.DuplicateBarcode.WithErr(err)
	}
	return code.CreateDataErr.WithErr(err)
}

func (s *sampleImpl) ListBarcodes(ctx context.Context) ([]string, error) {
	barcodes := make([]string, 0)
	if err := s.DBWithContext(ctx).Model(&model.Sample{}).Pluck("barcode", &barcodes).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return barcodes, nil
}

func (s *sampleImpl) GetSampleByBarcode(ctx context.Context, barcode string) (*model.Sample, error) {
	data := &model.Sample{}
	err := s.DBWithContext(ctx).Where("barcode = ?", barcode).First(data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.SampleNotFound.WithMsgf("sample %s not found", barcode)
	}
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (s *sampleImpl) GetSamplesByBarcodes(ctx context.Context, barcodes []string) (map[string]*model.Sample, error) {
	if len(barcodes) == 0 {
		return map[string]*model.Sample{}, nil
	}
	samples := make([]*model.Sample, 0, len(barcodes))
	if err := s.DBWithContext(ctx).Where("barcode IN ?", barcodes).Find(&samples).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return utils.SliceToMap(samples, func(m *model.Sample) string { return m.Barcode }), nil
}
