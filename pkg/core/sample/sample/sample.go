package sample

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/scienceol/tracerx/internal/config"
	"github.com/scienceol/tracerx/pkg/common/code"
	"github.com/scienceol/tracerx/pkg/core/barcode"
	"github.com/scienceol/tracerx/pkg/core/catalog"
	"github.com/scienceol/tracerx/pkg/core/notify"
	"github.com/scienceol/tracerx/pkg/core/notify/events"
	"github.com/scienceol/tracerx/pkg/core/sample"
	"github.com/scienceol/tracerx/pkg/middleware/db"
	"github.com/scienceol/tracerx/pkg/middleware/logger"
	"github.com/scienceol/tracerx/pkg/middleware/redis"
	"github.com/scienceol/tracerx/pkg/repo"
	"github.com/scienceol/tracerx/pkg/repo/model"
	sStore "github.com/scienceol/tracerx/pkg/repo/sample"
	"github.com/scienceol/tracerx/pkg/utils"
)

const instrumentation = "github.com/scienceol/tracerx/pkg/core/sample"

var errSuppliedTaken = errors.New("client supplied barcode already stored")

// Options configures New. Catalog and Locker default to the builtin catalog
// and a process-local lock; a nil MsgCenter disables notifications.
type Options struct {
	Store       repo.SampleRepo
	Catalog     catalog.Catalog
	Locker      barcode.Locker
	MsgCenter   notify.MsgCenter
	Strict      bool
	MaxRetries  int
	LockTimeout time.Duration
}

type sampleImpl struct {
	store       repo.SampleRepo
	catalog     catalog.Catalog
	locker      barcode.Locker
	msgCenter   notify.MsgCenter
	strict      bool
	maxRetries  int
	lockTimeout time.Duration

	tracer    trace.Tracer
	created   metric.Int64Counter
	conflicts metric.Int64Counter
}

// NewSample wires the service from the global datastore, redis client and
// config.
func NewSample(ctx context.Context, cat catalog.Catalog) sample.Service {
	conf := config.Global()
	ttl := conf.Barcode.LockTTL

	var locker barcode.Locker
	if rc := redis.GetClient(); rc != nil {
		locker = barcode.NewRedisLocker(rc, conf.Barcode.LockKey, ttl)
	} else {
		locker = barcode.NewLocalLocker()
	}
	logger.Infof(ctx, "sample service strict catalog: %v, barcode retries: %d", conf.Catalog.Strict, conf.Barcode.MaxRetries)

	return New(&Options{
		Store:       sStore.NewSampleImpl(db.DB()),
		Catalog:     cat,
		Locker:      locker,
		MsgCenter:   events.NewEvents(),
		Strict:      conf.Catalog.Strict,
		MaxRetries:  conf.Barcode.MaxRetries,
		LockTimeout: ttl,
	})
}

// New builds the service from opts. LockTimeout bounds how long a minting
// batch waits for the lock and defaults to 5s.
func New(opts *Options) sample.Service {
	s := &sampleImpl{
		store:       opts.Store,
		catalog:     opts.Catalog,
		locker:      opts.Locker,
		msgCenter:   opts.MsgCenter,
		strict:      opts.Strict,
		maxRetries:  opts.MaxRetries,
		lockTimeout: opts.LockTimeout,
		tracer:      otel.Tracer(instrumentation),
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.locker == nil {
		s.locker = barcode.NewLocalLocker()
	}
	if s.maxRetries < 0 {
		s.maxRetries = 0
	}
	if s.lockTimeout <= 0 {
		s.lockTimeout = 5 * time.Second
	}

	meter := otel.Meter(instrumentation)
	var err error
	if s.created, err = meter.Int64Counter("tracerx.samples.created",
		metric.WithDescription("samples committed to the store")); err != nil {
		s.created = noop.Int64Counter{}
	}
	if s.conflicts, err = meter.Int64Counter("tracerx.barcode.conflicts",
		metric.WithDescription("minted barcode batches retried after a unique violation")); err != nil {
		s.conflicts = noop.Int64Counter{}
	}
	return s
}

func (s *sampleImpl) List(ctx context.Context) ([]*sample.SampleResp, error) {
	ctx, span := s.tracer.Start(ctx, "sample.List")
	defer span.End()

	rows, err := s.store.ListSamples(ctx)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	res := make([]*sample.SampleResp, 0, len(rows))
	for _, row := range rows {
		res = append(res, toResp(row))
	}
	span.SetAttributes(attribute.Int("sample.count", len(res)))
	return res, nil
}

func (s *sampleImpl) GetByBarcode(ctx context.Context, bc string) (*sample.SampleResp, error) {
	ctx, span := s.tracer.Start(ctx, "sample.GetByBarcode", trace.WithAttributes(attribute.String("sample.barcode", bc)))
	defer span.End()

	row, err := s.store.GetSampleByBarcode(ctx, bc)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	return toResp(row), nil
}

func (s *sampleImpl) NextBarcodes(ctx context.Context, count int) ([]string, error) {
	if count < 1 || count > sample.MaxBarcodeCount {
		return nil, code.ParamErr.WithMsgf("count must be between 1 and %d", sample.MaxBarcodeCount)
	}
	existing, err := s.store.ListBarcodes(ctx)
	if err != nil {
		return nil, err
	}
	codes := barcode.NextN(existing, count)
	if err := checkMinted(codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// checkMinted rejects codes that no longer fit the barcode column. NextN is
// ascending, so the last code is the widest.
func checkMinted(codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	if last := codes[len(codes)-1]; len(last) > sample.MaxBarcodeLen {
		return code.BarcodeExhausted.WithMsgf("next barcode %s is longer than %d characters", last, sample.MaxBarcodeLen)
	}
	return nil
}

func (s *sampleImpl) BatchCreate(ctx context.Context, reqs []*sample.SampleReq) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "sample.BatchCreate", trace.WithAttributes(attribute.Int("sample.count", len(reqs))))
	defer span.End()

	res, err := s.create(ctx, reqs)
	if err != nil {
		recordErr(span, err)
	}
	return res, err
}

func (s *sampleImpl) Derive(ctx context.Context, req *sample.DeriveReq) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "sample.Derive")
	defer span.End()

	res, err := s.derive(ctx, req)
	if err != nil {
		recordErr(span, err)
	}
	return res, err
}

func (s *sampleImpl) derive(ctx context.Context, req *sample.DeriveReq) ([]string, error) {
	children := make([]*sample.SampleReq, 0, len(req.ParentBarcodes)+len(req.Samples))
	for _, pb := range req.ParentBarcodes {
		children = append(children, &sample.SampleReq{ParentBarcode: &pb})
	}
	children = append(children, req.Samples...)
	if len(children) == 0 {
		return nil, code.ParamErr.WithMsg("no samples to derive")
	}

	parentCodes := make([]string, 0, len(children))
	for i, child := range children {
		if child == nil {
			return nil, code.ParamErr.WithMsgf("samples[%d]: expected an object", i)
		}
		pb, ok := required(child.ParentBarcode)
		if !ok {
			return nil, code.MissingField.WithMsgf("samples[%d]: parentBarcode is required", i)
		}
		parentCodes = append(parentCodes, pb)
	}

	parents, err := s.store.GetSamplesByBarcodes(ctx, parentCodes)
	if err != nil {
		return nil, err
	}
	for i, child := range children {
		parent, ok := parents[parentCodes[i]]
		if !ok {
			return nil, code.ParentNotFound.WithMsgf("parent sample %s not found", parentCodes[i])
		}
		children[i] = deriveChild(child, parent)
		children[i].ParentBarcode = &parent.Barcode
	}
	return s.create(ctx, children)
}

func (s *sampleImpl) create(ctx context.Context, reqs []*sample.SampleReq) ([]string, error) {
	rows := make([]*model.Sample, 0, len(reqs))
	mint := make([]int, 0, len(reqs))
	seen := make(map[string]int, len(reqs))
	supplied := make([]string, 0, len(reqs))
	for i, req := range reqs {
		row, err := toModel(i, req)
		if err != nil {
			return nil, err
		}
		if s.strict {
			if err := checkCatalog(s.catalog, i, row); err != nil {
				return nil, err
			}
		}
		if row.Barcode == "" {
			mint = append(mint, i)
		} else {
			if j, ok := seen[row.Barcode]; ok {
				return nil, code.DuplicateBarcode.WithMsgf("barcode %s repeated at samples[%d] and samples[%d]", row.Barcode, j, i)
			}
			seen[row.Barcode] = i
			supplied = append(supplied, row.Barcode)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return []string{}, nil
	}

	for attempt := 0; ; attempt++ {
		err := s.insert(ctx, rows, mint, supplied)
		if err == nil {
			break
		}
		if !errors.Is(err, code.DuplicateBarcode) || errors.Is(err, errSuppliedTaken) ||
			len(mint) == 0 || attempt >= s.maxRetries {
			return nil, err
		}
		s.conflicts.Add(ctx, 1)
		logger.Warnf(ctx, "minted barcode conflict, attempt: %d, err: %+v", attempt+1, err)
	}

	barcodes := utils.FilterSlice(rows, func(row *model.Sample) (string, bool) {
		return row.Barcode, true
	})
	s.created.Add(ctx, int64(len(rows)))
	s.publish(ctx, barcodes)
	return barcodes, nil
}

// insert holds the allocation lock across read, mint and insert so no two
// writers compute from the same snapshot. The unique index still backs it.
func (s *sampleImpl) insert(ctx context.Context, rows []*model.Sample, mint []int, supplied []string) error {
	if len(mint) > 0 {
		lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
		release, err := s.locker.Lock(lockCtx)
		if err != nil {
			logger.Errorf(ctx, "acquire barcode lock err: %+v", err)
			return code.BarcodeUnavailable.WithErr(err)
		}
		defer release()
	}

	return s.store.Tx(ctx, func(txCtx context.Context) error {
		if len(supplied) > 0 {
			taken, err := s.store.GetSamplesByBarcodes(txCtx, supplied)
			if err != nil {
				return err
			}
			if len(taken) > 0 {
				dup := make([]string, 0, len(taken))
				for bc := range taken {
					dup = append(dup, bc)
				}
				sort.Strings(dup)
				return code.DuplicateBarcode.WithMsgf("barcode %s already exists", dup[0]).WithErr(errSuppliedTaken)
			}
		}
		if len(mint) > 0 {
			existing, err := s.store.ListBarcodes(txCtx)
			if err != nil {
				return err
			}
			codes := barcode.NextN(append(existing, supplied...), len(mint))
			if err := checkMinted(codes); err != nil {
				return err
			}
			for k, idx := range mint {
				rows[idx].Barcode = codes[k]
			}
		}
		return s.store.BatchCreateSamples(txCtx, rows)
	})
}

func (s *sampleImpl) publish(ctx context.Context, barcodes []string) {
	if s.msgCenter == nil || len(barcodes) == 0 {
		return
	}
	// handlers run after the request returns; keep only the span context
	pubCtx := trace.ContextWithSpanContext(context.Background(), trace.SpanContextFromContext(ctx))
	if err := s.msgCenter.Broadcast(pubCtx, &notify.SendMsg{
		Action:   notify.SamplesCreated,
		Barcodes: barcodes,
	}); err != nil {
		logger.Warnf(ctx, "broadcast samples created err: %+v", err)
	}
}

func recordErr(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, code.From(err).Kind)
}
