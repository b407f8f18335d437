package sample

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/olahol/melody"

	"github.com/scienceol/tracerx/pkg/common"
	"github.com/scienceol/tracerx/pkg/common/code"
	"github.com/scienceol/tracerx/pkg/core/notify"
	"github.com/scienceol/tracerx/pkg/core/sample"
	"github.com/scienceol/tracerx/pkg/middleware/logger"
)

const maxMessageSize = 4 * 1024

type Handle struct {
	sService sample.Service
	wsClient *melody.Melody
}

// NewSampleHandle subscribes the websocket feed to samples-created events
// on msgCenter.
func NewSampleHandle(ctx context.Context, sService sample.Service, msgCenter notify.MsgCenter) *Handle {
	wsClient := melody.New()
	wsClient.Config.MaxMessageSize = maxMessageSize

	h := &Handle{
		sService: sService,
		wsClient: wsClient,
	}
	h.initSampleWebSocket()
	if msgCenter != nil {
		if err := msgCenter.Registry(ctx, notify.SamplesCreated, h.OnSamplesCreated); err != nil {
			logger.Errorf(ctx, "Registry SamplesCreated fail err: %+v", err)
		}
	}
	return h
}

// @Summary	List samples
// @Tags		sample
// @Produce	json
// @Success	200	{array}		sample.SampleResp
// @Failure	500	{object}	common.ErrResp
// @Router		/samples [get]
func (h *Handle) ListSamples(ctx *gin.Context) {
	resp, err := h.sService.List(ctx.Request.Context())
	common.Reply(ctx, err, resp)
}

// @Summary	Create samples
// @Tags		sample
// @Accept		json
// @Produce	json
// @Param		samples	body		[]sample.SampleReq	true	"samples to create"
// @Success	200		{object}	common.MsgResp
// @Failure	400		{object}	common.ErrResp
// @Failure	409		{object}	common.ErrResp
// @Failure	422		{object}	common.ErrResp
// @Failure	503		{object}	common.ErrResp
// @Router		/samples [post]
func (h *Handle) CreateSamples(ctx *gin.Context) {
	var reqs []*sample.SampleReq
	if err := bindJSON(ctx, &reqs); err != nil || reqs == nil {
		logger.Warnf(ctx, "parse CreateSamples param err: %+v", err)
		common.ReplyErr(ctx, code.ParamErr.WithMsg("body must be a JSON array of sample objects"))
		return
	}
	if _, err := h.sService.BatchCreate(ctx.Request.Context(), reqs); err != nil {
		logger.Warnf(ctx, "BatchCreate err: %+v", err)
		common.ReplyErr(ctx, err)
		return
	}
	common.ReplyMsg(ctx, sample.CreatedMsg)
}

// @Summary	Derive samples from existing parents
// @Tags		sample
// @Accept		json
// @Produce	json
// @Param		req	body		sample.DeriveReq	true	"children to create"
// @Success	200	{object}	sample.CreateResp
// @Failure	404	{object}	common.ErrResp
// @Router		/samples/derive [post]
func (h *Handle) DeriveSamples(ctx *gin.Context) {
	req := &sample.DeriveReq{}
	if err := bindJSON(ctx, req); err != nil {
		logger.Warnf(ctx, "parse DeriveSamples param err: %+v", err)
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	barcodes, err := h.sService.Derive(ctx.Request.Context(), req)
	if err != nil {
		logger.Warnf(ctx, "Derive err: %+v", err)
		common.ReplyErr(ctx, err)
		return
	}
	common.Reply(ctx, nil, &sample.CreateResp{
		Message:  sample.CreatedMsg,
		Barcodes: barcodes,
	})
}

// @Summary	Get a sample by barcode
// @Tags		sample
// @Produce	json
// @Param		barcode	path		string	true	"sample barcode"
// @Success	200		{object}	sample.SampleResp
// @Failure	404		{object}	common.ErrResp
// @Router		/samples/{barcode} [get]
func (h *Handle) GetSample(ctx *gin.Context) {
	resp, err := h.sService.GetByBarcode(ctx.Request.Context(), ctx.Param("barcode"))
	common.Reply(ctx, err, resp)
}

// @Summary	Preview the next barcodes
// @Tags		barcode
// @Produce	json
// @Param		count	query		int	false	"how many, 1 to 1000"
// @Success	200		{object}	sample.BarcodesResp
// @Failure	400		{object}	common.ErrResp
// @Router		/barcodes/next [get]
func (h *Handle) NextBarcodes(ctx *gin.Context) {
	count := 1
	if raw := ctx.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			common.ReplyErr(ctx, code.ParamErr.WithMsgf("count %q is not a number", raw))
			return
		}
		count = n
	}
	barcodes, err := h.sService.NextBarcodes(ctx.Request.Context(), count)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	common.Reply(ctx, nil, &sample.BarcodesResp{Barcodes: barcodes})
}

// @Summary	Live feed of created samples
// @Tags		sample
// @Router		/ws/samples [get]
func (h *Handle) SampleFeed(ctx *gin.Context) {
	if err := h.wsClient.HandleRequestWithKeys(ctx.Writer, ctx.Request, map[string]any{
		"ctx": context.WithoutCancel(ctx.Request.Context()),
	}); err != nil {
		logger.Errorf(ctx, "SampleFeed HandleRequestWithKeys err: %+v", err)
	}
}

// bindJSON decodes the body without gin's validator, which panics on null
// elements of a top-level slice.
func bindJSON(ctx *gin.Context, obj any) error {
	data, err := ctx.GetRawData()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, obj)
}

func (h *Handle) OnSamplesCreated(ctx context.Context, msg string) error {
	logger.Debugf(ctx, "samples created notify: %s", msg)
	return h.wsClient.Broadcast([]byte(msg))
}

func (h *Handle) Close() error {
	return h.wsClient.Close()
}

func sessionCtx(s *melody.Session) context.Context {
	if c, ok := s.Get("ctx"); ok {
		if ctx, ok := c.(context.Context); ok {
			return ctx
		}
	}
	return context.Background()
}

func (h *Handle) initSampleWebSocket() {
	h.wsClient.HandleConnect(func(s *melody.Session) {
		logger.Infof(sessionCtx(s), "sample ws connect remote: %s", s.RemoteAddr())
	})

	h.wsClient.HandleDisconnect(func(s *melody.Session) {
		logger.Infof(sessionCtx(s), "sample ws disconnected remote: %s", s.RemoteAddr())
	})

	h.wsClient.HandleError(func(s *melody.Session, err error) {
		if errors.Is(err, melody.ErrMessageBufferFull) {
			return
		}
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) && (closeErr.Code == websocket.CloseGoingAway || closeErr.Code == websocket.CloseNormalClosure) {
			return
		}
		logger.Errorf(sessionCtx(s), "sample ws error remote: %s, err: %+v", s.RemoteAddr(), err)
	})

	// the feed is one way; client frames are dropped
	h.wsClient.HandleMessage(func(*melody.Session, []byte) {})
}
