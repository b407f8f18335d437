package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	resty "github.com/go-resty/resty/v2"

	"github.com/scienceol/tracerx/pkg/common"
	"github.com/scienceol/tracerx/pkg/common/code"
	"github.com/scienceol/tracerx/pkg/middleware/logger"
	"github.com/scienceol/tracerx/pkg/repo"
)

type remoteImpl struct {
	client *resty.Client
}

func NewRemoteRepo(baseURL string) repo.RemoteRepo {
	return &remoteImpl{
		client: resty.New().
			SetTimeout(30*time.Second).
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json"),
	}
}

func (r *remoteImpl) PushSamples(ctx context.Context, samples json.RawMessage) (string, error) {
	ok := &common.MsgResp{}
	fail := &common.ErrResp{}
	res, err := r.client.R().
		SetContext(ctx).
		SetBody([]byte(samples)).
		SetResult(ok).
		SetError(fail).
		Post("/api/samples")
	if err != nil {
		logger.Errorf(ctx, "push samples request err: %+v", err)
		return "", code.RPCHttpErr.WithErr(err)
	}
	if res.StatusCode() != http.StatusOK {
		return "", remoteErr(res.StatusCode(), fail)
	}
	return ok.Message, nil
}

func (r *remoteImpl) NextBarcodes(ctx context.Context, count int) ([]string, error) {
	ok := &struct {
		Barcodes []string `json:"barcodes"`
	}{}
	fail := &common.ErrResp{}
	res, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("count", strconv.Itoa(count)).
		SetResult(ok).
		SetError(fail).
		Get("/api/barcodes/next")
	if err != nil {
		logger.Errorf(ctx, "next barcodes request err: %+v", err)
		return nil, code.RPCHttpErr.WithErr(err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, remoteErr(res.StatusCode(), fail)
	}
	return ok.Barcodes, nil
}

func remoteErr(status int, fail *common.ErrResp) error {
	if fail.Error == "" {
		return code.RPCHttpCodeErr.WithMsgf("status %d", status)
	}
	return code.RPCHttpCodeErr.WithMsgf("status %d, %s: %s", status, fail.Error, fail.Message)
}
