package common

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scienceol/tracerx/pkg/common/code"
	"github.com/scienceol/tracerx/pkg/middleware/logger"
)

// ErrResp is the body of every non-2xx response.
type ErrResp struct {
	Code    int    `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MsgResp is the confirmation body for write endpoints.
type MsgResp struct {
	Message string `json:"message"`
}

// Reply writes data as-is on success, or the error body otherwise.
func Reply(ctx *gin.Context, err error, data ...any) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}
	if len(data) == 0 {
		ReplyOk(ctx)
		return
	}
	ctx.JSON(http.StatusOK, data[0])
}

func ReplyOk(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, &MsgResp{Message: code.Success.Msg})
}

// ReplyMsg replies 200 with {"message": msg}.
func ReplyMsg(ctx *gin.Context, msg string) {
	ctx.JSON(http.StatusOK, &MsgResp{Message: msg})
}

// ReplyErr maps err onto its ErrCode. An optional msg overrides the default
// message.
func ReplyErr(ctx *gin.Context, err error, msg ...string) {
	c := code.From(err)
	if len(msg) > 0 && msg[0] != "" {
		c = c.WithMsg(msg[0])
	}
	if c.Status >= http.StatusInternalServerError {
		logger.Errorf(ctx, "reply err: %+v", err)
	}
	ctx.AbortWithStatusJSON(c.Status, &ErrResp{
		Code:    c.Code,
		Error:   c.Kind,
		Message: c.Msg,
	})
}
