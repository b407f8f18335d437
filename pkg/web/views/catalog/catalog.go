package catalog

import (
	"github.com/gin-gonic/gin"

	"github.com/scienceol/tracerx/pkg/common"
	"github.com/scienceol/tracerx/pkg/common/code"
	"github.com/scienceol/tracerx/pkg/core/catalog"
)

type KindResp struct {
	Kind   string   `json:"kind"`
	Values []string `json:"values"`
}

type Handle struct {
	catalog catalog.Catalog
}

func NewCatalogHandle(c catalog.Catalog) *Handle {
	return &Handle{catalog: c}
}

// @Summary	All reference data
// @Tags		catalog
// @Produce	json
// @Success	200	{object}	map[string][]string
// @Router		/catalog [get]
func (h *Handle) All(ctx *gin.Context) {
	common.Reply(ctx, nil, h.catalog.All())
}

// @Summary	Reference data of one kind
// @Tags		catalog
// @Produce	json
// @Param		kind	path		string	true	"catalog kind, e.g. sites"
// @Success	200		{object}	KindResp
// @Failure	404		{object}	common.ErrResp
// @Router		/catalog/{kind} [get]
func (h *Handle) Kind(ctx *gin.Context) {
	kind := ctx.Param("kind")
	values, ok := h.catalog.Values(kind)
	if !ok {
		common.ReplyErr(ctx, code.CatalogKindNotFound.WithMsgf("unknown catalog kind %s", kind))
		return
	}
	common.Reply(ctx, nil, &KindResp{Kind: kind, Values: values})
}
