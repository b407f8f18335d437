// Package static holds the sample browser page served at the site root.
package static

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed index.html
var index []byte

//go:embed main.js
var script []byte

func Index(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", index)
}

func Script(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "application/javascript; charset=utf-8", script)
}
