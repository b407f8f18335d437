package web

import (
	"context"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/scienceol/tracerx/internal/config"
	"github.com/scienceol/tracerx/pkg/core/catalog"
	"github.com/scienceol/tracerx/pkg/core/notify"
	"github.com/scienceol/tracerx/pkg/core/notify/events"
	"github.com/scienceol/tracerx/pkg/core/sample"
	impl "github.com/scienceol/tracerx/pkg/core/sample/sample"
	"github.com/scienceol/tracerx/pkg/middleware/logger"
	"github.com/scienceol/tracerx/pkg/web/static"
	catalogView "github.com/scienceol/tracerx/pkg/web/views/catalog"
	"github.com/scienceol/tracerx/pkg/web/views/health"
	sampleView "github.com/scienceol/tracerx/pkg/web/views/sample"
)

// Deps are the services the handlers are built from.
type Deps struct {
	Catalog   catalog.Catalog
	Sample    sample.Service
	MsgCenter notify.MsgCenter
}

// NewRouter builds the handlers from the global resources and installs them
// on g. The returned func closes the websocket hub.
func NewRouter(ctx context.Context, g *gin.Engine) (func(), error) {
	cat, err := catalog.Load(ctx, config.Global().Catalog.Path)
	if err != nil {
		return nil, err
	}
	return Install(ctx, g, &Deps{
		Catalog:   cat,
		Sample:    impl.NewSample(ctx, cat),
		MsgCenter: events.NewEvents(),
	}), nil
}

// Install adds middleware and routes to g and returns the hub closer.
func Install(ctx context.Context, g *gin.Engine, deps *Deps) func() {
	installMiddleware(g)
	return installURL(ctx, g, deps)
}

func installMiddleware(g *gin.Engine) {
	g.ContextWithFallback = true
	server := config.Global().Server
	g.Use(cors.Default())
	g.Use(otelgin.Middleware(fmt.Sprintf("%s-%s", server.Platform, server.Service)))
	g.Use(logger.LogWithWriter())
}

func installURL(ctx context.Context, g *gin.Engine, deps *Deps) func() {
	g.GET("/", static.Index)
	g.GET("/main.js", static.Script)

	api := g.Group("/api")
	api.GET("/health", health.Health)
	api.GET("/health/live", health.Live)
	api.GET("/health/ready", health.Ready)
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	sHandle := sampleView.NewSampleHandle(ctx, deps.Sample, deps.MsgCenter)
	{
		sampleRouter := api.Group("/samples")
		sampleRouter.GET("", sHandle.ListSamples)
		sampleRouter.POST("", sHandle.CreateSamples)
		sampleRouter.POST("/derive", sHandle.DeriveSamples)
		sampleRouter.GET("/:barcode", sHandle.GetSample)

		api.GET("/barcodes/next", sHandle.NextBarcodes)
		api.GET("/ws/samples", sHandle.SampleFeed)
	}

	cHandle := catalogView.NewCatalogHandle(deps.Catalog)
	{
		catalogRouter := api.Group("/catalog")
		catalogRouter.GET("", cHandle.All)
		catalogRouter.GET("/:kind", cHandle.Kind)
	}

	return func() {
		if err := sHandle.Close(); err != nil {
			logger.Warnf(ctx, "close sample ws hub err: %+v", err)
		}
	}
}
