package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scienceol/tracerx/pkg/middleware/db"
	"github.com/scienceol/tracerx/pkg/middleware/redis"
)

type Resp struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// @Summary	Health check
// @Tags		health
// @Produce	json
// @Success	200	{object}	Resp
// @Router		/health [get]
func Health(g *gin.Context) {
	g.JSON(http.StatusOK, &Resp{Status: "ok"})
}

// Live reports that the process is serving requests.
func Live(g *gin.Context) {
	g.JSON(http.StatusOK, &Resp{Status: "ok"})
}

// Ready pings the database and, when enabled, redis.
func Ready(g *gin.Context) {
	checks := map[string]string{}
	healthy := true

	if ds := db.DB(); ds != nil {
		sqlDB, err := ds.DBIns().DB()
		if err != nil || sqlDB.PingContext(g.Request.Context()) != nil {
			checks["database"] = "unhealthy"
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not_initialized"
		healthy = false
	}

	if rc := redis.GetClient(); rc != nil {
		if err := rc.Ping(g.Request.Context()).Err(); err != nil {
			checks["redis"] = "unhealthy"
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "disabled"
	}

	status := http.StatusOK
	msg := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		msg = "not_ready"
	}
	g.JSON(status, &Resp{Status: msg, Checks: checks})
}
