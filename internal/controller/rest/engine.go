package rest

import (
	"io"

	"DisputeDesk/pkg/logger"
	"DisputeDesk/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// NewEngine returns a gin engine with correlation, metrics, access logging
// and panic recovery installed.
func NewEngine(accessLog io.Writer) *gin.Engine {
	engine := gin.New()
	engine.Use(
		logger.CorrelationMiddleware(),
		metrics.GinMiddleware(),
		logger.AccessLogger(accessLog),
		gin.Recovery(),
	)
	return engine
}
