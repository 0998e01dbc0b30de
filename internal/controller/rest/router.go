package rest

import (
	"time"

	"DisputeDesk/internal/controller/rest/handlers"
	"DisputeDesk/pkg/health"
	"DisputeDesk/pkg/metrics"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 3 * time.Second

type Router struct {
	dispute     handlers.DisputeHandler
	negotiation handlers.NegotiationHandler
	webhook     handlers.WebhookHandler
	scheduler   handlers.SchedulerHandler
	health      *health.Registry
}

func (r *Router) SetUp(engine *gin.Engine) {
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.health, readinessTimeout))
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	engine.POST("/webhooks/marketplace/disputes", r.webhook.Dispute)
	engine.POST("/webhooks/marketplace/settlements", r.webhook.Settlement)

	engine.GET("/stores/:store_ref/disputes/pending", r.dispute.GetPending)
	engine.GET("/stores/:store_ref/negotiations/history", r.negotiation.History)
	engine.GET("/stores/:store_ref/negotiations/summary", r.negotiation.Summary)

	engine.GET("/disputes/:dispute_id", r.dispute.Get)
	engine.POST("/disputes/:dispute_id/respond", r.dispute.Respond)

	admin := engine.Group("/admin")
	admin.GET("/scheduler", r.scheduler.Status)
	admin.POST("/scheduler/tasks/:task/run", r.scheduler.Run)
}

func NewRouter(
	dispute handlers.DisputeHandler,
	negotiation handlers.NegotiationHandler,
	webhook handlers.WebhookHandler,
	scheduler handlers.SchedulerHandler,
	healthRegistry *health.Registry,
) *Router {
	return &Router{
		dispute:     dispute,
		negotiation: negotiation,
		webhook:     webhook,
		scheduler:   scheduler,
		health:      healthRegistry,
	}
}
