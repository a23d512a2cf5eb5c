package app

import (
	"github.com/gin-gonic/gin"
	handlers "github.com/jeffleon2/draftea-storefront-service/internal/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (a *App) RegisterRoutes(h *handlers.WebhookHandler) {
	api := a.Router.Group("/api")
	api.POST("/webhook", h.HandleStripeWebhook)

	a.Router.GET("/healthz", handlers.Health)
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
