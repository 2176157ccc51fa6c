package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grandresort/crm/internal/server/handlers"
)

// Handlers groups the HTTP adapters the router wires up. Webhook may be nil
// when WhatsApp is not configured; its routes are then omitted.
type Handlers struct {
	Quote   *handlers.QuoteHandler
	Lead    *handlers.LeadHandler
	Tariff  *handlers.TariffHandler
	Webhook *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api/v1")
	{
		api.POST("/inquiries/parse", h.Quote.ParseInquiry)
		api.POST("/quotes/compute", h.Quote.ComputeQuote)
		api.POST("/quotes/message", h.Quote.RenderQuote)

		api.GET("/leads", h.Lead.List)
		api.POST("/leads", h.Lead.Create)
		api.GET("/leads/:id", h.Lead.Get)
		api.PUT("/leads/:id", h.Lead.Update)
		api.DELETE("/leads/:id", h.Lead.Delete)
		api.PATCH("/leads/:id/status", h.Lead.ChangeStatus)
		api.POST("/leads/:id/quotes", h.Lead.GenerateQuote)

		api.GET("/tariffs", h.Tariff.List)
		api.GET("/tariffs/:roomType", h.Tariff.Get)
		api.PUT("/tariffs/:roomType", h.Tariff.Update)
	}

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
		r.POST("/send-message", h.Webhook.SendMessage)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
