package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faqbot/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.CORS.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1/faq")
	{
		api.POST("/ask", handler.Ask)
		api.GET("/trending", handler.Trending)
		api.GET("/unanswered", handler.Unanswered)
		api.GET("/welcome", handler.Welcome)
		api.GET("/stats", handler.Stats)
		api.POST("/reload", adminMiddleware(cfg.HTTP.Admin.TokenSecret), handler.Reload)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
