package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faqbot/internal/domain/faq"
)

// Handler wires the HTTP transport to the FAQ service.
type Handler struct {
	faqSvc faq.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(faqSvc faq.Service, logger *slog.Logger) *Handler {
	return &Handler{
		faqSvc: faqSvc,
		logger: logger.With("component", "http.handler"),
	}
}

// Ask answers a single user question from the corpus.
func (h *Handler) Ask(c *gin.Context) {
	var req faq.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.faqSvc.Answer(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromServiceError(err, "faq_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Trending returns the most common matched queries.
func (h *Handler) Trending(c *gin.Context) {
	items, err := h.faqSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, fromServiceError(err, "faq_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": nonNil(items)})
}

// Unanswered lists queries that fell back, most frequent first.
func (h *Handler) Unanswered(c *gin.Context) {
	items, err := h.faqSvc.Unanswered(c.Request.Context())
	if err != nil {
		abortWithError(c, fromServiceError(err, "faq_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"queries": nonNil(items)})
}

// Welcome returns the greeting a chat client shows on open.
func (h *Handler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": h.faqSvc.Welcome()})
}

// Stats describes the matcher currently serving.
func (h *Handler) Stats(c *gin.Context) {
	stats, ok := h.faqSvc.Stats()
	if !ok {
		abortWithError(c, fromServiceError(faq.ErrNotLoaded, "faq_failed"))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Reload rebuilds the matcher from the configured source.
func (h *Handler) Reload(c *gin.Context) {
	result, err := h.faqSvc.Reload(c.Request.Context())
	if err != nil {
		abortWithError(c, fromServiceError(err, "reload_failed"))
		return
	}
	h.logger.Info("faq corpus reloaded via api", "subject", c.GetString(adminSubjectKey), "questions", result.Stats.Questions)
	c.JSON(http.StatusOK, result)
}

// Health reports liveness and whether a corpus is loaded.
func (h *Handler) Health(c *gin.Context) {
	if _, ok := h.faqSvc.Stats(); !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
