package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/rerank-demo/pkg/rerank"
	"github.com/soundprediction/rerank-demo/pkg/server/dto"
)

// APIHandler exposes the demo operations as JSON
type APIHandler struct {
	reranker *rerank.Reranker
	logger   *slog.Logger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(r *rerank.Reranker, logger *slog.Logger) *APIHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &APIHandler{reranker: r, logger: logger}
}

// Status handles GET /api/v1/status
func (h *APIHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{
		Status: h.reranker.InitialStatus(),
		Model:  h.reranker.Model(),
	})
}

// LoadModel handles POST /api/v1/load-model
func (h *APIHandler) LoadModel(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{
		Status: h.reranker.LoadModel(),
		Model:  h.reranker.Model(),
		Loaded: true,
	})
}

// Rerank handles POST /api/v1/rerank
func (h *APIHandler) Rerank(c *gin.Context) {
	var req dto.RerankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}
	if err := req.Validate(); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, dto.ErrContentTooLong) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
			Code:    status,
		})
		return
	}

	ctx := c.Request.Context()
	res, err := h.reranker.Build(ctx, req.Query, req.Block(), req.RequestedTopK())
	if err != nil {
		h.logger.ErrorContext(ctx, "Rerank failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "rerank_failed",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, dto.NewRerankResponse(res, h.reranker.Render(res)))
}
