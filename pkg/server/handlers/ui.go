package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/rerank-demo/pkg/messages"
	"github.com/soundprediction/rerank-demo/pkg/rerank"
)

// IndexTemplate is the name of the page template.
const IndexTemplate = "index.html"

// PageData is the view model of the demo page
type PageData struct {
	Lang        string
	Title       string
	Heading     string
	Description string
	Footer      string
	Msgs        messages.Catalog

	Status   string
	Query    string
	Passages string
	TopK     int
	MaxTopK  int
	Output   string
}

// UIOptions configures the demo page
type UIOptions struct {
	Language    string
	MaxTopK     int
	DefaultTopK int
}

// UIHandler serves the form-based demo page
type UIHandler struct {
	reranker *rerank.Reranker
	opts     UIOptions
	logger   *slog.Logger
}

// NewUIHandler creates a new UI handler
func NewUIHandler(r *rerank.Reranker, opts UIOptions, logger *slog.Logger) *UIHandler {
	if opts.MaxTopK < 1 {
		opts.MaxTopK = 20
	}
	if opts.DefaultTopK < 1 || opts.DefaultTopK > opts.MaxTopK {
		opts.DefaultTopK = min(rerank.DefaultTopK, opts.MaxTopK)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &UIHandler{reranker: r, opts: opts, logger: logger}
}

// Index handles GET /
func (h *UIHandler) Index(c *gin.Context) {
	page := h.page()
	page.Status = h.reranker.InitialStatus()
	c.HTML(http.StatusOK, IndexTemplate, page)
}

// LoadModel handles POST /load-model
func (h *UIHandler) LoadModel(c *gin.Context) {
	page := h.formPage(c)
	page.Status = h.reranker.LoadModel()
	h.logger.InfoContext(c.Request.Context(), "Model status updated", "model", h.reranker.Model())
	c.HTML(http.StatusOK, IndexTemplate, page)
}

// Rerank handles POST /rerank
func (h *UIHandler) Rerank(c *gin.Context) {
	page := h.formPage(c)
	out, err := h.reranker.Rerank(c.Request.Context(), page.Query, page.Passages, rerank.ParseTopK(c.PostForm("top_k")))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "Rerank failed", "error", err)
		c.HTML(http.StatusInternalServerError, IndexTemplate, page)
		return
	}
	page.Output = out
	c.HTML(http.StatusOK, IndexTemplate, page)
}

func (h *UIHandler) page() PageData {
	msgs := h.reranker.Messages()
	model := h.reranker.Model()
	return PageData{
		Lang:        messages.Normalize(h.opts.Language),
		Title:       fmt.Sprintf(msgs.PageTitleFmt, model),
		Heading:     fmt.Sprintf(msgs.HeadingFmt, model),
		Description: fmt.Sprintf(msgs.DescriptionFmt, model),
		Footer:      fmt.Sprintf(msgs.FooterFmt, model),
		Msgs:        msgs,
		TopK:        h.opts.DefaultTopK,
		MaxTopK:     h.opts.MaxTopK,
	}
}

// formPage echoes the submitted fields back so the page keeps its state.
func (h *UIHandler) formPage(c *gin.Context) PageData {
	page := h.page()
	page.Status = c.DefaultPostForm("status", h.reranker.InitialStatus())
	page.Query = c.PostForm("query")
	page.Passages = c.PostForm("passages")
	if n, err := strconv.Atoi(c.PostForm("top_k")); err == nil && n >= 1 && n <= h.opts.MaxTopK {
		page.TopK = n
	}
	return page
}
