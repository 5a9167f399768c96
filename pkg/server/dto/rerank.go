package dto

import (
	"strings"

	"github.com/soundprediction/rerank-demo/pkg/rerank"
)

// RerankRequest is the body of POST /api/v1/rerank. Candidates may be sent
// either as a newline separated block or as a list.
type RerankRequest struct {
	Query      string   `json:"query"`
	Passages   string   `json:"passages"`
	Candidates []string `json:"candidates,omitempty"`

	// TopK is kept untyped so that a non-numeric value falls back to the
	// default count instead of failing the request.
	TopK any `json:"top_k,omitempty"`
}

// Validate performs validation on RerankRequest
func (r *RerankRequest) Validate() error {
	size := len(r.Query) + len(r.Passages)
	for _, c := range r.Candidates {
		size += len(c) + 1
	}
	if size > MaxContentLength {
		return ErrContentTooLong
	}
	return nil
}

// Block returns the candidate text to parse. Passages wins when both
// forms are given.
func (r *RerankRequest) Block() string {
	if r.Passages != "" || len(r.Candidates) == 0 {
		return r.Passages
	}
	return strings.Join(r.Candidates, "\n")
}

// RequestedTopK interprets TopK. Only JSON numbers are usable.
func (r *RerankRequest) RequestedTopK() rerank.TopK {
	switch v := r.TopK.(type) {
	case float64:
		return rerank.TopKFromFloat(v)
	case int:
		return rerank.RequestTopK(v)
	default:
		return rerank.TopK{}
	}
}

// RerankResponse carries both the rendered text and its structured form
type RerankResponse struct {
	Output     string        `json:"output"`
	Kind       rerank.Kind   `json:"kind"`
	Query      string        `json:"query,omitempty"`
	Candidates int           `json:"candidates"`
	K          int           `json:"k"`
	Results    []rerank.Item `json:"results"`
}

// NewRerankResponse builds the response for res rendered as output
func NewRerankResponse(res rerank.Result, output string) RerankResponse {
	items := res.Items
	if items == nil {
		items = []rerank.Item{}
	}
	return RerankResponse{
		Output:     output,
		Kind:       res.Kind,
		Query:      res.Query,
		Candidates: res.Candidates,
		K:          res.K,
		Results:    items,
	}
}
