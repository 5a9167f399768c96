// Package rerank turns a query and a block of candidate lines into the
// ranked text shown by the demo UI.
package rerank

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/soundprediction/rerank-demo/pkg/crossencoder"
	"github.com/soundprediction/rerank-demo/pkg/messages"
	"github.com/soundprediction/rerank-demo/pkg/types"
	"github.com/soundprediction/rerank-demo/pkg/utils"
)

// Kind tells which branch produced a Result.
type Kind string

const (
	KindRanked            Kind = "ranked"
	KindEmptyQuery        Kind = "empty_query"
	KindNoCandidates      Kind = "no_candidates"
	KindNoValidCandidates Kind = "no_valid_candidates"
)

// Item is one displayed result.
type Item struct {
	Rank      int     `json:"rank"`
	Score     float64 `json:"score"`
	Text      string  `json:"text"`
	Display   string  `json:"display"`
	Truncated bool    `json:"truncated"`
}

// Result is the structured outcome of one rerank request.
type Result struct {
	Kind       Kind   `json:"kind"`
	Query      string `json:"query"`
	Candidates int    `json:"candidates"`
	K          int    `json:"k"`
	Items      []Item `json:"results"`
}

// Reranker formats cross-encoder output for display.
type Reranker struct {
	client crossencoder.Client
	msgs   messages.Catalog
	logger *slog.Logger
}

// New creates a Reranker. A nil client uses the placeholder provider and a
// nil logger discards log output.
func New(client crossencoder.Client, msgs messages.Catalog, logger *slog.Logger) *Reranker {
	if client == nil {
		client = crossencoder.NewPlaceholderRerankerClient(crossencoder.DefaultConfig(crossencoder.ProviderPlaceholder))
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reranker{client: client, msgs: msgs, logger: logger}
}

// Model names the model reported in the UI.
func (r *Reranker) Model() string {
	return r.client.Model()
}

// Messages returns the catalog the Reranker renders with.
func (r *Reranker) Messages() messages.Catalog {
	return r.msgs
}

// InitialStatus is shown before the model has been "loaded".
func (r *Reranker) InitialStatus() string {
	return r.msgs.StatusNotLoaded
}

// LoadModel simulates loading the model and returns the readiness text.
// Nothing is downloaded.
func (r *Reranker) LoadModel() string {
	return fmt.Sprintf(r.msgs.StatusReadyFmt, r.Model())
}

// Build parses the inputs and ranks the first k candidates. It fails when
// ctx is cancelled or the client fails.
func (r *Reranker) Build(ctx context.Context, query, passages string, topK TopK) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{Kind: KindEmptyQuery}, nil
	}

	res := Result{Query: query}
	if passages == "" {
		res.Kind = KindNoCandidates
		return res, nil
	}

	candidates := ParseCandidates(passages)
	res.Candidates = len(candidates)
	if len(candidates) == 0 {
		res.Kind = KindNoValidCandidates
		return res, nil
	}

	ranked, err := r.rank(ctx, query, candidates)
	if err != nil {
		return Result{}, fmt.Errorf("rank candidates: %w", err)
	}

	k := ClampTopK(topK, len(ranked))
	res.Kind = KindRanked
	res.K = k
	res.Items = make([]Item, k)
	for i, p := range ranked[:k] {
		display, truncated := Truncate(p.Passage)
		res.Items[i] = Item{
			Rank:      i + 1,
			Score:     p.Score,
			Text:      p.Passage,
			Display:   display,
			Truncated: truncated,
		}
	}

	r.logger.InfoContext(ctx, "Reranked candidates",
		"request_id", types.RequestID(ctx),
		"candidates", len(candidates),
		"k", k)
	return res, nil
}

// rank calls the client, converting a panic into an error.
func (r *Reranker) rank(ctx context.Context, query string, candidates []string) (ranked []crossencoder.RankedPassage, err error) {
	defer utils.RecoverAsError(&err)
	return r.client.Rank(ctx, query, candidates)
}

// Render produces the multi-line text for res.
func (r *Reranker) Render(res Result) string {
	if res.Kind == KindEmptyQuery {
		return r.msgs.EnterQuery
	}

	lines := []string{fmt.Sprintf(r.msgs.QueryLineFmt, res.Query), ""}
	switch res.Kind {
	case KindNoCandidates:
		return strings.Join(append(lines, r.msgs.NoCandidates), "\n")
	case KindNoValidCandidates:
		return strings.Join(append(lines, r.msgs.NoValidCandidates), "\n")
	}

	lines = append(lines, r.msgs.DemoNotice, fmt.Sprintf(r.msgs.TopKHeaderFmt, res.K))
	for _, item := range res.Items {
		lines = append(lines, fmt.Sprintf(r.msgs.ResultLineFmt, item.Rank, item.Score, item.Display))
	}
	lines = append(lines, "", fmt.Sprintf(r.msgs.RealModelNoteFmt, r.Model()))
	return strings.Join(lines, "\n")
}

// Rerank is Build followed by Render.
func (r *Reranker) Rerank(ctx context.Context, query, passages string, topK TopK) (string, error) {
	res, err := r.Build(ctx, query, passages, topK)
	if err != nil {
		return "", err
	}
	return r.Render(res), nil
}

var defaultReranker = New(nil, messages.For(messages.DefaultLanguage), nil)

// LoadModel returns the readiness text of the default English reranker.
func LoadModel() string {
	return defaultReranker.LoadModel()
}

// Rerank renders query and passages with the default English reranker.
func Rerank(query, passages string, topK TopK) string {
	out, _ := defaultReranker.Rerank(context.Background(), query, passages, topK)
	return out
}
