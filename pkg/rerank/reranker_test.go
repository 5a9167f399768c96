package rerank

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/rerank-demo/pkg/crossencoder"
	"github.com/soundprediction/rerank-demo/pkg/messages"
	"github.com/soundprediction/rerank-demo/pkg/types"
	"github.com/soundprediction/rerank-demo/pkg/utils"
)

func resultLines(out string) []string {
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, "  ") {
			lines = append(lines, l)
		}
	}
	return lines
}

func TestRerankEmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t"} {
		assert.Equal(t, "Please enter a query.", Rerank(q, "a\nb", RequestTopK(3)))
		assert.Equal(t, "Please enter a query.", Rerank(q, "", TopK{}))
	}
}

func TestRerankNoCandidates(t *testing.T) {
	out := Rerank("test", "", RequestTopK(5))
	assert.Equal(t, "Query: test\n\nNo candidates provided. Enter one candidate document per line and run reranking again.", out)

	assert.Equal(t, out, Rerank("  test ", "", TopK{}))
}

func TestRerankNoValidCandidates(t *testing.T) {
	want := "Query: test\n\nNo valid candidates parsed. Enter one candidate document per line."
	for _, block := range []string{" ", "\n", " \n\t\n  ", "\r\n"} {
		assert.Equal(t, want, Rerank("test", block, RequestTopK(5)), "block %q", block)
	}
}

func TestRerankExample(t *testing.T) {
	out := Rerank("test", "a\nb\nc", RequestTopK(2))

	want := strings.Join([]string{
		"Query: test",
		"",
		"[Demo] The query and candidates were reranked (no real model loaded).",
		"Top-2 results (placeholder scores):",
		"  1. Score: 0.9500 — a",
		"  2. Score: 0.9000 — b",
		"",
		"Once the real BGE-Reranker-Large model is loaded, actual relevance scores and ranking will appear here.",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestRerankResultCount(t *testing.T) {
	tests := []struct {
		n, k int
	}{
		{1, 1}, {3, 2}, {3, 10}, {5, 5}, {25, 20}, {7, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d k=%d", tt.n, tt.k), func(t *testing.T) {
			cands := make([]string, tt.n)
			for i := range cands {
				cands[i] = fmt.Sprintf("doc-%02d", i)
			}
			lines := resultLines(Rerank("q", strings.Join(cands, "\n"), RequestTopK(tt.k)))

			want := ClampTopK(RequestTopK(tt.k), tt.n)
			require.Len(t, lines, want)
			for i, l := range lines {
				assert.True(t, strings.HasPrefix(l, fmt.Sprintf("  %d. ", i+1)), l)
				assert.True(t, strings.HasSuffix(l, cands[i]), l)
			}
		})
	}
}

func TestRerankDefaultTopK(t *testing.T) {
	block := strings.Repeat("doc\n", 8)
	lines := resultLines(Rerank("q", block, TopK{}))
	assert.Len(t, lines, DefaultTopK)
	assert.Contains(t, Rerank("q", block, ParseTopK("many")), "Top-5 results")
}

func TestRerankScoresDecrease(t *testing.T) {
	r := New(nil, messages.For("en"), nil)
	block := strings.Repeat("doc\n", 20)

	res, err := r.Build(context.Background(), "q", block, RequestTopK(20))
	require.NoError(t, err)
	require.Len(t, res.Items, 20)

	assert.Equal(t, "0.9500", fmt.Sprintf("%.4f", res.Items[0].Score))
	for i := 1; i < len(res.Items); i++ {
		assert.InDelta(t, 0.05, res.Items[i-1].Score-res.Items[i].Score, 1e-9)
	}
}

func TestRerankTruncation(t *testing.T) {
	long := strings.Repeat("L", 60)
	short := "short passage"
	out := Rerank("q", long+"\n"+short, RequestTopK(2))

	lines := resultLines(out)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "— "+strings.Repeat("L", 50)+"..."), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "— "+short), lines[1])
}

func TestBuildResult(t *testing.T) {
	r := New(nil, messages.For("en"), nil)

	res, err := r.Build(context.Background(), " test ", "a\n\nb\nc\n", RequestTopK(2))
	require.NoError(t, err)

	assert.Equal(t, KindRanked, res.Kind)
	assert.Equal(t, "test", res.Query)
	assert.Equal(t, 3, res.Candidates)
	assert.Equal(t, 2, res.K)
	require.Len(t, res.Items, 2)
	assert.Equal(t, Item{Rank: 1, Score: 0.95, Text: "a", Display: "a"}, res.Items[0])
	assert.Equal(t, "b", res.Items[1].Text)
}

func TestBuildKinds(t *testing.T) {
	r := New(nil, messages.For("en"), nil)
	ctx := context.Background()

	res, _ := r.Build(ctx, "", "a", TopK{})
	assert.Equal(t, KindEmptyQuery, res.Kind)

	res, _ = r.Build(ctx, "q", "", TopK{})
	assert.Equal(t, KindNoCandidates, res.Kind)

	res, _ = r.Build(ctx, "q", "  \n ", TopK{})
	assert.Equal(t, KindNoValidCandidates, res.Kind)
	assert.Equal(t, "q", res.Query)
	assert.Zero(t, res.Candidates)
}

func TestBuildCancelled(t *testing.T) {
	r := New(nil, messages.For("en"), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Build(ctx, "q", "a", TopK{})
	assert.ErrorIs(t, err, context.Canceled)
}

type panickingClient struct{}

func (panickingClient) Rank(context.Context, string, []string) ([]crossencoder.RankedPassage, error) {
	panic("model crashed")
}
func (panickingClient) Model() string { return "broken" }
func (panickingClient) Close() error  { return nil }

func TestBuildClientPanic(t *testing.T) {
	r := New(panickingClient{}, messages.For("en"), nil)

	_, err := r.Build(context.Background(), "q", "a", TopK{})
	var panicErr *utils.PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "model crashed", panicErr.Value)
}

func TestRerankChinese(t *testing.T) {
	r := New(nil, messages.For("zh"), nil)

	out, err := r.Rerank(context.Background(), "什么是大熊猫？", "大熊猫是熊科动物\n熊猫是国宝", RequestTopK(1))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "查询：什么是大熊猫？\n\n"))
	assert.Contains(t, out, "Top-1 结果示例（分数为占位）：")
	assert.Contains(t, out, "  1. 分数: 0.9500 — 大熊猫是熊科动物")
	assert.NotContains(t, out, "熊猫是国宝")

	assert.Equal(t, "请输入查询文本。", mustRerank(t, r, "", "x"))
}

func mustRerank(t *testing.T, r *Reranker, q, p string) string {
	t.Helper()
	out, err := r.Rerank(context.Background(), q, p, TopK{})
	require.NoError(t, err)
	return out
}

func TestLoadModel(t *testing.T) {
	assert.Equal(t, "Model status: BGE-Reranker-Large ready (demo mode, real weights not loaded)", LoadModel())
	assert.Equal(t, LoadModel(), LoadModel())

	client := crossencoder.NewPlaceholderRerankerClient(crossencoder.Config{Model: "bge-reranker-base"})
	r := New(client, messages.For("zh"), nil)
	assert.Equal(t, "模型状态：bge-reranker-base 已就绪（演示模式，未加载真实权重）", r.LoadModel())
	assert.Equal(t, "尚未加载", r.InitialStatus())
}

func TestBuildLogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	r := New(nil, messages.For("en"), log)

	ctx := context.WithValue(context.Background(), types.ContextKeyRequestID, "req-1")
	_, err := r.Build(ctx, "q", "a\nb", RequestTopK(1))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "request_id=req-1")
	assert.Contains(t, buf.String(), "k=1")
}
