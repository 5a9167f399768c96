package dto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/rerank-demo/pkg/rerank"
)

func decode(t *testing.T, body string) RerankRequest {
	t.Helper()
	var req RerankRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestRequestedTopK(t *testing.T) {
	tests := []struct {
		body string
		want rerank.TopK
	}{
		{`{"top_k": 3}`, rerank.RequestTopK(3)},
		{`{"top_k": 2.7}`, rerank.RequestTopK(2)},
		{`{"top_k": "3"}`, rerank.TopK{}},
		{`{"top_k": null}`, rerank.TopK{}},
		{`{}`, rerank.TopK{}},
		{`{"top_k": true}`, rerank.TopK{}},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			req := decode(t, tt.body)
			assert.Equal(t, tt.want, req.RequestedTopK())
		})
	}
}

func TestBlock(t *testing.T) {
	req := decode(t, `{"candidates": ["a", "b"]}`)
	assert.Equal(t, "a\nb", req.Block())

	req = decode(t, `{"passages": "x\ny", "candidates": ["a"]}`)
	assert.Equal(t, "x\ny", req.Block())

	req = decode(t, `{}`)
	assert.Equal(t, "", req.Block())
}

func TestValidate(t *testing.T) {
	req := RerankRequest{Query: "q", Passages: "a"}
	assert.NoError(t, req.Validate())

	req.Passages = strings.Repeat("x", MaxContentLength)
	assert.ErrorIs(t, req.Validate(), ErrContentTooLong)
}

func TestNewRerankResponseEmptyResults(t *testing.T) {
	resp := NewRerankResponse(rerank.Result{Kind: rerank.KindEmptyQuery}, "Please enter a query.")

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"results":[]`)
	assert.Contains(t, string(data), `"kind":"empty_query"`)
}
