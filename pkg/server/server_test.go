package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/rerank-demo/pkg/config"
	"github.com/soundprediction/rerank-demo/pkg/messages"
	"github.com/soundprediction/rerank-demo/pkg/rerank"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host: "127.0.0.1",
			Port: 8761,
			Mode: "test",
		},
		UI: config.UIConfig{
			Language:    "en",
			MaxTopK:     20,
			DefaultTopK: 5,
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv := New(testConfig(), rerank.New(nil, messages.For("en"), nil), nil)
	require.NoError(t, srv.Setup())
	return srv
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestSetup(t *testing.T) {
	srv := newTestServer(t)

	assert.NotNil(t, srv.router)
	require.NotNil(t, srv.server)
	assert.Equal(t, "127.0.0.1:8761", srv.server.Addr)
	assert.Equal(t, srv.router, srv.Handler())
}

func TestServerConfig(t *testing.T) {
	tests := []struct {
		name         string
		host         string
		port         int
		expectedAddr string
	}{
		{"loopback default", "127.0.0.1", 8761, "127.0.0.1:8761"},
		{"localhost", "localhost", 3000, "localhost:3000"},
		{"all interfaces", "0.0.0.0", 9090, "0.0.0.0:9090"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Server.Host = tt.host
			cfg.Server.Port = tt.port

			srv := New(cfg, nil, nil)
			require.NoError(t, srv.Setup())
			assert.Equal(t, tt.expectedAddr, srv.server.Addr)
		})
	}
}

func TestRouteExists(t *testing.T) {
	srv := newTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodPost, "/load-model"},
		{http.MethodPost, "/rerank"},
		{http.MethodGet, "/health"},
		{http.MethodGet, "/live"},
		{http.MethodGet, "/ready"},
		{http.MethodGet, "/api/v1/status"},
		{http.MethodPost, "/api/v1/load-model"},
		{http.MethodPost, "/api/v1/rerank"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			w := serve(srv, httptest.NewRequest(route.method, route.path, nil))
			assert.NotEqual(t, http.StatusNotFound, w.Code, "route %s %s not registered", route.method, route.path)
		})
	}
}

func TestReadyWithoutReranker(t *testing.T) {
	srv := New(testConfig(), nil, nil)
	require.NoError(t, srv.Setup())

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	srv := newTestServer(t)

	w := serve(srv, httptest.NewRequest(http.MethodOptions, "/api/v1/rerank", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))

	w = serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	for _, header := range []string{
		"Access-Control-Allow-Origin",
		"Access-Control-Allow-Headers",
		"Access-Control-Allow-Methods",
	} {
		assert.NotEmpty(t, w.Header().Get(header), header)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	w := serve(srv, req)
	assert.Equal(t, "client-id", w.Header().Get(RequestIDHeader))

	w = serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	body := w.Body.String()
	assert.Contains(t, body, "<title>BGE-Reranker-Large WebUI</title>")
	assert.Contains(t, body, `value="Not loaded"`)
	assert.Contains(t, body, `max="20"`)
	assert.Contains(t, body, `value="5"`)
}

func TestFormRerank(t *testing.T) {
	srv := newTestServer(t)

	form := url.Values{
		"query":    {"test"},
		"passages": {"a\nb\nc"},
		"top_k":    {"2"},
		"status":   {"Not loaded"},
	}
	req := httptest.NewRequest(http.MethodPost, "/rerank", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := serve(srv, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "1. Score: 0.9500 — a")
	assert.Contains(t, body, "2. Score: 0.9000 — b")
	assert.NotContains(t, body, "3. Score")
}

func TestAPIRerankEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rerank", strings.NewReader(`{"query":"test","passages":"a\nb\nc","top_k":2}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(srv, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		K       int `json:"k"`
		Results []struct {
			Rank  int     `json:"rank"`
			Score float64 `json:"score"`
			Text  string  `json:"text"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.K)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "a", resp.Results[0].Text)
	assert.Equal(t, "b", resp.Results[1].Text)
}

func TestStartStop(t *testing.T) {
	cfg := testConfig()
	srv := New(cfg, rerank.New(nil, messages.For("en"), nil), nil)
	require.NoError(t, srv.Setup())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/live")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	assert.NoError(t, <-errCh)
}
