package router

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimish/telegramify-markdown-api/internal/formatter"
	"github.com/vladimish/telegramify-markdown-api/internal/handlers"
	"github.com/vladimish/telegramify-markdown-api/internal/middleware"
	"github.com/vladimish/telegramify-markdown-api/internal/model"
	"github.com/vladimish/telegramify-markdown-api/internal/service"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, disabled ...string) *chi.Mux {
	t.Helper()
	module, err := formatter.Open(formatter.Options{}, disabled...)
	require.NoError(t, err)
	svc, err := service.NewFormatterService(module, zap.NewNop())
	require.NoError(t, err)

	h := handlers.NewHandler(svc, zap.NewNop(), module.Options().MaxInputSize)
	return NewRouter(h, zap.NewNop(), Options{CORSOrigins: []string{"*"}})
}

func newTestServer(t *testing.T, disabled ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newTestRouter(t, disabled...))
	t.Cleanup(srv.Close)
	return srv
}

func gzipBody(t *testing.T, data []byte) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return &buf
}

func postJSON(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, respBody
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	var status model.StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "Telegramify Markdown API is running", status.Message)
}

func TestRouter_Markdownify(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv, "/markdownify", `{"text":"**bold**"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out model.TextResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.NotEmpty(t, out.Result)

	resp, body = postJSON(t, srv, "/markdownify", `{"text":""}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"result":""}`, string(body))
}

func TestRouter_ValidationError(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/markdownify", "/telegramify", "/standardize"} {
		resp, body := postJSON(t, srv, path, `{"content":"x"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, path)

		var e model.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &e))
		assert.NotEmpty(t, e.Detail)
	}
}

func TestRouter_Telegramify(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv, "/telegramify", `{"text":"Hello *world*"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out model.TelegramifyResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Result)
	for _, rec := range out.Result {
		assert.Contains(t, rec, "type")
	}
}

func TestRouter_DisabledCapabilities(t *testing.T) {
	srv := newTestServer(t, formatter.SymbolTelegramify, formatter.SymbolStandardize)
	text := `{"text":"# Title\n\nSome _text_."}`

	_, mdBody := postJSON(t, srv, "/markdownify", text)
	var md model.TextResponse
	require.NoError(t, json.Unmarshal(mdBody, &md))

	resp, body := postJSON(t, srv, "/telegramify", text)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tg model.TelegramifyResponse
	require.NoError(t, json.Unmarshal(body, &tg))
	assert.Equal(t, []model.Record{{"type": "TEXT", "content": md.Result}}, tg.Result)

	resp, body = postJSON(t, srv, "/standardize", text)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var std model.TextResponse
	require.NoError(t, json.Unmarshal(body, &std))
	assert.Equal(t, md.Result, std.Result)

	dresp, err := http.Get(srv.URL + "/debug")
	require.NoError(t, err)
	defer dresp.Body.Close()
	var debug model.DebugResponse
	require.NoError(t, json.NewDecoder(dresp.Body).Decode(&debug))
	assert.True(t, debug.HasMarkdownify)
	assert.False(t, debug.HasTelegramify)
	assert.False(t, debug.HasStandardize)
	assert.NotContains(t, debug.AvailableFunctions, formatter.SymbolTelegramify)
}

func TestRouter_Debug(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/debug")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var debug model.DebugResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&debug))
	assert.True(t, debug.HasMarkdownify)
	assert.True(t, debug.HasTelegramify)
	assert.True(t, debug.HasStandardize)
	assert.Contains(t, debug.AvailableFunctions, formatter.SymbolMarkdownify)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/markdownify")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRouter_CORS(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/markdownify", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://bot.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRouter_CompressedBodyLimit(t *testing.T) {
	r := newTestRouter(t)

	payload := []byte(`{"text":"` + strings.Repeat("a", 8<<20) + `"}`)
	body := gzipBody(t, payload)
	require.Less(t, body.Len(), 64<<10)

	req := httptest.NewRequest(http.MethodPost, "/markdownify", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"detail":"request body too large"}`, w.Body.String())
}

func TestRouter_CompressedBodyWithinLimit(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/markdownify", gzipBody(t, []byte(`{"text":"**bold**"}`)))
	req.Header.Set("Content-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":"*bold*"}`, w.Body.String())
}

func TestRouter_PanicWithGzip(t *testing.T) {
	r := newTestRouter(t)
	r.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"detail":"internal server error"}`, string(out))
}
