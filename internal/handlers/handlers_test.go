package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimish/telegramify-markdown-api/internal/handlers/mocks"
	"github.com/vladimish/telegramify-markdown-api/internal/model"
	"github.com/vladimish/telegramify-markdown-api/internal/service"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *mocks.MockFormatter) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockFormatter(ctrl)
	return NewHandler(svc, zap.NewNop(), 0), svc
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestMarkdownify(t *testing.T) {
	h, svc := newTestHandler(t)
	svc.EXPECT().Markdownify(gomock.Any(), "**bold**").Return("*bold*", nil)

	w := post(h.Markdownify, `{"text":"**bold**"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"result":"*bold*"}`, w.Body.String())
}

func TestMarkdownify_EmptyText(t *testing.T) {
	h, svc := newTestHandler(t)
	svc.EXPECT().Markdownify(gomock.Any(), "").Return("", nil)

	w := post(h.Markdownify, `{"text":""}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":""}`, w.Body.String())
}

func TestMarkdownify_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing text", body: `{}`},
		{name: "null text", body: `{"text":null}`},
		{name: "malformed", body: `{"text":`},
		{name: "wrong type", body: `{"text":42}`},
		{name: "empty body", body: ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t)

			w := post(h.Markdownify, tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			var resp model.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Detail)
		})
	}
}

func TestMarkdownify_Error(t *testing.T) {
	h, svc := newTestHandler(t)
	svc.EXPECT().Markdownify(gomock.Any(), "x").
		Return("", &service.InternalError{Op: "markdownify", Err: errors.New("boom")})

	w := post(h.Markdownify, `{"text":"x"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error processing text: boom"}`, w.Body.String())
}

func TestTelegramify(t *testing.T) {
	h, svc := newTestHandler(t)
	svc.EXPECT().Telegramify(gomock.Any(), "hello").Return([]model.Record{
		{"type": "TEXT", "content": "hello"},
		{"type": "FILE", "file_name": "code.py"},
	}, nil)

	w := post(h.Telegramify, `{"text":"hello"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":[{"type":"TEXT","content":"hello"},{"type":"FILE","file_name":"code.py"}]}`, w.Body.String())
}

func TestTelegramify_NilResult(t *testing.T) {
	h, svc := newTestHandler(t)
	svc.EXPECT().Telegramify(gomock.Any(), "").Return(nil, nil)

	w := post(h.Telegramify, `{"text":""}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":[]}`, w.Body.String())
}

func TestTelegramify_PlainError(t *testing.T) {
	h, svc := newTestHandler(t)
	svc.EXPECT().Telegramify(gomock.Any(), "x").Return(nil, errors.New("unexpected"))

	w := post(h.Telegramify, `{"text":"x"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error processing text: unexpected"}`, w.Body.String())
}

func TestStandardize(t *testing.T) {
	h, svc := newTestHandler(t)
	svc.EXPECT().Standardize(gomock.Any(), "<b>x</b>").Return("*x*", nil)

	w := post(h.Standardize, `{"text":"<b>x</b>"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":"*x*"}`, w.Body.String())
}

func TestStandardize_Error(t *testing.T) {
	h, svc := newTestHandler(t)
	svc.EXPECT().Standardize(gomock.Any(), "x").
		Return("", &service.InternalError{Op: "standardize", Err: errors.New("panic: bad")})

	w := post(h.Standardize, `{"text":"x"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error processing text: panic: bad"}`, w.Body.String())
}

func TestRoot(t *testing.T) {
	h, svc := newTestHandler(t)
	svc.EXPECT().Health().Return(model.StatusResponse{Message: service.HealthMessage})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.Root(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Telegramify Markdown API is running"}`, w.Body.String())
}

func TestDebug(t *testing.T) {
	h, svc := newTestHandler(t)
	svc.EXPECT().Capabilities().Return(model.DebugResponse{
		AvailableFunctions: []string{"markdownify"},
		HasMarkdownify:     true,
	})

	req := httptest.NewRequest(http.MethodGet, "/debug", nil)
	w := httptest.NewRecorder()
	h.Debug(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"available_functions": ["markdownify"],
		"has_markdownify": true,
		"has_telegramify": false,
		"has_standardize": false
	}`, w.Body.String())
}

func TestMarkdownify_BodyTooLarge(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockFormatter(ctrl)
	h := NewHandler(svc, zap.NewNop(), 16)

	body := `{"text":"` + strings.Repeat("a", int(h.MaxBodyBytes())) + `"}`
	w := post(h.Markdownify, body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"detail":"request body too large"}`, w.Body.String())
}

func TestNewHandler_BodyLimit(t *testing.T) {
	assert.Equal(t, int64(2*DefaultMaxInputSize+jsonOverhead), NewHandler(nil, zap.NewNop(), 0).MaxBodyBytes())
	assert.Equal(t, int64(2*100+jsonOverhead), NewHandler(nil, zap.NewNop(), 100).MaxBodyBytes())
}
