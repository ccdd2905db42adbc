package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/vladimish/telegramify-markdown-api/internal/model"
	"github.com/vladimish/telegramify-markdown-api/internal/service"
	"go.uber.org/zap"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock_formatter.go -package=mocks

// Formatter описывает операции сервиса, доступные через HTTP.
type Formatter interface {
	Markdownify(ctx context.Context, text string) (string, error)
	Telegramify(ctx context.Context, text string) ([]model.Record, error)
	Standardize(ctx context.Context, text string) (string, error)
	Health() model.StatusResponse
	Capabilities() model.DebugResponse
}

// DefaultMaxInputSize используется, если размер входа не задан.
const DefaultMaxInputSize = 1 << 20

// jsonOverhead покрывает обёртку {"text": ...} и служебные поля запроса.
const jsonOverhead = 4 << 10

// Handler содержит HTTP-обработчики API.
type Handler struct {
	Service Formatter
	Logger  *zap.Logger

	maxBodyBytes int64
}

// NewHandler создаёт обработчики. Тело запроса ограничено удвоенным maxInputSize
// (экранирование в JSON) плюс запас на обёртку; maxInputSize <= 0 означает значение по умолчанию.
func NewHandler(svc Formatter, logger *zap.Logger, maxInputSize int) *Handler {
	if maxInputSize <= 0 {
		maxInputSize = DefaultMaxInputSize
	}
	return &Handler{
		Service:      svc,
		Logger:       logger,
		maxBodyBytes: 2*int64(maxInputSize) + jsonOverhead,
	}
}

// MaxBodyBytes возвращает предельный размер тела запроса.
func (h *Handler) MaxBodyBytes() int64 {
	return h.maxBodyBytes
}

// Markdownify обрабатывает POST /markdownify.
func (h *Handler) Markdownify(res http.ResponseWriter, req *http.Request) {
	text, ok := h.decodeText(res, req)
	if !ok {
		return
	}

	result, err := h.Service.Markdownify(req.Context(), text)
	if err != nil {
		h.fail(res, req, err)
		return
	}
	writeJSON(res, http.StatusOK, model.TextResponse{Result: result})
}

// Telegramify обрабатывает POST /telegramify.
func (h *Handler) Telegramify(res http.ResponseWriter, req *http.Request) {
	text, ok := h.decodeText(res, req)
	if !ok {
		return
	}

	records, err := h.Service.Telegramify(req.Context(), text)
	if err != nil {
		h.fail(res, req, err)
		return
	}
	if records == nil {
		records = []model.Record{}
	}
	writeJSON(res, http.StatusOK, model.TelegramifyResponse{Result: records})
}

// Standardize обрабатывает POST /standardize.
func (h *Handler) Standardize(res http.ResponseWriter, req *http.Request) {
	text, ok := h.decodeText(res, req)
	if !ok {
		return
	}

	result, err := h.Service.Standardize(req.Context(), text)
	if err != nil {
		h.fail(res, req, err)
		return
	}
	writeJSON(res, http.StatusOK, model.TextResponse{Result: result})
}

// Root отвечает на health-check.
func (h *Handler) Root(res http.ResponseWriter, req *http.Request) {
	writeJSON(res, http.StatusOK, h.Service.Health())
}

// Debug возвращает список возможностей библиотеки.
func (h *Handler) Debug(res http.ResponseWriter, req *http.Request) {
	writeJSON(res, http.StatusOK, h.Service.Capabilities())
}

// decodeText разбирает TextRequest. Пустая строка допустима, отсутствующее поле нет.
func (h *Handler) decodeText(res http.ResponseWriter, req *http.Request) (string, bool) {
	// Лимит применяется после распаковки gzip
	req.Body = http.MaxBytesReader(res, req.Body, h.maxBodyBytes)

	var body model.TextRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Logger.Warn("Request body too large", zap.Int64("limit", tooLarge.Limit))
			writeJSON(res, http.StatusRequestEntityTooLarge, model.ErrorResponse{Detail: "request body too large"})
			return "", false
		}
		h.Logger.Debug("Invalid request body", zap.Error(err))
		writeJSON(res, http.StatusUnprocessableEntity, model.ErrorResponse{Detail: "invalid JSON body"})
		return "", false
	}

	err := validation.ValidateStruct(&body,
		validation.Field(&body.Text, validation.NotNil.Error("field required")),
	)
	if err != nil {
		writeJSON(res, http.StatusUnprocessableEntity, model.ErrorResponse{Detail: err.Error()})
		return "", false
	}
	return *body.Text, true
}

func (h *Handler) fail(res http.ResponseWriter, req *http.Request, err error) {
	h.Logger.Error("Failed to process text",
		zap.String("uri", req.RequestURI),
		zap.Error(err),
	)

	detail := err.Error()
	var ie *service.InternalError
	if !errors.As(err, &ie) {
		detail = (&service.InternalError{Err: err}).Error()
	}
	writeJSON(res, http.StatusInternalServerError, model.ErrorResponse{Detail: detail})
}

// writeJSON сначала кодирует ответ, чтобы не отправить заголовки с битым телом.
func writeJSON(res http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		res.Header().Set("Content-Type", "application/json")
		res.WriteHeader(http.StatusInternalServerError)
		res.Write([]byte(`{"detail":"failed to encode response"}`))
		return
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	res.Write(data)
}
