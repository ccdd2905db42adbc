package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/vladimish/telegramify-markdown-api/internal/handlers"
	"github.com/vladimish/telegramify-markdown-api/internal/middleware"
	"go.uber.org/zap"
)

// Options хранит настройки транспорта.
type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter создаёт и настраивает маршрутизатор
func NewRouter(handler *handlers.Handler, logger *zap.Logger, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.LoggingMiddleware(logger))
	// gzip снаружи recovery: ответ 500 должен пройти через сжатие до первой записи
	r.Use(middleware.GzipMiddleware)
	r.Use(middleware.Recovery(logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}).Handler)
	if opts.RequestTimeout > 0 {
		r.Use(chimw.Timeout(opts.RequestTimeout))
	}

	r.Get("/", handler.Root)
	r.Get("/debug", handler.Debug)
	r.Post("/markdownify", handler.Markdownify)
	r.Post("/telegramify", handler.Telegramify)
	r.Post("/standardize", handler.Standardize)
	return r
}
