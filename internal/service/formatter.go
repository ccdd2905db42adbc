package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/vladimish/telegramify-markdown-api/internal/formatter"
	"github.com/vladimish/telegramify-markdown-api/internal/model"
	"go.uber.org/zap"
)

// HealthMessage содержит фиксированный ответ health-check.
const HealthMessage = "Telegramify Markdown API is running"

// ErrMissingMarkdownify возвращается, если библиотека не экспортирует markdownify.
var ErrMissingMarkdownify = errors.New("formatter module does not export markdownify")

// Module представляет загруженную библиотеку форматирования с доступом к символам по имени.
type Module interface {
	Lookup(name string) (any, bool)
	Names() []string
}

// InternalError представляет единственную ошибку сервиса, сбой вызова библиотеки.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return "Error processing text: " + e.Err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Варианты реализации возможностей.
const (
	VariantNative   = "native"
	VariantFallback = "fallback"
)

type textConverter interface {
	Convert(ctx context.Context, text string) (string, error)
	Variant() string
}

type platformConverter interface {
	Convert(ctx context.Context, text string) ([]model.Record, error)
	Variant() string
}

type markdownConverter struct {
	fn formatter.MarkdownifyFunc
}

func (c markdownConverter) Convert(_ context.Context, text string) (string, error) {
	return c.fn(text)
}

func (markdownConverter) Variant() string { return VariantNative }

type nativeStandardizer struct {
	fn formatter.StandardizeFunc
}

func (c nativeStandardizer) Convert(_ context.Context, text string) (string, error) {
	return c.fn(text)
}

func (nativeStandardizer) Variant() string { return VariantNative }

// fallbackStandardizer используется, когда standardize не экспортируется.
type fallbackStandardizer struct {
	markdown textConverter
}

func (c fallbackStandardizer) Convert(ctx context.Context, text string) (string, error) {
	return c.markdown.Convert(ctx, text)
}

func (fallbackStandardizer) Variant() string { return VariantFallback }

type outcome struct {
	items []formatter.Item
	err   error
}

// nativePlatform вызывает telegramify асинхронно и всегда дожидается результата
// либо отмены контекста запроса.
type nativePlatform struct {
	fn formatter.TelegramifyFunc
}

func (p nativePlatform) Convert(ctx context.Context, text string) ([]model.Record, error) {
	// Буфер 1, чтобы горутина не зависла после отмены запроса
	done := make(chan outcome, 1)
	go func() {
		var o outcome
		o.items, o.err = guard(func() ([]formatter.Item, error) {
			return p.fn(ctx, text)
		})
		done <- o
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-done:
		if o.err != nil {
			return nil, o.err
		}
		return flatten(o.items)
	}
}

func (nativePlatform) Variant() string { return VariantNative }

// fallbackPlatform оборачивает результат markdownify в один TEXT-элемент.
type fallbackPlatform struct {
	markdown textConverter
}

func (p fallbackPlatform) Convert(ctx context.Context, text string) ([]model.Record, error) {
	out, err := p.markdown.Convert(ctx, text)
	if err != nil {
		return nil, err
	}
	return []model.Record{{"type": formatter.TypeText, "content": out}}, nil
}

func (fallbackPlatform) Variant() string { return VariantFallback }

// FormatterService представляет адаптер над библиотекой форматирования.
// Необязательные возможности разрешаются один раз при создании.
type FormatterService struct {
	Logger *zap.Logger

	module      Module
	markdown    textConverter
	standardize textConverter
	platform    platformConverter
}

func NewFormatterService(module Module, logger *zap.Logger) (*FormatterService, error) {
	sym, ok := module.Lookup(formatter.SymbolMarkdownify)
	if !ok {
		return nil, ErrMissingMarkdownify
	}
	fn, ok := sym.(formatter.MarkdownifyFunc)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected symbol type %T", ErrMissingMarkdownify, sym)
	}

	s := &FormatterService{
		Logger:   logger,
		module:   module,
		markdown: markdownConverter{fn: fn},
	}

	s.standardize = fallbackStandardizer{markdown: s.markdown}
	if sym, ok := module.Lookup(formatter.SymbolStandardize); ok {
		if fn, ok := sym.(formatter.StandardizeFunc); ok {
			s.standardize = nativeStandardizer{fn: fn}
		} else {
			logger.Warn("Unexpected symbol type, using fallback",
				zap.String("symbol", formatter.SymbolStandardize),
				zap.String("type", fmt.Sprintf("%T", sym)))
		}
	}

	s.platform = fallbackPlatform{markdown: s.markdown}
	if sym, ok := module.Lookup(formatter.SymbolTelegramify); ok {
		if fn, ok := sym.(formatter.TelegramifyFunc); ok {
			s.platform = nativePlatform{fn: fn}
		} else {
			logger.Warn("Unexpected symbol type, using fallback",
				zap.String("symbol", formatter.SymbolTelegramify),
				zap.String("type", fmt.Sprintf("%T", sym)))
		}
	}

	logger.Info("Formatter capabilities resolved",
		zap.String(formatter.SymbolStandardize, s.standardize.Variant()),
		zap.String(formatter.SymbolTelegramify, s.platform.Variant()),
	)
	return s, nil
}

// Variants возвращает выбранную реализацию для каждой возможности.
func (s *FormatterService) Variants() map[string]string {
	return map[string]string{
		formatter.SymbolMarkdownify: s.markdown.Variant(),
		formatter.SymbolStandardize: s.standardize.Variant(),
		formatter.SymbolTelegramify: s.platform.Variant(),
	}
}

func (s *FormatterService) Markdownify(ctx context.Context, text string) (string, error) {
	out, err := guard(func() (string, error) {
		return s.markdown.Convert(ctx, text)
	})
	if err != nil {
		return "", &InternalError{Op: formatter.SymbolMarkdownify, Err: err}
	}
	return out, nil
}

func (s *FormatterService) Telegramify(ctx context.Context, text string) ([]model.Record, error) {
	records, err := guard(func() ([]model.Record, error) {
		return s.platform.Convert(ctx, text)
	})
	if err != nil {
		return nil, &InternalError{Op: formatter.SymbolTelegramify, Err: err}
	}
	return records, nil
}

func (s *FormatterService) Standardize(ctx context.Context, text string) (string, error) {
	out, err := guard(func() (string, error) {
		return s.standardize.Convert(ctx, text)
	})
	if err != nil {
		return "", &InternalError{Op: formatter.SymbolStandardize, Err: err}
	}
	return out, nil
}

func (s *FormatterService) Health() model.StatusResponse {
	return model.StatusResponse{Message: HealthMessage}
}

// Capabilities отражает символы модуля на момент вызова.
func (s *FormatterService) Capabilities() model.DebugResponse {
	has := func(name string) bool {
		_, ok := s.module.Lookup(name)
		return ok
	}

	names := s.module.Names()
	if names == nil {
		names = []string{}
	}
	return model.DebugResponse{
		AvailableFunctions: names,
		HasMarkdownify:     has(formatter.SymbolMarkdownify),
		HasTelegramify:     has(formatter.SymbolTelegramify),
		HasStandardize:     has(formatter.SymbolStandardize),
	}
}

// guard превращает панику библиотеки в ошибку.
func guard[T any](fn func() (T, error)) (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func flatten(items []formatter.Item) ([]model.Record, error) {
	records := make([]model.Record, 0, len(items))
	for i, item := range items {
		rec, err := toRecord(item)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize item %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// toRecord раскладывает структуру в map по тегам mapstructure.
// Всё остальное становится TEXT-элементом со строковым представлением.
func toRecord(item formatter.Item) (model.Record, error) {
	if item == nil || reflect.Indirect(reflect.ValueOf(item)).Kind() != reflect.Struct {
		return model.Record{"type": formatter.TypeText, "content": fmt.Sprint(item)}, nil
	}

	var rec map[string]any
	if err := mapstructure.Decode(item, &rec); err != nil {
		return nil, err
	}
	if _, ok := rec["type"]; !ok {
		rec["type"] = item.ContentType()
	}
	return rec, nil
}
