// Package formatter конвертирует Markdown в формат Telegram MarkdownV2.
//
// Возможности библиотеки доступны как именованные символы модуля
// (markdownify, telegramify, standardize, escape). Необязательные символы
// можно отключить при открытии модуля.
package formatter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/yuin/goldmark/parser"
)

// Имена экспортируемых символов.
const (
	SymbolMarkdownify = "markdownify"
	SymbolTelegramify = "telegramify"
	SymbolStandardize = "standardize"
	SymbolEscape      = "escape"
)

var (
	ErrInvalidEncoding    = errors.New("input is not valid UTF-8")
	ErrInputTooLarge      = errors.New("input exceeds size limit")
	ErrRequiredCapability = errors.New("required capability cannot be disabled")
	ErrUnknownCapability  = errors.New("unknown capability")
)

// Сигнатуры символов модуля.
type (
	MarkdownifyFunc func(text string) (string, error)
	TelegramifyFunc func(ctx context.Context, text string) ([]Item, error)
	StandardizeFunc func(text string) (string, error)
	EscapeFunc      func(text string) string
)

// Module представляет загруженный экземпляр библиотеки.
type Module struct {
	Name    string
	Version string

	opts       Options
	parser     parser.Parser
	normalizer *normalizer
	symbols    map[string]any
}

// Open загружает модуль. Символы из disabled не экспортируются;
// markdownify отключить нельзя.
func Open(opts Options, disabled ...string) (*Module, error) {
	mf, err := loadManifest()
	if err != nil {
		return nil, err
	}

	m := &Module{
		Name:       mf.Name,
		Version:    mf.Version,
		opts:       opts.withDefaults(mf.Defaults),
		parser:     newParser(),
		normalizer: newNormalizer(),
	}
	m.symbols = map[string]any{
		SymbolMarkdownify: MarkdownifyFunc(m.Markdownify),
		SymbolTelegramify: TelegramifyFunc(m.Telegramify),
		SymbolStandardize: StandardizeFunc(m.Standardize),
		SymbolEscape:      EscapeFunc(Escape),
	}

	for _, name := range disabled {
		switch {
		case name == SymbolMarkdownify:
			return nil, fmt.Errorf("%w: %s", ErrRequiredCapability, name)
		case m.symbols[name] == nil:
			return nil, fmt.Errorf("%w: %q", ErrUnknownCapability, name)
		}
		delete(m.symbols, name)
	}

	return m, nil
}

// Lookup возвращает символ по имени.
func (m *Module) Lookup(name string) (any, bool) {
	sym, ok := m.symbols[name]
	return sym, ok
}

// Names возвращает отсортированный список экспортируемых символов.
func (m *Module) Names() []string {
	names := make([]string, 0, len(m.symbols))
	for name := range m.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options возвращает итоговые настройки модуля.
func (m *Module) Options() Options {
	return m.opts
}

// Markdownify конвертирует Markdown (CommonMark + GFM) в Telegram MarkdownV2.
func (m *Module) Markdownify(text string) (string, error) {
	if err := m.check(text); err != nil {
		return "", err
	}
	return m.markdownify([]byte(text)), nil
}

func (m *Module) check(text string) error {
	if m.opts.MaxInputSize > 0 && len(text) > m.opts.MaxInputSize {
		return fmt.Errorf("%w: %d > %d bytes", ErrInputTooLarge, len(text), m.opts.MaxInputSize)
	}
	if !utf8.ValidString(text) {
		return ErrInvalidEncoding
	}
	return nil
}
