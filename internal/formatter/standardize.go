package formatter

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// normalizer приводит входной текст к единому Markdown.
// HTML-документы очищаются политикой UGC и конвертируются в Markdown.
type normalizer struct {
	policy    *bluemonday.Policy
	converter *md.Converter
}

func newNormalizer() *normalizer {
	return &normalizer{
		policy:    bluemonday.UGCPolicy(),
		converter: md.NewConverter("", true, nil),
	}
}

func (n *normalizer) Normalize(input string) (string, error) {
	s := strings.ReplaceAll(input, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	if looksLikeHTML(s) {
		converted, err := n.converter.ConvertString(n.policy.Sanitize(s))
		if err != nil {
			return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
		}
		s = converted
	}

	return tidy(s), nil
}

// looksLikeHTML сообщает, начинается ли текст с известного HTML-тега.
func looksLikeHTML(s string) bool {
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) != "" {
				return false
			}
		case html.DoctypeToken:
			return true
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			return atom.Lookup(name) != 0
		}
	}
}

// tidy убирает хвостовые пробелы и лишние пустые строки вне блоков кода.
func tidy(s string) string {
	var out []string
	var fence string
	blank := 0
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if fence != "" {
			out = append(out, line)
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fence = trimmed[:3]
		}

		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	return strings.Trim(strings.Join(out, "\n"), "\n")
}

// Standardize приводит текст (Markdown или HTML) к единому виду и конвертирует в MarkdownV2.
func (m *Module) Standardize(input string) (string, error) {
	if err := m.check(input); err != nil {
		return "", err
	}

	normalized, err := m.normalizer.Normalize(input)
	if err != nil {
		return "", err
	}
	return m.markdownify([]byte(normalized)), nil
}
