package formatter

import "strings"

// Символы, которые Telegram MarkdownV2 требует экранировать в обычном тексте.
const specialChars = "\\_*[]()~`>#+-=|{}.!"

// Escape экранирует текст для MarkdownV2.
func Escape(s string) string {
	return escapeSet(s, specialChars)
}

// escapeCode экранирует содержимое `code` и ```pre``` блоков.
func escapeCode(s string) string {
	return escapeSet(s, "\\`")
}

// escapeLink экранирует URL внутри (...) ссылки.
func escapeLink(s string) string {
	return escapeSet(s, "\\)")
}

func escapeSet(s, set string) string {
	if !strings.ContainsAny(s, set) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if strings.ContainsRune(set, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
