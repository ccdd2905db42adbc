package formatter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

func newParser() parser.Parser {
	return goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()
}

// renderer переводит AST goldmark в Telegram MarkdownV2.
type renderer struct {
	src    []byte
	opts   Options
	bold   bool
	italic bool
}

func (r *renderer) document(doc ast.Node) string {
	return strings.Join(r.blocks(doc), "\n\n")
}

func (r *renderer) blocks(parent ast.Node) []string {
	var out []string
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if s := r.block(c); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (r *renderer) block(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Heading:
		content := r.nested(&r.bold, n)
		if content == "" {
			return ""
		}
		return "*" + content + "*"
	case *ast.Paragraph:
		return r.inlines(n)
	case *ast.TextBlock:
		return r.inlines(n)
	case *ast.ThematicBreak:
		return Escape(r.opts.ThematicBreak)
	case *ast.FencedCodeBlock:
		return pre(string(n.Language(r.src)), r.lines(n))
	case *ast.CodeBlock:
		return pre("", r.lines(n))
	case *ast.HTMLBlock:
		raw := r.lines(n)
		if n.HasClosure() {
			raw += string(n.ClosureLine.Value(r.src))
		}
		return Escape(strings.TrimRight(raw, "\n"))
	case *ast.Blockquote:
		return quote(strings.Join(r.blocks(n), "\n"))
	case *ast.List:
		return r.list(n)
	case *east.Table:
		return r.table(n)
	}

	if n.Type() == ast.TypeBlock && n.HasChildren() && n.FirstChild().Type() == ast.TypeBlock {
		return strings.Join(r.blocks(n), "\n\n")
	}
	return r.inlines(n)
}

func (r *renderer) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(r.src))
	}
	return b.String()
}

func pre(lang, code string) string {
	if code != "" && !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	return "```" + escapeCode(lang) + "\n" + escapeCode(code) + "```"
}

// quote префиксует каждую строку ">". Вложенные цитаты Telegram не поддерживает,
// поэтому внутренние маркеры схлопываются.
func quote(s string) string {
	return prefixLines(s, 0, func(line string) string {
		return ">" + strings.TrimLeft(line, ">")
	})
}

func (r *renderer) list(l *ast.List) string {
	var items []string
	num := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := Escape(r.opts.Bullet)
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d\\%c", num, l.Marker)
			num++
		}
		body := strings.Join(r.blocks(item), "\n")
		items = append(items, marker+" "+indent(body, "  "))
	}
	return strings.Join(items, "\n")
}

// indent сдвигает все строки, кроме первой.
func indent(s, prefix string) string {
	return prefixLines(s, 1, func(line string) string {
		return prefix + line
	})
}

// prefixLines применяет fn к строкам начиная с from. Содержимое и закрывающий
// маркер блоков кода не трогаются. Обратные кавычки в тексте и коде экранированы,
// так что строка, начинающаяся с "```" после отступов и ">", всегда маркер блока.
func prefixLines(s string, from int, fn func(string) string) string {
	lines := strings.Split(s, "\n")
	inCode := false
	for i, line := range lines {
		fence := strings.HasPrefix(strings.TrimLeft(line, "> "), "```")
		if i >= from && !inCode {
			lines[i] = fn(line)
		}
		if fence {
			inCode = !inCode
		}
	}
	return strings.Join(lines, "\n")
}

func (r *renderer) table(t *east.Table) string {
	var rows [][]string
	var widths []int
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			content := strings.TrimSpace(r.plain(cell))
			if i := len(cells); i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := utf8.RuneCountInString(content); w > widths[len(cells)] {
				widths[len(cells)] = w
			}
			cells = append(cells, content)
		}
		rows = append(rows, cells)
	}

	var b strings.Builder
	for i, cells := range rows {
		for j, c := range cells {
			if j > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(c)
			if j < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[j]-utf8.RuneCountInString(c)))
			}
		}
		b.WriteByte('\n')
		if i == 0 {
			for j, w := range widths {
				if j > 0 {
					b.WriteString("-+-")
				}
				b.WriteString(strings.Repeat("-", w))
			}
			b.WriteByte('\n')
		}
	}
	return pre("", b.String())
}

func (r *renderer) inlines(parent ast.Node) string {
	var b strings.Builder
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(r.inline(c))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *renderer) inline(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Text:
		s := Escape(r.text(n))
		if n.SoftLineBreak() || n.HardLineBreak() {
			s += "\n"
		}
		return s
	case *ast.String:
		return Escape(string(n.Value))
	case *ast.CodeSpan:
		return "`" + escapeCode(r.plain(n)) + "`"
	case *ast.Emphasis:
		if n.Level < 2 {
			if r.italic {
				return r.inlines(n)
			}
			return "_" + r.nested(&r.italic, n) + "_"
		}
		if r.bold {
			return r.inlines(n)
		}
		return "*" + r.nested(&r.bold, n) + "*"
	case *east.Strikethrough:
		return "~" + r.inlines(n) + "~"
	case *ast.Link:
		label := r.inlines(n)
		if label == "" {
			label = Escape(string(n.Destination))
		}
		return "[" + label + "](" + escapeLink(string(n.Destination)) + ")"
	case *ast.AutoLink:
		url := string(n.URL(r.src))
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
			url = "mailto:" + url
		}
		return "[" + Escape(string(n.Label(r.src))) + "](" + escapeLink(url) + ")"
	case *ast.Image:
		alt := strings.TrimSpace(r.plain(n))
		if alt == "" {
			alt = r.opts.ImageLabel
		}
		return "[" + Escape(alt) + "](" + escapeLink(string(n.Destination)) + ")"
	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(r.src))
		}
		return Escape(b.String())
	case *east.TaskCheckBox:
		if n.IsChecked {
			return Escape(r.opts.TaskDone)
		}
		return Escape(r.opts.TaskTodo)
	}
	return r.inlines(n)
}

// nested рендерит потомков внутри выделения, отмеченного флагом.
// Повторный маркер того же вида закрыл бы выделение раньше времени.
func (r *renderer) nested(flag *bool, n ast.Node) string {
	prev := *flag
	*flag = true
	defer func() { *flag = prev }()
	return r.inlines(n)
}

// text возвращает содержимое текстового узла с раскрытыми \-экранированиями и сущностями.
func (r *renderer) text(n *ast.Text) string {
	value := n.Segment.Value(r.src)
	if n.IsRaw() {
		return string(value)
	}
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	value = util.ResolveEntityNames(value)
	return string(value)
}

// plain собирает текст поддерева без разметки.
func (r *renderer) plain(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			if _, code := c.Parent().(*ast.CodeSpan); code {
				b.Write(c.Segment.Value(r.src))
			} else {
				b.WriteString(r.text(c))
			}
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.AutoLink:
			b.Write(c.Label(r.src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// markdownify разбирает src и рендерит его целиком.
func (m *Module) markdownify(src []byte) string {
	doc := m.parser.Parse(text.NewReader(src))
	r := &renderer{src: src, opts: m.opts}
	return r.document(doc)
}
