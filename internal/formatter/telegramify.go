package formatter

import (
	"context"
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Типы элементов разбитого сообщения.
const (
	TypeText  = "TEXT"
	TypeFile  = "FILE"
	TypePhoto = "PHOTO"
)

// Item представляет одну часть сообщения для отправки в Telegram.
type Item interface {
	ContentType() string
}

// Text представляет текстовое сообщение в MarkdownV2.
type Text struct {
	Type    string `mapstructure:"type"`
	Content string `mapstructure:"content"`
}

func (t *Text) ContentType() string { return t.Type }

// File представляет блок кода, отправляемый документом.
type File struct {
	Type     string `mapstructure:"type"`
	FileName string `mapstructure:"file_name"`
	FileData []byte `mapstructure:"file_data"`
	Caption  string `mapstructure:"caption"`
}

func (f *File) ContentType() string { return f.Type }

// Photo представляет диаграмму mermaid, отрисованную внешним сервисом по URL.
type Photo struct {
	Type     string `mapstructure:"type"`
	FileName string `mapstructure:"file_name"`
	URL      string `mapstructure:"url"`
	Caption  string `mapstructure:"caption"`
}

func (p *Photo) ContentType() string { return p.Type }

var codeExtensions = map[string]string{
	"":           "txt",
	"text":       "txt",
	"go":         "go",
	"golang":     "go",
	"python":     "py",
	"py":         "py",
	"javascript": "js",
	"js":         "js",
	"typescript": "ts",
	"ts":         "ts",
	"bash":       "sh",
	"sh":         "sh",
	"shell":      "sh",
	"json":       "json",
	"yaml":       "yaml",
	"yml":        "yaml",
	"sql":        "sql",
	"html":       "html",
	"css":        "css",
	"c":          "c",
	"cpp":        "cpp",
	"c++":        "cpp",
	"rust":       "rs",
	"java":       "java",
	"kotlin":     "kt",
	"ruby":       "rb",
}

// Telegramify разбивает документ на сообщения: текст режется по границам блоков
// в пределах MaxMessageLength, длинный код уходит файлом, mermaid картинкой.
func (m *Module) Telegramify(ctx context.Context, input string) ([]Item, error) {
	if err := m.check(input); err != nil {
		return nil, err
	}

	src := []byte(input)
	doc := m.parser.Parse(text.NewReader(src))
	r := &renderer{src: src, opts: m.opts}
	s := &splitter{limit: m.opts.MaxMessageLength}

	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if fenced, ok := c.(*ast.FencedCodeBlock); ok {
			lang := strings.ToLower(string(fenced.Language(src)))
			switch {
			case lang == "mermaid":
				s.attach(m.diagram(r.lines(fenced)))
				continue
			case m.opts.MaxCodeLines > 0 && fenced.Lines().Len() > m.opts.MaxCodeLines:
				s.attach(codeFile(lang, r.lines(fenced)))
				continue
			}
		}

		s.add(r.block(c))
	}

	return s.finish(), nil
}

func codeFile(lang, code string) *File {
	ext, ok := codeExtensions[lang]
	if !ok {
		ext = "txt"
	}
	name := "code." + ext
	return &File{
		Type:     TypeFile,
		FileName: name,
		FileData: []byte(code),
		Caption:  Escape(name),
	}
}

func (m *Module) diagram(source string) *Photo {
	return &Photo{
		Type:     TypePhoto,
		FileName: "diagram.jpg",
		URL:      m.opts.MermaidEndpoint + base64.URLEncoding.EncodeToString([]byte(source)),
		Caption:  Escape("mermaid"),
	}
}

// splitter собирает отрендеренные блоки в сообщения.
type splitter struct {
	limit int
	items []Item
	chunk []string
	size  int
}

func (s *splitter) add(block string) {
	if block == "" {
		return
	}
	n := utf8.RuneCountInString(block)
	if len(s.chunk) > 0 && s.limit > 0 && s.size+2+n > s.limit {
		s.flush()
	}
	if len(s.chunk) > 0 {
		s.size += 2
	}
	s.chunk = append(s.chunk, block)
	s.size += n
}

func (s *splitter) attach(item Item) {
	s.flush()
	s.items = append(s.items, item)
}

func (s *splitter) flush() {
	if len(s.chunk) == 0 {
		return
	}
	s.items = append(s.items, &Text{Type: TypeText, Content: strings.Join(s.chunk, "\n\n")})
	s.chunk = nil
	s.size = 0
}

func (s *splitter) finish() []Item {
	s.flush()
	if s.items == nil {
		return []Item{}
	}
	return s.items
}
