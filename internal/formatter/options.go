package formatter

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/module.yaml
var manifestFS embed.FS

// Options настраивает рендеринг и разбиение сообщений.
// Нулевые поля заполняются значениями из встроенного манифеста.
type Options struct {
	MaxMessageLength int    `yaml:"max_message_length"`
	MaxCodeLines     int    `yaml:"max_code_lines"`
	MaxInputSize     int    `yaml:"max_input_size"`
	Bullet           string `yaml:"bullet"`
	TaskDone         string `yaml:"task_done"`
	TaskTodo         string `yaml:"task_todo"`
	ThematicBreak    string `yaml:"thematic_break"`
	ImageLabel       string `yaml:"image_label"`
	MermaidEndpoint  string `yaml:"mermaid_endpoint"`
}

type manifest struct {
	Name     string  `yaml:"name"`
	Version  string  `yaml:"version"`
	Defaults Options `yaml:"defaults"`
}

func loadManifest() (*manifest, error) {
	data, err := manifestFS.ReadFile("config/module.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return &m, nil
}

// DefaultOptions возвращает настройки по умолчанию из манифеста.
func DefaultOptions() (Options, error) {
	m, err := loadManifest()
	if err != nil {
		return Options{}, err
	}
	return m.Defaults, nil
}

// withDefaults дополняет незаданные поля значениями def.
func (o Options) withDefaults(def Options) Options {
	if o.MaxMessageLength <= 0 {
		o.MaxMessageLength = def.MaxMessageLength
	}
	if o.MaxCodeLines <= 0 {
		o.MaxCodeLines = def.MaxCodeLines
	}
	if o.MaxInputSize <= 0 {
		o.MaxInputSize = def.MaxInputSize
	}
	if o.Bullet == "" {
		o.Bullet = def.Bullet
	}
	if o.TaskDone == "" {
		o.TaskDone = def.TaskDone
	}
	if o.TaskTodo == "" {
		o.TaskTodo = def.TaskTodo
	}
	if o.ThematicBreak == "" {
		o.ThematicBreak = def.ThematicBreak
	}
	if o.ImageLabel == "" {
		o.ImageLabel = def.ImageLabel
	}
	if o.MermaidEndpoint == "" {
		o.MermaidEndpoint = def.MermaidEndpoint
	}
	return o
}
