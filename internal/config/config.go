package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/vladimish/telegramify-markdown-api/internal/formatter"
)

// Config хранит конфигурацию сервера
type Config struct {
	ServerAddress   string
	GRPCAddress     string
	CORSOrigins     []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	LogLevel     string
	LogFile      string
	LogMaxSizeMB int

	DisabledCapabilities []string
	MaxMessageLength     int
	MaxCodeLines         int
	MaxInputSize         int

	ConfigPath string
}

var defaults = map[string]any{
	"server_address":        "0.0.0.0:8000",
	"grpc_address":          "",
	"cors_origins":          "*",
	"request_timeout":       30 * time.Second,
	"shutdown_timeout":      10 * time.Second,
	"log_level":             "info",
	"log_file":              "",
	"log_max_size_mb":       100,
	"disabled_capabilities": "",
	"max_message_length":    0,
	"max_code_lines":        0,
	"max_input_size":        0,
}

// Load собирает конфигурацию. Приоритет: флаги, переменные окружения,
// файл конфигурации, значения по умолчанию.
func Load(args []string) (*Config, error) {
	// .env не переопределяет уже заданные переменные окружения
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	fset := flag.NewFlagSet("server", flag.ContinueOnError)
	serverAddress := fset.String("a", "", "HTTP server address")
	grpcAddress := fset.String("g", "", "gRPC server address, empty disables gRPC")
	corsOrigins := fset.String("cors", "", "comma-separated allowed CORS origins")
	requestTimeout := fset.Duration("timeout", 0, "request timeout")
	logLevel := fset.String("l", "", "log level")
	disabled := fset.String("disable", "", "comma-separated capabilities to disable")
	configPath := fset.String("c", "", "path to config file (JSON or YAML)")
	fset.StringVar(configPath, "config", "", "path to config file (JSON or YAML)")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	if *configPath == "" {
		*configPath = os.Getenv("CONFIG")
	}
	if *configPath != "" {
		v.SetConfigFile(*configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", *configPath, err)
		}
	}

	// Флаги задаются явно: viper не знает о стандартном flag.FlagSet
	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			v.Set("server_address", *serverAddress)
		case "g":
			v.Set("grpc_address", *grpcAddress)
		case "cors":
			v.Set("cors_origins", *corsOrigins)
		case "timeout":
			v.Set("request_timeout", *requestTimeout)
		case "l":
			v.Set("log_level", *logLevel)
		case "disable":
			v.Set("disabled_capabilities", *disabled)
		}
	})

	cfg := &Config{
		ServerAddress:        v.GetString("server_address"),
		GRPCAddress:          v.GetString("grpc_address"),
		CORSOrigins:          splitList(v.GetStringSlice("cors_origins")),
		RequestTimeout:       v.GetDuration("request_timeout"),
		ShutdownTimeout:      v.GetDuration("shutdown_timeout"),
		LogLevel:             strings.ToLower(v.GetString("log_level")),
		LogFile:              v.GetString("log_file"),
		LogMaxSizeMB:         v.GetInt("log_max_size_mb"),
		DisabledCapabilities: splitList(v.GetStringSlice("disabled_capabilities")),
		MaxMessageLength:     v.GetInt("max_message_length"),
		MaxCodeLines:         v.GetInt("max_code_lines"),
		MaxInputSize:         v.GetInt("max_input_size"),
		ConfigPath:           *configPath,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (cfg *Config) Validate() error {
	return validation.ValidateStruct(cfg,
		validation.Field(&cfg.ServerAddress, validation.Required, is.DialString),
		validation.Field(&cfg.GRPCAddress, is.DialString),
		validation.Field(&cfg.CORSOrigins, validation.Required),
		validation.Field(&cfg.RequestTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&cfg.ShutdownTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&cfg.LogLevel, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&cfg.LogMaxSizeMB, validation.Min(1)),
		validation.Field(&cfg.DisabledCapabilities, validation.Each(
			validation.In(formatter.SymbolTelegramify, formatter.SymbolStandardize, formatter.SymbolEscape).
				Error("only telegramify, standardize and escape can be disabled"),
		)),
		validation.Field(&cfg.MaxMessageLength, validation.Min(0)),
		validation.Field(&cfg.MaxCodeLines, validation.Min(0)),
		validation.Field(&cfg.MaxInputSize, validation.Min(0)),
	)
}

// FormatterOptions переносит лимиты в настройки библиотеки. Нули заменяются значениями по умолчанию.
func (cfg *Config) FormatterOptions() formatter.Options {
	return formatter.Options{
		MaxMessageLength: cfg.MaxMessageLength,
		MaxCodeLines:     cfg.MaxCodeLines,
		MaxInputSize:     cfg.MaxInputSize,
	}
}

// splitList принимает как списки из файла, так и строки через запятую.
func splitList(raw []string) []string {
	out := []string{}
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
