package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Виды приемников лог-записей.
const (
	KindStdout = "stdout"
	KindStderr = "stderr"
	KindFile   = "file"
)

// Форматы записи.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config описывает файл logconfig.yml.
type Config struct {
	Root      RootConfig                `yaml:"root"`
	Appenders map[string]AppenderConfig `yaml:"appenders"`
	Loggers   map[string]string         `yaml:"loggers"` // имя логгера -> уровень
}

// RootConfig задает уровень и приемник корневого логгера.
type RootConfig struct {
	Level    string `yaml:"level"`
	Appender string `yaml:"appender"`
}

// AppenderConfig описывает один приемник записей.
type AppenderConfig struct {
	Kind   string `yaml:"kind"`
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

// LoadConfig читает и проверяет YAML-конфигурацию логгера.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения конфигурации логгера %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig разбирает YAML-конфигурацию логгера из байтов.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации логгера: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет уровни и ссылки на приемники.
func (c *Config) Validate() error {
	if c.Root.Level == "" {
		c.Root.Level = "info"
	}
	if _, err := ParseLevel(c.Root.Level); err != nil {
		return fmt.Errorf("root: %w", err)
	}

	if c.Root.Appender == "" {
		c.Root.Appender = KindStdout
	}
	if _, ok := c.Appenders[c.Root.Appender]; !ok {
		switch c.Root.Appender {
		case KindStdout, KindStderr:
			// Встроенные приемники можно не описывать
		default:
			return fmt.Errorf("root: неизвестный приемник %q", c.Root.Appender)
		}
	}

	for name, a := range c.Appenders {
		// Открывается только приемник root
		if name != c.Root.Appender {
			return fmt.Errorf("appender %s: не используется, активен только root.appender (%s)", name, c.Root.Appender)
		}
		switch a.Kind {
		case KindStdout, KindStderr:
		case KindFile:
			if a.Path == "" {
				return fmt.Errorf("appender %s: не указан path", name)
			}
		default:
			return fmt.Errorf("appender %s: неизвестный вид %q", name, a.Kind)
		}
		switch a.Format {
		case "", FormatText, FormatJSON:
		default:
			return fmt.Errorf("appender %s: неизвестный формат %q", name, a.Format)
		}
	}

	for name, level := range c.Loggers {
		if name == "" {
			return errors.New("loggers: пустое имя логгера")
		}
		if _, err := ParseLevel(level); err != nil {
			return fmt.Errorf("logger %s: %w", name, err)
		}
	}
	return nil
}

// rootAppender возвращает описание приемника корневого логгера.
func (c *Config) rootAppender() AppenderConfig {
	if a, ok := c.Appenders[c.Root.Appender]; ok {
		return a
	}
	return AppenderConfig{Kind: c.Root.Appender}
}

// ParseLevel переводит имя уровня в slog.Level.
// Поддерживается trace как синоним debug.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace", "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "off":
		return levelOff, nil
	default:
		return 0, fmt.Errorf("неизвестный уровень логирования %q", s)
	}
}
