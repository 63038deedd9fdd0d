package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// levelOff выключает логгер полностью.
const levelOff = slog.Level(100)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// levelTable хранит уровни именованных логгеров.
type levelTable struct {
	root   slog.Level
	byName map[string]slog.Level
}

// resolve возвращает уровень для логгера по самому длинному префиксу имени.
func (t *levelTable) resolve(name string) slog.Level {
	for n := name; n != ""; {
		if lvl, ok := t.byName[n]; ok {
			return lvl
		}
		i := strings.LastIndexByte(n, '.')
		if i < 0 {
			break
		}
		n = n[:i]
	}
	return t.root
}

// SlogLogger реализует Logger поверх slog.
type SlogLogger struct {
	base   *slog.Logger // без атрибута logger
	l      *slog.Logger
	name   string
	level  slog.Level
	levels *levelTable
}

var _ Logger = (*SlogLogger)(nil)

// NewSlogLogger оборачивает готовый slog.Logger. Фильтрация по именам
// не выполняется, уровень определяет сам обработчик slog.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{
		base:   l,
		l:      l,
		level:  slog.LevelDebug,
		levels: &levelTable{root: slog.LevelDebug},
	}
}

// NewNop возвращает логгер, который ничего не пишет.
func NewNop() *SlogLogger {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &SlogLogger{
		base:   l,
		l:      l,
		level:  levelOff,
		levels: &levelTable{root: levelOff},
	}
}

// New создает корневой логгер по конфигурации. Возвращаемый io.Closer
// закрывает файловый приемник, если он использовался.
func New(cfg *Config) (*SlogLogger, io.Closer, error) {
	root, err := ParseLevel(cfg.Root.Level)
	if err != nil {
		return nil, nil, err
	}
	table := &levelTable{root: root, byName: make(map[string]slog.Level, len(cfg.Loggers))}
	for name, s := range cfg.Loggers {
		lvl, parseErr := ParseLevel(s)
		if parseErr != nil {
			return nil, nil, parseErr
		}
		table.byName[name] = lvl
	}

	appender := cfg.rootAppender()
	w, closer, err := openAppender(appender)
	if err != nil {
		return nil, nil, err
	}

	// Обработчик пропускает все уровни, фильтрация выполняется в SlogLogger.
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var h slog.Handler
	if appender.Format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	l := slog.New(h)
	return &SlogLogger{base: l, l: l, level: root, levels: table}, closer, nil
}

// Init читает конфигурацию из файла и создает корневой логгер.
func Init(path string) (*SlogLogger, io.Closer, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	return New(cfg)
}

func openAppender(a AppenderConfig) (io.Writer, io.Closer, error) {
	switch a.Kind {
	case KindStderr:
		return os.Stderr, nopCloser{}, nil
	case KindFile:
		if dir := filepath.Dir(a.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, nil, fmt.Errorf("ошибка создания каталога логов: %w", err)
			}
		}
		f, err := os.OpenFile(a.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err != nil {
			return nil, nil, fmt.Errorf("ошибка открытия файла логов: %w", err)
		}
		return f, f, nil
	default:
		return os.Stdout, nopCloser{}, nil
	}
}

func (s *SlogLogger) enabled(level slog.Level) bool {
	return level >= s.level
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	if s.enabled(slog.LevelDebug) {
		s.l.DebugContext(ctx, msg, args...)
	}
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	if s.enabled(slog.LevelInfo) {
		s.l.InfoContext(ctx, msg, args...)
	}
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	if s.enabled(slog.LevelWarn) {
		s.l.WarnContext(ctx, msg, args...)
	}
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	if s.enabled(slog.LevelError) {
		s.l.ErrorContext(ctx, msg, args...)
	}
}

func (s *SlogLogger) With(args ...any) Logger {
	return s.derive(s.base.With(args...), s.name)
}

func (s *SlogLogger) Named(name string) Logger {
	full := name
	if s.name != "" {
		full = s.name + "." + name
	}
	return s.derive(s.base, full)
}

func (s *SlogLogger) derive(base *slog.Logger, name string) *SlogLogger {
	l := base
	if name != "" {
		l = base.With("logger", name)
	}
	return &SlogLogger{
		base:   base,
		l:      l,
		name:   name,
		level:  s.levels.resolve(name),
		levels: s.levels,
	}
}
