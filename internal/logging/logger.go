// Package logging определяет структурированный логгер, используемый во всем
// сервере, и его настройку из YAML-файла.
//
// Логгеры образуют иерархию по именам, разделенным точкой
// ("handlers", "handlers.auth"). Уровень именованного логгера берется из
// самого длинного совпавшего префикса в конфигурации, иначе из root.
package logging

import "context"

// Logger - контекстный структурированный логгер.
//
// Вариативные аргументы - пары ключ-значение:
//
//	log.Info(ctx, "пользователь создан", "username", name, "user_id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With возвращает дочерний логгер, всегда добавляющий указанные пары.
	With(args ...any) Logger

	// Named возвращает дочерний логгер с именем "<текущее>.<name>".
	// Уровень дочернего логгера вычисляется заново по конфигурации.
	Named(name string) Logger
}
