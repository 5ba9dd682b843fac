package damon

import (
	"time"

	"github.com/google/uuid"
)

// Logger абстракция для логирования в строго определённых ситуациях.
// Реализация логирования делается пользователями библиотеки.
type Logger interface {
	// FormatDetected версия формата файла определена.
	FormatDetected(cursor uuid.UUID, name string, version Version)

	// WindowReached вычитан снимок, начало которого относительно базового
	// времени at не меньше границы окна until.
	WindowReached(cursor uuid.UUID, until, at time.Duration)

	// CursorExhausted файл вычитан до конца, pos — итоговая позиция.
	CursorExhausted(cursor uuid.UUID, pos int64)
}

type nopLogger struct{}

func (nopLogger) FormatDetected(uuid.UUID, string, Version)             {}
func (nopLogger) WindowReached(uuid.UUID, time.Duration, time.Duration) {}
func (nopLogger) CursorExhausted(uuid.UUID, int64)                      {}
