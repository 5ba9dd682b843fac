package damon

import (
	"io"

	"github.com/sirkon/errors"
)

const (
	// ErrUnrecognizedFormat неизвестная метка или версия формата.
	ErrUnrecognizedFormat errors.Const = "unrecognized record file format"

	// ErrTruncatedRecord файл закончился посреди записи.
	ErrTruncatedRecord errors.Const = "truncated record"

	// ErrCorruptCount заявленное количество целей или регионов не
	// помещается в остаток файла.
	ErrCorruptCount errors.Const = "corrupt count"

	// ErrCorruptRecord нарушены инварианты записи: начало региона
	// больше его конца или время снимка идёт назад.
	ErrCorruptRecord errors.Const = "corrupt record"

	// ErrIOFailure ошибка чтения источника. Исходная ошибка доступна
	// через errors.Is/errors.As.
	ErrIOFailure errors.Const = "i/o failure"

	// ErrCursorClosed попытка чтения через закрытый курсор.
	ErrCursorClosed errors.Const = "cursor is closed"
)

// ioFailure обёртка над ошибкой чтения, которая одновременно является
// ErrIOFailure и сохраняет исходную ошибку в цепочке.
type ioFailure struct {
	err error
}

func (e ioFailure) Error() string {
	return string(ErrIOFailure) + ": " + e.err.Error()
}

func (e ioFailure) Unwrap() error {
	return e.err
}

func (e ioFailure) Is(target error) bool {
	return target == ErrIOFailure
}

func wrapIOFailure(err error, msg string) error {
	return errors.Wrap(ioFailure{err: err}, msg)
}

// readError превращает ошибку чтения поля в ошибку таксономии:
// конец данных посреди записи означает обрезанную запись, всё остальное
// считается сбоем ввода-вывода.
func readError(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrTruncatedRecord
	}

	return ioFailure{err: err}
}
