package damon

import (
	"path/filepath"
	"time"

	"github.com/sirkon/errors"
)

// ParseFull разбор файла записи целиком. При ошибке разбора возвращаются
// снимки вычитанные до неё вместе с ошибкой.
func ParseFull(name string, opts ...Option) (_ *Result, err error) {
	c, err := OpenCursor(name, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "open cursor")
	}

	defer func() {
		if cErr := c.Close(); cErr != nil && err == nil {
			err = errors.Wrap(cErr, "close cursor")
		}
	}()

	res, err := c.ReadAll()
	if err != nil {
		return res, errors.Wrap(err, "read records")
	}

	return res, nil
}

// ParseUntil разбор очередного окна файла. Если cur равен nil, файл
// открывается и версия формата определяется заново, иначе разбор
// продолжается с позиции cur с уже определённой версией.
//
// Возвращаются снимки окна, курсор для продолжения и версия формата.
// Курсор закрывает вызывающий, в том числе после ошибки разбора.
func ParseUntil(name string, cur *Cursor, until time.Duration, opts ...Option) (*Result, *Cursor, Version, error) {
	if cur == nil {
		c, err := OpenCursor(name, opts...)
		if err != nil {
			return nil, nil, 0, errors.Wrap(err, "open cursor")
		}

		cur = c
	} else if !samePath(cur.Name(), name) {
		return nil, cur, cur.Version(), errors.New("cursor belongs to another file").
			Str("file-name", name).
			Str("cursor-file-name", cur.Name())
	}

	res, err := cur.ReadUntil(until)
	if err != nil {
		return res, cur, cur.Version(), errors.Wrap(err, "read records window")
	}

	return res, cur, cur.Version(), nil
}

// samePath пути указывают на один файл без учёта записи пути: "./a" и "a"
// совпадают.
func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}

	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
