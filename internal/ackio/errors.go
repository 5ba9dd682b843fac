package ackio

import "github.com/sirkon/errors"

const (
	// missingFrameDefaultSize размер порции чтения если он не задан опцией.
	missingFrameDefaultSize = 64 * 1024

	// emptyReadsLimit количество подряд идущих пустых чтений без ошибки
	// после которых источник считается сломанным.
	emptyReadsLimit = 16
)

// ErrNoProgress источник раз за разом возвращает пустой результат без ошибки.
const ErrNoProgress errors.Const = "multiple empty reads from the source in a row"
