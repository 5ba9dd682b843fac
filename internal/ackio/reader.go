package ackio

import (
	"io"

	"github.com/sirkon/errors"
)

// Reader буферизованная читалка из источника с функциональностью
// подтверждения вычитки и отката к началу неподтверждённых данных.
//
// Вычитанные, но не подтверждённые данные остаются в буфере, поэтому
// откат не требует повторного чтения из источника.
type Reader struct {
	src io.Reader
	buf []byte
	frm int

	pos   int64
	ur    int
	r     int
	lim   int
	eof   bool
	empty int
}

// New конструктор читалки с данным источником и опциями.
func New(src io.Reader, opts ...ReaderOpt) *Reader {
	r := &Reader{
		src: src,
	}
	for _, opt := range opts {
		opt(r, readerOptRestriction{})
	}

	return r
}

// Next возвращает следующие n байт. Возвращённый срез указывает во
// внутренний буфер и действителен только до следующего вызова Next.
//
//   - Если в источнике не осталось ни одного байта возвращается io.EOF.
//   - Если данных осталось меньше чем n возвращается io.ErrUnexpectedEOF,
//     позиция чтения при этом не сдвигается.
func (r *Reader) Next(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.New("read length must not be negative").Int("invalid-read-length", n)
	}

	for r.lim-r.r < n && !r.eof {
		if err := r.fulfill(n - (r.lim - r.r)); err != nil {
			return nil, err
		}
	}

	if avail := r.lim - r.r; avail < n {
		if avail == 0 {
			return nil, io.EOF
		}

		return nil, io.ErrUnexpectedEOF
	}

	res := r.buf[r.r : r.r+n]
	r.r += n
	return res, nil
}

// Read для реализации io.Reader.
func (r *Reader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	if r.exhausted() {
		if r.eof {
			return 0, io.EOF
		}

		if err := r.fulfill(len(p)); err != nil {
			return 0, err
		}

		if r.exhausted() && r.eof {
			return 0, io.EOF
		}
	}

	n = copy(p, r.buf[r.r:r.lim])
	r.r += n
	return n, nil
}

// Ack подтверждение всего вычитанного на текущий момент.
func (r *Reader) Ack() {
	r.pos += int64(r.r - r.ur)
	r.ur = r.r
}

// Rollback откат позиции чтения в начало неподтверждённых данных.
// Признак конца источника при этом сбрасывается: источник может
// дописываться, и последующее чтение может вернуть новые данные.
func (r *Reader) Rollback() {
	r.r = r.ur
	r.eof = false
}

// Pos позиция конца подтверждённой вычитки.
func (r *Reader) Pos() int64 {
	return r.pos
}

// Offset логическая позиция чтения, включая неподтверждённые данные.
func (r *Reader) Offset() int64 {
	return r.pos + int64(r.r-r.ur)
}

// Заполнение буфера очередной порцией данных с указанием их
// минимального предполагаемого размера.
func (r *Reader) fulfill(n int) error {
	if r.ur > 0 {
		// Подтверждённые данные больше не нужны, сдвигаем остаток
		// в начало буфера.
		copy(r.buf, r.buf[r.ur:r.lim])
		r.r, r.lim, r.ur = r.r-r.ur, r.lim-r.ur, 0
	}

	frame := r.frm
	if frame <= 0 {
		frame = missingFrameDefaultSize
	}
	if frame < n {
		frame = n
	}

	if len(r.buf)-r.lim < frame {
		buf := make([]byte, r.lim+frame)
		copy(buf, r.buf[:r.lim])
		r.buf = buf
	}

	read, err := r.src.Read(r.buf[r.lim:])
	r.lim += read
	if err != nil {
		if err == io.EOF {
			r.eof = true
			return nil
		}

		return errors.Wrap(err, "read source").Int64("source-position", r.pos+int64(r.lim-r.ur))
	}

	if read > 0 {
		r.empty = 0
		return nil
	}

	r.empty++
	if r.empty >= emptyReadsLimit {
		return ErrNoProgress
	}

	return nil
}

// Возвращает true если буфер пуст или если все данные оттуда уже были
// вычитаны.
func (r *Reader) exhausted() bool {
	return r.r == r.lim
}
