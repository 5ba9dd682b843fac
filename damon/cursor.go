package damon

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirkon/errors"

	"github.com/piyushthange/damo/internal/ackio"
)

type cursorState int

const (
	statePositioned cursorState = iota
	stateReading
	stateIdle
	stateExhausted
	stateClosed
)

func (s cursorState) String() string {
	switch s {
	case statePositioned:
		return "positioned"
	case stateReading:
		return "reading"
	case stateIdle:
		return "idle"
	case stateExhausted:
		return "exhausted"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Cursor позиция возобновляемого разбора файла записи: открытый файл,
// подтверждённая позиция чтения, определённая версия формата и состояние
// частично вычитанной записи.
//
// Курсор принадлежит вызывающему, он же его и закрывает. Одновременное
// использование из нескольких горутин не поддерживается.
type Cursor struct {
	id     uuid.UUID
	name   string
	file   io.Closer
	size   func() (int64, error)
	src    *ackio.Reader
	layout *layout
	logger Logger
	state  cursorState

	base    int64
	hasBase bool

	recEnd     int64
	recLeft    uint32
	hasRec     bool
	prevRecEnd int64
	hasPrevRec bool
	lastEnd    map[TargetID]int64
}

// OpenCursor открывает файл записи и определяет версию его формата.
func OpenCursor(name string, opts ...Option) (_ *Cursor, err error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, wrapIOFailure(err, "open record file")
	}

	defer func() {
		if err == nil {
			return
		}

		_ = file.Close() // ошибки открытия достаточно
	}()

	return newCursor(file, name, fileSize(file), opts...)
}

func newCursor(src io.ReadCloser, name string, size func() (int64, error), opts ...Option) (*Cursor, error) {
	o := collectOptions(opts)

	c := &Cursor{
		id:      uuid.New(),
		name:    name,
		file:    src,
		size:    size,
		src:     ackio.New(src, ackio.WithFrameSize(o.frame)),
		logger:  o.logger,
		lastEnd: map[TargetID]int64{},
	}

	l, err := detectVersion(c.src)
	if err != nil {
		return nil, errors.Wrap(err, "detect format version").
			Str("file-name", name).
			Stg("cursor-id", c.id)
	}

	c.layout = l
	c.state = statePositioned
	c.logger.FormatDetected(c.id, name, l.version)

	return c, nil
}

// ReadUntil вычитка снимков до первого снимка включительно, начало
// которого относительно базового времени файла не меньше until, либо
// до конца файла.
//
// При ошибке возвращаются снимки вычитанные полностью до неё, а
// подтверждённая позиция остаётся на последнем успешно разобранном снимке.
func (c *Cursor) ReadUntil(until time.Duration) (*Result, error) {
	return c.read(until, true)
}

// ReadAll вычитка всех оставшихся снимков.
func (c *Cursor) ReadAll() (*Result, error) {
	return c.read(0, false)
}

// ID идентификатор курсора для сопоставления событий логирования и ошибок.
func (c *Cursor) ID() uuid.UUID {
	return c.id
}

// Name имя файла курсора.
func (c *Cursor) Name() string {
	return c.name
}

// Version определённая при открытии версия формата.
func (c *Cursor) Version() Version {
	return c.layout.version
}

// Pos позиция в файле сразу за последним успешно вычитанным элементом.
func (c *Cursor) Pos() int64 {
	return c.src.Pos()
}

// BaseTime абсолютное время начала первого снимка файла, если он уже вычитан.
func (c *Cursor) BaseTime() (int64, bool) {
	return c.base, c.hasBase
}

// Exhausted файл вычитан до конца.
func (c *Cursor) Exhausted() bool {
	return c.state == stateExhausted
}

// Close закрытие файла. Повторные вызовы ничего не делают.
func (c *Cursor) Close() error {
	if c.state == stateClosed {
		return nil
	}

	c.state = stateClosed
	if err := c.file.Close(); err != nil {
		return errors.Wrap(err, "close record file").Str("file-name", c.name)
	}

	return nil
}

func (c *Cursor) read(until time.Duration, windowed bool) (*Result, error) {
	res := NewResult()

	switch c.state {
	case stateClosed:
		return res, c.annotate(ErrCursorClosed, "read records")
	case stateExhausted:
		return res, nil
	}

	c.state = stateReading
	defer func() {
		if c.state == stateReading {
			c.state = stateIdle
		}
	}()

	size := int64(-1)
	if c.size != nil {
		v, err := c.size()
		if err != nil {
			return res, c.annotate(ioFailure{err: err}, "get record file size")
		}
		size = v
	}

	for {
		if c.recLeft == 0 {
			hdr, err := readRecordHeader(c.src, c.layout, size)
			if err == io.EOF {
				c.state = stateExhausted
				c.logger.CursorExhausted(c.id, c.src.Pos())
				return res, nil
			}
			if err != nil {
				c.src.Rollback()
				return res, c.annotate(err, "read record")
			}

			c.src.Ack()
			c.beginRecord(hdr)
			continue
		}

		snap, err := readSnapshot(c.src, c.layout, size)
		if err != nil {
			c.src.Rollback()
			err = errors.Wrap(err, "read snapshot").Int("record-targets-left", int(c.recLeft))
			return res, c.annotate(err, "read record")
		}
		if err := c.stamp(&snap); err != nil {
			c.src.Rollback()
			return res, c.annotate(err, "set snapshot time")
		}

		c.src.Ack()
		c.recLeft--
		c.lastEnd[snap.TargetID] = snap.EndTime
		if !c.hasBase {
			c.base = snap.StartTime
			c.hasBase = true
		}
		res.Add(snap)

		if !windowed {
			continue
		}

		if at := time.Duration(snap.StartTime - c.base); at >= until {
			c.logger.WindowReached(c.id, until, at)
			return res, nil
		}
	}
}

// beginRecord учёт заголовка новой записи.
func (c *Cursor) beginRecord(hdr recordHeader) {
	if c.hasRec {
		c.prevRecEnd = c.recEnd
		c.hasPrevRec = true
	}

	c.hasRec = true
	c.recEnd = hdr.endTime
	c.recLeft = hdr.targets
}

// stamp выставление времени снимка. В записи хранится только время
// конца, началом считается конец предыдущего снимка этой же цели, а для
// первого снимка цели — конец предыдущей записи файла.
func (c *Cursor) stamp(s *Snapshot) error {
	s.EndTime = c.recEnd

	prev, ok := c.lastEnd[s.TargetID]
	switch {
	case ok:
		s.StartTime = prev
	case c.hasPrevRec:
		s.StartTime = c.prevRecEnd
	default:
		s.StartTime = c.recEnd
	}

	if s.StartTime > s.EndTime {
		return errors.Wrap(ErrCorruptRecord, "snapshot ends before it starts").
			Uint64("target-id", uint64(s.TargetID)).
			Int64("start-time", s.StartTime).
			Int64("end-time", s.EndTime)
	}

	return nil
}

func (c *Cursor) annotate(err error, msg string) error {
	return errors.Wrap(err, msg).
		Stg("cursor-id", c.id).
		Stg("format-version", c.layout.version).
		Int64("acknowledged-position", c.src.Pos())
}

func fileSize(file *os.File) func() (int64, error) {
	return func() (int64, error) {
		stat, err := file.Stat()
		if err != nil {
			return 0, err
		}

		return stat.Size(), nil
	}
}
