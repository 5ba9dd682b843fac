package damon

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/sirkon/errors"
	"golang.org/x/exp/slices"
)

// Writer запись файла в заданной версии формата.
type Writer struct {
	dst     *bufio.Writer
	layout  *layout
	started bool
	buf     []byte
}

// NewWriter конструктор писателя записей версии v.
func NewWriter(dst io.Writer, v Version) (*Writer, error) {
	l, err := layoutOf(v)
	if err != nil {
		return nil, errors.Wrap(err, "select format layout")
	}

	return &Writer{
		dst:    bufio.NewWriter(dst),
		layout: l,
	}, nil
}

// WriteRecord запись с временем конца endTime и снимками целей. Время
// снимков не записывается, в формате есть только время конца записи.
func (w *Writer) WriteRecord(endTime int64, snaps ...Snapshot) error {
	if err := w.start(); err != nil {
		return err
	}

	w.buf = w.buf[:0]
	w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(endTime/1e9))
	w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(endTime%1e9))
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(len(snaps)))

	for _, s := range snaps {
		if err := w.appendSnapshot(s); err != nil {
			return errors.Wrap(err, "encode snapshot").Uint64("target-id", uint64(s.TargetID))
		}
	}

	if _, err := w.dst.Write(w.buf); err != nil {
		return errors.Wrap(err, "write record").Int64("record-end-time", endTime)
	}

	return nil
}

// WriteResult запись всех снимков результата. Снимки с одинаковым
// временем конца объединяются в одну запись.
func (w *Writer) WriteResult(res *Result) error {
	var all []Snapshot
	res.Each(func(_ TargetID, snaps []Snapshot) bool {
		all = append(all, snaps...)
		return true
	})
	slices.SortStableFunc(all, func(a, b Snapshot) bool {
		return a.EndTime < b.EndTime
	})

	for len(all) > 0 {
		n := 1
		seen := map[TargetID]struct{}{all[0].TargetID: {}}
		for n < len(all) && all[n].EndTime == all[0].EndTime {
			if _, ok := seen[all[n].TargetID]; ok {
				break
			}
			seen[all[n].TargetID] = struct{}{}
			n++
		}

		if err := w.WriteRecord(all[0].EndTime, all[:n]...); err != nil {
			return errors.Wrap(err, "write result record")
		}
		all = all[n:]
	}

	return nil
}

// Flush сброс буферизованных данных. Заголовок пишется даже для файла без записей.
func (w *Writer) Flush() error {
	if err := w.start(); err != nil {
		return err
	}

	if err := w.dst.Flush(); err != nil {
		return errors.Wrap(err, "flush buffered data")
	}

	return nil
}

func (w *Writer) start() error {
	if w.started {
		return nil
	}

	w.started = true
	if w.layout.version == V0 {
		return nil
	}

	var hdr [len(formatMagic) + 4]byte
	copy(hdr[:], formatMagic)
	binary.LittleEndian.PutUint32(hdr[len(formatMagic):], uint32(w.layout.version))
	if _, err := w.dst.Write(hdr[:]); err != nil {
		return errors.Wrap(err, "write format header")
	}

	return nil
}

func (w *Writer) appendSnapshot(s Snapshot) error {
	switch w.layout.targetSize {
	case 4:
		id := int64(s.TargetID)
		if id < math.MinInt32 || id > math.MaxInt32 {
			return errors.New("target id does not fit into the format").Uint64("target-id", uint64(s.TargetID))
		}
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(int32(id)))
	default:
		w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(s.TargetID))
	}

	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(len(s.Regions)))
	for i, r := range s.Regions {
		if r.NrAccesses > math.MaxUint32 {
			return errors.New("accesses count does not fit into the format").
				Int("region-index", i).
				Uint64("nr-accesses", r.NrAccesses)
		}

		w.buf = binary.LittleEndian.AppendUint64(w.buf, r.Start)
		w.buf = binary.LittleEndian.AppendUint64(w.buf, r.End)
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(r.NrAccesses))

		if !w.layout.hasAge {
			continue
		}

		age, _ := r.Age.Get()
		if age > math.MaxUint32 {
			return errors.New("region age does not fit into the format").
				Int("region-index", i).
				Uint64("age", age)
		}
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(age))
	}

	return nil
}
