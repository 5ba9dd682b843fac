package damon

import (
	"encoding/binary"

	"github.com/sirkon/errors"

	"github.com/piyushthange/damo/internal/ackio"
)

// readRegion вычитка одного региона по раскладке версии.
func readRegion(src *ackio.Reader, l *layout) (Region, error) {
	data, err := src.Next(l.regionSize)
	if err != nil {
		return Region{}, errors.Wrap(readError(err), "read region").
			Int64("region-offset", src.Offset()).
			Int("region-size", l.regionSize)
	}

	return l.decodeRegion(data)
}

// decodeRegion разбор региона: начало, конец, количество обращений и,
// если версия его хранит, возраст.
func (l *layout) decodeRegion(data []byte) (Region, error) {
	r := Region{
		Start:      binary.LittleEndian.Uint64(data[0:8]),
		End:        binary.LittleEndian.Uint64(data[8:16]),
		NrAccesses: uint64(binary.LittleEndian.Uint32(data[16:20])),
		Age:        l.age(data[20:]),
	}

	if r.Start > r.End {
		return Region{}, errors.Wrap(ErrCorruptRecord, "region starts after its end").
			Uint64("region-start", r.Start).
			Uint64("region-end", r.End)
	}

	return r, nil
}
