package damon

import (
	"encoding/binary"
	"io"

	"github.com/sirkon/errors"

	"github.com/piyushthange/damo/internal/ackio"
)

// recordHeader заголовок записи: время конца интервала агрегации и
// количество снимков целей в записи.
type recordHeader struct {
	endTime int64
	targets uint32
}

// readRecordHeader вычитка заголовка записи. Возвращает io.EOF, если
// файл закончился ровно на границе записей.
func readRecordHeader(src *ackio.Reader, l *layout, size int64) (recordHeader, error) {
	data, err := src.Next(timestampSize + countSize)
	switch {
	case err == io.EOF:
		return recordHeader{}, io.EOF
	case err != nil:
		return recordHeader{}, errors.Wrap(readError(err), "read record header").
			Int64("record-offset", src.Offset())
	}

	sec := int64(binary.LittleEndian.Uint64(data[0:8]))
	nsec := int64(binary.LittleEndian.Uint64(data[8:16]))
	hdr := recordHeader{
		endTime: sec*1e9 + nsec,
		targets: binary.LittleEndian.Uint32(data[16:20]),
	}

	if err := checkCount(src, size, uint64(hdr.targets), l.snapshotHeaderSize()); err != nil {
		return recordHeader{}, errors.Wrap(err, "check record targets count")
	}

	return hdr, nil
}

// readSnapshot вычитка снимка одной цели: идентификатор, количество
// регионов и сами регионы. Время снимка выставляет курсор.
func readSnapshot(src *ackio.Reader, l *layout, size int64) (Snapshot, error) {
	data, err := src.Next(l.snapshotHeaderSize())
	if err != nil {
		return Snapshot{}, errors.Wrap(readError(err), "read snapshot header").
			Int64("snapshot-offset", src.Offset())
	}

	target := l.target(data[:l.targetSize])
	count := binary.LittleEndian.Uint32(data[l.targetSize:])
	if err := checkCount(src, size, uint64(count), l.regionSize); err != nil {
		return Snapshot{}, errors.Wrap(err, "check snapshot regions count").Uint64("target-id", uint64(target))
	}

	res := Snapshot{
		TargetID: target,
		Regions:  make([]Region, 0, capacityFor(src, size, count, l.regionSize)),
	}
	for i := uint32(0); i < count; i++ {
		r, err := readRegion(src, l)
		if err != nil {
			return Snapshot{}, errors.Wrap(err, "read snapshot region").
				Uint64("target-id", uint64(target)).
				Int("region-index", int(i)).
				Int("regions-count", int(count))
		}

		res.Regions = append(res.Regions, r)
	}

	return res, nil
}

// checkCount проверка правдоподобности количества элементов размера
// itemSize. Количество считается испорченным, если оно больше предела
// sanityCountLimit и при этом элементы не помещаются в остаток источника.
// Небольшое количество, не помещающееся в остаток, означает обрезанный
// файл, и об этом сообщит вычитка. Отрицательный size означает неизвестный размер.
func checkCount(src *ackio.Reader, size int64, count uint64, itemSize int) error {
	if size < 0 || count <= sanityCountLimit {
		return nil
	}

	rest := size - src.Offset()
	if rest < 0 {
		rest = 0
	}

	if count*uint64(itemSize) > uint64(rest) {
		return errors.Wrap(ErrCorruptCount, "count exceeds remaining data").
			Uint64("declared-count", count).
			Int("item-size", itemSize).
			Int64("remaining-size", rest)
	}

	return nil
}

// capacityFor ёмкость под count элементов, не больше чем может
// поместиться в остаток источника.
func capacityFor(src *ackio.Reader, size int64, count uint32, itemSize int) int {
	if size < 0 {
		if count > sanityCountLimit {
			return sanityCountLimit
		}
		return int(count)
	}

	rest := (size - src.Offset()) / int64(itemSize)
	if rest < 0 {
		return 0
	}
	if int64(count) < rest {
		return int(count)
	}

	return int(rest)
}
