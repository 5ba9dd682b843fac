package damon

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sirkon/errors"

	"github.com/piyushthange/damo/internal/ackio"
)

// Version версия формата файла записи. Определяется один раз на файл.
type Version int32

const (
	// V0 исходный формат без заголовка, идентификатор цели занимает 8 байт.
	V0 Version = 0
	// V1 идентификатор цели — 4 байта со знаком.
	V1 Version = 1
	// V2 идентификатор цели — 8 байт.
	V2 Version = 2
	// V3 локальное расширение формата, в самом DAMON такой версии нет:
	// то же, что V2, но за числом обращений каждого региона идёт его
	// возраст, 4 байта без знака.
	V3 Version = 3
)

func (v Version) String() string {
	return fmt.Sprintf("v%d", int32(v))
}

// Known проверка, что версия поддерживается.
func (v Version) Known() bool {
	return v >= V0 && v <= V3
}

const (
	// formatMagic метка в начале файлов начиная с V1.
	formatMagic = "damon_recfmt_ver"

	// timestampSize секунды и наносекунды конца интервала записи.
	timestampSize = 16

	// countSize количество целей в записи или регионов в снимке.
	countSize = 4

	// sanityCountLimit количество целей или регионов выше которого
	// число проверяется на соответствие остатку файла.
	sanityCountLimit = 1 << 20
)

// layout правила декодирования конкретной версии. Выбирается один раз при
// определении версии, дальше поля по версии не проверяются.
type layout struct {
	version    Version
	targetSize int
	regionSize int
	hasAge     bool
	target     func(data []byte) TargetID
	age        func(data []byte) RegionAge
}

var layouts = [...]layout{
	V0: {
		version:    V0,
		targetSize: 8,
		regionSize: 20,
		target:     targetUint64,
		age:        ageAbsent,
	},
	V1: {
		version:    V1,
		targetSize: 4,
		regionSize: 20,
		target:     targetInt32,
		age:        ageAbsent,
	},
	V2: {
		version:    V2,
		targetSize: 8,
		regionSize: 20,
		target:     targetUint64,
		age:        ageAbsent,
	},
	V3: {
		version:    V3,
		targetSize: 8,
		regionSize: 24,
		hasAge:     true,
		target:     targetUint64,
		age:        ageUint32,
	},
}

func layoutOf(v Version) (*layout, error) {
	if !v.Known() {
		return nil, errors.Wrap(ErrUnrecognizedFormat, "look for version layout").Int("format-version", int(v))
	}

	return &layouts[v], nil
}

// snapshotHeaderSize минимальный размер снимка одной цели: идентификатор и число регионов.
func (l *layout) snapshotHeaderSize() int {
	return l.targetSize + countSize
}

func targetUint64(data []byte) TargetID {
	return TargetID(binary.LittleEndian.Uint64(data))
}

// targetInt32 идентификатор V1 записан со знаком, отрицательные значения
// расширяются знаком, см. TargetID.String.
func targetInt32(data []byte) TargetID {
	return TargetID(int64(int32(binary.LittleEndian.Uint32(data))))
}

func ageAbsent([]byte) RegionAge {
	return RegionAge{}
}

func ageUint32(data []byte) RegionAge {
	return AgeOf(uint64(binary.LittleEndian.Uint32(data)))
}

// detectVersion определение версии по началу файла. Если метки нет, то
// это V0 и прочитанное откатывается: оно относится к первой записи.
func detectVersion(src *ackio.Reader) (*layout, error) {
	mark, err := src.Next(len(formatMagic))
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		// Файл короче метки: это может быть только V0, возможно пустой.
		src.Rollback()
		return &layouts[V0], nil
	case err != nil:
		return nil, wrapIOFailure(err, "read format magic")
	}

	if string(mark) != formatMagic {
		src.Rollback()
		return &layouts[V0], nil
	}

	data, err := src.Next(4)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrap(ErrUnrecognizedFormat, "read format version after magic")
		}

		return nil, wrapIOFailure(err, "read format version")
	}

	res, err := layoutOf(Version(int32(binary.LittleEndian.Uint32(data))))
	if err != nil {
		return nil, err
	}

	src.Ack()
	return res, nil
}
