package damon

import (
	"math"
	"strconv"
)

// TargetID идентификатор цели мониторинга. Идентификаторы V1 знаковые и
// хранятся расширенными знаком.
type TargetID uint64

// String значения из диапазона отрицательных int32 выводятся со знаком.
func (id TargetID) String() string {
	if v := int64(id); v < 0 && v >= math.MinInt32 {
		return strconv.FormatInt(v, 10)
	}

	return strconv.FormatUint(uint64(id), 10)
}

// RegionAge возраст региона в эпохах агрегации. Может отсутствовать
// для версий формата, где он не записывается.
type RegionAge struct {
	value uint64
	valid bool
}

// AgeOf возраст с заданным значением.
func AgeOf(v uint64) RegionAge {
	return RegionAge{
		value: v,
		valid: true,
	}
}

// Get возвращает значение возраста и признак его наличия.
func (a RegionAge) Get() (uint64, bool) {
	return a.value, a.valid
}

// Valid возраст присутствует.
func (a RegionAge) Valid() bool {
	return a.valid
}

func (a RegionAge) String() string {
	if !a.valid {
		return "<none>"
	}

	return strconv.FormatUint(a.value, 10)
}

// Region непрерывный диапазон адресов [Start, End) со статистикой доступа.
type Region struct {
	Start      uint64
	End        uint64
	NrAccesses uint64
	Age        RegionAge
}

// Size размер региона в байтах.
func (r Region) Size() uint64 {
	return r.End - r.Start
}

// Snapshot снимок регионов цели на момент времени. Время в наносекундах.
type Snapshot struct {
	TargetID  TargetID
	StartTime int64
	EndTime   int64
	Regions   []Region
}

// Duration длительность интервала мониторинга снимка.
func (s Snapshot) Duration() int64 {
	return s.EndTime - s.StartTime
}
