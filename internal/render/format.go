package render

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type unit struct {
	name string
	size float64
}

var (
	timeUnits = []unit{
		{name: "h", size: 3600e9},
		{name: "m", size: 60e9},
		{name: "s", size: 1e9},
		{name: "ms", size: 1e6},
		{name: "us", size: 1e3},
	}
	sizeUnits = []unit{
		{name: "TiB", size: 1 << 40},
		{name: "GiB", size: 1 << 30},
		{name: "MiB", size: 1 << 20},
		{name: "KiB", size: 1 << 10},
	}
)

// TimeNs время в наносекундах.
func TimeNs(ns int64, raw bool) string {
	return scaled(ns, raw, timeUnits, "ns")
}

// Size размер в байтах.
func Size(size uint64, raw bool) string {
	return scaled(size, raw, sizeUnits, "B")
}

// scaled значение в крупнейшей единице не превышающей его по модулю.
func scaled[T constraints.Integer](v T, raw bool, units []unit, base string) string {
	if raw {
		return fmt.Sprintf("%d", v)
	}

	f := float64(v)
	abs := f
	if abs < 0 {
		abs = -abs
	}

	for _, u := range units {
		if abs >= u.size {
			return fmt.Sprintf("%.3f %s", f/u.size, u.name)
		}
	}

	return fmt.Sprintf("%d %s", v, base)
}
