package main

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/kong"
)

// window интервал разбора в секундах от начала записи. Задаётся двумя
// отдельными аргументами: --duration START END.
type window struct {
	Start float64
	End   float64
	set   bool
}

// Decode для kong.MapperValue.
func (w *window) Decode(ctx *kong.DecodeContext) error {
	for _, dst := range []*float64{&w.Start, &w.End} {
		t, err := ctx.Scan.PopValue("duration")
		if err != nil {
			return err
		}

		switch v := t.Value.(type) {
		case string:
			*dst, err = strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("expected seconds but got %q", v)
			}
		case float64:
			*dst = v
		default:
			return fmt.Errorf("expected seconds but got %q (%T)", t, t.Value)
		}
	}

	if w.End < w.Start {
		return fmt.Errorf("duration end %v is before its start %v", w.End, w.Start)
	}

	w.set = true
	return nil
}

var _ kong.MapperValue = &window{}
