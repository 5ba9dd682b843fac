// Package render текстовое представление результата разбора файла записи.
package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sirkon/errors"

	"github.com/piyushthange/damo/damon"
)

// Result вывод снимков всех целей. Время снимков выводится относительно
// базового времени цели — начала её первого снимка.
func Result(dst io.Writer, res *damon.Result, raw bool) error {
	w := bufio.NewWriter(dst)

	var err error
	res.Each(func(id damon.TargetID, snaps []damon.Snapshot) bool {
		if len(snaps) == 0 {
			return true
		}

		if err = target(w, snaps, raw); err != nil {
			err = errors.Wrap(err, "render target").Uint64("target-id", uint64(id))
			return false
		}

		return true
	})
	if err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "flush rendered output")
	}

	return nil
}

func target(w *bufio.Writer, snaps []damon.Snapshot, raw bool) error {
	base := snaps[0].StartTime
	if _, err := fmt.Fprintf(w, "base_time_absolute: %s\n\n", TimeNs(base, raw)); err != nil {
		return errors.Wrap(err, "write base time")
	}

	for _, s := range snaps {
		if err := snapshot(w, s, base, raw); err != nil {
			return errors.Wrap(err, "render snapshot").Int64("snapshot-end-time", s.EndTime)
		}
	}

	return nil
}

func snapshot(w *bufio.Writer, s damon.Snapshot, base int64, raw bool) error {
	// Ошибка bufio.Writer сохраняется, её вернёт последняя запись.
	_, _ = fmt.Fprintf(w, "monitoring_start:    %16s\n", TimeNs(s.StartTime-base, raw))
	_, _ = fmt.Fprintf(w, "monitoring_end:      %16s\n", TimeNs(s.EndTime-base, raw))
	_, _ = fmt.Fprintf(w, "monitoring_duration: %16s\n", TimeNs(s.Duration(), raw))
	_, _ = fmt.Fprintf(w, "target_id: %s\n", s.TargetID)
	_, _ = fmt.Fprintf(w, "nr_regions: %d\n", len(s.Regions))
	_, _ = fmt.Fprintf(w, "# %10s %12s  %12s  %11s %5s\n", "start_addr", "end_addr", "length", "nr_accesses", "age")
	for _, r := range s.Regions {
		age := int64(-1)
		if v, ok := r.Age.Get(); ok {
			age = int64(v)
		}

		_, _ = fmt.Fprintf(
			w,
			"%012x-%012x (%12s) %11d %5d\n",
			r.Start,
			r.End,
			Size(r.Size(), raw),
			r.NrAccesses,
			age,
		)
	}

	if _, err := w.WriteString("\n"); err != nil {
		return errors.Wrap(err, "write snapshot")
	}

	return nil
}
