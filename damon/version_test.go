package damon

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirkon/errors"

	"github.com/piyushthange/damo/internal/tlog"
)

func TestVersionDetection(t *testing.T) {
	header := func(v int32) []byte {
		data := []byte(formatMagic)
		return binary.LittleEndian.AppendUint32(data, uint32(v))
	}

	t.Run("known versions", func(t *testing.T) {
		for _, v := range allVersions {
			name := writeRecords(t, v, sampleRecords())
			cur, err := OpenCursor(name)
			if err != nil {
				tlog.Error(t, errors.Wrap(err, "open cursor").Stg("version", v))
				continue
			}

			if cur.Version() != v {
				t.Errorf("expected %s got %s", v, cur.Version())
			}
			if err := cur.Close(); err != nil {
				tlog.Error(t, errors.Wrap(err, "close cursor"))
			}
		}
	})

	t.Run("empty file", func(t *testing.T) {
		name := writeTestFile(t, nil)
		res, err := ParseFull(name)
		if err != nil {
			tlog.Error(t, errors.Wrap(err, "parse empty file"))
			return
		}
		if !res.Empty() {
			t.Error("empty result expected")
		}
	})

	t.Run("header without records", func(t *testing.T) {
		name := writeTestFile(t, header(int32(V3)))
		res, cur, v, err := ParseUntil(name, nil, 0)
		if err != nil {
			tlog.Error(t, errors.Wrap(err, "parse header only file"))
			return
		}
		defer func() {
			if err := cur.Close(); err != nil {
				tlog.Error(t, errors.Wrap(err, "close cursor"))
			}
		}()

		if v != V3 || !res.Empty() || !cur.Exhausted() {
			t.Errorf("unexpected state: version %s, %d snapshots, exhausted %v", v, res.Len(), cur.Exhausted())
		}
	})

	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "unknown version",
			data: header(9),
		},
		{
			name: "negative version",
			data: header(-1),
		},
		{
			name: "missing version",
			data: []byte(formatMagic + "\x02\x00"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := writeTestFile(t, tt.data)
			res, cur, _, err := ParseUntil(name, nil, untilEnd)
			if !errors.Is(err, ErrUnrecognizedFormat) {
				tlog.Error(t, errors.New("unrecognized format expected").Any("got", err))
				return
			}
			tlog.Log(t, err)

			if res != nil || cur != nil {
				t.Error("no result and no cursor expected for unrecognized format")
			}
		})
	}
}

func TestVersionIsDetectedOnce(t *testing.T) {
	name := writeRecords(t, V1, sampleRecords())
	var log recordingLogger

	_, cur, v, err := ParseUntil(name, nil, 150*time.Millisecond, WithLogger(&log))
	if err != nil {
		tlog.Error(t, errors.Wrap(err, "parse first window"))
		return
	}
	defer func() {
		if err := cur.Close(); err != nil {
			tlog.Error(t, errors.Wrap(err, "close cursor"))
		}
	}()

	_, _, rv, err := ParseUntil(name, cur, untilEnd)
	if err != nil {
		tlog.Error(t, errors.Wrap(err, "parse second window"))
		return
	}

	if v != V1 || rv != v {
		t.Errorf("version must be %s on both calls, got %s and %s", V1, v, rv)
	}
	if len(log.detected) != 1 || log.detected[0] != V1 {
		t.Errorf("format must be detected exactly once, got %v", log.detected)
	}
	if len(log.windows) != 1 || log.windows[0] < 150*time.Millisecond {
		t.Errorf("unexpected window events %v", log.windows)
	}
	if log.exhausted != 1 {
		t.Errorf("cursor must be exhausted once, got %d", log.exhausted)
	}
	for _, id := range log.cursors {
		if id != cur.ID() {
			t.Errorf("unexpected cursor id %s in events", id)
		}
	}
}

type recordingLogger struct {
	cursors   []uuid.UUID
	detected  []Version
	windows   []time.Duration
	exhausted int
}

func (l *recordingLogger) FormatDetected(cursor uuid.UUID, _ string, version Version) {
	l.cursors = append(l.cursors, cursor)
	l.detected = append(l.detected, version)
}

func (l *recordingLogger) WindowReached(cursor uuid.UUID, _, at time.Duration) {
	l.cursors = append(l.cursors, cursor)
	l.windows = append(l.windows, at)
}

func (l *recordingLogger) CursorExhausted(cursor uuid.UUID, _ int64) {
	l.cursors = append(l.cursors, cursor)
	l.exhausted++
}
