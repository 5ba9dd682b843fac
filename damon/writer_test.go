package damon

import (
	"bytes"
	"math"
	"testing"

	"github.com/sirkon/deepequal"
	"github.com/sirkon/errors"

	"github.com/piyushthange/damo/internal/tlog"
)

func TestWriterRejects(t *testing.T) {
	tests := []struct {
		name string
		v    Version
		snap Snapshot
	}{
		{
			name: "target id out of v1 range",
			v:    V1,
			snap: Snapshot{TargetID: math.MaxUint32 + 1, Regions: testRegions(1, 1)},
		},
		{
			name: "target id above int32",
			v:    V1,
			snap: Snapshot{TargetID: math.MaxInt32 + 1, Regions: testRegions(1, 1)},
		},
		{
			name: "accesses out of range",
			v:    V2,
			snap: Snapshot{TargetID: 1, Regions: []Region{{Start: 0, End: 10, NrAccesses: math.MaxUint32 + 1}}},
		},
		{
			name: "age out of range",
			v:    V3,
			snap: Snapshot{TargetID: 1, Regions: []Region{{Start: 0, End: 10, Age: AgeOf(math.MaxUint32 + 1)}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, tt.v)
			if err != nil {
				tlog.Error(t, errors.Wrap(err, "create writer"))
				return
			}

			if err := w.WriteRecord(testBaseTime, tt.snap); err == nil {
				t.Error("error expected")
			} else {
				tlog.Log(t, err)
			}
		})
	}

	if _, err := NewWriter(&bytes.Buffer{}, Version(4)); !errors.Is(err, ErrUnrecognizedFormat) {
		tlog.Error(t, errors.New("unknown version must be rejected").Any("got", err))
	}
}

func TestWriteResult(t *testing.T) {
	recs := sampleRecords()
	src := writeRecords(t, V3, recs)
	res, err := ParseFull(src)
	if err != nil {
		tlog.Error(t, errors.Wrap(err, "parse source file"))
		return
	}

	var buf bytes.Buffer
	w, err := NewWriter(&buf, V3)
	if err != nil {
		tlog.Error(t, errors.Wrap(err, "create writer"))
		return
	}
	if err := w.WriteResult(res); err != nil {
		tlog.Error(t, errors.Wrap(err, "write result"))
		return
	}
	if err := w.Flush(); err != nil {
		tlog.Error(t, errors.Wrap(err, "flush writer"))
		return
	}

	again, err := ParseFull(writeTestFile(t, buf.Bytes()))
	if err != nil {
		tlog.Error(t, errors.Wrap(err, "parse rewritten file"))
		return
	}

	if !deepequal.Equal(flatten(res), flatten(again)) {
		t.Error("rewritten file differs from the source")
		deepequal.SideBySide(t, "snapshots", flatten(res), flatten(again))
	}
}

func TestSignedV1Target(t *testing.T) {
	neg := int64(-1)
	low := int64(math.MinInt32)
	recs := []testRecord{
		{
			end: testBaseTime,
			snaps: []Snapshot{
				{TargetID: TargetID(neg), Regions: testRegions(1, 1)},
				{TargetID: TargetID(low), Regions: testRegions(2, 1)},
				{TargetID: math.MaxInt32, Regions: testRegions(3, 1)},
			},
		},
	}

	res, err := ParseFull(writeRecords(t, V1, recs))
	if err != nil {
		tlog.Error(t, errors.Wrap(err, "parse v1 file"))
		return
	}

	want := expectedResult(V1, recs)
	if !deepequal.Equal(flatten(want), flatten(res)) {
		t.Error("unexpected v1 targets")
		deepequal.SideBySide(t, "snapshots", flatten(want), flatten(res))
	}

	var got []string
	for _, id := range res.Targets() {
		got = append(got, id.String())
	}
	if !deepequal.Equal([]string{"-1", "-2147483648", "2147483647"}, got) {
		t.Errorf("unexpected target ids rendering %v", got)
	}
}
