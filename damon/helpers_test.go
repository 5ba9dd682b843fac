package damon

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirkon/errors"

	"github.com/piyushthange/damo/internal/tlog"
)

type testRecord struct {
	end   int64
	snaps []Snapshot
}

const (
	testBaseTime = int64(1_700_000_000_000_000_000)
	testInterval = int64(100_000_000)
)

func testRegions(seed uint64, count int) []Region {
	res := make([]Region, 0, count)
	start := 0x7f0000000000 + seed<<24
	for i := 0; i < count; i++ {
		size := uint64(4096 * (i + 1))
		res = append(res, Region{
			Start:      start,
			End:        start + size,
			NrAccesses: seed*3 + uint64(i),
			Age:        AgeOf(seed + uint64(i)*2),
		})
		start += size + 4096
	}

	return res
}

// sampleRecords набор записей с несколькими целями, пустой записью и
// разным количеством регионов.
func sampleRecords() []testRecord {
	end := func(i int) int64 {
		return testBaseTime + int64(i+1)*testInterval + int64(i)*1_000
	}
	snap := func(id TargetID, seed uint64, regions int) Snapshot {
		return Snapshot{
			TargetID: id,
			Regions:  testRegions(seed, regions),
		}
	}

	return []testRecord{
		{end: end(0), snaps: []Snapshot{snap(1, 1, 2), snap(2, 2, 1)}},
		{end: end(1), snaps: []Snapshot{snap(1, 3, 3)}},
		{end: end(2), snaps: []Snapshot{snap(1, 4, 1), snap(2, 5, 2)}},
		{end: end(3)},
		{end: end(4), snaps: []Snapshot{snap(2, 6, 3), snap(1, 7, 2)}},
		{end: end(5), snaps: []Snapshot{snap(1, 8, 1)}},
		{end: end(6), snaps: []Snapshot{snap(3, 9, 2), snap(2, 10, 1), snap(1, 11, 1)}},
	}
}

// expectedSnapshots снимки в порядке файла такими, какими их должен
// выдать разбор файла версии v.
func expectedSnapshots(v Version, recs []testRecord) []Snapshot {
	var res []Snapshot
	last := map[TargetID]int64{}
	for i, rec := range recs {
		for _, s := range rec.snaps {
			start, ok := last[s.TargetID]
			if !ok {
				start = rec.end
				if i > 0 {
					start = recs[i-1].end
				}
			}

			regions := make([]Region, 0, len(s.Regions))
			for _, r := range s.Regions {
				if !layouts[v].hasAge {
					r.Age = RegionAge{}
				}
				regions = append(regions, r)
			}

			res = append(res, Snapshot{
				TargetID:  s.TargetID,
				StartTime: start,
				EndTime:   rec.end,
				Regions:   regions,
			})
			last[s.TargetID] = rec.end
		}
	}

	return res
}

func expectedResult(v Version, recs []testRecord) *Result {
	res := NewResult()
	for _, s := range expectedSnapshots(v, recs) {
		res.Add(s)
	}

	return res
}

func encodeRecords(t *testing.T, v Version, recs []testRecord) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := NewWriter(&buf, v)
	if err != nil {
		tlog.Error(t, errors.Wrap(err, "create writer"))
		t.FailNow()
	}
	for _, rec := range recs {
		if err := w.WriteRecord(rec.end, rec.snaps...); err != nil {
			tlog.Error(t, errors.Wrap(err, "write record"))
			t.FailNow()
		}
	}
	if err := w.Flush(); err != nil {
		tlog.Error(t, errors.Wrap(err, "flush writer"))
		t.FailNow()
	}

	return buf.Bytes()
}

func writeTestFile(t *testing.T, data []byte) string {
	t.Helper()

	name := filepath.Join(t.TempDir(), "damon.data")
	if err := os.WriteFile(name, data, 0o644); err != nil {
		tlog.Error(t, errors.Wrap(err, "write test file"))
		t.FailNow()
	}

	return name
}

func writeRecords(t *testing.T, v Version, recs []testRecord) string {
	t.Helper()
	return writeTestFile(t, encodeRecords(t, v, recs))
}

// flatten снимки результата по целям в порядке их появления.
func flatten(res *Result) []Snapshot {
	var snaps []Snapshot
	res.Each(func(_ TargetID, s []Snapshot) bool {
		snaps = append(snaps, s...)
		return true
	})

	return snaps
}

var allVersions = []Version{V0, V1, V2, V3}
