package render

import (
	"io"

	"github.com/goccy/go-yaml"
	"github.com/sirkon/errors"

	"github.com/piyushthange/damo/damon"
)

// Document машиночитаемое представление результата.
type Document struct {
	Targets []TargetDoc `yaml:"targets"`
}

// TargetDoc снимки одной цели.
type TargetDoc struct {
	TargetID  uint64        `yaml:"target_id"`
	BaseTime  int64         `yaml:"base_time_absolute"`
	Snapshots []SnapshotDoc `yaml:"snapshots"`
}

// SnapshotDoc снимок, время относительно базового времени цели.
type SnapshotDoc struct {
	Start   int64       `yaml:"start"`
	End     int64       `yaml:"end"`
	Regions []RegionDoc `yaml:"regions"`
}

// RegionDoc регион. Возраст отсутствует, если формат его не хранит.
type RegionDoc struct {
	Start      uint64  `yaml:"start"`
	End        uint64  `yaml:"end"`
	NrAccesses uint64  `yaml:"nr_accesses"`
	Age        *uint64 `yaml:"age,omitempty"`
}

// NewDocument построение документа по результату разбора.
func NewDocument(res *damon.Result) Document {
	var doc Document
	res.Each(func(id damon.TargetID, snaps []damon.Snapshot) bool {
		if len(snaps) == 0 {
			return true
		}

		t := TargetDoc{
			TargetID: uint64(id),
			BaseTime: snaps[0].StartTime,
		}
		for _, s := range snaps {
			sd := SnapshotDoc{
				Start: s.StartTime - t.BaseTime,
				End:   s.EndTime - t.BaseTime,
			}
			for _, r := range s.Regions {
				rd := RegionDoc{
					Start:      r.Start,
					End:        r.End,
					NrAccesses: r.NrAccesses,
				}
				if age, ok := r.Age.Get(); ok {
					rd.Age = &age
				}
				sd.Regions = append(sd.Regions, rd)
			}
			t.Snapshots = append(t.Snapshots, sd)
		}
		doc.Targets = append(doc.Targets, t)

		return true
	})

	return doc
}

// YAML вывод результата в YAML.
func YAML(dst io.Writer, res *damon.Result) error {
	data, err := yaml.Marshal(NewDocument(res))
	if err != nil {
		return errors.Wrap(err, "marshal result document")
	}

	if _, err := dst.Write(data); err != nil {
		return errors.Wrap(err, "write result document")
	}

	return nil
}
