package damon

import (
	"golang.org/x/exp/slices"
)

// Result снимки сгруппированные по целям. Порядок целей — порядок их
// первого появления, порядок снимков цели — порядок в файле.
type Result struct {
	order []TargetID
	snaps map[TargetID][]Snapshot
}

// NewResult конструктор пустого результата.
func NewResult() *Result {
	return &Result{
		snaps: map[TargetID][]Snapshot{},
	}
}

// Add добавление снимка в конец последовательности его цели.
func (r *Result) Add(s Snapshot) {
	prev, ok := r.snaps[s.TargetID]
	if !ok {
		r.order = append(r.order, s.TargetID)
	}

	r.snaps[s.TargetID] = append(prev, s)
}

// Merge дописывание снимков other после уже имеющихся. Результат
// последовательных вычиток окон совпадает с результатом полной вычитки.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}

	for _, id := range other.order {
		for _, s := range other.snaps[id] {
			r.Add(s)
		}
	}
}

// Targets цели в порядке первого появления.
func (r *Result) Targets() []TargetID {
	return slices.Clone(r.order)
}

// Snapshots снимки цели в порядке вычитки.
func (r *Result) Snapshots(id TargetID) []Snapshot {
	return slices.Clone(r.snaps[id])
}

// Each обход целей в порядке появления. Обход прекращается если f
// вернула false. Срез снимков принадлежит результату и не должен меняться.
func (r *Result) Each(f func(id TargetID, snaps []Snapshot) bool) {
	for _, id := range r.order {
		if !f(id, r.snaps[id]) {
			return
		}
	}
}

// Len общее количество снимков.
func (r *Result) Len() int {
	var res int
	for _, snaps := range r.snaps {
		res += len(snaps)
	}

	return res
}

// Empty в результате нет снимков.
func (r *Result) Empty() bool {
	return len(r.order) == 0
}
