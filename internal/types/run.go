package types

import (
	"fmt"
	"sort"
)

// RunRecord is one executed benchmark run: its configuration, its summary
// statistics and one bucketized series per requested statistic.
// Never mutated after creation.
type RunRecord struct {
	Name   string // run directory basename
	Config RunConfig
	Stats  RunStats

	// Series holds one entry per requested statistic. A statistic whose
	// log was not requested has no entry at all, which is distinct from
	// an all-sentinel series.
	Series map[Statistic]*BucketedSeries
}

// String returns the canonical form used for deterministic run ordering.
func (r *RunRecord) String() string {
	return fmt.Sprintf("%s/%s", r.Config, r.Name)
}

// HasSeries reports whether the run carries a series for the statistic.
func (r *RunRecord) HasSeries(s Statistic) bool {
	_, ok := r.Series[s]
	return ok
}

// SortRuns orders runs by their canonical string form.
func SortRuns(runs []*RunRecord) {
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].String() < runs[j].String()
	})
}
