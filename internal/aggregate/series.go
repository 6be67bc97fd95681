// Package aggregate merges many runs of one benchmark configuration into
// max/min/mean series envelopes and combined summary statistics.
package aggregate

import (
	"fmt"

	"github.com/xtxerr/fioreport/internal/types"
)

// AggregatedSeries is a BucketedSeries-shaped accumulator tagged with an
// aggregation kind. It grows by absorbing one run's series at a time.
type AggregatedSeries struct {
	Stat types.Statistic
	Kind types.AggregationKind

	Values [types.SeriesLength]float64

	// Runs is the number of series merged so far.
	Runs int
}

// NewAggregatedSeries returns an empty accumulator with every bucket set
// to the sentinel.
func NewAggregatedSeries(stat types.Statistic, kind types.AggregationKind) *AggregatedSeries {
	a := &AggregatedSeries{Stat: stat, Kind: kind}
	for i := range a.Values {
		a.Values[i] = types.NoSamples
	}
	return a
}

// Absorb merges one run's series element-wise into the accumulator.
//
// Missing data is handled independently per element: when either side of a
// bucket holds the sentinel it takes the other side's value first, so a
// bucket missing in one run does not suppress that bucket in the merged
// result. A bucket missing on both sides stays the sentinel.
func (a *AggregatedSeries) Absorb(s *types.BucketedSeries) error {
	if s.Stat != a.Stat {
		return fmt.Errorf("cannot merge a %s series into a %s aggregate", s.Stat, a.Stat)
	}

	a.Runs++
	n := float64(a.Runs)

	for i := range a.Values {
		cur, next := a.Values[i], s.Values[i]
		if cur == types.NoSamples {
			cur = next
		}
		if next == types.NoSamples {
			next = cur
		}

		switch a.Kind {
		case types.AggMax:
			if next > cur {
				cur = next
			}
			a.Values[i] = cur
		case types.AggMin:
			if next < cur {
				cur = next
			}
			a.Values[i] = cur
		case types.AggMean:
			// Incremental running mean, the same formula the
			// bucketizer uses per sample. Summing many runs first
			// and dividing later could overflow; this cannot.
			a.Values[i] = cur - cur/n + next/n
		}
	}

	return nil
}

// HasSample reports whether bucket i holds a real value.
func (a *AggregatedSeries) HasSample(i int) bool {
	return a.Values[i] != types.NoSamples
}

// String returns a short description for diagnostics.
func (a *AggregatedSeries) String() string {
	return fmt.Sprintf("AggregatedSeries(stat=%s, kind=%s, runs=%d)", a.Stat, a.Kind, a.Runs)
}
