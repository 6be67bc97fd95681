package aggregate

import (
	"fmt"
	"math"

	"github.com/xtxerr/fioreport/internal/errors"
	"github.com/xtxerr/fioreport/internal/types"
)

// SeriesKey addresses one of the nine accumulators of a ConfigAggregate.
type SeriesKey struct {
	Stat types.Statistic
	Kind types.AggregationKind
}

// ConfigAggregate accumulates all runs sharing one configuration: up to
// nine aggregated series (3 statistics x 3 kinds, only for statistics the
// runs carry) plus combined summary statistics.
//
// The first absorbed run fixes the configuration; every later run must
// describe the same scenario (engine ignored) or Absorb fails. Built once
// by the tree builder and treated as immutable afterwards.
type ConfigAggregate struct {
	// Dir is the configuration directory the runs came from, kept for
	// error context.
	Dir string

	Config types.RunConfig
	Runs   []*types.RunRecord

	Series map[SeriesKey]*AggregatedSeries
	Stats  types.RunStats

	merged int
}

// NewConfigAggregate returns an empty aggregate for the given directory.
func NewConfigAggregate(dir string) *ConfigAggregate {
	return &ConfigAggregate{
		Dir:    dir,
		Series: make(map[SeriesKey]*AggregatedSeries),
	}
}

// FromRuns builds a sealed aggregate from the given runs.
// Zero runs fail with ErrNoRunsFound; a configuration directory with no
// parseable runs is an input error, not an empty result.
func FromRuns(dir string, runs []*types.RunRecord) (*ConfigAggregate, error) {
	if len(runs) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, errors.ErrNoRunsFound)
	}

	agg := NewConfigAggregate(dir)
	for _, run := range runs {
		if err := agg.Absorb(run); err != nil {
			return nil, err
		}
	}

	types.SortRuns(agg.Runs)
	return agg, nil
}

// Absorb merges one run into the aggregate.
func (c *ConfigAggregate) Absorb(run *types.RunRecord) error {
	if c.merged == 0 {
		c.Config = run.Config
	} else if !c.Config.Same(run.Config) {
		return errors.NewConfigMismatch(c.Dir, run.Config, c.Config)
	}

	c.merged++
	c.Runs = append(c.Runs, run)

	for stat, series := range run.Series {
		for _, kind := range types.AggregationKinds {
			key := SeriesKey{Stat: stat, Kind: kind}
			acc, ok := c.Series[key]
			if !ok {
				acc = NewAggregatedSeries(stat, kind)
				c.Series[key] = acc
			}
			if err := acc.Absorb(series); err != nil {
				return err
			}
		}
	}

	c.absorbStats(&run.Stats)
	return nil
}

// absorbStats folds one run's summary statistics into the combined stats.
func (c *ConfigAggregate) absorbStats(stats *types.RunStats) {
	if c.merged == 1 {
		c.Stats = *stats
		return
	}

	for _, stat := range types.Statistics {
		mergeSummary(c.Stats.Get(stat), stats.Get(stat), c.merged)
	}
}

// mergeSummary combines one run's summary into the running one.
//
// The mean is a mean of per-run means, weighting every run equally
// regardless of its own sample count:
//
//	mean = (cur*(n-1) + new) / n = cur - cur/n + new/n
//
// The stddev is pooled by summing variances, sqrt(s1^2 + s2^2), assuming
// independence between runs. Both are deliberate approximations carried
// over unchanged; downstream comparisons assume this exact arithmetic.
func mergeSummary(cur, next *types.SummaryStats, n int) {
	cur.Max = math.Max(cur.Max, next.Max)
	cur.Min = math.Min(cur.Min, next.Min)
	cur.Mean = cur.Mean - cur.Mean/float64(n) + next.Mean/float64(n)
	cur.Stddev = math.Sqrt(cur.Stddev*cur.Stddev + next.Stddev*next.Stddev)

	// fio's reported 90th percentile keeps the first run's value, as the
	// summary merge has no way to recombine percentiles. The computed
	// ones track the worst run.
	cur.ComputedP90 = math.Max(cur.ComputedP90, next.ComputedP90)
	cur.ComputedP99 = math.Max(cur.ComputedP99, next.ComputedP99)
}

// Get returns the accumulator for the statistic and kind, or nil when the
// runs carried no series for that statistic.
func (c *ConfigAggregate) Get(stat types.Statistic, kind types.AggregationKind) *AggregatedSeries {
	return c.Series[SeriesKey{Stat: stat, Kind: kind}]
}

// NumRuns returns the number of merged runs.
func (c *ConfigAggregate) NumRuns() int {
	return c.merged
}

// String returns the canonical form used for deterministic ordering.
func (c *ConfigAggregate) String() string {
	return c.Config.String()
}
