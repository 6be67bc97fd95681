package types

// SummaryStats holds one statistic's single-value summary for a run, as
// reported by fio and unit-normalized at parse time.
type SummaryStats struct {
	Stat   Statistic
	Max    float64
	Min    float64
	Mean   float64
	Stddev float64

	// NinetyPercentile is fio's reported 90th percentile.
	// Only set for latency.
	NinetyPercentile float64

	// ComputedP90 and ComputedP99 are derived from the raw per-event log
	// via DDSketch, independent of fio's own percentile accounting.
	// Zero when the per-event log was not requested for this statistic.
	ComputedP90 float64
	ComputedP99 float64
}

// RunStats groups the three per-statistic summaries of one run.
type RunStats struct {
	Latency   SummaryStats
	Bandwidth SummaryStats
	IOPS      SummaryStats
}

// Get returns the summary for the given statistic.
func (r *RunStats) Get(s Statistic) *SummaryStats {
	switch s {
	case StatLatency:
		return &r.Latency
	case StatBandwidth:
		return &r.Bandwidth
	default:
		return &r.IOPS
	}
}
