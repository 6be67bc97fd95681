package types

import "fmt"

// Statistic identifies one of the three measurements fio logs per run.
type Statistic int

const (
	// StatLatency is completion latency. Logged in nanoseconds,
	// normalized to milliseconds at parse time.
	StatLatency Statistic = iota

	// StatBandwidth is throughput. Logged in KiB/s, normalized to MiB/s.
	StatBandwidth

	// StatIOPS is I/O operations per second. No unit conversion.
	StatIOPS
)

// Statistics lists all statistics in canonical order.
var Statistics = []Statistic{StatLatency, StatBandwidth, StatIOPS}

// String returns the string representation of the statistic.
func (s Statistic) String() string {
	switch s {
	case StatLatency:
		return "latency"
	case StatBandwidth:
		return "bandwidth"
	case StatIOPS:
		return "iops"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Unit returns the display unit after normalization.
func (s Statistic) Unit() string {
	switch s {
	case StatLatency:
		return "ms"
	case StatBandwidth:
		return "MiB/s"
	case StatIOPS:
		return "iops"
	default:
		return ""
	}
}

// Unit conversion factors applied at parse time.
const (
	NanoToMilli = 1.0 / (1000 * 1000)
	KiBToMiB    = 1.0 / 1024
)

// Normalize converts a raw logged value into the statistic's display unit.
func (s Statistic) Normalize(v float64) float64 {
	switch s {
	case StatLatency:
		return v * NanoToMilli
	case StatBandwidth:
		return v * KiBToMiB
	default:
		return v
	}
}

// ParseStatistic parses a statistic name.
func ParseStatistic(name string) (Statistic, error) {
	switch name {
	case "latency":
		return StatLatency, nil
	case "bandwidth":
		return StatBandwidth, nil
	case "iops":
		return StatIOPS, nil
	default:
		return 0, fmt.Errorf("unknown statistic %q", name)
	}
}

// AggregationKind identifies how series from multiple runs are merged.
type AggregationKind int

const (
	// AggMax keeps the element-wise maximum across runs.
	AggMax AggregationKind = iota
	// AggMin keeps the element-wise minimum across runs.
	AggMin
	// AggMean keeps an incremental element-wise running mean across runs.
	AggMean
)

// AggregationKinds lists all aggregation kinds in canonical order.
var AggregationKinds = []AggregationKind{AggMax, AggMin, AggMean}

// String returns the string representation of the aggregation kind.
func (k AggregationKind) String() string {
	switch k {
	case AggMax:
		return "max"
	case AggMin:
		return "min"
	case AggMean:
		return "mean"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}
