package types

// Bucketing geometry. Every series covers the same normalized window so
// runs of differing duration can be merged element-wise.
const (
	// BucketsPerSecond is the bucket resolution: one bucket per 100 ms.
	BucketsPerSecond = 10

	// RunSeconds is the nominal benchmark duration.
	RunSeconds = 60

	// SeriesSlack covers samples landing shortly after the nominal end;
	// fio runs finish just past the configured duration.
	SeriesSlack = 10

	// SeriesLength is the fixed number of buckets in every series.
	SeriesLength = RunSeconds*BucketsPerSecond + SeriesSlack

	// BucketWidthMs is the width of one bucket in milliseconds.
	BucketWidthMs = 1000 / BucketsPerSecond
)

// NoSamples marks a bucket no sample fell into, distinct from a real zero.
const NoSamples = -1.0

// BucketedSeries is an ordered, fixed-length sequence of per-bucket values
// for one statistic of one run. Slots without samples hold NoSamples.
// Immutable once produced.
type BucketedSeries struct {
	Stat   Statistic
	Values [SeriesLength]float64
}

// NewBucketedSeries returns an all-sentinel series for the statistic.
func NewBucketedSeries(stat Statistic) *BucketedSeries {
	s := &BucketedSeries{Stat: stat}
	for i := range s.Values {
		s.Values[i] = NoSamples
	}
	return s
}

// HasSample reports whether bucket i holds a real value.
func (s *BucketedSeries) HasSample(i int) bool {
	return s.Values[i] != NoSamples
}

// SampleCount returns the number of buckets holding real values.
func (s *BucketedSeries) SampleCount() int {
	n := 0
	for i := range s.Values {
		if s.Values[i] != NoSamples {
			n++
		}
	}
	return n
}

// BucketSeconds returns the start offset of bucket i in seconds from the
// beginning of the run.
func BucketSeconds(i int) float64 {
	return float64(i) / BucketsPerSecond
}
