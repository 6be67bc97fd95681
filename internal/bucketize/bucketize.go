// Package bucketize folds a fio per-event log into a fixed-length,
// time-bucketed value series.
//
// Every series covers the same normalized window (types.SeriesLength
// buckets of 100 ms) regardless of how long the run actually lasted, so
// the aggregation layer can merge runs element-wise. Buckets no sample
// fell into hold the types.NoSamples sentinel.
package bucketize

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DataDog/sketches-go/ddsketch"

	"github.com/xtxerr/fioreport/config"
	"github.com/xtxerr/fioreport/internal/errors"
	"github.com/xtxerr/fioreport/internal/types"
)

// Result is a bucketized per-event log.
type Result struct {
	Series *types.BucketedSeries

	// ComputedP90 and ComputedP99 are percentiles over the raw
	// (unit-normalized) samples, independent of fio's own percentile
	// accounting. Zero if the log held no samples.
	ComputedP90 float64
	ComputedP99 float64
}

// Bucketizer accumulates raw log samples into a BucketedSeries.
// It is a pure accumulator: feeding the same input always yields the same
// output. Not safe for concurrent use.
type Bucketizer struct {
	stat   types.Statistic
	series *types.BucketedSeries

	// Current bucket accumulator
	cur  int
	mean float64
	n    int

	// Set once the bucket index reaches the end of the window; further
	// input is discarded, not an error.
	done bool

	sketch *ddsketch.DDSketch
}

// New creates a Bucketizer for the given statistic.
func New(stat types.Statistic) *Bucketizer {
	b := &Bucketizer{
		stat:   stat,
		series: types.NewBucketedSeries(stat),
		mean:   types.NoSamples,
	}

	sketch, err := ddsketch.NewDefaultDDSketch(config.DefaultSketchAccuracy)
	if err == nil {
		b.sketch = sketch
	}

	return b
}

// Add folds one raw sample into the series. The value is unit-normalized
// before entering the bucket mean.
func (b *Bucketizer) Add(timestampMs int64, raw float64) {
	if b.done {
		return
	}

	bucket := int(timestampMs / types.BucketWidthMs)

	// Emit finished buckets up to the sample's bucket. Buckets skipped
	// over keep the sentinel.
	for bucket > b.cur && b.cur < types.SeriesLength {
		b.series.Values[b.cur] = b.mean
		b.mean = types.NoSamples
		b.n = 0
		b.cur++
	}

	if b.cur >= types.SeriesLength {
		b.done = true
		return
	}

	v := b.stat.Normalize(raw)

	// Incremental mean, never a raw sample list: memory stays bounded
	// regardless of input length. For n == 1 the previous mean (possibly
	// the sentinel) is multiplied by zero, so the formula also starts a
	// fresh bucket correctly.
	b.n++
	b.mean = (b.mean*float64(b.n-1) + v) / float64(b.n)

	if b.sketch != nil {
		b.sketch.Add(v)
	}
}

// Finish emits the final partial bucket and returns the result. All
// remaining buckets keep the sentinel, so an empty input yields a full
// all-sentinel series.
func (b *Bucketizer) Finish() *Result {
	if b.cur < types.SeriesLength {
		b.series.Values[b.cur] = b.mean
	}

	res := &Result{Series: b.series}

	if b.sketch != nil && b.sketch.GetCount() > 0 {
		if p90, err := b.sketch.GetValueAtQuantile(0.90); err == nil {
			res.ComputedP90 = p90
		}
		if p99, err := b.sketch.GetValueAtQuantile(0.99); err == nil {
			res.ComputedP99 = p99
		}
	}

	return res
}

// FromReader bucketizes a fio log read from r.
//
// From the fio man page, each line is:
//
//	time (msec), value, data direction, block size (bytes), offset (bytes)[, command priority]
//
// Only the first two fields are consumed. The value is latency in
// nanoseconds, bandwidth in KiB/s or plain IOPS depending on the log type.
func FromReader(r io.Reader, name string, stat types.Statistic) (*Result, error) {
	b := New(stat)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ts, value, err := parseLine(line)
		if err != nil {
			return nil, errors.NewMalformedArtifact(name, fmt.Sprintf("line %d: %v", lineNo, err))
		}

		b.Add(ts, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewMalformedArtifact(name, err.Error())
	}

	return b.Finish(), nil
}

// parseLine extracts the timestamp and value from one log line.
func parseLine(line string) (int64, float64, error) {
	parts := strings.SplitN(line, ",", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("expected at least 2 comma-separated fields, got %d", len(parts))
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad timestamp: %v", err)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad value: %v", err)
	}

	return ts, value, nil
}
