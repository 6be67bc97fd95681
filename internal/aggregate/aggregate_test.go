package aggregate

import (
	"math"
	"testing"

	"github.com/xtxerr/fioreport/internal/errors"
	"github.com/xtxerr/fioreport/internal/types"
)

func testConfig() types.RunConfig {
	return types.RunConfig{
		Pattern:    types.PatternRandRead,
		BlockSize:  4096,
		Engine:     types.EngineRBD,
		QueueDepth: 16,
	}
}

// latencyRun builds a run whose latency series holds vals in the first
// buckets and the sentinel everywhere else.
func latencyRun(name string, cfg types.RunConfig, vals []float64) *types.RunRecord {
	series := types.NewBucketedSeries(types.StatLatency)
	copy(series.Values[:], vals)

	return &types.RunRecord{
		Name:   name,
		Config: cfg,
		Stats: types.RunStats{
			Latency: types.SummaryStats{Stat: types.StatLatency, Max: 10, Min: 1, Mean: 5, Stddev: 3},
		},
		Series: map[types.Statistic]*types.BucketedSeries{
			types.StatLatency: series,
		},
	}
}

func TestEndToEndEnvelope(t *testing.T) {
	cfg := testConfig()
	r1 := latencyRun("run_1", cfg, []float64{5.0, types.NoSamples, 7.0})
	r2 := latencyRun("run_2", cfg, []float64{types.NoSamples, 6.0, 9.0})

	agg, err := FromRuns("configs/test", []*types.RunRecord{r1, r2})
	if err != nil {
		t.Fatalf("FromRuns: %v", err)
	}

	cases := []struct {
		kind types.AggregationKind
		want [3]float64
	}{
		{types.AggMean, [3]float64{5.0, 6.0, 8.0}},
		{types.AggMax, [3]float64{5.0, 6.0, 9.0}},
		{types.AggMin, [3]float64{5.0, 6.0, 7.0}},
	}
	for _, c := range cases {
		series := agg.Get(types.StatLatency, c.kind)
		if series == nil {
			t.Fatalf("%s: missing series", c.kind)
		}
		if series.Runs != 2 {
			t.Errorf("%s: expected 2 merged runs, got %d", c.kind, series.Runs)
		}
		for i, want := range c.want {
			if got := series.Values[i]; math.Abs(got-want) > 1e-9 {
				t.Errorf("%s bucket %d: expected %f, got %f", c.kind, i, want, got)
			}
		}
	}
}

func TestSentinelFill(t *testing.T) {
	cfg := testConfig()
	r1 := latencyRun("run_1", cfg, []float64{types.NoSamples})
	r2 := latencyRun("run_2", cfg, []float64{4.0})

	agg, err := FromRuns("configs/test", []*types.RunRecord{r1, r2})
	if err != nil {
		t.Fatalf("FromRuns: %v", err)
	}

	for _, kind := range types.AggregationKinds {
		if got := agg.Get(types.StatLatency, kind).Values[0]; got != 4.0 {
			t.Errorf("%s: expected sentinel filled with 4, got %f", kind, got)
		}
	}
}

func TestBothSentinelStaysSentinel(t *testing.T) {
	cfg := testConfig()
	r1 := latencyRun("run_1", cfg, nil)
	r2 := latencyRun("run_2", cfg, nil)

	agg, err := FromRuns("configs/test", []*types.RunRecord{r1, r2})
	if err != nil {
		t.Fatalf("FromRuns: %v", err)
	}

	for _, kind := range types.AggregationKinds {
		series := agg.Get(types.StatLatency, kind)
		for i := range series.Values {
			if series.Values[i] != types.NoSamples {
				t.Fatalf("%s bucket %d: expected sentinel, got %f", kind, i, series.Values[i])
			}
		}
	}
}

func TestAbsorbOrderIndependence(t *testing.T) {
	cfg := testConfig()
	r1 := latencyRun("run_1", cfg, []float64{5.0, types.NoSamples, 7.0, 2.5})
	r2 := latencyRun("run_2", cfg, []float64{types.NoSamples, 6.0, 9.0, 1.5})

	forward, err := FromRuns("configs/test", []*types.RunRecord{r1, r2})
	if err != nil {
		t.Fatalf("FromRuns: %v", err)
	}
	reverse, err := FromRuns("configs/test", []*types.RunRecord{r2, r1})
	if err != nil {
		t.Fatalf("FromRuns: %v", err)
	}

	// Max and min must be bit-identical regardless of absorb order.
	for _, kind := range []types.AggregationKind{types.AggMax, types.AggMin} {
		a := forward.Get(types.StatLatency, kind)
		b := reverse.Get(types.StatLatency, kind)
		if a.Values != b.Values {
			t.Errorf("%s: absorb order changed the result", kind)
		}
	}
}

func TestConfigMismatch(t *testing.T) {
	cfg := testConfig()
	other := cfg
	other.QueueDepth = 128

	r1 := latencyRun("run_1", cfg, []float64{1.0})
	r2 := latencyRun("run_2", other, []float64{2.0})

	_, err := FromRuns("configs/test", []*types.RunRecord{r1, r2})
	if !errors.Is(err, errors.ErrConfigMismatch) {
		t.Fatalf("expected ErrConfigMismatch, got %v", err)
	}
}

func TestEngineIgnoredInMismatchCheck(t *testing.T) {
	cfg := testConfig()
	other := cfg
	other.Engine = types.EngineLibaio

	r1 := latencyRun("run_1", cfg, []float64{1.0})
	r2 := latencyRun("run_2", other, []float64{2.0})

	if _, err := FromRuns("configs/test", []*types.RunRecord{r1, r2}); err != nil {
		t.Fatalf("engine difference should not be a mismatch: %v", err)
	}
}

func TestNoRuns(t *testing.T) {
	_, err := FromRuns("configs/empty", nil)
	if !errors.Is(err, errors.ErrNoRunsFound) {
		t.Fatalf("expected ErrNoRunsFound, got %v", err)
	}
}

func TestSummaryStatsMerge(t *testing.T) {
	cfg := testConfig()
	r1 := latencyRun("run_1", cfg, []float64{1.0})
	r1.Stats.Latency = types.SummaryStats{Stat: types.StatLatency, Max: 10, Min: 2, Mean: 6, Stddev: 3}
	r2 := latencyRun("run_2", cfg, []float64{2.0})
	r2.Stats.Latency = types.SummaryStats{Stat: types.StatLatency, Max: 8, Min: 1, Mean: 4, Stddev: 4}

	agg, err := FromRuns("configs/test", []*types.RunRecord{r1, r2})
	if err != nil {
		t.Fatalf("FromRuns: %v", err)
	}

	lat := agg.Stats.Latency
	if lat.Max != 10 {
		t.Errorf("max: expected 10, got %f", lat.Max)
	}
	if lat.Min != 1 {
		t.Errorf("min: expected 1, got %f", lat.Min)
	}
	// Mean of means, every run weighted equally.
	if math.Abs(lat.Mean-5.0) > 1e-9 {
		t.Errorf("mean: expected 5, got %f", lat.Mean)
	}
	// Pooled stddev: sqrt(3^2 + 4^2) = 5.
	if math.Abs(lat.Stddev-5.0) > 1e-9 {
		t.Errorf("stddev: expected 5, got %f", lat.Stddev)
	}
}

func TestRunsSorted(t *testing.T) {
	cfg := testConfig()
	r1 := latencyRun("run_2", cfg, []float64{1.0})
	r2 := latencyRun("run_1", cfg, []float64{2.0})

	agg, err := FromRuns("configs/test", []*types.RunRecord{r1, r2})
	if err != nil {
		t.Fatalf("FromRuns: %v", err)
	}

	if agg.Runs[0].Name != "run_1" || agg.Runs[1].Name != "run_2" {
		t.Errorf("runs not in canonical order: %s, %s", agg.Runs[0].Name, agg.Runs[1].Name)
	}
}
