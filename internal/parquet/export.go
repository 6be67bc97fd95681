package parquet

import (
	"path"
	"path/filepath"

	"github.com/xtxerr/fioreport/config"
	"github.com/xtxerr/fioreport/internal/aggregate"
	"github.com/xtxerr/fioreport/internal/logging"
	"github.com/xtxerr/fioreport/internal/tree"
	"github.com/xtxerr/fioreport/internal/types"
)

// Exporter flattens aggregate trees into the two row streams.
type Exporter struct {
	series  *Writer[SeriesRow]
	summary *Writer[SummaryRow]
}

// NewExporter creates series and summary writers under outDir.
func NewExporter(outDir string, opts Options) (*Exporter, error) {
	series, err := NewWriter[SeriesRow](filepath.Join(outDir, config.SeriesFileName), opts)
	if err != nil {
		return nil, err
	}

	summary, err := NewWriter[SummaryRow](filepath.Join(outDir, config.SummaryFileName), opts)
	if err != nil {
		series.Close()
		return nil, err
	}

	return &Exporter{series: series, summary: summary}, nil
}

// Snapshot writes one whole snapshot tree under the given side label
// ("before"/"after").
func (e *Exporter) Snapshot(side string, snap *tree.SnapshotAggregate) error {
	name := path.Base(snap.Dir)
	for _, host := range snap.Levels {
		if err := e.host(name, side, host); err != nil {
			return err
		}
	}

	logging.Component("parquet").Info("snapshot exported",
		"snapshot", name, "side", side,
		"series_rows", e.series.RowCount(), "summary_rows", e.summary.RowCount())
	return nil
}

// host writes one stack level's aggregates.
func (e *Exporter) host(snapshot, side string, host *tree.HostAggregate) error {
	for _, cfg := range host.Configs {
		if err := e.config(snapshot, side, host, cfg); err != nil {
			return err
		}
	}
	return nil
}

// config writes one configuration's nine series plus its summary rows.
// Sentinel buckets are not exported; consumers get only real samples.
func (e *Exporter) config(snapshot, side string, host *tree.HostAggregate, cfg *aggregate.ConfigAggregate) error {
	var rows []SeriesRow
	for _, stat := range types.Statistics {
		for _, kind := range types.AggregationKinds {
			agg := cfg.Get(stat, kind)
			if agg == nil {
				continue
			}
			for i := range agg.Values {
				if !agg.HasSample(i) {
					continue
				}
				rows = append(rows, SeriesRow{
					Snapshot:  snapshot,
					Side:      side,
					Level:     host.Level.String(),
					Host:      host.Hostname,
					ConfigKey: cfg.Config.Key(),
					Engine:    cfg.Config.Engine.String(),
					Statistic: stat.String(),
					Kind:      kind.String(),
					Bucket:    int32(i),
					Seconds:   types.BucketSeconds(i),
					Value:     agg.Values[i],
					Runs:      int32(agg.Runs),
				})
			}
		}
	}
	if err := e.series.Write(rows); err != nil {
		return err
	}

	summaries := make([]SummaryRow, 0, len(types.Statistics))
	for _, stat := range types.Statistics {
		s := cfg.Stats.Get(stat)
		summaries = append(summaries, SummaryRow{
			Snapshot:         snapshot,
			Side:             side,
			Level:            host.Level.String(),
			Host:             host.Hostname,
			ConfigKey:        cfg.Config.Key(),
			Engine:           cfg.Config.Engine.String(),
			Statistic:        stat.String(),
			Unit:             stat.Unit(),
			Max:              s.Max,
			Min:              s.Min,
			Mean:             s.Mean,
			Stddev:           s.Stddev,
			NinetyPercentile: s.NinetyPercentile,
			ComputedP90:      s.ComputedP90,
			ComputedP99:      s.ComputedP99,
			Runs:             int32(cfg.NumRuns()),
		})
	}
	return e.summary.Write(summaries)
}

// Close closes both writers.
func (e *Exporter) Close() error {
	serr := e.series.Close()
	merr := e.summary.Close()
	if serr != nil {
		return serr
	}
	return merr
}

// SeriesPath returns the series file path.
func (e *Exporter) SeriesPath() string { return e.series.Path() }

// SummaryPath returns the summary file path.
func (e *Exporter) SummaryPath() string { return e.summary.Path() }
