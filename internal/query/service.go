// Package query serves SQL lookups over exported aggregate Parquet files.
//
// The report web layer consumes this boundary: it asks for per-config
// summaries and before/after deltas, and renders them however it likes.
// DuckDB reads the Parquet exports directly; nothing is loaded up front.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/xtxerr/fioreport/config"
)

// Service provides query capabilities over an export directory.
type Service struct {
	db          *sql.DB
	seriesPath  string
	summaryPath string
}

// ConfigSummary is one side's combined summary for one configuration and
// statistic.
type ConfigSummary struct {
	Side      string
	Level     string
	Host      string
	ConfigKey string
	Statistic string
	Unit      string
	Max       float64
	Min       float64
	Mean      float64
	Stddev    float64
	Runs      int32
}

// SummaryDelta is the before/after mean movement of one configuration and
// statistic.
type SummaryDelta struct {
	Level      string
	ConfigKey  string
	Statistic  string
	BeforeMean float64
	AfterMean  float64
	DeltaPct   float64
}

// Open creates a query service over the Parquet files under exportDir.
func Open(exportDir string) (*Service, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	return &Service{
		db:          db,
		seriesPath:  filepath.Join(exportDir, config.SeriesFileName),
		summaryPath: filepath.Join(exportDir, config.SummaryFileName),
	}, nil
}

// Close closes the query service.
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Summaries returns every combined summary row for one side, in canonical
// level/config/statistic order.
func (s *Service) Summaries(ctx context.Context, side string) ([]ConfigSummary, error) {
	query := `
		SELECT side, level, host, config_key, statistic, unit,
		       max, min, mean, stddev, runs
		FROM read_parquet($1)
		WHERE side = $2
		ORDER BY level, config_key, statistic
	`

	rows, err := s.db.QueryContext(ctx, query, s.summaryPath, side)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []ConfigSummary
	for rows.Next() {
		var c ConfigSummary
		if err := rows.Scan(&c.Side, &c.Level, &c.Host, &c.ConfigKey, &c.Statistic, &c.Unit,
			&c.Max, &c.Min, &c.Mean, &c.Stddev, &c.Runs); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SummaryDeltas joins the before and after sides of the summary export and
// returns the mean movement per configuration and statistic.
func (s *Service) SummaryDeltas(ctx context.Context) ([]SummaryDelta, error) {
	query := `
		SELECT b.level, b.config_key, b.statistic,
		       b.mean AS before_mean,
		       a.mean AS after_mean,
		       CASE WHEN b.mean = 0 THEN 0
		            ELSE (a.mean - b.mean) / b.mean * 100 END AS delta_pct
		FROM read_parquet($1) b
		JOIN read_parquet($2) a
		  ON b.level = a.level
		 AND b.config_key = a.config_key
		 AND b.statistic = a.statistic
		WHERE b.side = 'before' AND a.side = 'after'
		ORDER BY b.level, b.config_key, b.statistic
	`

	rows, err := s.db.QueryContext(ctx, query, s.summaryPath, s.summaryPath)
	if err != nil {
		return nil, fmt.Errorf("query deltas: %w", err)
	}
	defer rows.Close()

	var out []SummaryDelta
	for rows.Next() {
		var d SummaryDelta
		if err := rows.Scan(&d.Level, &d.ConfigKey, &d.Statistic,
			&d.BeforeMean, &d.AfterMean, &d.DeltaPct); err != nil {
			return nil, fmt.Errorf("scan delta: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SeriesPoints returns the non-sentinel points of one aggregated series,
// ordered by bucket.
func (s *Service) SeriesPoints(ctx context.Context, side, level, configKey, statistic, kind string) ([]Point, error) {
	query := `
		SELECT bucket, seconds, value
		FROM read_parquet($1)
		WHERE side = $2 AND level = $3 AND config_key = $4
		  AND statistic = $5 AND kind = $6
		ORDER BY bucket
	`

	rows, err := s.db.QueryContext(ctx, query, s.seriesPath, side, level, configKey, statistic, kind)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	var out []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.Bucket, &p.Seconds, &p.Value); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Point is one real bucket of an exported series.
type Point struct {
	Bucket  int32
	Seconds float64
	Value   float64
}
