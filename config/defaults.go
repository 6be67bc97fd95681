// Package config provides configuration defaults and utilities
// for the fioreport tool.
//
// This package defines all configurable constants with documented defaults.
// Users can override these values via config.yaml or CLI flags.
package config

// =============================================================================
// Run Artifact Defaults
// =============================================================================

const (
	// LatencyLogName is the per-event completion-latency log written by
	// fio --write_lat_log=data. May carry a .gz suffix.
	LatencyLogName = "data_lat.log"

	// BandwidthLogName is the per-event bandwidth log written by
	// fio --write_bw_log=data. May carry a .gz suffix.
	BandwidthLogName = "data_bw.log"

	// IOPSLogName is the per-event IOPS log written by
	// fio --write_iops_log=data. May carry a .gz suffix.
	IOPSLogName = "data_iops.log"

	// SummaryName is the fio --format=+json summary artifact holding the
	// job options and the per-statistic summary statistics.
	SummaryName = "run_stats.log"

	// GzipSuffix marks a compressed artifact. Readers try the plain name
	// first, then the compressed one.
	GzipSuffix = ".gz"
)

// =============================================================================
// Snapshot Layout Defaults
// =============================================================================

const (
	// TimestampLayout is the required basename format of a snapshot
	// directory, e.g. 2021-03-19_15-41-05.
	TimestampLayout = "2006-01-02_15-04-05"
)

// =============================================================================
// Loader Defaults
// =============================================================================

const (
	// DefaultRunWorkers bounds the number of run directories parsed in
	// parallel while building a tree. Parsing is I/O bound; a small
	// multiple of the artifact count per config keeps disks busy without
	// thrashing.
	// Override via config: workers
	DefaultRunWorkers = 8
)

// =============================================================================
// Export Defaults
// =============================================================================

const (
	// DefaultCompression is the Parquet compression algorithm for
	// exported aggregates.
	// Override via config: export.compression
	DefaultCompression = "zstd"

	// DefaultCompressionLevel is the zstd compression level.
	// Override via config: export.compression_level
	DefaultCompressionLevel = 3

	// SeriesFileName is the exported per-bucket series Parquet file.
	SeriesFileName = "series.parquet"

	// SummaryFileName is the exported per-config summary Parquet file.
	SummaryFileName = "summary.parquet"
)

// =============================================================================
// Percentile Defaults
// =============================================================================

const (
	// DefaultSketchAccuracy is the DDSketch relative accuracy used for
	// computed per-run percentiles (0.01 = 1% error).
	DefaultSketchAccuracy = 0.01
)
