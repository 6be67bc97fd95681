// Package parquet persists aggregate trees as Parquet files.
//
// Two row streams are produced: per-bucket series rows (one per real
// sample slot of every aggregated series) and per-config summary rows.
// The exported files are what the report-serving layer reads; nothing in
// this package renders output.
package parquet

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/xtxerr/fioreport/internal/errors"
)

// Options configures the Parquet writers.
type Options struct {
	// Compression algorithm
	Compression CompressionType

	// CompressionLevel for algorithms that support it (zstd: 1-22)
	CompressionLevel int
}

// CompressionType represents a Parquet compression algorithm.
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionSnappy
	CompressionZstd
	CompressionLZ4
	CompressionGzip
)

// DefaultOptions returns default Parquet options.
func DefaultOptions() Options {
	return Options{
		Compression:      CompressionZstd,
		CompressionLevel: 3,
	}
}

// ParseCompressionType parses a compression type string.
func ParseCompressionType(s string) CompressionType {
	switch s {
	case "snappy":
		return CompressionSnappy
	case "zstd":
		return CompressionZstd
	case "lz4":
		return CompressionLZ4
	case "gzip":
		return CompressionGzip
	case "none", "":
		return CompressionNone
	default:
		return CompressionZstd
	}
}

// getCompression returns the parquet-go compression codec.
func getCompression(ct CompressionType) compress.Codec {
	switch ct {
	case CompressionSnappy:
		return &parquet.Snappy
	case CompressionZstd:
		return &parquet.Zstd
	case CompressionLZ4:
		return &parquet.Lz4Raw
	case CompressionGzip:
		return &parquet.Gzip
	default:
		return &parquet.Uncompressed
	}
}

// SeriesRow is one real (non-sentinel) bucket of an aggregated series.
type SeriesRow struct {
	Snapshot  string  `parquet:"snapshot,zstd"`
	Side      string  `parquet:"side,zstd"`
	Level     string  `parquet:"level,zstd"`
	Host      string  `parquet:"host,zstd"`
	ConfigKey string  `parquet:"config_key,zstd"`
	Engine    string  `parquet:"engine,zstd"`
	Statistic string  `parquet:"statistic,zstd"`
	Kind      string  `parquet:"kind,zstd"`
	Bucket    int32   `parquet:"bucket"`
	Seconds   float64 `parquet:"seconds"`
	Value     float64 `parquet:"value"`
	Runs      int32   `parquet:"runs"`
}

// SummaryRow is one configuration's combined summary for one statistic.
type SummaryRow struct {
	Snapshot         string  `parquet:"snapshot,zstd"`
	Side             string  `parquet:"side,zstd"`
	Level            string  `parquet:"level,zstd"`
	Host             string  `parquet:"host,zstd"`
	ConfigKey        string  `parquet:"config_key,zstd"`
	Engine           string  `parquet:"engine,zstd"`
	Statistic        string  `parquet:"statistic,zstd"`
	Unit             string  `parquet:"unit,zstd"`
	Max              float64 `parquet:"max"`
	Min              float64 `parquet:"min"`
	Mean             float64 `parquet:"mean"`
	Stddev           float64 `parquet:"stddev"`
	NinetyPercentile float64 `parquet:"ninety_percentile,optional"`
	ComputedP90      float64 `parquet:"computed_p90,optional"`
	ComputedP99      float64 `parquet:"computed_p99,optional"`
	Runs             int32   `parquet:"runs"`
}

// Writer writes one typed row stream to a Parquet file.
type Writer[T any] struct {
	mu       sync.Mutex
	path     string
	file     *os.File
	writer   *parquet.GenericWriter[T]
	rowCount int64
	closed   bool
}

// NewWriter creates a Parquet writer at the given path, creating parent
// directories as needed.
func NewWriter[T any](path string, opts Options) (*Writer[T], error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	writerOpts := []parquet.WriterOption{
		parquet.Compression(getCompression(opts.Compression)),
	}

	return &Writer[T]{
		path:   path,
		file:   f,
		writer: parquet.NewGenericWriter[T](f, writerOpts...),
	}, nil
}

// Write appends rows to the file.
func (w *Writer[T]) Write(rows []T) error {
	if len(rows) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return errors.ErrWriterClosed
	}

	n, err := w.writer.Write(rows)
	if err != nil {
		return fmt.Errorf("write rows: %w", err)
	}

	w.rowCount += int64(n)
	return nil
}

// Close flushes and closes the file.
func (w *Writer[T]) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close writer: %w", err)
	}

	return w.file.Close()
}

// RowCount returns the number of rows written.
func (w *Writer[T]) RowCount() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rowCount
}

// Path returns the file path.
func (w *Writer[T]) Path() string {
	return w.path
}
