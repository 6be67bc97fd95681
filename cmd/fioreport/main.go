// fioreport aggregates fio benchmark snapshots and exports a before/after
// comparison as Parquet files for the report-serving layer.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/xtxerr/fioreport/internal/compare"
	"github.com/xtxerr/fioreport/internal/loader"
	"github.com/xtxerr/fioreport/internal/logging"
	"github.com/xtxerr/fioreport/internal/parquet"
	"github.com/xtxerr/fioreport/internal/query"
	"github.com/xtxerr/fioreport/internal/tree"
	"github.com/xtxerr/fioreport/internal/types"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// CLI flags
	cfgPath := flag.String("config", "fioreport.yaml", "config file path")
	beforeDir := flag.String("before", "", "before snapshot directory (overrides config)")
	afterDir := flag.String("after", "", "after snapshot directory (overrides config)")
	outDir := flag.String("out", "", "export directory (overrides config)")
	stats := flag.String("stat", "", "comma-separated statistics to load (overrides config)")
	levels := flag.String("stack-level", "", "comma-separated stack levels to load (overrides config)")
	workers := flag.Int("workers", 0, "parallel run parsers (overrides config)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	// Load config
	cfg, err := loader.Load(*cfgPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg = loader.DefaultConfig()
		} else {
			log.Fatalf("Load config: %v", err)
		}
	}

	// CLI overrides
	if *beforeDir != "" {
		cfg.BeforeDir = *beforeDir
	}
	if *afterDir != "" {
		cfg.AfterDir = *afterDir
	}
	if *outDir != "" {
		cfg.Export.Dir = *outDir
	}
	if *stats != "" {
		cfg.Stats = strings.Split(*stats, ",")
	}
	if *levels != "" {
		cfg.StackLevels = strings.Split(*levels, ",")
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config: %v", err)
	}

	logging.Init(cfg.LogLevel(), cfg.Log.JSON)
	logger := logging.Component("main")
	logger.Info("fioreport starting", "version", Version,
		"before", cfg.BeforeDir, "after", cfg.AfterDir)

	stackLevels, err := cfg.ParsedStackLevels()
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	requestedStats, err := cfg.ParsedStats()
	if err != nil {
		log.Fatalf("Config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := tree.Options{Stats: requestedStats, Workers: cfg.Workers}

	// =========================================================================
	// Build both snapshot trees
	// =========================================================================

	before, err := buildSnapshot(ctx, cfg.BeforeDir, stackLevels, opts)
	if err != nil {
		log.Fatalf("Load before snapshot: %v", err)
	}
	after, err := buildSnapshot(ctx, cfg.AfterDir, stackLevels, opts)
	if err != nil {
		log.Fatalf("Load after snapshot: %v", err)
	}

	// =========================================================================
	// Pair up and export
	// =========================================================================

	comparisons, err := compare.Snapshots(before, after)
	if err != nil {
		log.Fatalf("Compare snapshots: %v", err)
	}
	for _, cmp := range comparisons {
		logger.Info("level comparable",
			"level", cmp.Level, "host", cmp.BeforeHost, "configs", len(cmp.Pairs))
	}

	exporter, err := parquet.NewExporter(cfg.Export.Dir, parquet.Options{
		Compression:      parquet.ParseCompressionType(cfg.Export.Compression),
		CompressionLevel: cfg.Export.CompressionLevel,
	})
	if err != nil {
		log.Fatalf("Create exporter: %v", err)
	}
	if err := exporter.Snapshot("before", before); err != nil {
		log.Fatalf("Export before snapshot: %v", err)
	}
	if err := exporter.Snapshot("after", after); err != nil {
		log.Fatalf("Export after snapshot: %v", err)
	}
	if err := exporter.Close(); err != nil {
		log.Fatalf("Close exporter: %v", err)
	}

	// =========================================================================
	// Log the headline deltas
	// =========================================================================

	svc, err := query.Open(cfg.Export.Dir)
	if err != nil {
		log.Fatalf("Open query service: %v", err)
	}
	defer svc.Close()

	deltas, err := svc.SummaryDeltas(ctx)
	if err != nil {
		log.Fatalf("Query deltas: %v", err)
	}
	for _, d := range deltas {
		logger.Info("summary delta",
			"level", d.Level, "config", d.ConfigKey, "statistic", d.Statistic,
			"before_mean", d.BeforeMean, "after_mean", d.AfterMean, "delta_pct", d.DeltaPct)
	}

	logger.Info("export complete", "dir", cfg.Export.Dir)
}

// buildSnapshot loads one snapshot tree from an on-disk directory.
func buildSnapshot(ctx context.Context, dir string, levels []types.StackLevel, opts tree.Options) (*tree.SnapshotAggregate, error) {
	parent := filepath.Dir(filepath.Clean(dir))
	base := filepath.Base(filepath.Clean(dir))
	b := tree.NewBuilder(os.DirFS(parent), opts)
	return b.Snapshot(ctx, base, levels)
}
