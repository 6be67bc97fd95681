package tree

import (
	"context"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xtxerr/fioreport/config"
	"github.com/xtxerr/fioreport/internal/aggregate"
	"github.com/xtxerr/fioreport/internal/bucketize"
	"github.com/xtxerr/fioreport/internal/errors"
	"github.com/xtxerr/fioreport/internal/fiojson"
	"github.com/xtxerr/fioreport/internal/logging"
	"github.com/xtxerr/fioreport/internal/types"
)

// Options configures a Builder.
type Options struct {
	// Stats is the list of statistics to load. Defaults to all three.
	Stats []types.Statistic

	// Workers bounds the number of run directories parsed in parallel.
	// Defaults to config.DefaultRunWorkers.
	Workers int
}

// Builder walks a snapshot hierarchy and assembles the aggregate tree.
// Independent run directories are parsed concurrently; the fold into each
// ConfigAggregate is sequential.
type Builder struct {
	fsys    fs.FS
	stats   []types.Statistic
	workers int
	log     *slog.Logger
}

// NewBuilder creates a Builder over the given filesystem.
func NewBuilder(fsys fs.FS, opts Options) *Builder {
	stats := opts.Stats
	if len(stats) == 0 {
		stats = types.Statistics
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = config.DefaultRunWorkers
	}

	return &Builder{
		fsys:    fsys,
		stats:   stats,
		workers: workers,
		log:     logging.Component("tree"),
	}
}

// Snapshot builds the aggregate tree for one snapshot directory.
//
// The directory basename must parse as a timestamp in the
// config.TimestampLayout form. Of the requested stack levels, only those
// present as subdirectories are loaded, in the requested order.
func (b *Builder) Snapshot(ctx context.Context, dir string, levels []types.StackLevel) (*SnapshotAggregate, error) {
	ts, err := time.Parse(config.TimestampLayout, path.Base(dir))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrBadTimestamp, "%s", dir)
	}

	snap := &SnapshotAggregate{Dir: dir, Timestamp: ts}

	for _, level := range levels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !level.Supported() {
			return nil, errors.Wrapf(errors.ErrUnsupportedStackLevel, "%s", level)
		}

		levelDir := path.Join(dir, level.String())
		info, err := fs.Stat(b.fsys, levelDir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		if !info.IsDir() {
			continue
		}

		host, err := b.StackLevel(ctx, level, levelDir)
		if err != nil {
			return nil, err
		}
		snap.Levels = append(snap.Levels, host)
	}

	b.log.Info("snapshot loaded",
		"dir", dir, "timestamp", ts, "levels", len(snap.Levels))
	return snap, nil
}

// StackLevel builds one host aggregate from a stack-level directory.
// Exactly one host subdirectory is expected; zero or several fail hard,
// multi-host snapshots are unsupported rather than approximated.
func (b *Builder) StackLevel(ctx context.Context, level types.StackLevel, dir string) (*HostAggregate, error) {
	hosts, err := listDirs(b.fsys, dir)
	if err != nil {
		return nil, err
	}
	if len(hosts) != 1 {
		return nil, errors.NewHostCardinality(dir, hosts)
	}
	hostname := hosts[0]

	configsDir := path.Join(dir, hostname)
	configDirs, err := listDirs(b.fsys, configsDir)
	if err != nil {
		return nil, err
	}

	host := &HostAggregate{Level: level, Hostname: hostname}
	for _, name := range configDirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		agg, err := b.configDir(ctx, path.Join(configsDir, name))
		if err != nil {
			return nil, err
		}
		host.Configs = append(host.Configs, agg)
	}

	sort.Slice(host.Configs, func(i, j int) bool {
		return host.Configs[i].String() < host.Configs[j].String()
	})

	b.log.Debug("stack level loaded",
		"level", level, "host", hostname, "configs", len(host.Configs))
	return host, nil
}

// configDir parses every run under one configuration directory and folds
// them into a ConfigAggregate. Run parsing has no shared state, so runs
// are read on a bounded worker group; the fold happens afterwards, in
// directory order, so aggregation stays deterministic.
func (b *Builder) configDir(ctx context.Context, dir string) (*aggregate.ConfigAggregate, error) {
	runDirs, err := listDirs(b.fsys, dir)
	if err != nil {
		return nil, err
	}

	runs := make([]*types.RunRecord, len(runDirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, name := range runDirs {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			run, err := b.runRecord(path.Join(dir, name), name)
			if err != nil {
				return err
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return aggregate.FromRuns(dir, runs)
}

// runRecord reads one run directory: the summary artifact plus one
// per-event log per requested statistic. Which statistic a log holds is
// decided from its file name at this boundary. A requested statistic with
// no log file in the directory yields no series at all, which is distinct
// from a series with no samples.
func (b *Builder) runRecord(dir, name string) (*types.RunRecord, error) {
	summary, summaryName, err := openArtifact(b.fsys, path.Join(dir, config.SummaryName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewMalformedArtifact(dir, "missing summary artifact")
		}
		return nil, err
	}
	cfg, stats, err := fiojson.Read(summary, summaryName)
	summary.Close()
	if err != nil {
		return nil, err
	}

	record := &types.RunRecord{
		Name:   name,
		Config: cfg,
		Stats:  stats,
		Series: make(map[types.Statistic]*types.BucketedSeries, len(b.stats)),
	}

	entries, err := fs.ReadDir(b.fsys, dir)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		logName := e.Name()
		base := strings.TrimSuffix(logName, config.GzipSuffix)
		if base == config.SummaryName || !strings.HasPrefix(base, "data_") {
			continue
		}

		stat, err := fiojson.StatisticForFile(base)
		if err != nil {
			return nil, err
		}
		if !b.requested(stat) {
			continue
		}
		if _, ok := record.Series[stat]; ok {
			// Plain and compressed variants of the same log; the
			// first one read wins.
			continue
		}

		f, err := openLog(b.fsys, path.Join(dir, logName))
		if err != nil {
			return nil, err
		}

		res, err := bucketize.FromReader(f, logName, stat)
		f.Close()
		if err != nil {
			return nil, err
		}

		record.Series[stat] = res.Series
		record.Stats.Get(stat).ComputedP90 = res.ComputedP90
		record.Stats.Get(stat).ComputedP99 = res.ComputedP99
	}

	b.log.Debug("run parsed", "dir", dir, "config", cfg.Key(), "series", len(record.Series))
	return record, nil
}

// requested reports whether the statistic was asked for.
func (b *Builder) requested(stat types.Statistic) bool {
	for _, s := range b.stats {
		if s == stat {
			return true
		}
	}
	return false
}

// listDirs returns the names of the immediate subdirectories of dir.
// Non-directory entries are skipped; fs.ReadDir returns names sorted.
func listDirs(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
