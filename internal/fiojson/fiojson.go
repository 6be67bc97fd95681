// Package fiojson parses fio's JSON summary artifact into the run's
// configuration and summary statistics.
//
// The artifact is what fio --format=+json writes: a document with a
// "global options" block, and one job carrying a "job options" block plus
// "read" and "write" sub-objects with clat_ns, bw_* and iops_* fields.
// Units are normalized exactly as the bucketizer normalizes raw samples.
package fiojson

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xtxerr/fioreport/internal/errors"
	"github.com/xtxerr/fioreport/internal/types"
)

// ninetyKey is the fio percentile map key for the 90th percentile.
const ninetyKey = "90.000000"

// Read parses a fio summary artifact from r. The name is used for error
// context only. Missing required keys and unrecognized option values fail
// with ErrMalformedArtifact; nothing is defaulted.
func Read(r io.Reader, name string) (types.RunConfig, types.RunStats, error) {
	var doc summaryDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return types.RunConfig{}, types.RunStats{}, errors.NewMalformedArtifact(name, err.Error())
	}

	cfg, err := doc.runConfig()
	if err != nil {
		return types.RunConfig{}, types.RunStats{}, errors.NewMalformedArtifact(name, err.Error())
	}

	stats, err := doc.runStats(cfg.Pattern)
	if err != nil {
		return types.RunConfig{}, types.RunStats{}, errors.NewMalformedArtifact(name, err.Error())
	}

	return cfg, stats, nil
}

// StatisticForFile maps a per-event log file name to its statistic using
// fio's --write_*_log naming convention.
func StatisticForFile(name string) (types.Statistic, error) {
	switch {
	case strings.Contains(name, "data_lat"):
		return types.StatLatency, nil
	case strings.Contains(name, "data_bw"):
		return types.StatBandwidth, nil
	case strings.Contains(name, "data_iops"):
		return types.StatIOPS, nil
	default:
		return 0, fmt.Errorf("%s: %w", name, errors.ErrUnknownStatisticFile)
	}
}

// =============================================================================
// Document shape
// =============================================================================

// Pointer fields distinguish an absent key from a zero value; every
// required key is checked explicitly.

type summaryDoc struct {
	GlobalOptions *globalOptions `json:"global options"`
	Jobs          []jobDoc       `json:"jobs"`
}

type globalOptions struct {
	IOEngine string `json:"ioengine"`
}

type jobDoc struct {
	JobOptions *jobOptions `json:"job options"`
	Read       *sideDoc    `json:"read"`
	Write      *sideDoc    `json:"write"`
}

// jobOptions values are strings in fio's JSON output.
type jobOptions struct {
	RW      string `json:"rw"`
	BS      string `json:"bs"`
	IODepth string `json:"iodepth"`
}

type sideDoc struct {
	ClatNs *clatDoc `json:"clat_ns"`

	BwMax  *float64 `json:"bw_max"`
	BwMin  *float64 `json:"bw_min"`
	BwMean *float64 `json:"bw_mean"`
	BwDev  *float64 `json:"bw_dev"`

	IopsMax    *float64 `json:"iops_max"`
	IopsMin    *float64 `json:"iops_min"`
	IopsMean   *float64 `json:"iops_mean"`
	IopsStddev *float64 `json:"iops_stddev"`
}

type clatDoc struct {
	Max        *float64           `json:"max"`
	Min        *float64           `json:"min"`
	Mean       *float64           `json:"mean"`
	Stddev     *float64           `json:"stddev"`
	Percentile map[string]float64 `json:"percentile"`
}

// =============================================================================
// Extraction
// =============================================================================

func (d *summaryDoc) job() (*jobDoc, error) {
	if len(d.Jobs) == 0 {
		return nil, fmt.Errorf("missing jobs")
	}
	job := &d.Jobs[0]
	if job.JobOptions == nil {
		return nil, fmt.Errorf("missing job options")
	}
	return job, nil
}

func (d *summaryDoc) runConfig() (types.RunConfig, error) {
	job, err := d.job()
	if err != nil {
		return types.RunConfig{}, err
	}

	pattern, err := types.ParseReadWritePattern(job.JobOptions.RW)
	if err != nil {
		return types.RunConfig{}, err
	}

	bs, err := parseBlockSize(job.JobOptions.BS)
	if err != nil {
		return types.RunConfig{}, err
	}

	if d.GlobalOptions == nil {
		return types.RunConfig{}, fmt.Errorf("missing global options")
	}
	engine, err := types.ParseIOEngine(d.GlobalOptions.IOEngine)
	if err != nil {
		return types.RunConfig{}, err
	}

	depth, err := strconv.Atoi(job.JobOptions.IODepth)
	if err != nil {
		return types.RunConfig{}, fmt.Errorf("bad iodepth %q: %v", job.JobOptions.IODepth, err)
	}

	return types.RunConfig{
		Pattern:    pattern,
		BlockSize:  bs,
		Engine:     engine,
		QueueDepth: depth,
	}, nil
}

// runStats extracts the summary for the side the pattern exercises: the
// read sub-object for read/randread, the write sub-object otherwise.
func (d *summaryDoc) runStats(pattern types.ReadWritePattern) (types.RunStats, error) {
	job, err := d.job()
	if err != nil {
		return types.RunStats{}, err
	}

	var side *sideDoc
	if pattern.IsRead() {
		side = job.Read
	} else {
		side = job.Write
	}
	if side == nil {
		return types.RunStats{}, fmt.Errorf("missing %s side summary", sideName(pattern))
	}

	latency, err := side.latency()
	if err != nil {
		return types.RunStats{}, err
	}
	bandwidth, err := side.bandwidth()
	if err != nil {
		return types.RunStats{}, err
	}
	iops, err := side.iops()
	if err != nil {
		return types.RunStats{}, err
	}

	return types.RunStats{Latency: latency, Bandwidth: bandwidth, IOPS: iops}, nil
}

func sideName(pattern types.ReadWritePattern) string {
	if pattern.IsRead() {
		return "read"
	}
	return "write"
}

func (s *sideDoc) latency() (types.SummaryStats, error) {
	c := s.ClatNs
	if c == nil || c.Max == nil || c.Min == nil || c.Mean == nil || c.Stddev == nil {
		return types.SummaryStats{}, fmt.Errorf("missing clat_ns fields")
	}
	ninety, ok := c.Percentile[ninetyKey]
	if !ok {
		return types.SummaryStats{}, fmt.Errorf("missing clat_ns percentile %s", ninetyKey)
	}

	return types.SummaryStats{
		Stat:             types.StatLatency,
		Max:              *c.Max * types.NanoToMilli,
		Min:              *c.Min * types.NanoToMilli,
		Mean:             *c.Mean * types.NanoToMilli,
		Stddev:           *c.Stddev * types.NanoToMilli,
		NinetyPercentile: ninety * types.NanoToMilli,
	}, nil
}

func (s *sideDoc) bandwidth() (types.SummaryStats, error) {
	if s.BwMax == nil || s.BwMin == nil || s.BwMean == nil || s.BwDev == nil {
		return types.SummaryStats{}, fmt.Errorf("missing bw_* fields")
	}

	return types.SummaryStats{
		Stat:   types.StatBandwidth,
		Max:    *s.BwMax * types.KiBToMiB,
		Min:    *s.BwMin * types.KiBToMiB,
		Mean:   *s.BwMean * types.KiBToMiB,
		Stddev: *s.BwDev * types.KiBToMiB,
	}, nil
}

func (s *sideDoc) iops() (types.SummaryStats, error) {
	if s.IopsMax == nil || s.IopsMin == nil || s.IopsMean == nil || s.IopsStddev == nil {
		return types.SummaryStats{}, fmt.Errorf("missing iops_* fields")
	}

	return types.SummaryStats{
		Stat:   types.StatIOPS,
		Max:    *s.IopsMax,
		Min:    *s.IopsMin,
		Mean:   *s.IopsMean,
		Stddev: *s.IopsStddev,
	}, nil
}

// parseBlockSize normalizes a fio bs option value ("4k", "4M" or plain
// bytes) to bytes.
func parseBlockSize(raw string) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, fmt.Errorf("missing bs")
	}

	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "m"):
		mult = 1024 * 1024
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "k"):
		mult = 1024
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad bs %q: %v", raw, err)
	}
	return n * mult, nil
}
