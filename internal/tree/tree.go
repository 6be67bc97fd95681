// Package tree assembles a validated aggregate tree from a snapshot
// directory hierarchy: stack level -> host -> configuration -> run.
//
// The builder walks an fs.FS rather than the real filesystem so the whole
// hierarchy is testable against in-memory fixtures.
package tree

import (
	"fmt"
	"strings"
	"time"

	"github.com/xtxerr/fioreport/internal/aggregate"
	"github.com/xtxerr/fioreport/internal/types"
)

// HostAggregate is one host's configuration aggregates under one stack
// level, sorted by the canonical config string for reproducible ordering.
type HostAggregate struct {
	Level    types.StackLevel
	Hostname string
	Configs  []*aggregate.ConfigAggregate
}

// String lists the level, host and config keys for diagnostics.
func (h *HostAggregate) String() string {
	keys := make([]string, len(h.Configs))
	for i, c := range h.Configs {
		keys[i] = c.Config.String()
	}
	return fmt.Sprintf("HostAggregate(level=%s, host=%s, configs=[%s])",
		h.Level, h.Hostname, strings.Join(keys, ", "))
}

// Equal reports whether two host aggregates cover the same configuration
// set, compared by RunConfig with the engine ignored. This is the shape
// equality the comparator relies on, not value equality of the series.
func (h *HostAggregate) Equal(other *HostAggregate) bool {
	if len(h.Configs) != len(other.Configs) {
		return false
	}
	for i := range h.Configs {
		if !h.Configs[i].Config.Same(other.Configs[i].Config) {
			return false
		}
	}
	return true
}

// Config returns the aggregate for the engine-agnostic config key, or nil.
func (h *HostAggregate) Config(key string) *aggregate.ConfigAggregate {
	for _, c := range h.Configs {
		if c.Config.Key() == key {
			return c
		}
	}
	return nil
}

// SnapshotAggregate is one timestamped collection of host aggregates, one
// per requested stack level present in the snapshot directory.
type SnapshotAggregate struct {
	Dir       string
	Timestamp time.Time
	Levels    []*HostAggregate
}

// String lists the snapshot's levels for diagnostics.
func (s *SnapshotAggregate) String() string {
	levels := make([]string, len(s.Levels))
	for i, l := range s.Levels {
		levels[i] = l.String()
	}
	return fmt.Sprintf("SnapshotAggregate(dir=%s, levels=[%s])",
		s.Dir, strings.Join(levels, "; "))
}

// Level returns the host aggregate for the given stack level, or nil.
func (s *SnapshotAggregate) Level(level types.StackLevel) *HostAggregate {
	for _, l := range s.Levels {
		if l.Level == level {
			return l
		}
	}
	return nil
}

// Equal reports whether two snapshots have the same shape: the same stack
// levels, each covering the same configuration set.
func (s *SnapshotAggregate) Equal(other *SnapshotAggregate) bool {
	if len(s.Levels) != len(other.Levels) {
		return false
	}
	for i := range s.Levels {
		if s.Levels[i].Level != other.Levels[i].Level {
			return false
		}
		if !s.Levels[i].Equal(other.Levels[i]) {
			return false
		}
	}
	return true
}
