// Package compare pairs up two aggregate trees for before/after reporting.
//
// Comparison is all-or-nothing: the two trees must cover exactly the same
// configuration set (by RunConfig, engine ignored) or the comparison fails
// with both trees in the error. Missing configurations are never silently
// skipped or padded.
package compare

import (
	"github.com/xtxerr/fioreport/internal/aggregate"
	"github.com/xtxerr/fioreport/internal/errors"
	"github.com/xtxerr/fioreport/internal/tree"
	"github.com/xtxerr/fioreport/internal/types"
)

// Pair is one matched configuration across the two sides.
type Pair struct {
	// Key is the engine-agnostic configuration identity.
	Key string

	Before *aggregate.ConfigAggregate
	After  *aggregate.ConfigAggregate
}

// LevelComparison holds the paired configurations of one stack level.
type LevelComparison struct {
	Level      types.StackLevel
	BeforeHost string
	AfterHost  string
	Pairs      []Pair
}

// Hosts pairs up the configurations of two host aggregates in canonical
// configuration order.
func Hosts(before, after *tree.HostAggregate) (*LevelComparison, error) {
	if !before.Equal(after) {
		return nil, errors.NewIncomparable(before, after)
	}

	cmp := &LevelComparison{
		Level:      before.Level,
		BeforeHost: before.Hostname,
		AfterHost:  after.Hostname,
	}
	for i := range before.Configs {
		cmp.Pairs = append(cmp.Pairs, Pair{
			Key:    before.Configs[i].Config.Key(),
			Before: before.Configs[i],
			After:  after.Configs[i],
		})
	}
	return cmp, nil
}

// Snapshots verifies that two snapshot trees are structurally compatible
// and pairs up their configurations level by level.
func Snapshots(before, after *tree.SnapshotAggregate) ([]*LevelComparison, error) {
	if !before.Equal(after) {
		return nil, errors.NewIncomparable(before, after)
	}

	var out []*LevelComparison
	for i := range before.Levels {
		cmp, err := Hosts(before.Levels[i], after.Levels[i])
		if err != nil {
			return nil, err
		}
		out = append(out, cmp)
	}
	return out, nil
}
