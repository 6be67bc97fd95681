package compare

import (
	"testing"

	"github.com/xtxerr/fioreport/internal/aggregate"
	"github.com/xtxerr/fioreport/internal/errors"
	"github.com/xtxerr/fioreport/internal/tree"
	"github.com/xtxerr/fioreport/internal/types"
)

func configAgg(dir string, cfg types.RunConfig) *aggregate.ConfigAggregate {
	agg := aggregate.NewConfigAggregate(dir)
	agg.Config = cfg
	return agg
}

func hostAgg(level types.StackLevel, host string, cfgs ...types.RunConfig) *tree.HostAggregate {
	h := &tree.HostAggregate{Level: level, Hostname: host}
	for _, c := range cfgs {
		h.Configs = append(h.Configs, configAgg("configs/"+c.Key(), c))
	}
	return h
}

func TestHosts(t *testing.T) {
	a := types.RunConfig{Pattern: types.PatternRandRead, BlockSize: 4096, Engine: types.EngineRBD, QueueDepth: 16}
	b := types.RunConfig{Pattern: types.PatternRandWrite, BlockSize: 4096, Engine: types.EngineRBD, QueueDepth: 16}

	// The after side ran with a different engine; that must not block
	// pairing.
	a2, b2 := a, b
	a2.Engine = types.EngineLibaio
	b2.Engine = types.EngineLibaio

	cmp, err := Hosts(
		hostAgg(types.LevelVMDisk, "vm1", a, b),
		hostAgg(types.LevelVMDisk, "vm2", a2, b2),
	)
	if err != nil {
		t.Fatalf("Hosts: %v", err)
	}

	if cmp.Level != types.LevelVMDisk {
		t.Errorf("expected vm_disk level, got %s", cmp.Level)
	}
	if cmp.BeforeHost != "vm1" || cmp.AfterHost != "vm2" {
		t.Errorf("hosts not carried through: %s, %s", cmp.BeforeHost, cmp.AfterHost)
	}
	if len(cmp.Pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(cmp.Pairs))
	}
	for _, p := range cmp.Pairs {
		if p.Key != p.Before.Config.Key() || p.Key != p.After.Config.Key() {
			t.Errorf("pair %s joins mismatched configs: %s vs %s",
				p.Key, p.Before.Config.Key(), p.After.Config.Key())
		}
	}
}

func TestHostsIncomparable(t *testing.T) {
	a := types.RunConfig{Pattern: types.PatternRandRead, BlockSize: 4096, QueueDepth: 16}
	b := types.RunConfig{Pattern: types.PatternRandRead, BlockSize: 4096, QueueDepth: 64}

	// The after side is missing one configuration.
	_, err := Hosts(
		hostAgg(types.LevelVMDisk, "vm1", a, b),
		hostAgg(types.LevelVMDisk, "vm1", a),
	)
	if !errors.Is(err, errors.ErrIncomparableReports) {
		t.Fatalf("expected ErrIncomparableReports, got %v", err)
	}

	// Same count, different configuration.
	c := a
	c.BlockSize = 8192
	_, err = Hosts(
		hostAgg(types.LevelVMDisk, "vm1", a),
		hostAgg(types.LevelVMDisk, "vm1", c),
	)
	if !errors.Is(err, errors.ErrIncomparableReports) {
		t.Fatalf("expected ErrIncomparableReports, got %v", err)
	}
}

func TestSnapshots(t *testing.T) {
	a := types.RunConfig{Pattern: types.PatternRead, BlockSize: 4194304, QueueDepth: 1}

	before := &tree.SnapshotAggregate{
		Dir: "before",
		Levels: []*tree.HostAggregate{
			hostAgg(types.LevelRBDFromOSD, "ceph1", a),
			hostAgg(types.LevelVMDisk, "vm1", a),
		},
	}
	after := &tree.SnapshotAggregate{
		Dir: "after",
		Levels: []*tree.HostAggregate{
			hostAgg(types.LevelRBDFromOSD, "ceph2", a),
			hostAgg(types.LevelVMDisk, "vm2", a),
		},
	}

	cmps, err := Snapshots(before, after)
	if err != nil {
		t.Fatalf("Snapshots: %v", err)
	}
	if len(cmps) != 2 {
		t.Fatalf("expected 2 level comparisons, got %d", len(cmps))
	}
	if cmps[0].Level != types.LevelRBDFromOSD || cmps[1].Level != types.LevelVMDisk {
		t.Errorf("levels out of order: %s, %s", cmps[0].Level, cmps[1].Level)
	}
}

func TestSnapshotsLevelMismatch(t *testing.T) {
	a := types.RunConfig{Pattern: types.PatternRead, BlockSize: 4096, QueueDepth: 1}

	before := &tree.SnapshotAggregate{
		Levels: []*tree.HostAggregate{hostAgg(types.LevelRBDFromOSD, "ceph1", a)},
	}
	after := &tree.SnapshotAggregate{
		Levels: []*tree.HostAggregate{hostAgg(types.LevelVMDisk, "vm1", a)},
	}

	if _, err := Snapshots(before, after); !errors.Is(err, errors.ErrIncomparableReports) {
		t.Fatalf("expected ErrIncomparableReports, got %v", err)
	}
}
