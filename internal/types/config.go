package types

import "fmt"

// ReadWritePattern is the fio read/write access pattern.
type ReadWritePattern int

const (
	PatternRead ReadWritePattern = iota
	PatternWrite
	PatternRandRead
	PatternRandWrite
)

// String returns the fio name of the pattern.
func (p ReadWritePattern) String() string {
	switch p {
	case PatternRead:
		return "read"
	case PatternWrite:
		return "write"
	case PatternRandRead:
		return "randread"
	case PatternRandWrite:
		return "randwrite"
	default:
		return fmt.Sprintf("unknown(%d)", p)
	}
}

// IsRead reports whether the pattern measures the read side of a job.
func (p ReadWritePattern) IsRead() bool {
	return p == PatternRead || p == PatternRandRead
}

// ParseReadWritePattern parses a fio rw option value.
func ParseReadWritePattern(name string) (ReadWritePattern, error) {
	switch name {
	case "read":
		return PatternRead, nil
	case "write":
		return PatternWrite, nil
	case "randread":
		return PatternRandRead, nil
	case "randwrite":
		return PatternRandWrite, nil
	default:
		return 0, fmt.Errorf("unknown read/write pattern %q", name)
	}
}

// IOEngine is the fio I/O engine a run used.
type IOEngine int

const (
	// EngineRBD submits I/O through librbd.
	EngineRBD IOEngine = iota
	// EngineLibaio uses Linux native asynchronous I/O.
	EngineLibaio
)

// String returns the fio name of the engine.
func (e IOEngine) String() string {
	switch e {
	case EngineRBD:
		return "rbd"
	case EngineLibaio:
		return "libaio"
	default:
		return fmt.Sprintf("unknown(%d)", e)
	}
}

// ParseIOEngine parses a fio ioengine option value.
func ParseIOEngine(name string) (IOEngine, error) {
	switch name {
	case "rbd":
		return EngineRBD, nil
	case "libaio":
		return EngineLibaio, nil
	default:
		return 0, fmt.Errorf("unknown I/O engine %q", name)
	}
}

// RunConfig identifies one benchmark scenario. It is immutable once parsed
// from a run's summary artifact.
type RunConfig struct {
	Pattern    ReadWritePattern
	BlockSize  int64 // bytes
	Engine     IOEngine
	QueueDepth int
}

// Same reports whether two configs describe the same scenario for
// comparison purposes. The engine is deliberately ignored so runs using
// different I/O engines but otherwise identical parameters line up in
// before/after reports. Full equality is the == operator.
func (c RunConfig) Same(other RunConfig) bool {
	return c.Pattern == other.Pattern &&
		c.BlockSize == other.BlockSize &&
		c.QueueDepth == other.QueueDepth
}

// String returns the canonical form used for sorting and diagnostics.
func (c RunConfig) String() string {
	return fmt.Sprintf("RunConfig(rw=%s, bs=%d, ioengine=%s, iodepth=%d)",
		c.Pattern, c.BlockSize, c.Engine, c.QueueDepth)
}

// Key returns the engine-agnostic identity used to pair configs across
// snapshots. Same(a, b) == (a.Key() == b.Key()).
func (c RunConfig) Key() string {
	return fmt.Sprintf("rw=%s/bs=%d/iodepth=%d", c.Pattern, c.BlockSize, c.QueueDepth)
}
