package types

import "fmt"

// StackLevel identifies which layer of the storage stack a benchmark
// exercised. Directory names under a snapshot use these exact strings.
type StackLevel int

const (
	// LevelRBDFromOSD ran against the full cluster (librbd) from one of
	// the OSD daemons.
	LevelRBDFromOSD StackLevel = iota

	// LevelRBDFromHypervisor ran against the full cluster (librbd) from
	// one of the hypervisors.
	LevelRBDFromHypervisor

	// LevelVMDisk ran from inside a VM against a local file, exercising
	// the whole stack: VM kernel, libvirt, librbd. IOPS throttling may
	// affect these results.
	LevelVMDisk

	// LevelOSDDisk is reserved. Benchmarks against a bare OSD disk are
	// not supported yet and directories using it are rejected.
	LevelOSDDisk
)

// StackLevels lists the supported stack levels in canonical order.
// LevelOSDDisk is deliberately absent.
var StackLevels = []StackLevel{LevelRBDFromOSD, LevelRBDFromHypervisor, LevelVMDisk}

// String returns the directory-name form of the stack level.
func (l StackLevel) String() string {
	switch l {
	case LevelRBDFromOSD:
		return "rbd_from_osd"
	case LevelRBDFromHypervisor:
		return "rbd_from_hypervisor"
	case LevelVMDisk:
		return "vm_disk"
	case LevelOSDDisk:
		return "osd_disk"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// Supported reports whether benchmarks for this level can be aggregated.
func (l StackLevel) Supported() bool {
	switch l {
	case LevelRBDFromOSD, LevelRBDFromHypervisor, LevelVMDisk:
		return true
	default:
		return false
	}
}

// Description returns a human-readable description of the level, used by
// the export/query boundary for report labeling.
func (l StackLevel) Description() string {
	switch l {
	case LevelRBDFromOSD:
		return "RBD from OSD: this test ran against the full cluster (using librbd) from one of the OSD daemons."
	case LevelRBDFromHypervisor:
		return "RBD from Hypervisor: this test ran against the full cluster (using librbd) from one of the hypervisors."
	case LevelVMDisk:
		return "VM Disk: this test ran against the full cluster (using libaio) from one of the VMs, exercising the full stack from VM kernel through libvirt and librbd."
	default:
		return ""
	}
}

// ParseStackLevel parses a stack-level directory name.
func ParseStackLevel(name string) (StackLevel, error) {
	switch name {
	case "rbd_from_osd":
		return LevelRBDFromOSD, nil
	case "rbd_from_hypervisor":
		return LevelRBDFromHypervisor, nil
	case "vm_disk":
		return LevelVMDisk, nil
	case "osd_disk":
		return LevelOSDDisk, nil
	default:
		return 0, fmt.Errorf("unknown stack level %q", name)
	}
}
