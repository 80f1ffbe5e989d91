// Package accountant implements the Accountant: the entry point that
// ingests one decoded corrected-memory-error event, filters it, drives
// the address index and cluster pool to obtain a PageRecord, evaluates
// thresholds, and fires offlining and trigger actions (spec.md §4.6).
package accountant

import "time"

// StatusFlags mirrors the subset of an MCi_STATUS register the
// Accountant's pre-filters care about (Intel SDM, Machine-Check
// Architecture chapter): ADDRV (address valid, bit 58) and UC
// (uncorrected, bit 61).
type StatusFlags uint64

const (
	FlagADDRV StatusFlags = 1 << 58
	FlagUC    StatusFlags = 1 << 61
)

func (f StatusFlags) AddrValid() bool   { return f&FlagADDRV != 0 }
func (f StatusFlags) Uncorrected() bool { return f&FlagUC != 0 }

// Event is a decoded corrected memory error record (spec.md §4.6).
// Parsing the raw machine-check record is out of scope for this core;
// the event ingestion layer hands the Accountant one of these already
// decoded.
type Event struct {
	Addr        uint64
	StatusFlags StatusFlags
	Time        time.Time
	CPU         int
	ExtCPU      int
	Bank        int
	SocketID    int
	Channel     int
	Dimm        int
}

// EffectiveCPU is ExtCPU when non-zero, otherwise CPU (spec.md §4.6
// step 3).
func (e Event) EffectiveCPU() int {
	if e.ExtCPU != 0 {
		return e.ExtCPU
	}
	return e.CPU
}

