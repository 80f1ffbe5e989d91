package offline

import (
	"sync/atomic"
	"unsafe"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/mced-project/mced/cmn"
)

// capability is the snapshot of which kernel offline paths are currently
// writable. Swapped wholesale on Probe, the same atomically-swapped
// snapshot idiom the teacher uses for its mountpath availability table
// (fs/mountfs.go's available/disabled MPI pair), so a concurrent Probe
// never leaves EffectiveMode reading a half-updated view.
type capability struct {
	soft bool
	hard bool
}

// Offliner is the state machine mapping an offline-mode configuration and
// a target address to zero, one, or two sysfs writes (spec.md §4.4).
type Offliner struct {
	writer Writer
	cap    unsafe.Pointer // *capability
}

func New(writer Writer) *Offliner {
	o := &Offliner{writer: writer}
	atomic.StorePointer(&o.cap, unsafe.Pointer(&capability{soft: true, hard: true}))
	return o
}

// Probe checks soft_offline_page/hard_offline_page writability and caches
// the result for EffectiveMode. Called once at setup; safe to call again
// if the operator remounts sysfs.
func (o *Offliner) Probe() {
	c := &capability{
		soft: Writable(cmn.SoftOfflinePath),
		hard: Writable(cmn.HardOfflinePath),
	}
	atomic.StorePointer(&o.cap, unsafe.Pointer(c))
	if !c.soft {
		glog.Warningf("offline: %s not writable, Soft will be demoted to Account", cmn.SoftOfflinePath)
	}
	if !c.hard {
		glog.Warningf("offline: %s not writable, Hard will be demoted to Account", cmn.HardOfflinePath)
	}
}

func (o *Offliner) capability() *capability {
	return (*capability)(atomic.LoadPointer(&o.cap))
}

// EffectiveMode demotes mode to Account if the kernel path(s) it needs
// aren't writable (spec.md §4.4: "must demote any mode > Account to
// Account if the corresponding kernel path is not writable"). For
// SoftThenHard, demotion only fires if neither path is writable: losing
// just one leg still leaves a usable fallback, so Offline degrades that
// case to a single-path attempt rather than giving up on the mode
// entirely.
func (o *Offliner) EffectiveMode(mode cmn.OfflineMode) (effective cmn.OfflineMode, demoted bool) {
	c := o.capability()
	switch mode {
	case cmn.Soft:
		if !c.soft {
			return cmn.Account, true
		}
	case cmn.Hard:
		if !c.hard {
			return cmn.Account, true
		}
	case cmn.SoftThenHard:
		if !c.soft && !c.hard {
			return cmn.Account, true
		}
	}
	return mode, false
}

// Offline performs one offline attempt for addr under mode. Off and
// Account are no-ops (Account only tracks counts). SoftThenHard's result
// is whatever the second attempt returns once the first fails.
func (o *Offliner) Offline(mode cmn.OfflineMode, addr uint64) error {
	c := o.capability()
	switch mode {
	case cmn.Off, cmn.Account:
		return nil
	case cmn.Soft:
		return o.writer.Write(cmn.SoftOfflinePath, addr)
	case cmn.Hard:
		return o.writer.Write(cmn.HardOfflinePath, addr)
	case cmn.SoftThenHard:
		if !c.soft {
			return o.writer.Write(cmn.HardOfflinePath, addr)
		}
		if err := o.writer.Write(cmn.SoftOfflinePath, addr); err != nil {
			if !c.hard {
				return err
			}
			return o.writer.Write(cmn.HardOfflinePath, addr)
		}
		return nil
	default:
		return errors.Errorf("offline: unknown mode %v", mode)
	}
}

// OfflineRow extends Offline to also attempt the radius pages above and
// below addr, i.e. {addr + k*pageSize : k in [-radius, +radius]}, in
// ascending k order. A single neighbour failure aborts the remaining
// neighbours and the row is reported failed - the source's behavior,
// preserved here rather than silently hardened; see DESIGN.md.
func (o *Offliner) OfflineRow(mode cmn.OfflineMode, addr uint64, pageSize int64, radius int) error {
	for k := -radius; k <= radius; k++ {
		target := uint64(int64(addr) + int64(k)*pageSize)
		if err := o.Offline(mode, target); err != nil {
			return errors.Wrapf(err, "row-offline: neighbour at offset %d pages failed", k)
		}
	}
	return nil
}
