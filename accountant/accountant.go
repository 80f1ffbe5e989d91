package accountant

import (
	"strconv"
	"time"

	"github.com/golang/glog"

	"github.com/mced-project/mced/bucket"
	"github.com/mced-project/mced/cmn"
	"github.com/mced-project/mced/dimm"
	"github.com/mced-project/mced/memsys"
	"github.com/mced-project/mced/offline"
	"github.com/mced-project/mced/trigger"
)

// Accountant is the single-threaded entry point event ingestion calls
// once per decoded event (spec.md §4.6). Accountant invocations must not
// overlap: every field below is owned exclusively by the calling
// goroutine's sequence of Handle calls.
type Accountant struct {
	Pool     *memsys.ClusterPool
	Index    *memsys.AddrIndex
	Monitor  *memsys.ReplacementMonitor
	Offliner *offline.Offliner
	Triggers *trigger.TriggerRunner
	Dimms    dimm.Lookup
	Config   func() *cmn.Config
	PageSize int64
}

func pageAlign(addr uint64, pageSize int64) uint64 {
	mask := uint64(pageSize) - 1
	return addr &^ mask
}

// Handle runs the full pipeline for one event.
func (a *Accountant) Handle(ev Event) {
	cfg := a.Config()

	// pre-filter 1: mode Off
	if cfg.Action == cmn.Off {
		return
	}
	// pre-filter 2: address not valid, or uncorrected
	if !ev.StatusFlags.AddrValid() || ev.StatusFlags.Uncorrected() {
		return
	}
	// pre-filter 3: SandyBridgeEP firmware-first duplicate
	if cfg.CPUModel == cmn.SandyBridgeEP && ev.Bank == 1 && ev.EffectiveCPU() == 0 {
		return
	}

	addr := pageAlign(ev.Addr, a.PageSize)

	record, hit := a.Index.Lookup(addr)
	switch {
	case hit:
		a.Pool.Touch(record)
	case a.Pool.Live() < cfg.MaxCorrErrCounters:
		record = a.Pool.Alloc()
		record = a.Index.Insert(addr, record)
	default:
		victim := a.Pool.Replace()
		a.Index.Rebind(victim.Address, addr, victim)
		record = victim
		if a.Monitor.Observe(cfg.ReplacementTrigger, ev.Time) {
			a.fireReplacementTrigger(cfg, ev)
		}
	}

	record.CECount++

	if !bucket.Account(cfg.PageTrigger, &record.Bucket, 1, ev.Time) {
		return
	}
	if record.Status != memsys.Online {
		return
	}

	a.firePageTrigger(cfg, ev, record, addr)
	record.Triggered = true

	switch cfg.Action {
	case cmn.Soft, cmn.SoftThenHard:
		a.Triggers.Run(cfg.PreSyncSoftCETrigger, []string{cfg.PreSyncSoftCETrigger, strconv.FormatUint(addr, 10)}, a.env(cfg, record, ev.Time), true)
		offline.Action(a.Offliner, cfg.Action, record, addr, a.PageSize, cfg.RowOfflineRadius)
		a.Triggers.Run(cfg.PostSyncSoftCETrigger, []string{cfg.PostSyncSoftCETrigger, strconv.FormatUint(addr, 10)}, a.env(cfg, record, ev.Time), true)
	default:
		offline.Action(a.Offliner, cfg.Action, record, addr, a.PageSize, cfg.RowOfflineRadius)
	}
}

func (a *Accountant) env(cfg *cmn.Config, record *memsys.PageRecord, lastEvent time.Time) trigger.Env {
	return trigger.Env{
		Threshold:      cfg.PageTrigger.Capacity,
		TotalCount:     record.CECount,
		LastEvent:      lastEvent,
		AgeTime:        cfg.PageTrigger.AgeTime,
		Message:        "corrected memory error threshold crossed",
		ThresholdCount: cfg.PageTrigger.Capacity,
	}
}

func (a *Accountant) firePageTrigger(cfg *cmn.Config, ev Event, record *memsys.PageRecord, addr uint64) {
	key := dimm.Key{Socket: ev.SocketID, Channel: ev.Channel, Dimm: ev.Dimm}
	handle, ok := a.Dimms.Get(key)
	loc := key.String()
	if ok {
		loc = handle.String()
	}
	glog.Infof("accountant: page trigger for %#x (%s), ce_count=%d", addr, loc, record.CECount)

	env := a.env(cfg, record, ev.Time)
	env.Extra = []string{
		"PAGE_ADDR=" + strconv.FormatUint(addr, 10),
		"PAGE_DIMM=" + loc,
	}
	a.Triggers.Run(cfg.PageTrigger.Command, nil, env, false)
}

func (a *Accountant) fireReplacementTrigger(cfg *cmn.Config, ev Event) {
	glog.Warningf("accountant: replacement-rate threshold crossed, count=%d", a.Monitor.Count())
	env := trigger.Env{
		Threshold:      cfg.ReplacementTrigger.Capacity,
		TotalCount:     a.Monitor.Count(),
		LastEvent:      ev.Time,
		AgeTime:        cfg.ReplacementTrigger.AgeTime,
		Message:        "page-record replacement rate threshold crossed",
		ThresholdCount: cfg.ReplacementTrigger.Capacity,
	}
	a.Triggers.Run(cfg.ReplacementTrigger.Command, nil, env, false)
}
