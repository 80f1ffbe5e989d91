// Package setup resolves already-parsed configuration values into a
// cmn.Config, performing the startup-time validation and normalization
// spec.md §4.8 assigns to "setup": rounding max_corr_err_counters up to
// a multiple of the cluster slot count, validating pre/post-soft
// trigger executability, and demoting the offline mode when the
// corresponding kernel control path isn't writable.
package setup

import (
	"os"

	"github.com/golang/glog"

	"github.com/mced-project/mced/cmn"
	"github.com/mced-project/mced/memsys"
	"github.com/mced-project/mced/offline"
)

// Params is the set of already-resolved configuration values Setup
// consumes. Reading these from a config file is cmd/mced's job, not
// this package's (spec.md §1).
type Params struct {
	CPUModel              cmn.CPUModel
	PageTrigger           cmn.BucketConf
	ReplacementTrigger    cmn.BucketConf
	Action                cmn.OfflineMode
	MaxCorrErrCounters    int
	RowOfflineRadius      int
	PreSyncSoftCETrigger  string
	PostSyncSoftCETrigger string
}

// Setup resolves raw into a cmn.Config. n is the number of PageRecord
// slots per cluster (memsys.ClusterPool.N()); offliner is probed for
// sysfs writability so the effective mode can be demoted before any
// event is handled.
func Setup(raw Params, n int, offliner *offline.Offliner) *cmn.Config {
	cfg := &cmn.Config{
		CPUModel:              raw.CPUModel,
		PageTrigger:           raw.PageTrigger,
		ReplacementTrigger:    raw.ReplacementTrigger,
		Action:                raw.Action,
		MaxCorrErrCounters:    roundUpToMultiple(raw.MaxCorrErrCounters, n),
		RowOfflineRadius:      raw.RowOfflineRadius,
		PreSyncSoftCETrigger:  raw.PreSyncSoftCETrigger,
		PostSyncSoftCETrigger: raw.PostSyncSoftCETrigger,
	}
	if cfg.MaxCorrErrCounters != raw.MaxCorrErrCounters {
		glog.Infof("setup: max_corr_err_counters rounded up from %d to %d (multiple of %d)",
			raw.MaxCorrErrCounters, cfg.MaxCorrErrCounters, n)
	}

	validateExecutable(cfg.PreSyncSoftCETrigger, cmn.KeyPreSyncSoftCETrigger)
	validateExecutable(cfg.PostSyncSoftCETrigger, cmn.KeyPostSyncSoftCETrigger)

	offliner.Probe()
	if eff, demoted := offliner.EffectiveMode(cfg.Action); demoted {
		glog.Warningf("setup: demoting offline action %s to %s: kernel control path unavailable", cfg.Action, eff)
		cfg.Action = eff
	}

	return cfg
}

// NewReplacementMonitor constructs the singleton ReplacementMonitor with
// its bucket initialised, completing setup's "Initialises
// ReplacementMonitor.bucket" responsibility (spec.md §4.8).
func NewReplacementMonitor() *memsys.ReplacementMonitor {
	return memsys.NewReplacementMonitor()
}

func validateExecutable(path, key string) {
	if path == "" {
		return // optional trigger, not configured
	}
	info, err := os.Stat(path)
	if err != nil {
		glog.Fatalf("setup: %s=%s: %v", key, path, err)
	}
	if info.IsDir() || info.Mode()&0o111 == 0 {
		glog.Fatalf("setup: %s=%s: not executable", key, path)
	}
}

func roundUpToMultiple(v, n int) int {
	if n <= 0 {
		return v
	}
	if v <= 0 {
		return n
	}
	if v%n == 0 {
		return v
	}
	return (v/n + 1) * n
}
