package memsys

import (
	"time"

	"go.uber.org/atomic"

	"github.com/mced-project/mced/bucket"
	"github.com/mced-project/mced/cmn"
)

// ReplacementMonitor watches the rate at which ClusterPool.Replace is
// called: a high replacement rate indicates the table is undersized
// for the workload (spec.md §4.5 component 5 / §3).
type ReplacementMonitor struct {
	count     atomic.Uint64
	bucket    bucket.Bucket
	signaling bool // true once the bucket has crossed capacity, until it leaks back below it
}

func NewReplacementMonitor() *ReplacementMonitor {
	m := &ReplacementMonitor{}
	bucket.Init(&m.bucket)
	return m
}

// Count is the total number of replacements observed since startup.
func (m *ReplacementMonitor) Count() uint64 { return m.count.Load() }

// Observe records one replacement at time now and reports whether the
// replacement-rate bucket has just crossed cfg's capacity: true only on
// the transition into the over-capacity state, not on every subsequent
// replacement while it stays there (mirrors how the per-page trigger is
// latched by PageRecord.Status rather than by the bucket itself).
func (m *ReplacementMonitor) Observe(cfg cmn.BucketConf, now time.Time) bool {
	m.count.Inc()
	over := bucket.Account(cfg, &m.bucket, 1, now)
	fired := over && !m.signaling
	m.signaling = over
	return fired
}

func (m *ReplacementMonitor) Summary(cfg cmn.BucketConf) string {
	return bucket.Output(cfg, &m.bucket)
}
