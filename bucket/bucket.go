// Package bucket implements the leaky-bucket threshold primitive used both
// for the per-page CE rate limit and for the table's replacement-rate
// monitor (spec.md §4.1).
/*
 * Copyright (c) 2020-2026, mced authors. All rights reserved.
 */
package bucket

import (
	"fmt"
	"time"

	"github.com/mced-project/mced/cmn"
)

// Bucket tracks credits accumulated over a sliding window. It is a plain
// value type: callers own the storage (typically embedded in a
// PageRecord or a ReplacementMonitor) and pass a pointer to Account.
type Bucket struct {
	credits int64
	last    time.Time
}

// Init zeroes bucket state, as called out by spec.md's bucket_init.
func Init(b *Bucket) {
	*b = Bucket{}
}

// Account ages out credits older than cfg.AgeTime relative to now, adds
// increment credits, and reports whether the remaining total meets or
// exceeds cfg.Capacity.
//
// The decay is a fixed-rate leak: each call first drains credits at a
// rate of cfg.Capacity/cfg.AgeTime for the elapsed time since the last
// call, which approximates a sliding window without needing to retain
// individual timestamped events. Non-monotonic "now" values (an event
// delivered out of order) are tolerated: a now before the last seen time
// leaks nothing rather than going negative.
func Account(cfg cmn.BucketConf, b *Bucket, increment int64, now time.Time) bool {
	if cfg.Capacity <= 0 {
		return false
	}
	if cfg.AgeTime <= 0 {
		panic("bucket: agetime must be non-zero when capacity > 0")
	}
	if b.last.IsZero() {
		b.last = now
	}
	if elapsed := now.Sub(b.last); elapsed > 0 {
		leakRate := float64(cfg.Capacity) / cfg.AgeTime.Seconds()
		leaked := int64(leakRate * elapsed.Seconds())
		b.credits -= leaked
		if b.credits < 0 {
			b.credits = 0
		}
		b.last = now
	}
	b.credits += increment
	return b.credits >= cfg.Capacity
}

// Output renders a short human-readable summary: count within window
// over capacity, e.g. "3/3".
func Output(cfg cmn.BucketConf, b *Bucket) string {
	return fmt.Sprintf("%d/%d", b.credits, cfg.Capacity)
}
