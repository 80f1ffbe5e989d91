// Package trigger implements TriggerRunner: building the environment
// block a user-defined command is invoked with, and dispatching that
// command synchronously or asynchronously (spec.md §4.5).
package trigger

import (
	"strconv"
	"time"

	"github.com/mced-project/mced/cmn"
)

// Env is the environment block passed to a dispatched trigger. LastEvent
// is omitted from the built block when zero. Extra carries additional
// key=value pairs appended verbatim (spec.md §4.5: "additional key=value
// pairs may be added in future; order is not significant").
type Env struct {
	Threshold      int64
	TotalCount     uint64
	LastEvent      time.Time
	AgeTime        time.Duration
	Message        string
	ThresholdCount int64
	Extra          []string
}

// Build renders Env as a key=value slice suitable for exec.Cmd.Env.
// Order is not significant (spec.md §4.5).
func (e Env) Build() []string {
	kv := make([]string, 0, 6)
	kv = append(kv, cmn.EnvThreshold+"="+strconv.FormatInt(e.Threshold, 10))
	kv = append(kv, cmn.EnvTotalCount+"="+strconv.FormatUint(e.TotalCount, 10))
	if !e.LastEvent.IsZero() {
		kv = append(kv, cmn.EnvLastEvent+"="+strconv.FormatInt(e.LastEvent.Unix(), 10))
	}
	kv = append(kv, cmn.EnvAgeTime+"="+e.AgeTime.String())
	kv = append(kv, cmn.EnvMessage+"="+e.Message)
	kv = append(kv, cmn.EnvThresholdCount+"="+strconv.FormatInt(e.ThresholdCount, 10))
	kv = append(kv, e.Extra...)
	return kv
}
