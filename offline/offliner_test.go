package offline_test

import (
	"testing"

	"github.com/mced-project/mced/cmn"
	"github.com/mced-project/mced/cmn/tassert"
	"github.com/mced-project/mced/memsys"
	"github.com/mced-project/mced/offline"
)

// fakeWriter records every write it's asked to perform and fails
// whichever paths are listed in failPaths.
type fakeWriter struct {
	calls      []string
	failPaths  map[string]bool
}

func (w *fakeWriter) Write(path string, addr uint64) error {
	w.calls = append(w.calls, path)
	if w.failPaths[path] {
		return errCall
	}
	return nil
}

var errCall = &writeErr{}

type writeErr struct{}

func (*writeErr) Error() string { return "simulated sysfs write failure" }

// TestSoftThenHardFallback is Scenario S4 / Property 4: a failing soft
// write under SoftThenHard triggers exactly one hard attempt, and the
// final outcome reflects the hard attempt.
func TestSoftThenHardFallback(t *testing.T) {
	w := &fakeWriter{failPaths: map[string]bool{cmn.SoftOfflinePath: true}}
	o := offline.New(w)

	err := o.Offline(cmn.SoftThenHard, 0x40000)
	tassert.Fatalf(t, err == nil, "expected hard fallback to succeed, got %v", err)
	tassert.Fatalf(t, len(w.calls) == 2, "expected exactly 2 writes, got %d", len(w.calls))
	tassert.Fatalf(t, w.calls[0] == cmn.SoftOfflinePath, "first attempt must be soft")
	tassert.Fatalf(t, w.calls[1] == cmn.HardOfflinePath, "second attempt must be hard")
}

func TestSoftThenHardBothFail(t *testing.T) {
	w := &fakeWriter{failPaths: map[string]bool{cmn.SoftOfflinePath: true, cmn.HardOfflinePath: true}}
	o := offline.New(w)

	err := o.Offline(cmn.SoftThenHard, 0x40000)
	tassert.Fatalf(t, err != nil, "expected failure when both legs fail")
	tassert.Fatalf(t, len(w.calls) == 2, "expected exactly 2 writes, got %d", len(w.calls))
}

// TestOffAndAccountAreNoops covers the Off/Account no-op modes: no write
// is ever issued.
func TestOffAndAccountAreNoops(t *testing.T) {
	w := &fakeWriter{}
	o := offline.New(w)

	tassert.Fatalf(t, o.Offline(cmn.Off, 0x1000) == nil, "Off must never fail")
	tassert.Fatalf(t, o.Offline(cmn.Account, 0x1000) == nil, "Account must never fail")
	tassert.Fatalf(t, len(w.calls) == 0, "Off/Account must never write to sysfs")
}

// TestRowOfflineAbortsOnFirstFailure preserves the source's early-return
// behavior: a failing neighbour aborts the remaining row instead of
// continuing.
func TestRowOfflineAbortsOnFirstFailure(t *testing.T) {
	w := &fakeWriter{failPaths: map[string]bool{cmn.SoftOfflinePath: true}}
	o := offline.New(w)

	err := o.OfflineRow(cmn.Soft, 0x40000, 4096, 2)
	tassert.Fatalf(t, err != nil, "expected row-offline to report failure")
	tassert.Fatalf(t, len(w.calls) == 1, "expected the row to abort after the first failing neighbour, got %d calls", len(w.calls))
}

func TestRowOfflineAttemptsAllOnSuccess(t *testing.T) {
	w := &fakeWriter{}
	o := offline.New(w)

	err := o.OfflineRow(cmn.Soft, 0x40000, 4096, 2)
	tassert.Fatalf(t, err == nil, "expected row-offline to succeed, got %v", err)
	tassert.Fatalf(t, len(w.calls) == 5, "expected 2*radius+1=5 attempts, got %d", len(w.calls))
}

// TestEffectiveModeDemotesOnUnwritablePath is Scenario S6: soft path
// unwritable, mode requested Soft, effective mode demotes to Account.
func TestEffectiveModeDemotesOnUnwritablePath(t *testing.T) {
	w := &fakeWriter{}
	o := offline.New(w)
	o.Probe() // real sysfs paths are not writable/present in a test environment

	eff, demoted := o.EffectiveMode(cmn.Soft)
	tassert.Fatalf(t, demoted, "expected demotion when soft path isn't writable")
	tassert.Fatalf(t, eff == cmn.Account, "expected demotion target Account, got %v", eff)
}

func TestActionUpdatesRecordStatus(t *testing.T) {
	w := &fakeWriter{}
	o := offline.New(w)
	r := &memsys.PageRecord{Status: memsys.Online}

	offline.Action(o, cmn.Soft, r, 0x1000, 4096, 0)
	tassert.Fatalf(t, r.Status == memsys.Offline, "expected status Offline on success, got %v", r.Status)

	// terminal: a second call must not attempt anything further
	w.calls = nil
	offline.Action(o, cmn.Soft, r, 0x1000, 4096, 0)
	tassert.Fatalf(t, len(w.calls) == 0, "expected no further offline attempts once non-Online")
}

func TestActionMarksFailureStatus(t *testing.T) {
	w := &fakeWriter{failPaths: map[string]bool{cmn.SoftOfflinePath: true}}
	o := offline.New(w)
	r := &memsys.PageRecord{Status: memsys.Online}

	offline.Action(o, cmn.Soft, r, 0x1000, 4096, 0)
	tassert.Fatalf(t, r.Status == memsys.OfflineFailed, "expected status OfflineFailed, got %v", r.Status)
}
