package cmn

import (
	"sync"
	"sync/atomic"
	"time"
	"unsafe"
)

// OfflineMode enumerates the configured offlining action (§4.4).
type OfflineMode int

const (
	Off OfflineMode = iota
	Account
	Soft
	Hard
	SoftThenHard
)

func (m OfflineMode) String() string {
	switch m {
	case Off:
		return ActionOff
	case Account:
		return ActionAccount
	case Soft:
		return ActionSoft
	case Hard:
		return ActionHard
	case SoftThenHard:
		return ActionSoftThenHard
	default:
		return "unknown"
	}
}

// ParseOfflineMode maps a resolved config value to an OfflineMode.
func ParseOfflineMode(s string) (OfflineMode, bool) {
	switch s {
	case ActionOff, "":
		return Off, true
	case ActionAccount:
		return Account, true
	case ActionSoft:
		return Soft, true
	case ActionHard:
		return Hard, true
	case ActionSoftThenHard:
		return SoftThenHard, true
	default:
		return Off, false
	}
}

// BucketConf is the resolved form of a "bucket configuration" value
// (§6): a capacity, the window over which it ages out, and the trigger
// command to run asynchronously when the bucket signals. memory-ce and
// memory-ce-counter-replacement both bind a threshold to a command in
// one config value, so Command travels with the threshold rather than
// living as a separate key.
type BucketConf struct {
	Capacity int64
	AgeTime  time.Duration
	Command  string
}

// CPUModel enumerates the CPU models that the Accountant's §4.6 step 3
// de-duplication rule is sensitive to.
type CPUModel int

const (
	OtherCPU CPUModel = iota
	SandyBridgeEP
)

// Config is the fully-resolved configuration the core reads. Nothing in
// this package loads it from disk; see cmd/mced for that (out of the
// core's scope per spec.md §1).
type Config struct {
	CPUModel              CPUModel
	PageTrigger           BucketConf
	ReplacementTrigger    BucketConf
	Action                OfflineMode
	MaxCorrErrCounters    int
	RowOfflineRadius      int
	PreSyncSoftCETrigger  string
	PostSyncSoftCETrigger string
}

// ConfigOwner mediates concurrent access to a single process-wide Config,
// following the same begin/commit transaction shape the teacher codebase
// uses for its own GCO (global config owner).
type ConfigOwner interface {
	Get() *Config
	BeginUpdate() *Config
	CommitUpdate(config *Config)
	DiscardUpdate()
}

type globalConfigOwner struct {
	mtx sync.Mutex
	c   unsafe.Pointer
}

// GCO is the process-wide config owner. cmd/mced commits into it once at
// startup; setup.Setup and the core only ever call Get().
var GCO ConfigOwner = &globalConfigOwner{}

func init() {
	config := &Config{}
	gco := GCO.(*globalConfigOwner)
	atomic.StorePointer(&gco.c, unsafe.Pointer(config))
}

func (gco *globalConfigOwner) Get() *Config {
	return (*Config)(atomic.LoadPointer(&gco.c))
}

func (gco *globalConfigOwner) BeginUpdate() *Config {
	gco.mtx.Lock()
	cur := gco.Get()
	cp := *cur
	return &cp
}

func (gco *globalConfigOwner) CommitUpdate(config *Config) {
	atomic.StorePointer(&gco.c, unsafe.Pointer(config))
	gco.mtx.Unlock()
}

func (gco *globalConfigOwner) DiscardUpdate() {
	gco.mtx.Unlock()
}
