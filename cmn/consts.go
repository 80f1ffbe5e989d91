package cmn

import "time"

// configuration section and key names, as read from a resolved config
// source (see §6 of SPEC_FULL.md - the core never parses a config file
// itself, it only reads values already bound under these keys).
const (
	SectionPage = "page"

	KeyPageTrigger            = "memory-ce"
	KeyReplacementTrigger     = "memory-ce-counter-replacement"
	KeyOfflineAction          = "memory-ce-action"
	KeyPreSyncSoftCETrigger   = "memory-pre-sync-soft-ce-trigger"
	KeyPostSyncSoftCETrigger  = "memory-post-sync-soft-ce-trigger"
	KeyMaxCorrErrCounters     = "max-corr-err-counters"
)

// offline-action mode names, as accepted under KeyOfflineAction.
const (
	ActionOff          = "off"
	ActionAccount      = "account"
	ActionSoft         = "soft"
	ActionHard         = "hard"
	ActionSoftThenHard = "soft-then-hard"
)

// kernel control paths written by the Offliner.
const (
	SoftOfflinePath = "/sys/devices/system/memory/soft_offline_page"
	HardOfflinePath = "/sys/devices/system/memory/hard_offline_page"
)

// environment variable names passed to a dispatched trigger.
const (
	EnvThreshold      = "THRESHOLD"
	EnvTotalCount     = "TOTALCOUNT"
	EnvLastEvent      = "LASTEVENT"
	EnvAgeTime        = "AGETIME"
	EnvMessage        = "MESSAGE"
	EnvThresholdCount = "THRESHOLD_COUNT"
)

// PageSize is the fallback page size used when the host's actual page
// size cannot be determined (see memsys.ResolvePageSize).
const PageSize = 4 * KiB

// default timeout used when draining outstanding asynchronous triggers
// at shutdown.
const DefaultDrainTimeout = 5 * time.Second
