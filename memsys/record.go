// Package memsys implements the per-page accounting table: a bounded,
// cluster-allocated pool of PageRecord slots reclaimed LRU-style, and
// the associative AddrIndex that makes them addressable by physical
// page address (spec.md §3, §4.2, §4.3).
//
// This mirrors, slot-for-slot, the slab/ring design the teacher
// codebase (AIStore) uses for its byte-buffer memory manager: a
// cluster here plays the role of a Slab's backing page, and
// ClusterPool plays the role of the MMSA, minus the byte-buffer
// machinery - what's allocated and recycled is a PageRecord, not a
// []byte.
/*
 * Copyright (c) 2020-2026, mced authors. All rights reserved.
 */
package memsys

import (
	"container/list"

	"github.com/mced-project/mced/bucket"
)

// OfflineStatus is the terminal-or-not state of a PageRecord w.r.t.
// offline attempts (spec.md §4.4 state machine).
type OfflineStatus int

const (
	Online OfflineStatus = iota
	Offline
	OfflineFailed
)

func (s OfflineStatus) String() string {
	switch s {
	case Online:
		return "online"
	case Offline:
		return "offline"
	case OfflineFailed:
		return "offline-failed"
	default:
		return "unknown"
	}
}

// PageRecord is the per-page state tracked by the table.
type PageRecord struct {
	Address   uint64
	Status    OfflineStatus
	Triggered bool // latching: once true, never cleared (spec.md §9)
	CECount   uint64
	Bucket    bucket.Bucket

	cluster *cluster      // enclosing cluster, backing-storage bookkeeping only
	slot    int           // index within cluster.records
	elem    *list.Element // this record's node on ClusterPool's recency list
}

// resetFields restores a record's logical state to just-allocated
// (Online, untriggered, ce_count=0, fresh bucket) without touching
// Address: ClusterPool.Replace needs the old address to survive long
// enough for AddrIndex.Rebind to evict it (spec.md: "Replacement resets
// offline_status, triggered, and ce_count and reinitialises bucket").
func (r *PageRecord) resetFields() {
	r.Status = Online
	r.Triggered = false
	r.CECount = 0
	bucket.Init(&r.Bucket)
}
