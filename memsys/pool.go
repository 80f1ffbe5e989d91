package memsys

import (
	"container/list"

	"github.com/mced-project/mced/cmn"
)

// ClusterPool is the slab-style allocator handing out PageRecord slots
// from page-sized clusters (spec.md §4.2). Clusters are a pure bulk
// allocation unit - they size how many slots are carved out of one
// page-sized backing region at a time. Recency for eviction purposes is
// tracked per record, not per cluster: the source embeds an intrusive
// LRU link in each record (spec.md §9), and Testable Property 6 / the
// "LRU under load" scenario only hold under per-record recency, so that
// is what this pool implements; see DESIGN.md for the full resolution
// of the §9/§8 tension.
type ClusterPool struct {
	n        int // slots per cluster
	pageSize int64
	idx      *AddrIndex

	cur *cluster   // current append cluster
	lru *list.List // of *PageRecord, front = most recently touched
}

// NewClusterPool constructs a pool sized for the given page size. idx is
// the index whose size Live reports; the pool never modifies it.
func NewClusterPool(pageSize int64, idx *AddrIndex) *ClusterPool {
	n := slotsPerCluster(pageSize)
	p := &ClusterPool{
		n:        n,
		pageSize: pageSize,
		idx:      idx,
		lru:      list.New(),
		cur:      newCluster(n),
	}
	return p
}

// N is the number of PageRecord slots per cluster.
func (p *ClusterPool) N() int { return p.n }

// Live is the number of records currently bound in the index.
func (p *ClusterPool) Live() int { return p.idx.Len() }

// Alloc returns a fresh PageRecord slot, growing a new cluster if the
// current one is full, and places the slot at the recency-list head.
// Backing-region allocation here is ordinary heap allocation (the Go
// runtime, not a raw OS mmap call, owns the memory); spec.md's "fails
// fatally on out-of-memory" is therefore the Go runtime's own OOM
// behavior, which already aborts the process.
func (p *ClusterPool) Alloc() *PageRecord {
	if p.cur.full() {
		p.cur = newCluster(p.n)
	}
	r := p.cur.nextFree()
	r.resetFields()
	r.elem = p.lru.PushFront(r)
	return r
}

// Replace reclaims the slot belonging to the least-recently-touched
// live record. The caller is responsible for removing the record's old
// address from the index (still readable off the returned record) and
// rebinding it to the new one, typically via AddrIndex.Rebind.
func (p *ClusterPool) Replace() *PageRecord {
	back := p.lru.Back()
	cmn.Assert(back != nil)
	r := back.Value.(*PageRecord)
	r.resetFields()
	p.lru.MoveToFront(back)
	return r
}

// Touch moves record to the recency-list head if it isn't already
// there.
func (p *ClusterPool) Touch(r *PageRecord) {
	if p.lru.Front() == r.elem {
		return
	}
	p.lru.MoveToFront(r.elem)
}
