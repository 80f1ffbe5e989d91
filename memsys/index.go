package memsys

import "github.com/google/btree"

// addrItem is the btree.Item stored for each live address (spec.md §4.3).
type addrItem struct {
	addr uint64
	rec  *PageRecord
}

func (a addrItem) Less(than btree.Item) bool {
	return a.addr < than.(addrItem).addr
}

// AddrIndex is the ordered, associative address -> PageRecord mapping
// (spec.md §4.3). It is backed by a B-tree, the off-the-shelf answer to
// the spec's "any data structure with O(log n) lookup/insert/delete and
// ordered traversal" requirement.
type AddrIndex struct {
	t *btree.BTree
}

// degree chosen per google/btree's own guidance: higher degree trades
// tree depth for wider node scans; 32 is a reasonable default for an
// in-memory index of this size.
const btreeDegree = 32

func NewAddrIndex() *AddrIndex {
	return &AddrIndex{t: btree.New(btreeDegree)}
}

func (x *AddrIndex) Len() int { return x.t.Len() }

// Lookup returns the record bound to addr, if any.
func (x *AddrIndex) Lookup(addr uint64) (*PageRecord, bool) {
	item := x.t.Get(addrItem{addr: addr})
	if item == nil {
		return nil, false
	}
	return item.(addrItem).rec, true
}

// Insert binds addr to record. If addr is already bound, the existing
// record is returned unchanged and the new one is not inserted (spec.md
// §4.3: "if the key already exists, returns the existing record and
// does not replace").
func (x *AddrIndex) Insert(addr uint64, record *PageRecord) *PageRecord {
	if existing, ok := x.Lookup(addr); ok {
		return existing
	}
	record.Address = addr
	x.t.ReplaceOrInsert(addrItem{addr: addr, rec: record})
	return record
}

// Remove unbinds addr, if bound.
func (x *AddrIndex) Remove(addr uint64) {
	x.t.Delete(addrItem{addr: addr})
}

// Rebind atomically removes record's current binding (oldAddr) and
// installs it under newAddr, updating record.Address. Used by
// Accountant.Handle to reassign a slot reclaimed by ClusterPool.Replace
// (spec.md §4.3).
func (x *AddrIndex) Rebind(oldAddr, newAddr uint64, record *PageRecord) {
	x.t.Delete(addrItem{addr: oldAddr})
	record.Address = newAddr
	x.t.ReplaceOrInsert(addrItem{addr: newAddr, rec: record})
}

// IterAscending yields records in ascending address order, stopping
// early if fn returns false.
func (x *AddrIndex) IterAscending(fn func(*PageRecord) bool) {
	x.t.Ascend(func(item btree.Item) bool {
		return fn(item.(addrItem).rec)
	})
}
