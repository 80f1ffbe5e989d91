package memsys

import "unsafe"

// perRecordLinkSize approximates the footprint of the LRU link each
// live record carries (spec.md §3 charges a cluster's backing page for
// "an LRU link" alongside its PageRecord slots; in this implementation
// the link is a *list.Element threaded per record rather than per
// cluster - see pool.go's doc comment and DESIGN.md for why recency is
// tracked per record instead of per cluster).
const perRecordLinkSize = unsafe.Sizeof(uintptr(0)) * 4

// slotsPerCluster computes N = floor((pageSize - sizeof(lru_link)) / sizeof(PageRecord)).
func slotsPerCluster(pageSize int64) int {
	recSize := int64(unsafe.Sizeof(PageRecord{}))
	n := (pageSize - int64(perRecordLinkSize)) / recSize
	if n < 1 {
		n = 1
	}
	return int(n)
}

// cluster is a fixed-size backing region holding up to N PageRecord
// slots. Records are contiguous: `used` records are always the first
// `used` slots (spec.md §3 invariant). A cluster is purely a
// bulk-allocation unit; which records are recently used is tracked
// globally by ClusterPool, not per cluster (see pool.go).
type cluster struct {
	records []PageRecord
	used    int
}

func newCluster(n int) *cluster {
	return &cluster{records: make([]PageRecord, n)}
}

func (c *cluster) full() bool { return c.used >= len(c.records) }

// nextFree returns the next free slot and grows `used`. Caller must have
// checked !full().
func (c *cluster) nextFree() *PageRecord {
	r := &c.records[c.used]
	r.cluster = c
	r.slot = c.used
	c.used++
	return r
}
