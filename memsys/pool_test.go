package memsys_test

import (
	"testing"

	"github.com/mced-project/mced/cmn/tassert"
	"github.com/mced-project/mced/memsys"
)

// smallPageSize is sized to yield a small, test-friendly N regardless of
// PageRecord's exact size.
const smallPageSize = 512

func newTestPool(t *testing.T) (*memsys.ClusterPool, *memsys.AddrIndex) {
	idx := memsys.NewAddrIndex()
	pool := memsys.NewClusterPool(smallPageSize, idx)
	tassert.Fatalf(t, pool.N() >= 1, "expected at least one slot per cluster, got %d", pool.N())
	return pool, idx
}

func TestAllocBindsIntoIndex(t *testing.T) {
	pool, idx := newTestPool(t)
	r := pool.Alloc()
	r.Address = 0x1000
	idx.Insert(r.Address, r)

	got, ok := idx.Lookup(0x1000)
	tassert.Fatalf(t, ok, "expected lookup hit")
	tassert.Fatalf(t, got.Address == 0x1000, "unexpected address: %#x", got.Address)
	tassert.Fatalf(t, pool.Live() == 1, "expected live=1, got %d", pool.Live())
}

func TestCapacityBoundViaReplace(t *testing.T) {
	pool, idx := newTestPool(t)
	n := pool.N()

	// fill exactly n slots
	addrs := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		r := pool.Alloc()
		addr := uint64((i + 1) * 0x1000)
		r.Address = addr
		idx.Insert(addr, r)
		addrs = append(addrs, addr)
	}
	tassert.Fatalf(t, idx.Len() == n, "expected %d live records, got %d", n, idx.Len())

	// one more distinct address at capacity: must recycle, not grow past n
	r := pool.Replace()
	idx.Rebind(r.Address, 0xdead000, r)
	tassert.Fatalf(t, idx.Len() == n, "capacity bound violated: index has %d entries, want %d", idx.Len(), n)

	// exactly one of the original n addresses must now be gone
	missing := 0
	for _, a := range addrs {
		if _, ok := idx.Lookup(a); !ok {
			missing++
		}
	}
	tassert.Fatalf(t, missing == 1, "expected exactly one original address evicted, got %d", missing)
}

func TestReplaceResetsRecord(t *testing.T) {
	pool, idx := newTestPool(t)
	n := pool.N()
	for i := 0; i < n; i++ {
		r := pool.Alloc()
		addr := uint64((i + 1) * 0x1000)
		r.Address = addr
		r.CECount = 99
		r.Status = memsys.Offline
		r.Triggered = true
		idx.Insert(addr, r)
	}

	r := pool.Replace()
	tassert.Fatalf(t, r.Status == memsys.Online, "replaced record must start Online")
	tassert.Fatalf(t, !r.Triggered, "replaced record must start untriggered")
	tassert.Fatalf(t, r.CECount == 0, "replaced record must start at ce_count=0")
}

func TestUniqueAddresses(t *testing.T) {
	pool, idx := newTestPool(t)
	r1 := pool.Alloc()
	r1.Address = 0x2000
	idx.Insert(0x2000, r1)

	r2 := pool.Alloc()
	// attempt to insert a second record under the same address
	existing := idx.Insert(0x2000, r2)
	tassert.Fatalf(t, existing == r1, "insert on existing key must return the existing record")
	tassert.Fatalf(t, idx.Len() == 1, "duplicate insert must not grow the index")
}

func TestIterAscending(t *testing.T) {
	pool, idx := newTestPool(t)
	for _, a := range []uint64{0x5000, 0x1000, 0x3000} {
		r := pool.Alloc()
		r.Address = a
		idx.Insert(a, r)
	}
	var seen []uint64
	idx.IterAscending(func(r *memsys.PageRecord) bool {
		seen = append(seen, r.Address)
		return true
	})
	want := []uint64{0x1000, 0x3000, 0x5000}
	tassert.Fatalf(t, len(seen) == len(want), "unexpected count: %d", len(seen))
	for i := range want {
		tassert.Fatalf(t, seen[i] == want[i], "out of order at %d: got %#x want %#x", i, seen[i], want[i])
	}
}

// TestTouchProtectsFromEviction is the "LRU under load" scenario: a
// record touched recently must survive a capacity-triggered replace
// even though it was allocated first, as long as fewer than N other
// records have been touched since.
func TestTouchProtectsFromEviction(t *testing.T) {
	pool, idx := newTestPool(t)
	n := pool.N()
	if n < 2 {
		t.Skip("scenario requires at least 2 slots per cluster")
	}

	hot := pool.Alloc()
	hot.Address = 0xf00d
	idx.Insert(hot.Address, hot)

	for i := 1; i < n; i++ {
		r := pool.Alloc()
		addr := uint64((i + 1) * 0x1000)
		r.Address = addr
		idx.Insert(addr, r)
	}
	tassert.Fatalf(t, idx.Len() == n, "expected %d live records, got %d", n, idx.Len())

	// touch the first-allocated record so it is no longer the LRU tail
	pool.Touch(hot)

	victim := pool.Replace()
	idx.Rebind(victim.Address, 0x999999, victim)

	_, stillThere := idx.Lookup(0xf00d)
	tassert.Fatalf(t, stillThere, "touched record must survive a capacity replace")
	tassert.Fatalf(t, victim.Address == 0x999999, "unexpected victim rebind: %#x", victim.Address)
}
