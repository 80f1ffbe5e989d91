package accountant

import (
	"bufio"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/mced-project/mced/bucket"
	"github.com/mced-project/mced/cmn"
	"github.com/mced-project/mced/memsys"
)

// Dump is the plain-text Reporter (spec.md §4.7): one line per tracked
// page in ascending address order, preceded by a header. No output at
// all if the index is empty.
func Dump(sink io.Writer, idx *memsys.AddrIndex, cfg cmn.BucketConf) {
	w := bufio.NewWriter(sink)
	defer w.Flush()

	first := true
	idx.IterAscending(func(r *memsys.PageRecord) bool {
		if first {
			fmt.Fprintln(w, "Per page corrected memory statistics:")
			first = false
		}
		triggeredSuffix := ""
		if r.Triggered {
			triggeredSuffix = " triggered"
		}
		fmt.Fprintf(w, "%x %d %s %s%s\n", r.Address, r.CECount, bucket.Output(cfg, &r.Bucket), r.Status, triggeredSuffix)
		return true
	})
	if !first {
		fmt.Fprintln(w)
	}
}

// PageSnapshot is the durable, JSON-facing shape of one tracked page:
// the same fields DumpJSON renders, and what SaveSnapshot persists to
// the on-disk state store so mcedctl can render a dump without a live
// IPC channel to mced.
type PageSnapshot struct {
	Address   string `json:"address"`
	CECount   uint64 `json:"ce_count"`
	Bucket    string `json:"bucket"`
	Status    string `json:"status"`
	Triggered bool   `json:"triggered"`
}

// Snapshots renders idx's current state as PageSnapshots, in ascending
// address order.
func Snapshots(idx *memsys.AddrIndex, cfg cmn.BucketConf) []PageSnapshot {
	out := make([]PageSnapshot, 0, idx.Len())
	idx.IterAscending(func(r *memsys.PageRecord) bool {
		out = append(out, PageSnapshot{
			Address:   fmt.Sprintf("%x", r.Address),
			CECount:   r.CECount,
			Bucket:    bucket.Output(cfg, &r.Bucket),
			Status:    r.Status.String(),
			Triggered: r.Triggered,
		})
		return true
	})
	return out
}

// DumpJSON renders the same snapshot as Dump, encoded as JSON, for
// cmd/mcedctl's operator-facing dump command.
func DumpJSON(sink io.Writer, idx *memsys.AddrIndex, cfg cmn.BucketConf) error {
	return DumpSnapshotsJSON(sink, Snapshots(idx, cfg))
}

// DumpSnapshotsJSON renders a slice of PageSnapshots (typically read
// back from the on-disk state store) as JSON.
func DumpSnapshotsJSON(sink io.Writer, snaps []PageSnapshot) error {
	return jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(sink).Encode(snaps)
}

// DumpSnapshotsText renders a slice of PageSnapshots in the same
// plain-text form as Dump.
func DumpSnapshotsText(sink io.Writer, snaps []PageSnapshot) {
	w := bufio.NewWriter(sink)
	defer w.Flush()

	if len(snaps) == 0 {
		return
	}
	fmt.Fprintln(w, "Per page corrected memory statistics:")
	for _, s := range snaps {
		triggeredSuffix := ""
		if s.Triggered {
			triggeredSuffix = " triggered"
		}
		fmt.Fprintf(w, "%s %d %s %s%s\n", s.Address, s.CECount, s.Bucket, s.Status, triggeredSuffix)
	}
	fmt.Fprintln(w)
}
