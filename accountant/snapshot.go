package accountant

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/mced-project/mced/bucket"
	"github.com/mced-project/mced/cmn"
	"github.com/mced-project/mced/dbdriver"
	"github.com/mced-project/mced/memsys"
)

// snapshotCollection is the key prefix under which SaveSnapshot and
// LoadSnapshot store the accounting table in a dbdriver.Driver.
const snapshotCollection = "pages"

// snapshotKey zero-pads the address to a fixed 16 hex digits so that
// ForEach's lexical key ordering matches ascending address order
// (a plain "%x" would sort "10" before "9").
func snapshotKey(addr uint64) string {
	return fmt.Sprintf("%016x", addr)
}

// SaveSnapshot persists idx's current state into driver, one entry per
// tracked page keyed by its address, so a later LoadSnapshot (run by
// mcedctl, possibly against a different process) sees the most recent
// write.
func SaveSnapshot(driver dbdriver.Driver, idx *memsys.AddrIndex, cfg cmn.BucketConf) error {
	var saveErr error
	idx.IterAscending(func(r *memsys.PageRecord) bool {
		s := PageSnapshot{
			Address:   fmt.Sprintf("%x", r.Address),
			CECount:   r.CECount,
			Bucket:    bucket.Output(cfg, &r.Bucket),
			Status:    r.Status.String(),
			Triggered: r.Triggered,
		}
		saveErr = driver.Set(snapshotCollection, snapshotKey(r.Address), s)
		return saveErr == nil
	})
	return saveErr
}

// LoadSnapshot reads back every persisted page entry, in ascending
// address order. SaveSnapshot never removes entries, so pages that have
// left the index since an earlier save are returned too, with the
// values they had when last saved.
func LoadSnapshot(driver dbdriver.Driver) ([]PageSnapshot, error) {
	var (
		out    []PageSnapshot
		decErr error
	)
	err := driver.ForEach(snapshotCollection, func(_ string, value string) bool {
		var s PageSnapshot
		if decErr = jsoniter.Unmarshal([]byte(value), &s); decErr != nil {
			return false
		}
		out = append(out, s)
		return true
	})
	if err != nil {
		return nil, err
	}
	if decErr != nil {
		return nil, decErr
	}
	return out, nil
}
