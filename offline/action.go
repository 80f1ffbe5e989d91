package offline

import (
	"github.com/golang/glog"

	"github.com/mced-project/mced/cmn"
	"github.com/mced-project/mced/memsys"
)

// Action is offline_action(record, addr): it logs intent, invokes the
// Offliner (row-offline when radius > 0), and updates record.Status.
// Once a record leaves Online it is terminal - no further offline
// attempts are made for it (spec.md §4.4 state machine).
func Action(o *Offliner, mode cmn.OfflineMode, record *memsys.PageRecord, addr uint64, pageSize int64, radius int) {
	if record.Status != memsys.Online {
		return
	}

	glog.Infof("offline: attempting %s on %#x (radius=%d)", mode, addr, radius)

	var err error
	if radius > 0 {
		err = o.OfflineRow(mode, addr, pageSize, radius)
	} else {
		err = o.Offline(mode, addr)
	}

	if err != nil {
		record.Status = memsys.OfflineFailed
		glog.Errorf("offline: %#x failed: %v", addr, err)
		return
	}
	record.Status = memsys.Offline
}
