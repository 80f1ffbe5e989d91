package main

import (
	"time"

	"github.com/golang/glog"

	"github.com/mced-project/mced/accountant"
	"github.com/mced-project/mced/cmn"
	"github.com/mced-project/mced/dbdriver"
	"github.com/mced-project/mced/memsys"
)

// snapshotLoop periodically persists idx's state into driver until stop
// fires, so mcedctl can render a recent-enough dump without attaching
// to a running mced.
func snapshotLoop(driver dbdriver.Driver, idx *memsys.AddrIndex, pageTrigger cmn.BucketConf, every time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			if err := accountant.SaveSnapshot(driver, idx, pageTrigger); err != nil {
				glog.Warningf("mced: periodic state snapshot failed: %v", err)
			}
		case <-stop:
			return
		}
	}
}
