package memsys

import (
	"github.com/golang/glog"
	"golang.org/x/sys/unix"

	"github.com/mced-project/mced/cmn"
)

// ResolvePageSize returns the host's actual page size, falling back to
// cmn.PageSize (4 KiB) if the host call fails or reports something
// implausible (e.g. cross-compiled onto a platform unix.Getpagesize
// doesn't support).
func ResolvePageSize() int64 {
	sz := unix.Getpagesize()
	if sz <= 0 || sz%cmn.KiB != 0 {
		glog.Warningf("memsys: could not resolve host page size (got %d), defaulting to %d", sz, cmn.PageSize)
		return cmn.PageSize
	}
	return int64(sz)
}
