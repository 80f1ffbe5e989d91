// Package offline implements the Offliner: the state machine mapping an
// offline-mode configuration plus a target physical address to a sysfs
// write, with soft-then-hard fallback and a row-offline helper
// (spec.md §4.4).
package offline

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Writer issues the sysfs write that asks the kernel to offline the page
// at addr via path. Abstracted so tests exercise the Offliner's state
// machine without touching real sysfs paths.
type Writer interface {
	Write(path string, addr uint64) error
}

// sysfsWriter is the production Writer: a single open+write+close against
// the kernel control file, using golang.org/x/sys/unix directly rather
// than os.WriteFile since a single authoritative syscall suffices and
// there's no need for the stdlib's higher-level file abstraction.
type sysfsWriter struct{}

// DefaultWriter writes through to the real kernel sysfs interface.
var DefaultWriter Writer = sysfsWriter{}

func (sysfsWriter) Write(path string, addr uint64) error {
	fd, err := unix.Open(path, unix.O_WRONLY, 0)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer unix.Close(fd)

	buf := []byte(fmt.Sprintf("%#x\n", addr))
	if _, err := unix.Write(fd, buf); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// Writable reports whether path can be written to by this process,
// without actually writing to it - used at setup time to probe
// soft_offline_page/hard_offline_page availability.
func Writable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}
