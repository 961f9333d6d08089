//go:build linux

package storage

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseRandom tells the kernel page accesses are random so it skips
// readahead. Failure only costs performance.
func adviseRandom(f *os.File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_RANDOM)
}
