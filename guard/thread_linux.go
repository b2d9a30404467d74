//go:build linux

package guard

import "golang.org/x/sys/unix"

// CurrentThread returns the kernel thread id of the calling thread.
func CurrentThread() uint64 {
	return uint64(unix.Gettid())
}
