//go:build !linux

package guard

import (
	"bytes"
	"runtime"
	"strconv"
)

// CurrentThread returns the id of the calling goroutine. Platforms without a
// cheap kernel thread id fall back to goroutine identity, which matches the
// OS thread only while the caller holds runtime.LockOSThread.
func CurrentThread() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	line := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(line, ' '); i > 0 {
		line = line[:i]
	}
	id, err := strconv.ParseUint(string(line), 10, 64)
	if err != nil || id == 0 {
		return 1
	}
	return id
}
