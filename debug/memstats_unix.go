//go:build unix

package debug

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// residentBytes returns the peak resident set size; getrusage does not
// report the current one.
func residentBytes() (uint64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}
	// ru_maxrss is bytes on darwin and KiB elsewhere.
	if runtime.GOOS == "darwin" || runtime.GOOS == "ios" {
		return uint64(ru.Maxrss), nil
	}
	return uint64(ru.Maxrss) * 1024, nil
}
