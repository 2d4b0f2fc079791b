//go:build unix

package fdlimit

import "golang.org/x/sys/unix"

// Raise lifts the process file-descriptor soft limit to at least limit,
// capped at the hard limit. Crawling a large site opens thousands of
// short-lived artifact handles in sequence; the distribution default of
// 1024 descriptors is not always enough.
func Raise(limit uint64) error {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return err
	}

	if rl.Cur >= limit {
		return nil
	}

	rl.Cur = limit
	if rl.Cur > rl.Max {
		rl.Cur = rl.Max
	}
	return unix.Setrlimit(unix.RLIMIT_NOFILE, &rl)
}
