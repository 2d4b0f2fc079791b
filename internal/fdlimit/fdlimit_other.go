//go:build !unix

package fdlimit

// Raise is a no-op on platforms without rlimit support.
func Raise(_ uint64) error {
	return nil
}
