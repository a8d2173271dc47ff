//go:build !linux && !darwin

package heap

// mapRegion falls back to a garbage-collected slice on platforms
// without the anonymous-mmap path. make() zero-initializes, matching
// the mmap contract.
func mapRegion(n int) ([]byte, error) {
	return make([]byte, n), nil
}

func unmapRegion(b []byte) error {
	return nil
}
