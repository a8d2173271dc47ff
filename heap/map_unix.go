//go:build linux || darwin

package heap

import "golang.org/x/sys/unix"

// mapRegion reserves n bytes of zero-initialized anonymous memory.
// Pages are committed lazily by the OS, so a large reservation costs
// nothing until the break actually reaches it.
func mapRegion(n int) ([]byte, error) {
	return unix.Mmap(
		-1,
		0,
		n,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON,
	)
}

func unmapRegion(b []byte) error {
	return unix.Munmap(b)
}
