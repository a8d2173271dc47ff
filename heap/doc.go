// Package heap provides the raw memory region backing the allocator.
//
// A Region models the classic "sbrk" growth primitive over a single
// contiguous reservation: the full arena is reserved up front (anonymous
// mmap on unix, a zeroed slice elsewhere) and an internal break pointer
// advances on every Extend call. Memory handed out by Extend is always
// zero-initialized and page-aligned at the reservation base, the region
// never shrinks, and growth past the reservation fails with ErrRegionFull
// while leaving the break untouched.
//
// Region is not thread-safe. Callers must serialize access externally.
package heap
