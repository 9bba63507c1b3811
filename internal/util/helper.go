// Package util contains small generic helpers shared across packages.
package util

// CloneSlice clones src into a new slice of cloneSize elements.
// src's length is used when cloneSize is 0.
func CloneSlice[T any](src []T, cloneSize int) []T {
	if cloneSize == 0 {
		cloneSize = len(src)
	}
	clone := make([]T, cloneSize)
	copy(clone, src)

	return clone
}

// FirstMismatch returns the index of the first element where a and b differ,
// comparing up to the shorter length, or -1 when that prefix is equal.
func FirstMismatch[T comparable](a, b []T) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return -1
}
