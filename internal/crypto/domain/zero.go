package domain

// Zero overwrites a byte slice with zeros to clear sensitive material from
// memory before the slice becomes unreachable.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}

// ZeroAll zeroes every given slice. Convenience for wipe paths that release
// several buffers at once (key copies, both vault slots, staging buffers).
func ZeroAll(slices ...[]byte) {
	for _, b := range slices {
		Zero(b)
	}
}

// IsZero reports whether every byte of b is zero. An empty or nil slice is
// considered zero. Used to reject degenerate IVs and key material.
func IsZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
