package domain

// Combine produces the wire layout used for every encrypted record:
// the IV followed immediately by the ciphertext bytes. The result is a fresh
// slice; neither input is retained.
func Combine(iv, ciphertext []byte) []byte {
	combined := make([]byte, len(iv)+len(ciphertext))
	copy(combined, iv)
	copy(combined[len(iv):], ciphertext)
	return combined
}

// SplitCombined separates a combined payload back into IV and ciphertext.
//
// It rejects payloads that cannot contain an IV plus at least one ciphertext
// byte, and rejects an all-zero leading IV before any cipher work happens.
// The returned slices alias the input.
func SplitCombined(combined []byte, ivSize int) (iv, ciphertext []byte, err error) {
	if len(combined) <= ivSize {
		return nil, nil, ErrInvalidCiphertext
	}
	iv = combined[:ivSize]
	if IsZero(iv) {
		return nil, nil, ErrZeroIV
	}
	return iv, combined[ivSize:], nil
}
