// Package domain holds the value types, constants and invariants of the
// encryption-at-rest core: the dual-slot IV vault, the combined ciphertext
// framing, and the secure-wipe helpers shared by the service layer.
package domain

import "time"

const (
	// AESKeySize is the symmetric key length in bytes (AES-256).
	//
	// The engine always generates 256-bit keys. Shorter keys loaded from an
	// existing store are accepted only when they use a standard AES length
	// (16/24/32 bytes) and pass the strength check (KeyStrengthMinBits).
	AESKeySize = 32

	// KeyStrengthMinBits is the minimum acceptable key strength. A key below
	// this bound fails validation and forces regeneration at engine startup.
	KeyStrengthMinBits = 128

	// DefaultIVSize is the initialization-vector length in bytes, matching the
	// AES block size required by CBC mode.
	DefaultIVSize = 16

	// MinIVSize and MaxIVSize bound the vault's configurable IV length.
	// Sizes outside [12, 64] are rejected before any slot is filled.
	MinIVSize = 12
	MaxIVSize = 64

	// SaltSize is the random salt length in bytes used by the PBKDF2 password
	// hash and by the per-write vault serialization key derivation.
	SaltSize = 32

	// PBKDF2Iterations is the iteration count for password hashing,
	// following the OWASP recommendation for PBKDF2-HMAC-SHA256.
	PBKDF2Iterations = 310_000

	// PBKDF2KeyLength is the derived key length in bytes for password hashing.
	PBKDF2KeyLength = 32

	// MaxDecryptAttempts is the consecutive-failure ceiling for the decrypt
	// throttle. Once reached, further decryption calls are refused without
	// touching the cipher until a success or a process restart resets the
	// counter. The counter is per engine instance and never persisted.
	MaxDecryptAttempts = 3

	// KeyRotationAge is the maximum age of the stored symmetric key before
	// the engine regenerates it at startup.
	KeyRotationAge = 30 * 24 * time.Hour

	// IVRotationAge is the maximum age of the vault IVs. Encryption validates
	// freshness before every use and rotates stale vectors first; startup
	// applies the same policy to a loaded vault.
	IVRotationAge = 24 * time.Hour
)
