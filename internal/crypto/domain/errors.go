package domain

import (
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
)

// Cryptographic error definitions.
//
// Two root classes separate fatal setup problems from per-call problems:
// ErrCryptoInit aborts engine construction and is caught by the security
// provider (which falls back to baseline components); ErrCryptoOperation
// propagates to the caller of the single failing operation. Validation
// errors wrap ErrInvalidInput and are raised before any cipher primitive
// runs. File I/O failures are wrapped into one of these classes before they
// cross the Crypter boundary, so callers never branch on filesystem errors.
var (
	// ErrCryptoInit indicates the engine could not reach a usable state
	// (unreadable key store, corrupt vault, cipher setup failure). Fatal for
	// the engine instance.
	ErrCryptoInit = errors.New("crypto initialization failed")

	// ErrCryptoOperation indicates a single encrypt/decrypt/encode operation
	// failed. The engine remains usable.
	ErrCryptoOperation = errors.New("crypto operation failed")

	// ErrNotReady indicates an operation was attempted on an engine that has
	// been securely wiped.
	ErrNotReady = errors.Wrap(ErrCryptoOperation, "engine not ready")

	// ErrTooManyAttempts indicates the decrypt throttle tripped: the
	// consecutive-failure ceiling was reached and the call was refused before
	// any cipher work.
	ErrTooManyAttempts = errors.Wrap(errors.ErrLocked, "too many failed decrypt attempts")

	// ErrInvalidIVSize indicates an IV size outside [MinIVSize, MaxIVSize]
	// or slot bytes whose length does not match the vault size.
	ErrInvalidIVSize = errors.Wrap(errors.ErrInvalidInput, "invalid iv size")

	// ErrZeroIV indicates an all-zero initialization vector, rejected both
	// when filling a vault slot and when extracted from a combined payload.
	ErrZeroIV = errors.Wrap(errors.ErrInvalidInput, "all-zero iv")

	// ErrVaultNotInitialized indicates a vault operation that requires both
	// slots to be populated.
	ErrVaultNotInitialized = errors.Wrap(errors.ErrInvalidInput, "iv vault not initialized")

	// ErrVaultCorrupt indicates the persisted vault file could not be
	// decrypted or parsed.
	ErrVaultCorrupt = errors.Wrap(ErrCryptoInit, "iv vault corrupt")

	// ErrKeyStoreCorrupt indicates the key-store container could not be
	// unsealed or parsed (wrong password, tampering, or truncation).
	ErrKeyStoreCorrupt = errors.Wrap(ErrCryptoInit, "key store corrupt")

	// ErrInvalidKeySize indicates a key whose length is not a standard AES
	// length (16, 24 or 32 bytes).
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrWeakKey indicates a key that fails the strength check: below
	// KeyStrengthMinBits or all-zero material.
	ErrWeakKey = errors.Wrap(errors.ErrInvalidInput, "weak key")

	// ErrEmptyPlaintext indicates an encryption call with no input.
	ErrEmptyPlaintext = errors.Wrap(errors.ErrInvalidInput, "empty plaintext")

	// ErrInvalidCiphertext indicates a combined payload too short to contain
	// an IV plus at least one ciphertext byte.
	ErrInvalidCiphertext = errors.Wrap(errors.ErrInvalidInput, "invalid ciphertext")
)
