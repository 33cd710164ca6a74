// Package service provides the concrete encryption-at-rest engine and its
// persistence collaborators: the AES-CBC symmetric crypter, the keeper-sealed
// key store, the encrypted IV vault store and the keeper service.
package service

import (
	"context"
	"time"
)

// Crypter defines the capability set any concrete cipher engine must
// implement. Repositories, the auth generator and the security logger depend
// only on this seam, never on a concrete engine, so an alternate engine can
// be substituted without touching callers.
type Crypter interface {
	// Encrypt encrypts plaintext and returns the combined iv-prefixed record.
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt splits a combined record and returns the plaintext.
	Decrypt(combined []byte) ([]byte, error)

	// EncryptEncode encrypts a string and base64-encodes the combined record.
	// This is the call every repository makes per persisted line.
	EncryptEncode(plaintext string) (string, error)

	// DecodeDecrypt base64-decodes a line and decrypts the combined record.
	DecodeDecrypt(encoded string) (string, error)

	// EncryptBatch applies EncryptEncode to each value, aborting on the first failure.
	EncryptBatch(plaintexts []string) ([]string, error)

	// DecryptBatch applies DecodeDecrypt to each value, aborting on the first failure.
	DecryptBatch(encoded []string) ([]string, error)

	// Hash returns the hex-encoded SHA-256 digest of data.
	Hash(data string) string

	// HashPBKDF2 derives a salted slow hash of password and zeroes the input buffer.
	HashPBKDF2(password []byte) (string, error)

	// VerifyPBKDF2 re-derives the hash from the salt embedded in encoded and
	// compares in constant time. The password buffer is left intact.
	VerifyPBKDF2(password []byte, encoded string) (bool, error)

	// Encode64 base64-encodes raw bytes.
	Encode64(data []byte) string

	// Decode64 decodes a base64 string.
	Decode64(encoded string) ([]byte, error)

	// Key returns a defensive copy of the working key.
	Key() []byte

	// SetKey installs a caller-supplied key after strength validation and
	// persists the new key state.
	SetKey(ctx context.Context, key []byte) error

	// IV returns a defensive copy of the active encryption vector.
	IV() []byte

	// RotateIVs refreshes both vault slots and persists the vault.
	RotateIVs() error

	// RotateKey generates a fresh key, persists it, and re-seals the vault under it.
	RotateKey(ctx context.Context) error

	// GenerateSecureRandom returns n cryptographically secure random bytes.
	GenerateSecureRandom(n int) ([]byte, error)

	// ValidateKeyStrength reports whether key is usable as an engine key.
	ValidateKeyStrength(key []byte) error

	// SecurityAudit runs the read-only posture checks and returns a report.
	// It never fails.
	SecurityAudit() AuditReport

	// SecureWipe zeroes all key material and IVs and retires the engine.
	// Every operation on a wiped engine fails.
	SecureWipe()
}

// AuditReport is the result of a security audit pass. Passed reports the
// conjunction of the four checks.
type AuditReport struct {
	Timestamp     time.Time     `json:"timestamp"`
	KeyStrengthOK bool          `json:"key_strength_ok"`
	IVsValid      bool          `json:"ivs_valid"`
	IVsDistinct   bool          `json:"ivs_distinct"`
	IVsFresh      bool          `json:"ivs_fresh"`
	KeyAge        time.Duration `json:"key_age"`
	IVAge         time.Duration `json:"iv_age"`
}

// Passed reports whether every audit check succeeded.
func (r AuditReport) Passed() bool {
	return r.KeyStrengthOK && r.IVsValid && r.IVsDistinct && r.IVsFresh
}
