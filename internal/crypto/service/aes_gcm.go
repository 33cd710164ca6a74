package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/crypto/domain"
)

// gcmSealer wraps AES-256-GCM for sealing security material at rest: the key
// store entry and the two IV vault slots. GCM gives the stored blobs tamper
// detection on top of confidentiality, so a corrupted or hand-edited file
// fails authentication on load instead of yielding garbage bytes.
//
// Security properties:
//   - 256-bit key, always derived (never a raw password)
//   - 12-byte nonce, randomly generated per seal
//   - 16-byte authentication tag appended to the ciphertext
//
// The sealer is stateless and safe for concurrent use; each Seal call draws
// its own nonce.
type gcmSealer struct {
	aead cipher.AEAD
}

// newGCMSealer creates a sealer from a 32-byte derived key.
func newGCMSealer(key []byte) (*gcmSealer, error) {
	if len(key) != cryptoDomain.AESKeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &gcmSealer{aead: aead}, nil
}

// Seal encrypts plaintext with a fresh random nonce. The aad binds the blob
// to its context (entry alias, slot name) without being encrypted, so a blob
// lifted from one slot cannot be replayed into another.
func (s *gcmSealer) Seal(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = s.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Open decrypts and authenticates a sealed blob. The same aad used during
// Seal must be provided; any mismatch or modification fails authentication
// and no plaintext is returned.
func (s *gcmSealer) Open(ciphertext, nonce, aad []byte) ([]byte, error) {
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}

// deriveKey expands a secret into a 32-byte sealing key with HKDF-SHA256.
// Distinct info strings keep the derived keys for different purposes
// cryptographically independent even when the secret and salt coincide.
func deriveKey(secret, salt []byte, info string) ([]byte, error) {
	key := make([]byte, cryptoDomain.AESKeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}
