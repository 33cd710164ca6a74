package service

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	cryptoDomain "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/crypto/domain"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/fsutil"
)

// vaultKeyInfo labels the HKDF expansion of the engine key into a vault
// serialization key.
const vaultKeyInfo = "sam iv vault v1"

// vaultFileVersion is the envelope format version written to disk.
const vaultFileVersion = 1

// VaultStore persists an IVVault as a JSON envelope whose slots are sealed
// under a key derived from the engine key and a salt drawn fresh for every
// write. Two writes of the same vault therefore never produce the same bytes,
// and the envelope itself never contains the sealing key. The vault type
// stays free of I/O; this store is the only reader and writer of its file.
type VaultStore struct {
	mu   sync.Mutex
	path string
}

// vaultEnvelope is the on-disk shape. Rotation metadata is plain; only the
// IV bytes themselves are sealed.
type vaultEnvelope struct {
	Version   int       `json:"version"`
	IVSize    int       `json:"iv_size"`
	RotatedAt time.Time `json:"rotated_at"`
	Salt      []byte    `json:"salt"`
	Nonce1    []byte    `json:"nonce1"`
	SealedIV1 []byte    `json:"sealed_iv1"`
	Nonce2    []byte    `json:"nonce2"`
	SealedIV2 []byte    `json:"sealed_iv2"`
}

// NewVaultStore creates a store for the vault file at path.
func NewVaultStore(path string) *VaultStore {
	return &VaultStore{path: path}
}

// Store seals both vault slots under a fresh per-write key derived from the
// engine key and writes the envelope atomically with 0600 permissions.
func (s *VaultStore) Store(vault *cryptoDomain.IVVault, engineKey []byte) error {
	if vault == nil || !vault.Validate() {
		return cryptoDomain.ErrVaultNotInitialized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	salt, err := cryptoDomain.RandomBytes(cryptoDomain.SaltSize)
	if err != nil {
		return err
	}

	sealer, err := s.sealerFor(engineKey, salt)
	if err != nil {
		return err
	}

	iv1, iv2 := vault.IV1(), vault.IV2()
	defer cryptoDomain.ZeroAll(iv1, iv2)

	sealed1, nonce1, err := sealer.Seal(iv1, []byte("iv1"))
	if err != nil {
		return errors.Wrap(err, "seal vault slot 1")
	}
	sealed2, nonce2, err := sealer.Seal(iv2, []byte("iv2"))
	if err != nil {
		return errors.Wrap(err, "seal vault slot 2")
	}

	envelope := vaultEnvelope{
		Version:   vaultFileVersion,
		IVSize:    vault.Size(),
		RotatedAt: vault.LastRotation().UTC(),
		Salt:      salt,
		Nonce1:    nonce1,
		SealedIV1: sealed1,
		Nonce2:    nonce2,
		SealedIV2: sealed2,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, "encode vault envelope")
	}
	if err := fsutil.WriteFileAtomic(s.path, payload, 0o600); err != nil {
		return errors.Wrap(err, "write iv vault")
	}
	return nil
}

// Load reads the envelope and unseals both slots with the engine key,
// restoring the persisted rotation time so the freshness policy survives a
// restart. Returns ErrNotFound when the file does not exist and
// ErrVaultCorrupt when the envelope cannot be parsed or fails authentication.
func (s *VaultStore) Load(engineKey []byte) (*cryptoDomain.IVVault, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrNotFound, "iv vault file")
		}
		return nil, errors.Wrap(err, "read iv vault")
	}

	var envelope vaultEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrVaultCorrupt, "envelope parse")
	}

	sealer, err := s.sealerFor(engineKey, envelope.Salt)
	if err != nil {
		return nil, err
	}

	iv1, err := sealer.Open(envelope.SealedIV1, envelope.Nonce1, []byte("iv1"))
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrVaultCorrupt, "slot 1 unseal")
	}
	defer cryptoDomain.Zero(iv1)

	iv2, err := sealer.Open(envelope.SealedIV2, envelope.Nonce2, []byte("iv2"))
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrVaultCorrupt, "slot 2 unseal")
	}
	defer cryptoDomain.Zero(iv2)

	vault, err := cryptoDomain.NewEmptyIVVault(envelope.IVSize)
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrVaultCorrupt, "envelope iv size")
	}
	if err := vault.Restore(iv1, iv2, envelope.RotatedAt); err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrVaultCorrupt, "slot restore")
	}
	return vault, nil
}

// Exists reports whether the vault file is present.
func (s *VaultStore) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.path)
	return err == nil
}

func (s *VaultStore) sealerFor(engineKey, salt []byte) (*gcmSealer, error) {
	if len(engineKey) == 0 {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	sealingKey, err := deriveKey(engineKey, salt, vaultKeyInfo)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(sealingKey)
	return newGCMSealer(sealingKey)
}
