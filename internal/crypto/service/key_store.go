package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/crypto/domain"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/fsutil"
)

// entryKeyInfo labels the HKDF expansion of the entry password into the
// per-entry sealing key.
const entryKeyInfo = "sam keystore entry v1"

// keyStoreVersion is the container format version written to disk.
const keyStoreVersion = 1

// KeyStoreConfig carries the settings needed to open a key store.
type KeyStoreConfig struct {
	// Path is the key store file location.
	Path string

	// StorePassword protects the container as a whole. When KMSKeyURI is
	// empty it is expanded into the local keeper key.
	StorePassword string

	// EntryPassword protects the key entry inside the container. Must differ
	// from StorePassword so neither password alone opens both layers.
	EntryPassword string

	// Alias names the engine key entry inside the container.
	Alias string

	// KMSKeyURI, when set, selects an external keeper (awskms://, gcpkms://,
	// azurekeyvault://, hashivault://) for the container instead of the
	// store-password-derived local keeper.
	KMSKeyURI string
}

// StoredKey is a key entry recovered from or written to the store.
type StoredKey struct {
	ID        uuid.UUID
	Key       []byte
	CreatedAt time.Time
}

// Age returns the time elapsed since the key was created.
func (k *StoredKey) Age() time.Duration {
	return time.Since(k.CreatedAt)
}

// KeyStore persists engine keys in a two-layer encrypted container: each
// entry is AES-GCM-sealed under a key derived from the entry password, and
// the whole JSON container is sealed by a gocloud secrets keeper before it is
// base64-encoded to disk. Opening the file therefore takes both the keeper
// (store password or external KMS) and the entry password.
type KeyStore struct {
	mu            sync.Mutex
	path          string
	alias         string
	entryPassword []byte
	keeper        cryptoDomain.KMSKeeper
}

// keyStoreContainer is the on-disk JSON payload, sealed by the keeper.
type keyStoreContainer struct {
	Version   int                      `json:"version"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
	Entries   map[string]keyStoreEntry `json:"entries"`
}

// keyStoreEntry is one sealed key inside the container.
type keyStoreEntry struct {
	ID        uuid.UUID `json:"id"`
	Salt      []byte    `json:"salt"`
	Nonce     []byte    `json:"nonce"`
	SealedKey []byte    `json:"sealed_key"`
	CreatedAt time.Time `json:"created_at"`
}

// NewKeyStore opens the keeper for the configured container. The file itself
// is touched lazily by Load and Store.
func NewKeyStore(ctx context.Context, kms KMSService, cfg KeyStoreConfig) (*KeyStore, error) {
	if cfg.Path == "" || cfg.Alias == "" {
		return nil, errors.Wrap(cryptoDomain.ErrCryptoInit, "key store path and alias are required")
	}
	if cfg.StorePassword == "" || cfg.EntryPassword == "" {
		return nil, errors.Wrap(cryptoDomain.ErrCryptoInit, "key store passwords are required")
	}
	if cfg.StorePassword == cfg.EntryPassword {
		return nil, errors.Wrap(cryptoDomain.ErrCryptoInit, "store and entry passwords must differ")
	}

	keyURI := cfg.KMSKeyURI
	if keyURI == "" {
		uri, err := kms.LocalKeeperURI(cfg.StorePassword)
		if err != nil {
			return nil, errors.Wrap(err, "key store keeper")
		}
		keyURI = uri
	}

	keeper, err := kms.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, errors.Wrap(err, "key store keeper")
	}

	return &KeyStore{
		path:          cfg.Path,
		alias:         cfg.Alias,
		entryPassword: []byte(cfg.EntryPassword),
		keeper:        keeper,
	}, nil
}

// Load reads, unseals and returns the key entry under the configured alias.
// Returns ErrNotFound when the file or the alias does not exist yet, and
// ErrKeyStoreCorrupt when the container cannot be opened or fails
// authentication (wrong passwords included).
func (s *KeyStore) Load(ctx context.Context) (*StoredKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	container, err := s.readContainer(ctx)
	if err != nil {
		return nil, err
	}

	entry, ok := container.Entries[s.alias]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "key store entry %q", s.alias)
	}
	return s.unsealEntry(entry)
}

// Store seals key under a fresh salt and writes the updated container
// atomically with 0600 permissions (best effort on platforms that honor
// them). Existing entries under other aliases are preserved.
func (s *KeyStore) Store(ctx context.Context, key []byte) (*StoredKey, error) {
	if len(key) == 0 {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	container, err := s.readContainer(ctx)
	if err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		now := time.Now().UTC()
		container = &keyStoreContainer{
			Version:   keyStoreVersion,
			CreatedAt: now,
			Entries:   make(map[string]keyStoreEntry),
		}
	}

	entry, stored, err := s.sealEntry(key)
	if err != nil {
		return nil, err
	}
	container.Entries[s.alias] = entry
	container.UpdatedAt = time.Now().UTC()

	if err := s.writeContainer(ctx, container); err != nil {
		return nil, err
	}
	return stored, nil
}

// Close releases the underlying keeper.
func (s *KeyStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keeper == nil {
		return nil
	}
	err := s.keeper.Close()
	s.keeper = nil
	return err
}

func (s *KeyStore) readContainer(ctx context.Context) (*keyStoreContainer, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrNotFound, "key store file")
		}
		return nil, errors.Wrap(err, "read key store")
	}

	sealed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrKeyStoreCorrupt, "container encoding")
	}

	payload, err := s.keeper.Decrypt(ctx, sealed)
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrKeyStoreCorrupt, "container unseal")
	}

	var container keyStoreContainer
	if err := json.Unmarshal(payload, &container); err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrKeyStoreCorrupt, "container payload")
	}
	if container.Entries == nil {
		container.Entries = make(map[string]keyStoreEntry)
	}
	return &container, nil
}

func (s *KeyStore) writeContainer(ctx context.Context, container *keyStoreContainer) error {
	payload, err := json.Marshal(container)
	if err != nil {
		return errors.Wrap(err, "encode key store container")
	}

	sealed, err := s.keeper.Encrypt(ctx, payload)
	if err != nil {
		return errors.Wrap(err, "seal key store container")
	}

	encoded := base64.StdEncoding.EncodeToString(sealed)
	if err := fsutil.WriteFileAtomic(s.path, []byte(encoded), 0o600); err != nil {
		return errors.Wrap(err, "write key store")
	}
	return nil
}

func (s *KeyStore) sealEntry(key []byte) (keyStoreEntry, *StoredKey, error) {
	salt, err := cryptoDomain.RandomBytes(cryptoDomain.SaltSize)
	if err != nil {
		return keyStoreEntry{}, nil, err
	}

	kek, err := deriveKey(s.entryPassword, salt, entryKeyInfo)
	if err != nil {
		return keyStoreEntry{}, nil, err
	}
	defer cryptoDomain.Zero(kek)

	sealer, err := newGCMSealer(kek)
	if err != nil {
		return keyStoreEntry{}, nil, err
	}

	sealedKey, nonce, err := sealer.Seal(key, []byte(s.alias))
	if err != nil {
		return keyStoreEntry{}, nil, err
	}

	entry := keyStoreEntry{
		ID:        uuid.Must(uuid.NewV7()),
		Salt:      salt,
		Nonce:     nonce,
		SealedKey: sealedKey,
		CreatedAt: time.Now().UTC(),
	}
	stored := &StoredKey{
		ID:        entry.ID,
		Key:       append([]byte(nil), key...),
		CreatedAt: entry.CreatedAt,
	}
	return entry, stored, nil
}

func (s *KeyStore) unsealEntry(entry keyStoreEntry) (*StoredKey, error) {
	kek, err := deriveKey(s.entryPassword, entry.Salt, entryKeyInfo)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(kek)

	sealer, err := newGCMSealer(kek)
	if err != nil {
		return nil, err
	}

	key, err := sealer.Open(entry.SealedKey, entry.Nonce, []byte(s.alias))
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrKeyStoreCorrupt, "entry unseal")
	}

	return &StoredKey{
		ID:        entry.ID,
		Key:       key,
		CreatedAt: entry.CreatedAt,
	}, nil
}
