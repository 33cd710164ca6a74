package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// localKeeperInfo labels the HKDF expansion of the store password into the
// local keeper key, keeping it independent from the entry sealing key.
const localKeeperInfo = "sam keystore keeper v1"

// KMSService opens the secrets keeper the key store container is sealed
// under, using gocloud.dev/secrets.
type KMSService interface {
	// OpenKeeper opens a secrets.Keeper for the configured KMS provider.
	// Returns an error if the KMS provider URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)

	// LocalKeeperURI derives a deterministic base64key:// URI from the store
	// password, used when no external KMS is configured. The same password
	// always yields the same URI so the container stays readable across runs.
	LocalKeeperURI(password string) (string, error)
}

// kmsService implements KMSService using gocloud.dev/secrets.
type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a secrets.Keeper for the configured KMS provider using the keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
// Returns a KMSKeeper which *secrets.Keeper implements.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// LocalKeeperURI expands the store password into a 32-byte key and encodes it
// as a base64key:// URI for the localsecrets driver.
func (k *kmsService) LocalKeeperURI(password string) (string, error) {
	key, err := deriveKey([]byte(password), nil, localKeeperInfo)
	if err != nil {
		return "", fmt.Errorf("failed to derive local keeper key: %w", err)
	}
	return "base64key://" + base64.URLEncoding.EncodeToString(key), nil
}
