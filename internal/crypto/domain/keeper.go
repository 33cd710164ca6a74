package domain

import "context"

// KMSKeeper seals and unseals small blobs through an external key-management
// keeper. *secrets.Keeper from gocloud.dev satisfies this interface; the
// application uses it to protect the key-store container at rest.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
