// Package service provides identity and credential services: record ID and
// auth code generation backed by an encrypted store, access code
// provisioning, and Argon2id credential verification with per-user pacing
// and lockout.
package service

// LineCrypter seals and opens the encrypted lines these services persist.
// The symmetric engine satisfies it.
type LineCrypter interface {
	EncryptEncode(plaintext string) (string, error)
	DecodeDecrypt(encoded string) (string, error)
}

// AuthGenerator defines operations for issuing record IDs and auth codes.
// Issued values are unique within the hydrated process history and are
// persisted so uniqueness survives restarts.
type AuthGenerator interface {
	// GenerateID issues a new record ID: the prefix followed by random
	// digits up to the requested total length. Empty prefix and zero length
	// select the defaults ("#", 6). The length must exceed the prefix
	// length.
	GenerateID(prefix string, length int) (string, error)

	// GenerateAuth issues a new auth code: three letters from the code
	// alphabet followed by three digits.
	GenerateAuth() (string, error)

	// ProvisionAccessCodes writes count access code lines to the security
	// config file and returns the code written at position mark. The
	// returned code is the only copy handed to the caller; the file is the
	// distribution medium.
	ProvisionAccessCodes(count, mark int) (string, error)

	// IDs returns the issued record IDs, sorted.
	IDs() []string

	// Auths returns the issued auth codes, sorted.
	Auths() []string
}

// CredentialService defines operations for storing and verifying user
// credentials. Passwords are Argon2id-hashed before they reach disk; plain
// passwords are never persisted.
type CredentialService interface {
	// SaveCredential validates the id and password, hashes the password and
	// appends the credential to the users file. An empty role defaults to
	// RoleUser. Saving an existing id appends a newer credential that takes
	// precedence.
	SaveCredential(id, password, role string) error

	// VerifyCredential checks a password against the stored credential for
	// id and returns the stored role. Mismatches, unknown ids, rate-limit
	// refusals and lockouts all return ErrUnauthorized; repeated failures
	// lock the account for the configured duration.
	VerifyCredential(id, password string) (role string, err error)
}
