package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/allisson/go-pwdhash"
	validation "github.com/jellydator/validation"
	"golang.org/x/time/rate"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/fsutil"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/logging"
	appvalidation "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/validation"
)

// Credential roles stored in the users file.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	defaultMaxAttempts     = 10
	defaultLockoutDuration = 30 * time.Minute
	defaultAttemptsPerSec  = 5.0
	defaultAttemptBurst    = 10
)

// CredentialStoreConfig configures a CredentialStore.
type CredentialStoreConfig struct {
	// UsersPath is the encrypted credentials file.
	UsersPath string

	// Crypter seals the credential lines.
	Crypter LineCrypter

	// Logger records verification failures, lockouts and saves. Optional.
	Logger logging.Logger

	// RateLimitEnabled paces verification attempts per user.
	RateLimitEnabled bool

	// AttemptsPerSec and AttemptBurst shape the per-user limiter. Zero
	// selects the defaults (5/s, burst 10).
	AttemptsPerSec float64
	AttemptBurst   int

	// LockoutMaxAttempts is how many consecutive failures lock an account.
	// Zero selects the default (10).
	LockoutMaxAttempts int

	// LockoutDuration is how long a locked account stays locked. Zero
	// selects the default (30m).
	LockoutDuration time.Duration
}

// CredentialStore stores Argon2id-hashed credentials in an encrypted line
// file and verifies them with per-user pacing and lockout.
type CredentialStore struct {
	mu      sync.Mutex
	path    string
	crypter LineCrypter
	logger  logging.Logger
	hasher  *pwdhash.PasswordHasher

	rateLimitEnabled bool
	attemptsPerSec   float64
	attemptBurst     int
	maxAttempts      int
	lockoutDuration  time.Duration

	limiters    map[string]*rate.Limiter
	failures    map[string]int
	lockedUntil map[string]time.Time

	now func() time.Time
}

var _ CredentialService = (*CredentialStore)(nil)

// NewCredentialStore creates a credential store. Uses the Argon2id Moderate
// policy for a balance between security and verification latency.
func NewCredentialStore(cfg CredentialStoreConfig) (*CredentialStore, error) {
	if cfg.UsersPath == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "users path is required")
	}
	if cfg.Crypter == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "credential store requires a crypter")
	}

	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create password hasher")
	}

	s := &CredentialStore{
		path:             cfg.UsersPath,
		crypter:          cfg.Crypter,
		logger:           cfg.Logger,
		hasher:           hasher,
		rateLimitEnabled: cfg.RateLimitEnabled,
		attemptsPerSec:   cfg.AttemptsPerSec,
		attemptBurst:     cfg.AttemptBurst,
		maxAttempts:      cfg.LockoutMaxAttempts,
		lockoutDuration:  cfg.LockoutDuration,
		limiters:         make(map[string]*rate.Limiter),
		failures:         make(map[string]int),
		lockedUntil:      make(map[string]time.Time),
		now:              time.Now,
	}
	if s.attemptsPerSec <= 0 {
		s.attemptsPerSec = defaultAttemptsPerSec
	}
	if s.attemptBurst <= 0 {
		s.attemptBurst = defaultAttemptBurst
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = defaultMaxAttempts
	}
	if s.lockoutDuration <= 0 {
		s.lockoutDuration = defaultLockoutDuration
	}

	return s, nil
}

// SaveCredential validates, hashes and appends a credential line.
func (s *CredentialStore) SaveCredential(id, password, role string) error {
	if role == "" {
		role = RoleUser
	}

	if err := validation.Validate(id, validation.Required, appvalidation.RecordID); err != nil {
		return appvalidation.WrapValidationError(fmt.Errorf("id: %w", err))
	}
	if err := validation.Validate(password, validation.Required, appvalidation.CredentialPassword); err != nil {
		return appvalidation.WrapValidationError(fmt.Errorf("password: %w", err))
	}
	if err := validation.Validate(role, validation.In(RoleUser, RoleAdmin)); err != nil {
		return appvalidation.WrapValidationError(fmt.Errorf("role: %w", err))
	}

	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	line := fmt.Sprintf("%s,%s,%s", id, hash, role)
	sealed, err := s.crypter.EncryptEncode(line)
	if err != nil {
		return errors.Wrap(err, "failed to seal credential line")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fsutil.AppendLine(s.path, sealed, 0o600); err != nil {
		return errors.Wrap(err, "failed to write users file")
	}

	s.logInfo(fmt.Sprintf("credential saved for role %s", role))
	return nil
}

// VerifyCredential checks a password against the stored credential for id.
func (s *CredentialStore) VerifyCredential(id, password string) (string, error) {
	if id == "" || password == "" {
		return "", errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLockoutLocked(id); err != nil {
		return "", err
	}
	if err := s.checkRateLocked(id); err != nil {
		return "", err
	}

	hash, role, err := s.lookupLocked(id)
	if err != nil {
		return "", err
	}
	if hash == "" {
		s.registerFailureLocked(id)
		return "", errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
	}

	ok, err := s.hasher.Verify([]byte(password), hash)
	if err != nil {
		s.logWarn(fmt.Sprintf("stored credential hash unreadable for %s", id))
		s.registerFailureLocked(id)
		return "", errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
	}
	if !ok {
		s.registerFailureLocked(id)
		return "", errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
	}

	delete(s.failures, id)
	return role, nil
}

// checkLockoutLocked refuses while a lockout is active and clears it once it
// expires.
func (s *CredentialStore) checkLockoutLocked(id string) error {
	until, ok := s.lockedUntil[id]
	if !ok {
		return nil
	}
	if s.now().Before(until) {
		s.logWarn(fmt.Sprintf("verification refused for %s, account locked", id))
		return errors.Wrap(errors.ErrUnauthorized, "account locked")
	}
	delete(s.lockedUntil, id)
	delete(s.failures, id)
	return nil
}

func (s *CredentialStore) checkRateLocked(id string) error {
	if !s.rateLimitEnabled {
		return nil
	}

	limiter, ok := s.limiters[id]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.attemptsPerSec), s.attemptBurst)
		s.limiters[id] = limiter
	}
	if !limiter.Allow() {
		s.logWarn(fmt.Sprintf("verification rate limited for %s", id))
		return errors.Wrap(errors.ErrUnauthorized, "verification rate limited")
	}
	return nil
}

// lookupLocked scans the users file for the newest credential line matching
// id. Corrupt lines are skipped and counted; an absent file reads as no
// users.
func (s *CredentialStore) lookupLocked(id string) (hash, role string, err error) {
	lines, err := fsutil.ReadLines(s.path, true)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to read users file")
	}

	corrupt := 0
	for _, line := range lines {
		plain, err := s.crypter.DecodeDecrypt(line)
		if err != nil {
			corrupt++
			continue
		}

		lineID, lineHash, lineRole, ok := splitCredentialLine(plain)
		if !ok {
			corrupt++
			continue
		}
		if lineID == id {
			// Later lines supersede earlier ones for the same id.
			hash, role = lineHash, lineRole
		}
	}

	if corrupt > 0 {
		s.logWarn(fmt.Sprintf("skipped %d corrupt credential lines", corrupt))
	}
	return hash, role, nil
}

// splitCredentialLine splits "id,hash,role". The Argon2id encoding contains
// commas, so the hash is everything between the first and last separator.
func splitCredentialLine(line string) (id, hash, role string, ok bool) {
	first := strings.Index(line, ",")
	last := strings.LastIndex(line, ",")
	if first < 0 || last <= first {
		return "", "", "", false
	}

	id = line[:first]
	hash = line[first+1 : last]
	role = line[last+1:]
	if id == "" || hash == "" || role == "" {
		return "", "", "", false
	}
	return id, hash, role, true
}

func (s *CredentialStore) registerFailureLocked(id string) {
	s.failures[id]++
	if s.failures[id] >= s.maxAttempts {
		s.lockedUntil[id] = s.now().Add(s.lockoutDuration)
		s.logWarn(fmt.Sprintf("account %s locked after %d failed attempts", id, s.maxAttempts))
	}
}

func (s *CredentialStore) logInfo(msg string) {
	if s.logger != nil {
		s.logger.Info(msg)
	}
}

func (s *CredentialStore) logWarn(msg string) {
	if s.logger != nil {
		s.logger.Warn(msg)
	}
}
