package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/fsutil"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/logging"
)

const (
	// DefaultIDPrefix starts issued record IDs.
	DefaultIDPrefix = "#"

	// DefaultIDLength is the total length of an issued record ID, prefix
	// included.
	DefaultIDLength = 6

	// authLetterCount and authDigitCount shape auth codes: letters first,
	// digits after.
	authLetterCount = 3
	authDigitCount  = 3

	// authCodeLetters is the letter pool auth codes draw from.
	authCodeLetters = "ABCJQYWZRXSH"

	// accessLinePrefix starts every provisioned access code line.
	accessLinePrefix = "•ACCESS: "

	// maxIssueRetries bounds the uniqueness retry loop so a saturated value
	// space fails instead of spinning.
	maxIssueRetries = 10000
)

// storedValueKind tags persisted store lines.
const (
	kindID   = "id"
	kindAuth = "auth"
)

// GeneratorConfig configures a Generator.
type GeneratorConfig struct {
	// StorePath is the encrypted store of issued values. Empty means memory
	// only: issued values are not persisted and nothing is hydrated.
	StorePath string

	// SecurityConfigPath receives provisioned access code lines.
	SecurityConfigPath string

	// Crypter seals store lines. Required when StorePath is set.
	Crypter LineCrypter

	// Logger records issuance and hydration events. Optional.
	Logger logging.Logger
}

// Generator issues record IDs and auth codes, remembers everything it issued
// and persists the history so uniqueness survives restarts.
type Generator struct {
	mu                 sync.Mutex
	storePath          string
	securityConfigPath string
	crypter            LineCrypter
	logger             logging.Logger
	ids                map[string]struct{}
	auths              map[string]struct{}
}

var _ AuthGenerator = (*Generator)(nil)

// NewGenerator creates a generator, hydrating issued values from the store
// file when one is configured. Store lines that fail to decrypt or parse are
// logged and skipped.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if cfg.StorePath != "" && cfg.Crypter == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "persistent auth store requires a crypter")
	}

	g := &Generator{
		storePath:          cfg.StorePath,
		securityConfigPath: cfg.SecurityConfigPath,
		crypter:            cfg.Crypter,
		logger:             cfg.Logger,
		ids:                make(map[string]struct{}),
		auths:              make(map[string]struct{}),
	}

	if g.storePath != "" {
		if err := g.hydrate(); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// hydrate replays the persisted store into the issued sets.
func (g *Generator) hydrate() error {
	lines, err := fsutil.ReadLines(g.storePath, true)
	if err != nil {
		return errors.Wrap(err, "failed to read auth store")
	}

	corrupt := 0
	for _, line := range lines {
		plain, err := g.crypter.DecodeDecrypt(line)
		if err != nil {
			corrupt++
			continue
		}

		value, kind, ok := strings.Cut(plain, ",")
		if !ok || value == "" {
			corrupt++
			continue
		}
		switch kind {
		case kindID:
			g.ids[value] = struct{}{}
		case kindAuth:
			g.auths[value] = struct{}{}
		default:
			corrupt++
		}
	}

	if corrupt > 0 {
		g.logWarn(fmt.Sprintf("auth store hydration skipped %d corrupt lines", corrupt))
	}
	g.logInfo(fmt.Sprintf("auth store hydrated: %d ids, %d auth codes", len(g.ids), len(g.auths)))
	return nil
}

// GenerateID issues a new record ID.
func (g *Generator) GenerateID(prefix string, length int) (string, error) {
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	if length == 0 {
		length = DefaultIDLength
	}
	if length <= len(prefix) {
		return "", errors.Wrap(errors.ErrInvalidInput, "id length must exceed prefix length")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := g.issueLocked(g.ids, func() (string, error) {
		digits, err := randomDigits(length - len(prefix))
		if err != nil {
			return "", err
		}
		return prefix + digits, nil
	})
	if err != nil {
		return "", err
	}

	g.logInfo("record id issued")
	return id, nil
}

// GenerateAuth issues a new auth code.
func (g *Generator) GenerateAuth() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	auth, err := g.issueLocked(g.auths, newAuthCode)
	if err != nil {
		return "", err
	}

	g.logInfo("auth code issued")
	return auth, nil
}

// issueLocked draws candidates until one is unused, records it and persists
// the store. A persist failure rolls the value back so the caller can retry.
func (g *Generator) issueLocked(set map[string]struct{}, draw func() (string, error)) (string, error) {
	var value string
	for attempt := 0; ; attempt++ {
		if attempt >= maxIssueRetries {
			return "", errors.Wrap(errors.ErrConflict, "value space exhausted")
		}

		candidate, err := draw()
		if err != nil {
			return "", err
		}
		if _, taken := set[candidate]; !taken {
			value = candidate
			break
		}
	}

	set[value] = struct{}{}
	if err := g.persistLocked(); err != nil {
		delete(set, value)
		g.logError("failed to persist auth store", err)
		return "", err
	}
	return value, nil
}

// persistLocked rewrites the whole store: one sealed line per issued value,
// both kinds, sorted for stable files.
func (g *Generator) persistLocked() error {
	if g.storePath == "" {
		return nil
	}

	var sb strings.Builder
	for _, id := range sortedKeys(g.ids) {
		sealed, err := g.crypter.EncryptEncode(id + "," + kindID)
		if err != nil {
			return errors.Wrap(err, "failed to seal auth store line")
		}
		sb.WriteString(sealed)
		sb.WriteByte('\n')
	}
	for _, auth := range sortedKeys(g.auths) {
		sealed, err := g.crypter.EncryptEncode(auth + "," + kindAuth)
		if err != nil {
			return errors.Wrap(err, "failed to seal auth store line")
		}
		sb.WriteString(sealed)
		sb.WriteByte('\n')
	}

	if err := fsutil.WriteFileAtomic(g.storePath, []byte(sb.String()), 0o600); err != nil {
		return errors.Wrap(err, "failed to write auth store")
	}
	return nil
}

// ProvisionAccessCodes writes count access code lines to the security config
// file and returns the code at position mark.
func (g *Generator) ProvisionAccessCodes(count, mark int) (string, error) {
	if count <= 0 {
		return "", errors.Wrap(errors.ErrInvalidInput, "access code count must be positive")
	}
	if mark < 0 || mark >= count {
		return "", errors.Wrap(errors.ErrInvalidInput, "access code mark out of range")
	}
	if g.securityConfigPath == "" {
		return "", errors.Wrap(errors.ErrInvalidInput, "security config path not configured")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var sb strings.Builder
	var marked string
	for i := 0; i < count; i++ {
		code, err := newAuthCode()
		if err != nil {
			return "", err
		}
		if i == mark {
			marked = code
		}
		sb.WriteString(accessLinePrefix)
		sb.WriteString(code)
		sb.WriteByte('\n')
	}

	if err := fsutil.WriteFileAtomic(g.securityConfigPath, []byte(sb.String()), 0o600); err != nil {
		return "", errors.Wrap(err, "failed to write security config")
	}

	g.logInfo(fmt.Sprintf("%d access codes provisioned", count))
	return marked, nil
}

// IDs returns the issued record IDs, sorted.
func (g *Generator) IDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return sortedKeys(g.ids)
}

// Auths returns the issued auth codes, sorted.
func (g *Generator) Auths() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return sortedKeys(g.auths)
}

func (g *Generator) logInfo(msg string) {
	if g.logger != nil {
		g.logger.Info(msg)
	}
}

func (g *Generator) logWarn(msg string) {
	if g.logger != nil {
		g.logger.Warn(msg)
	}
}

func (g *Generator) logError(msg string, err error) {
	if g.logger != nil {
		g.logger.Error(msg, err)
	}
}

// newAuthCode draws three letters from the code alphabet followed by three
// digits.
func newAuthCode() (string, error) {
	letters, err := randomLetters(authLetterCount)
	if err != nil {
		return "", err
	}
	digits, err := randomDigits(authDigitCount)
	if err != nil {
		return "", err
	}
	return letters + digits, nil
}

// randomDigits generates a cryptographically secure random digit string.
func randomDigits(count int) (string, error) {
	digits := make([]byte, count)
	for i := 0; i < count; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", errors.Wrap(err, "failed to generate random digit")
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// randomLetters generates a cryptographically secure random string drawn
// from the auth code alphabet.
func randomLetters(count int) (string, error) {
	poolLen := big.NewInt(int64(len(authCodeLetters)))
	letters := make([]byte, count)
	for i := 0; i < count; i++ {
		n, err := rand.Int(rand.Reader, poolLen)
		if err != nil {
			return "", errors.Wrap(err, "failed to generate random letter")
		}
		letters[i] = authCodeLetters[n.Int64()]
	}
	return string(letters), nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
