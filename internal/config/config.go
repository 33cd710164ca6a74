// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration. Security constants (key sizes,
// iteration counts, rotation windows, the decrypt-throttle ceiling) are
// compiled in and deliberately absent here; only file locations, passwords and
// operational knobs are environment-tunable.
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// DataDir is the root directory for all persisted application files.
	DataDir string
	// SecurityDir is the directory (relative to DataDir) holding the key store
	// and IV vault files.
	SecurityDir string

	// KeyStoreFile is the key-store container file name inside SecurityDir.
	KeyStoreFile string
	// IVVaultFile is the IV vault file name inside SecurityDir.
	IVVaultFile string

	// KeyStorePassword protects the key-store container as a whole.
	KeyStorePassword string
	// KeyEntryPassword protects the key entry inside the container. It is
	// intentionally distinct from KeyStorePassword; one password alone is not
	// enough to recover the key.
	KeyEntryPassword string
	// KeyAlias is the name of the single key entry inside the container.
	KeyAlias string

	// KMSKeyURI selects the keeper that seals the key-store container
	// (e.g., "base64key://...", "hashivault://...", "awskms://..."). When
	// empty, a local keeper derived from KeyStorePassword is used.
	KMSKeyURI string

	// AuthStoreFile holds generated IDs and auth codes (relative to DataDir).
	AuthStoreFile string
	// SecurityConfigFile receives provisioned access-code lines (relative to DataDir).
	SecurityConfigFile string
	// UsersFile holds user credentials (relative to DataDir).
	UsersFile string

	// LogFile is the encrypted security log (relative to DataDir).
	LogFile string
	// LogMaxEntries caps the in-memory security-log buffer.
	LogMaxEntries int
	// LogAutoSave flushes the security log after every appended entry.
	LogAutoSave bool

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string

	// RateLimitEnabled indicates whether credential verification is rate limited.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of verification attempts allowed per second per user.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for credential verification rate limiting.
	RateLimitBurst int

	// LockoutMaxAttempts is the maximum number of failed login attempts before a lockout.
	LockoutMaxAttempts int
	// LockoutDuration is the duration for which a user is locked out after maximum attempts.
	LockoutDuration time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// File layout
		DataDir:      env.GetString("DATA_DIR", "."),
		SecurityDir:  env.GetString("SECURITY_DIR", ".system_configs/.security_configs"),
		KeyStoreFile: env.GetString("KEYSTORE_FILE", ".sam_app_keystore.enc"),
		IVVaultFile:  env.GetString("IV_VAULT_FILE", ".ivb.bin"),

		// Key-store protection
		KeyStorePassword: env.GetString("KEYSTORE_PASSWORD", "KSPass475"),
		KeyEntryPassword: env.GetString("KEY_ENTRY_PASSWORD", "KEYEntPass991"),
		KeyAlias:         env.GetString("KEY_ALIAS", "KeyAlias1"),
		KMSKeyURI:        env.GetString("KMS_KEY_URI", ""),

		// Auth and credential files
		AuthStoreFile:      env.GetString("AUTH_STORE_FILE", "generated_auths.txt"),
		SecurityConfigFile: env.GetString("SECURITY_CONFIG_FILE", "security_config.txt"),
		UsersFile:          env.GetString("USERS_FILE", "users.txt"),

		// Security log
		LogFile:       env.GetString("SECURITY_LOG_FILE", "application_logs.txt"),
		LogMaxEntries: env.GetInt("SECURITY_LOG_MAX_ENTRIES", 1000),
		LogAutoSave:   env.GetBool("SECURITY_LOG_AUTO_SAVE", true),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "sam_security"),

		// Credential verification pacing
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 5.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 10),

		// Account lockout
		LockoutMaxAttempts: env.GetInt("LOCKOUT_MAX_ATTEMPTS", 10),
		LockoutDuration:    env.GetDuration("LOCKOUT_DURATION_MINUTES", 30, time.Minute),
	}
}

// KeyStorePath returns the path of the key-store container file.
func (c *Config) KeyStorePath() string {
	return filepath.Join(c.DataDir, c.SecurityDir, c.KeyStoreFile)
}

// IVVaultPath returns the path of the IV vault file.
func (c *Config) IVVaultPath() string {
	return filepath.Join(c.DataDir, c.SecurityDir, c.IVVaultFile)
}

// AuthStorePath returns the path of the generated-auth store file.
func (c *Config) AuthStorePath() string {
	return filepath.Join(c.DataDir, c.AuthStoreFile)
}

// SecurityConfigPath returns the path of the security-config file.
func (c *Config) SecurityConfigPath() string {
	return filepath.Join(c.DataDir, c.SecurityConfigFile)
}

// UsersPath returns the path of the user credentials file.
func (c *Config) UsersPath() string {
	return filepath.Join(c.DataDir, c.UsersFile)
}

// LogPath returns the path of the encrypted security log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, c.LogFile)
}

// DataPath resolves a data file name (e.g., a repository file) under DataDir.
func (c *Config) DataPath(name string) string {
	return filepath.Join(c.DataDir, name)
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
