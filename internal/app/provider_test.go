package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		LogLevel:                "error",
		DataDir:                 t.TempDir(),
		SecurityDir:             ".security",
		KeyStoreFile:            "keystore.enc",
		IVVaultFile:             "ivb.bin",
		KeyStorePassword:        "store-pass-475",
		KeyEntryPassword:        "entry-pass-991",
		KeyAlias:                "KeyAlias1",
		AuthStoreFile:           "generated_auths.txt",
		SecurityConfigFile:      "security_config.txt",
		UsersFile:               "users.txt",
		LogFile:                 "application_logs.txt",
		LogMaxEntries:           100,
		LogAutoSave:             true,
		MetricsEnabled:          false,
		RateLimitEnabled:        false,
		LockoutMaxAttempts:      3,
		LockoutDuration:         time.Minute,
		RateLimitRequestsPerSec: 5,
		RateLimitBurst:          10,
	}
}

func TestProviderBuildsOneBundle(t *testing.T) {
	ctx := context.Background()
	provider := NewProvider(testConfig(t))
	defer func() { require.NoError(t, provider.Shutdown(ctx)) }()

	// Concurrent first access must observe exactly one constructed bundle.
	const callers = 8
	bundles := make([]*Components, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			components, err := provider.Components(ctx)
			assert.NoError(t, err)
			bundles[i] = components
		}(i)
	}
	wg.Wait()

	for _, b := range bundles {
		require.NotNil(t, b)
		assert.Same(t, bundles[0], b)
	}
	assert.False(t, provider.Fallback())
	assert.NotNil(t, bundles[0].Crypter)
	assert.NotNil(t, bundles[0].Logger)
	assert.NotNil(t, bundles[0].Generator)
}

func TestProviderShutdownIsIdempotentAndRebuilds(t *testing.T) {
	ctx := context.Background()
	provider := NewProvider(testConfig(t))

	first, err := provider.Components(ctx)
	require.NoError(t, err)

	require.NoError(t, provider.Shutdown(ctx))
	require.NoError(t, provider.Shutdown(ctx), "second shutdown must not fail")

	// A wiped engine refuses work.
	_, err = first.Crypter.Encrypt([]byte("after shutdown"))
	require.Error(t, err)

	second, err := provider.Components(ctx)
	require.NoError(t, err)
	require.NotSame(t, first, second)

	sealed, err := second.Crypter.EncryptEncode("rebuilt")
	require.NoError(t, err)
	plain, err := second.Crypter.DecodeDecrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "rebuilt", plain)

	require.NoError(t, provider.Shutdown(ctx))
}

func TestProviderFallsBackToBaselineComponents(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	// Identical passwords fail key-store construction, so the specialized
	// bundle cannot be built.
	cfg.KeyEntryPassword = cfg.KeyStorePassword

	provider := NewProvider(cfg)
	defer func() { require.NoError(t, provider.Shutdown(ctx)) }()

	components, err := provider.Components(ctx)
	require.NoError(t, err, "fallback must yield a working bundle, not an error")
	assert.True(t, provider.Fallback())
	require.Error(t, provider.InitError("components"))

	// The fallback engine still encrypts and decrypts.
	sealed, err := components.Crypter.EncryptEncode("degraded but alive")
	require.NoError(t, err)
	plain, err := components.Crypter.DecodeDecrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "degraded but alive", plain)
}

func TestProviderRecordsAndCredentials(t *testing.T) {
	ctx := context.Background()
	provider := NewProvider(testConfig(t))
	defer func() { require.NoError(t, provider.Shutdown(ctx)) }()

	records, err := provider.Records(ctx)
	require.NoError(t, err)
	assert.True(t, records.Students.Loaded())

	again, err := provider.Records(ctx)
	require.NoError(t, err)
	assert.Same(t, records, again)

	credentials, err := provider.Credentials(ctx)
	require.NoError(t, err)
	require.NoError(t, credentials.SaveCredential("ADM0001", "Adm1n#Pass99", "ADMIN"))
	role, err := credentials.VerifyCredential("ADM0001", "Adm1n#Pass99")
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", role)
}

func TestProviderOverrideAndResetSeam(t *testing.T) {
	ctx := context.Background()
	provider := NewProvider(testConfig(t))
	defer func() { require.NoError(t, provider.Shutdown(ctx)) }()

	substituted := &Components{}
	provider.OverrideComponents(substituted)

	got, err := provider.Components(ctx)
	require.NoError(t, err)
	assert.Same(t, substituted, got)

	provider.ResetComponents()
	rebuilt, err := provider.Components(ctx)
	require.NoError(t, err)
	assert.NotSame(t, substituted, rebuilt)
}
