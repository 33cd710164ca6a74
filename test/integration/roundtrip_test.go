// Package integration exercises the full security stack end to end: one
// process encrypts records and shuts down, a second process rebuilds every
// component from the persisted key store and IV vault and reads the data back.
package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/app"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/config"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/fsutil"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/logging"
	recordsDomain "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/records/domain"
)

const studentLine = "STU0001,John Doe,10th,Science,3.8"

func integrationConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		LogLevel:                "error",
		DataDir:                 t.TempDir(),
		SecurityDir:             ".security",
		KeyStoreFile:            "keystore.enc",
		IVVaultFile:             "ivb.bin",
		KeyStorePassword:        "integration-store-pass",
		KeyEntryPassword:        "integration-entry-pass",
		KeyAlias:                "KeyAlias1",
		AuthStoreFile:           "generated_auths.txt",
		SecurityConfigFile:      "security_config.txt",
		UsersFile:               "users.txt",
		LogFile:                 "application_logs.txt",
		LogMaxEntries:           500,
		LogAutoSave:             true,
		MetricsEnabled:          false,
		RateLimitEnabled:        false,
		LockoutMaxAttempts:      3,
		LockoutDuration:         time.Minute,
		RateLimitRequestsPerSec: 5,
		RateLimitBurst:          10,
	}
}

func TestEncryptedLineSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg := integrationConfig(t)

	// First session: build the full stack and seal a record line.
	first := app.NewProvider(cfg)
	components, err := first.Components(ctx)
	require.NoError(t, err)
	require.False(t, first.Fallback(), "specialized components must come up over a fresh data dir")

	sealed, err := components.Crypter.EncryptEncode(studentLine)
	require.NoError(t, err)
	assert.NotEqual(t, studentLine, sealed)
	assert.NotContains(t, sealed, "John Doe")

	// The same session must read its own line back.
	opened, err := components.Crypter.DecodeDecrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, studentLine, opened)

	require.NoError(t, first.Shutdown(ctx))

	// Second session: a fresh provider over the same key store and IV vault
	// files must recover the exact plaintext.
	second := app.NewProvider(cfg)
	defer func() { require.NoError(t, second.Shutdown(ctx)) }()

	rebuilt, err := second.Components(ctx)
	require.NoError(t, err)
	require.False(t, second.Fallback())

	opened, err = rebuilt.Crypter.DecodeDecrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, studentLine, opened)
}

func TestRecordsPersistAcrossSessions(t *testing.T) {
	ctx := context.Background()
	cfg := integrationConfig(t)

	student := recordsDomain.Student{
		ID:         "STU0001",
		Name:       "John Doe",
		Age:        16,
		Gender:     "M",
		Grade:      "10th",
		Discipline: "Science",
		Address:    "12 Palm Street",
		Phone:      "+2348031234567",
		CGPA:       3.8,
	}
	subject := recordsDomain.Subject{ID: "SUB0001", Name: "Physics", Discipline: "Science"}

	first := app.NewProvider(cfg)
	records, err := first.Records(ctx)
	require.NoError(t, err)
	require.NoError(t, records.Students.Save(student))
	require.NoError(t, records.Subjects.Save(subject))
	require.NoError(t, first.Shutdown(ctx))

	// The on-disk record files must not leak plaintext.
	raw, err := os.ReadFile(cfg.DataPath("students_records.txt"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "John Doe")

	second := app.NewProvider(cfg)
	defer func() { require.NoError(t, second.Shutdown(ctx)) }()

	reloaded, err := second.Records(ctx)
	require.NoError(t, err)

	got, err := reloaded.Students.FindByID("STU0001")
	require.NoError(t, err)
	assert.Equal(t, student, got)

	sub, err := reloaded.Subjects.FindByID("SUB0001")
	require.NoError(t, err)
	assert.Equal(t, "Physics", sub.Name)
}

func TestCorruptLineDoesNotAbortReload(t *testing.T) {
	ctx := context.Background()
	cfg := integrationConfig(t)

	student := recordsDomain.Student{
		ID:         "STU0001",
		Name:       "John Doe",
		Age:        16,
		Gender:     "M",
		Grade:      "10th",
		Discipline: "Science",
		Address:    "12 Palm Street",
		Phone:      "+2348031234567",
		CGPA:       3.8,
	}

	first := app.NewProvider(cfg)
	records, err := first.Records(ctx)
	require.NoError(t, err)
	require.NoError(t, records.Students.Save(student))
	require.NoError(t, first.Shutdown(ctx))

	// Simulate on-disk tampering between sessions.
	require.NoError(t, fsutil.AppendLine(cfg.DataPath("students_records.txt"), "!!not-a-sealed-line!!", 0o600))

	second := app.NewProvider(cfg)
	defer func() { require.NoError(t, second.Shutdown(ctx)) }()

	reloaded, err := second.Records(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, reloaded.Students.Count())
	assert.Equal(t, 1, reloaded.Students.CorruptLines())

	got, err := reloaded.Students.FindByID("STU0001")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name)
}

func TestSecurityLogAndCredentialsSurviveRestart(t *testing.T) {
	ctx := context.Background()
	cfg := integrationConfig(t)

	first := app.NewProvider(cfg)
	securityLog, err := first.SecurityLog(ctx)
	require.NoError(t, err)
	securityLog.Info("admin session opened")

	credentials, err := first.Credentials(ctx)
	require.NoError(t, err)
	require.NoError(t, credentials.SaveCredential("ADM0001", "Adm1n#Pass99", "ADMIN"))
	require.NoError(t, first.Shutdown(ctx))

	// Log and credential files are sealed on disk.
	raw, err := os.ReadFile(cfg.LogPath())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "admin session opened")

	second := app.NewProvider(cfg)
	defer func() { require.NoError(t, second.Shutdown(ctx)) }()

	reloadedLog, err := second.SecurityLog(ctx)
	require.NoError(t, err)
	entries := reloadedLog.FilterByLevel(logging.LevelInfo)
	require.NotEmpty(t, entries)
	found := false
	for _, entry := range entries {
		if entry.Message == "admin session opened" {
			found = true
		}
	}
	assert.True(t, found, "logged entry must survive the restart")

	reloadedCreds, err := second.Credentials(ctx)
	require.NoError(t, err)
	role, err := reloadedCreds.VerifyCredential("ADM0001", "Adm1n#Pass99")
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", role)

	_, err = reloadedCreds.VerifyCredential("ADM0001", "wrong-password")
	assert.Error(t, err)
}

func TestRotationPreservesFreshDataOnly(t *testing.T) {
	ctx := context.Background()
	cfg := integrationConfig(t)

	provider := app.NewProvider(cfg)
	defer func() { require.NoError(t, provider.Shutdown(ctx)) }()

	components, err := provider.Components(ctx)
	require.NoError(t, err)

	before, err := components.Crypter.EncryptEncode(studentLine)
	require.NoError(t, err)

	require.NoError(t, components.Crypter.RotateKey(ctx))

	// Lines sealed under the retired key are unreadable afterwards.
	_, err = components.Crypter.DecodeDecrypt(before)
	assert.Error(t, err)

	after, err := components.Crypter.EncryptEncode(studentLine)
	require.NoError(t, err)
	opened, err := components.Crypter.DecodeDecrypt(after)
	require.NoError(t, err)
	assert.Equal(t, studentLine, opened)

	report := components.Crypter.SecurityAudit()
	assert.True(t, report.Passed())
}
