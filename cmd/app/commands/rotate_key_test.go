package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRotateKey(t *testing.T) {
	ctx := context.Background()
	crypter := testCrypter(t)
	logger := slog.Default()

	before := crypter.Key()
	var out bytes.Buffer
	require.NoError(t, RunRotateKey(ctx, crypter, logger, &out))

	assert.Contains(t, out.String(), "engine key rotated")
	assert.NotEqual(t, before, crypter.Key())
}

func TestRunRotateIVs(t *testing.T) {
	crypter := testCrypter(t)
	logger := slog.Default()

	before := crypter.IV()
	var out bytes.Buffer
	require.NoError(t, RunRotateIVs(crypter, logger, &out))

	assert.Contains(t, out.String(), "initialization vectors rotated")
	assert.NotEqual(t, before, crypter.IV())
}
