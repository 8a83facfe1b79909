package keyring

import (
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebschrader/gpg-verify-update-hook/internal/status"
)

func requireGPG(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("gpg"); err != nil {
		t.Skip("gpg not installed")
	}
}

func TestExecEngine_GoodSignature(t *testing.T) {
	requireGPG(t)
	ctx := context.Background()
	entity := newSigningEntity(t, "Dev One", "dev1@example.com")
	payload := []byte("payload\n")

	ring, err := NewExecEngine("").NewKeyring(ctx)
	require.NoError(t, err)
	defer ring.Close()

	require.NoError(t, ring.Import(ctx, armoredPublicKey(t, entity)))

	events, err := ring.Verify(ctx, payload, detachSign(t, entity, payload))
	require.NoError(t, err)

	result := status.Interpret(events)
	assert.Equal(t, status.Verified, result.Verdict)
	assert.Contains(t, result.SignerIdentity, "dev1@example.com")
}

func TestExecEngine_TamperedPayload(t *testing.T) {
	requireGPG(t)
	ctx := context.Background()
	entity := newSigningEntity(t, "Dev One", "dev1@example.com")

	ring, err := NewExecEngine("").NewKeyring(ctx)
	require.NoError(t, err)
	defer ring.Close()

	require.NoError(t, ring.Import(ctx, armoredPublicKey(t, entity)))

	signature := detachSign(t, entity, []byte("original\n"))
	events, err := ring.Verify(ctx, []byte("tampered\n"), signature)
	require.NoError(t, err)

	assert.Equal(t, status.BadSignature, status.Interpret(events).Verdict)
}

func TestExecEngine_MissingKey(t *testing.T) {
	requireGPG(t)
	ctx := context.Background()
	entity := newSigningEntity(t, "Stranger", "stranger@example.com")
	payload := []byte("payload\n")

	ring, err := NewExecEngine("").NewKeyring(ctx)
	require.NoError(t, err)
	defer ring.Close()

	events, err := ring.Verify(ctx, payload, detachSign(t, entity, payload))
	require.NoError(t, err)

	result := status.Interpret(events)
	assert.Equal(t, status.SignatureError, result.Verdict)
	assert.NotEmpty(t, result.MissingKeyID)
}

func TestExecEngine_GarbageImportFails(t *testing.T) {
	requireGPG(t)
	ctx := context.Background()

	ring, err := NewExecEngine("").NewKeyring(ctx)
	require.NoError(t, err)
	defer ring.Close()

	assert.Error(t, ring.Import(ctx, []byte("this is not key material")))
}

func TestExecEngine_CloseRemovesHome(t *testing.T) {
	requireGPG(t)
	ctx := context.Background()

	ring, err := NewExecEngine("").NewKeyring(ctx)
	require.NoError(t, err)

	home := ring.(*execKeyring).home
	_, err = os.Stat(home)
	require.NoError(t, err)

	require.NoError(t, ring.Close())
	_, err = os.Stat(home)
	assert.True(t, os.IsNotExist(err))

	// Closing twice is fine.
	require.NoError(t, ring.Close())
}

func TestExecEngine_MissingProgram(t *testing.T) {
	ctx := context.Background()

	ring, err := NewExecEngine("definitely-not-a-real-gpg-binary").NewKeyring(ctx)
	require.NoError(t, err)
	defer ring.Close()

	assert.Error(t, ring.Import(ctx, []byte("key")))
	_, err = ring.Verify(ctx, []byte("payload"), []byte("sig"))
	assert.Error(t, err)
}
