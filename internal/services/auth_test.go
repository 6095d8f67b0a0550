package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_FirstRun(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.session.IsFirstTime(ctx)
	require.NoError(t, err)
	assert.True(t, first)
	assert.False(t, e.session.IsUnlocked())

	key, err := e.session.Setup(ctx, testIdentifier, testPassword, testRecovery)
	require.NoError(t, err)
	assert.Equal(t, testRecovery, key)
	assert.True(t, e.session.IsUnlocked())

	first, err = e.session.IsFirstTime(ctx)
	require.NoError(t, err)
	assert.False(t, first)

	u, err := metadata.LoadUser(ctx, e.rm.Metadata(e.db))
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, testIdentifier, u.Identifier)

	want, err := cryptox.DefaultKDF().DeriveVerificationSecret(testPassword, testRecovery)
	require.NoError(t, err)
	assert.Equal(t, want, u.VerificationSecret)
}

func TestSetup_GeneratesRecoveryKey(t *testing.T) {
	e := newEnv(t)

	key, err := e.session.Setup(context.Background(), testIdentifier, testPassword, "")
	require.NoError(t, err)
	assert.True(t, cryptox.ValidRecoveryKey(key))
}

func TestSetup_RejectsMalformedRecoveryKey(t *testing.T) {
	e := newEnv(t)

	_, err := e.session.Setup(context.Background(), testIdentifier, testPassword, "abcde-fghij")
	require.ErrorIs(t, err, common.ErrInvalidRecoveryKey)
	assert.False(t, e.session.IsUnlocked())

	first, err := e.session.IsFirstTime(context.Background())
	require.NoError(t, err)
	assert.True(t, first)
}

func TestUnlock(t *testing.T) {
	e := unlockedEnv(t)
	ctx := context.Background()
	e.session.Logout(ctx)

	cases := []struct {
		name                         string
		identifier, password, recKey string
		want                         bool
	}{
		{"wrong password", testIdentifier, "pw2", testRecovery, false},
		{"wrong identifier", "bob", testPassword, testRecovery, false},
		{"wrong recovery key", testIdentifier, testPassword, "ABCDE-FGHIJ-KLMNP", false},
		{"correct", testIdentifier, testPassword, testRecovery, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := e.session.Unlock(ctx, tc.identifier, tc.password, tc.recKey)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
			assert.Equal(t, tc.want, e.session.IsUnlocked())
		})
	}
}

func TestUnlock_BeforeSetup(t *testing.T) {
	e := newEnv(t)

	ok, err := e.session.Unlock(context.Background(), testIdentifier, testPassword, testRecovery)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, e.session.IsUnlocked())
}

func TestUnlock_RestoresSetupKey(t *testing.T) {
	e := unlockedEnv(t)
	ctx := context.Background()

	before, err := e.session.DeriveSubkey(common.BridgeTokenSubkeyInfo)
	require.NoError(t, err)

	e.session.Logout(ctx)
	ok, err := e.session.Unlock(ctx, testIdentifier, testPassword, testRecovery)
	require.NoError(t, err)
	require.True(t, ok)

	after, err := e.session.DeriveSubkey(common.BridgeTokenSubkeyInfo)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLogout_LocksAndRunsHooks(t *testing.T) {
	e := unlockedEnv(t)
	ctx := context.Background()

	var unlocks, logouts int
	e.session.OnUnlock(func(context.Context) { unlocks++ })
	e.session.OnLogout(func(context.Context) { logouts++ })

	e.session.Logout(ctx)
	assert.False(t, e.session.IsUnlocked())
	assert.Equal(t, 1, logouts)

	err := e.session.WithKey(func([]byte) error { return nil })
	require.ErrorIs(t, err, common.ErrNotUnlocked)
	_, err = e.session.DeriveSubkey("x")
	require.ErrorIs(t, err, common.ErrNotUnlocked)

	ok, err := e.session.Unlock(ctx, testIdentifier, testPassword, testRecovery)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, unlocks)
}

func TestWithKey_ProvidesEncryptionKey(t *testing.T) {
	e := unlockedEnv(t)

	want, err := cryptox.DefaultKDF().DeriveEncryptionKey(testPassword, testRecovery)
	require.NoError(t, err)

	err = e.session.WithKey(func(key []byte) error {
		assert.Equal(t, want, key)
		return nil
	})
	require.NoError(t, err)
}

func TestSetup_StoreFailure(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.db.Close())

	_, err := e.session.Setup(context.Background(), testIdentifier, testPassword, testRecovery)
	require.Error(t, err)
	assert.False(t, e.session.IsUnlocked())
}
