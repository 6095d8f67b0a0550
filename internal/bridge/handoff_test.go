package bridge

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/filex"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenPublisher_PublishAndRevoke(t *testing.T) {
	keys := &fakeKeys{key: testKey}
	path := filepath.Join(t.TempDir(), "bridge.token")
	p := NewTokenPublisher(path, time.Minute, keys, logging.Discard())
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx))
	tok, err := filex.ReadTrimmed(path)
	require.NoError(t, err)
	require.NoError(t, VerifyToken(tok, testKey))

	require.NoError(t, p.Revoke(ctx))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, p.Revoke(ctx))
}

func TestTokenPublisher_LockedWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.token")
	p := NewTokenPublisher(path, time.Minute, &fakeKeys{locked: true}, logging.Discard())

	require.ErrorIs(t, p.Publish(context.Background()), common.ErrNotUnlocked)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestTokenPublisher_RunRefresher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.token")
	p := NewTokenPublisher(path, 40*time.Millisecond, &fakeKeys{key: testKey}, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.RunRefresher(ctx, func() bool { return true })
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}

func TestTokenPublisher_ZeroTTLUsesMinimum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.token")
	p := NewTokenPublisher(path, 0, &fakeKeys{key: testKey}, logging.Discard())
	assert.Equal(t, MinTokenTTL, p.ttl)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.RunRefresher(ctx, func() bool { return false })
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}
