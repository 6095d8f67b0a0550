package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	bolt, err := OpenBoltStore(filepath.Join(t.TempDir(), "sub", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"bolt":   bolt,
	}
}

func TestStore_Semantics(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Get(ctx, "k")
			require.ErrorIs(t, err, common.ErrNotFound)

			require.NoError(t, s.Set(ctx, "k", []byte("v1")))
			require.NoError(t, s.Set(ctx, "k", []byte("v2")))
			v, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), v)

			require.NoError(t, s.Delete(ctx, "k"))
			require.NoError(t, s.Delete(ctx, "k"))
			_, err = s.Get(ctx, "k")
			require.ErrorIs(t, err, common.ErrNotFound)
		})
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 'X'

	out, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)
}

func TestJSONHelpers(t *testing.T) {
	type payload struct {
		Website string `json:"website"`
	}

	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, s, KeyPendingSave, payload{Website: "bank.com"}))

	var got payload
	require.NoError(t, GetJSON(ctx, s, KeyPendingSave, &got))
	assert.Equal(t, "bank.com", got.Website)

	require.NoError(t, s.Set(ctx, "broken", []byte("{")))
	require.ErrorContains(t, GetJSON(ctx, s, "broken", &got), "decode cache[broken]")

	require.ErrorIs(t, GetJSON(ctx, s, "absent", &got), common.ErrNotFound)
}

func TestBoltStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s, err := OpenBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyVault, []byte("[]")))
	require.NoError(t, s.Close())

	s, err = OpenBoltStore(path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Get(ctx, KeyVault)
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}
