package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/store"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	got, err := s.Tokens(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty())

	want := model.Session{AccessToken: "acc", RefreshToken: "ref"}
	require.NoError(t, s.SetTokens(ctx, want))
	got, err = s.Tokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, s.Clear(ctx))
	got, err = s.Tokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Session{}, got)
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory(model.Session{}))
}

func TestPersistent(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "ledgr.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	exerciseStore(t, NewPersistent(db))
}
