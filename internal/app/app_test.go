package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/qcalc/internal/config"
	"github.com/kobzarvs/qcalc/internal/history"
	"github.com/kobzarvs/qcalc/internal/session"
	"github.com/kobzarvs/qcalc/internal/ui"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	store, err := OpenStore(ctx, config.SessionOptions{Store: "none"})
	require.NoError(t, err)
	assert.IsType(t, &session.MemoryStore{}, store)

	dir := filepath.Join(t.TempDir(), "state")
	store, err = OpenStore(ctx, config.SessionOptions{Store: "file", Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &session.FileStore{}, store)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	store, err = OpenStore(ctx, config.SessionOptions{Store: "redis", RedisAddr: mr.Addr(), RedisTTL: "1h"})
	require.NoError(t, err)
	assert.IsType(t, &session.RedisStore{}, store)
	require.NoError(t, store.Close())
}

func TestOpenStoreRedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = OpenStore(context.Background(), config.SessionOptions{Store: "redis", RedisAddr: addr})
	assert.Error(t, err)
}

func TestTrackAndRestore(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	cfg := config.Default()

	m := session.NewManager(store, SessionID, 0)
	u := ui.New(cfg, history.New(10))
	require.NoError(t, Restore(ctx, m, u))
	Track(m, u)

	u.Session().Insert("7*6")
	u.Session().Commit()
	u.Session().Insert("+1")
	require.NoError(t, m.Stop(ctx))

	m2 := session.NewManager(store, SessionID, 0)
	u2 := ui.New(cfg, history.New(10))
	require.NoError(t, Restore(ctx, m2, u2))
	assert.Equal(t, "42+1", u2.Session().Text())
	assert.Equal(t, 42.0, u2.Session().LastAnswer())
	require.Equal(t, 1, u2.History().Len())
	assert.Equal(t, "7*6", u2.History().Entries()[0].Expression)
	require.NoError(t, m2.Stop(ctx))
}
