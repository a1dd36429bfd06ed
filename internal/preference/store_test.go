package preference

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	_ "modernc.org/sqlite"

	"github.com/vmunix/animelib/internal/events"
	"github.com/vmunix/animelib/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Apply(context.Background(), db))
	return db
}

func TestSQLStore(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus(nil, nil)
	defer bus.Close()
	changes := bus.Subscribe(events.EventPreferenceChanged, 10)

	s := NewSQLStore(setupTestDB(t), bus, nil)

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", "one"))
	require.NoError(t, s.Set(ctx, "k", "two"))
	require.NoError(t, s.Set(ctx, AppStateKey("hidden"), "x"))

	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", v)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, keys)

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))

	// two sets and one delete; app-state and no-op deletes are silent
	var got []*events.PreferenceChanged
	timeout := time.After(time.Second)
	for len(got) < 3 {
		select {
		case e := <-changes:
			got = append(got, e.(*events.PreferenceChanged))
		case <-timeout:
			t.Fatalf("got %d events, want 3", len(got))
		}
	}
	assert.Equal(t, "k", got[0].Key)
	assert.True(t, got[2].Deleted)
	assert.Empty(t, changes)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()
	s := NewKeyringStore("")

	_, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "token", "secret"))
	v, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "secret", v)

	require.NoError(t, s.Delete(ctx, "token"))
	require.NoError(t, s.Delete(ctx, "token"))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestConnectionsPreferences_SecretsSplit(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()
	plain := NewMemoryStore(nil)
	p := NewConnectionsPreferences(plain, NewKeyringStore("animelib-test"))

	require.NoError(t, p.SetCredentials(ctx, 201, "user", "hunter2"))

	keys, err := plain.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"pref_anime_connections_username_201"}, keys, "password stays out of the plain store")

	pw, err := p.Password(201).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pw)

	require.NoError(t, p.ClearCredentials(ctx, 201))
	user, err := p.Username(201).Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, user)
	pw, err = p.Password(201).Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, pw)
}

func TestTrackPreferences_NilSecretsUsesStore(t *testing.T) {
	ctx := context.Background()
	plain := NewMemoryStore(nil)
	p := NewTrackPreferences(plain, nil)

	require.NoError(t, p.SetCredentials(ctx, 2, "me", "pw"))
	keys, err := plain.Keys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}
