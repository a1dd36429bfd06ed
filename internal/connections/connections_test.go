package connections

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/vmunix/animelib/internal/events"
	"github.com/vmunix/animelib/internal/preference"
)

func TestManager_Get(t *testing.T) {
	m := NewManager(preference.NewConnectionsPreferences(preference.NewMemoryStore(nil), nil), nil, nil)

	c, err := m.Get(DiscordID)
	require.NoError(t, err)
	assert.Equal(t, "Discord", c.Name)
	assert.Same(t, c, m.Discord())
	assert.Len(t, m.All(), 1)

	_, err = m.Get(1)
	assert.ErrorIs(t, err, ErrUnknownConnection)
}

func TestConnection_LoginLogout(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()
	store := preference.NewMemoryStore(nil)
	prefs := preference.NewConnectionsPreferences(store, preference.NewKeyringStore("animelib-test"))

	bus := events.NewBus(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer bus.Close()
	changes := bus.SubscribeEntity(ctx, events.EntityConnection, DiscordID, 4)

	m := NewManager(prefs, bus, nil)
	discord := m.Discord()

	ok, err := discord.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, discord.Login(ctx, "user", "token"))
	ok, err = discord.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"pref_anime_connections_username_201"}, keys)

	require.NoError(t, discord.Logout(ctx))
	ok, err = discord.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, events.EventConnectionLoggedIn, (<-changes).EventType())
	assert.Equal(t, events.EventConnectionLoggedOut, (<-changes).EventType())
}

func TestConnection_LoginRequiresCredentials(t *testing.T) {
	m := NewManager(preference.NewConnectionsPreferences(preference.NewMemoryStore(nil), nil), nil, nil)
	assert.Error(t, m.Discord().Login(context.Background(), "", "x"))
}
