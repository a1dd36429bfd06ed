// Package connections registers external services that are not trackers,
// such as Discord rich presence.
package connections

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/vmunix/animelib/internal/events"
	"github.com/vmunix/animelib/internal/preference"
)

// DiscordID identifies the Discord connection.
const DiscordID int64 = 201

// ErrUnknownConnection is returned when no connection has the requested ID.
var ErrUnknownConnection = errors.New("unknown connection")

// Connection is one external service.
type Connection struct {
	ID        int64
	Name      string
	LogoColor uint32 // 0xRRGGBB

	m *Manager
}

// IsLoggedIn reports whether both a username and a password are stored.
func (c *Connection) IsLoggedIn(ctx context.Context) (bool, error) {
	user, err := c.m.prefs.Username(c.ID).Get(ctx)
	if err != nil {
		return false, fmt.Errorf("%s username: %w", c.Name, err)
	}
	pass, err := c.m.prefs.Password(c.ID).Get(ctx)
	if err != nil {
		return false, fmt.Errorf("%s password: %w", c.Name, err)
	}
	return user != "" && pass != "", nil
}

// Login stores credentials and announces the connection.
func (c *Connection) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%s: username and password are required", c.Name)
	}
	if err := c.m.prefs.SetCredentials(ctx, c.ID, username, password); err != nil {
		return fmt.Errorf("%s login: %w", c.Name, err)
	}
	c.m.publish(ctx, events.EventConnectionLoggedIn, c)
	return nil
}

// Logout forgets credentials and token.
func (c *Connection) Logout(ctx context.Context) error {
	if err := c.m.prefs.ClearCredentials(ctx, c.ID); err != nil {
		return fmt.Errorf("%s logout: %w", c.Name, err)
	}
	c.m.publish(ctx, events.EventConnectionLoggedOut, c)
	return nil
}

// Manager is the static connection registry.
type Manager struct {
	prefs       *preference.ConnectionsPreferences
	bus         events.Publisher // nil if not configured
	log         *slog.Logger
	connections []*Connection
}

// NewManager creates the connection registry. bus may be nil.
func NewManager(prefs *preference.ConnectionsPreferences, bus events.Publisher, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{prefs: prefs, bus: bus, log: log.With("component", "connections")}
	m.connections = []*Connection{
		{ID: DiscordID, Name: "Discord", LogoColor: 0x5865F2, m: m},
	}
	return m
}

// Discord returns the Discord connection.
func (m *Manager) Discord() *Connection {
	c, _ := m.Get(DiscordID)
	return c
}

func (m *Manager) All() []*Connection {
	return append([]*Connection(nil), m.connections...)
}

func (m *Manager) Get(id int64) (*Connection, error) {
	c, ok := lo.Find(m.connections, func(c *Connection) bool { return c.ID == id })
	if !ok {
		return nil, fmt.Errorf("connection %d: %w", id, ErrUnknownConnection)
	}
	return c, nil
}

func (m *Manager) publish(ctx context.Context, eventType string, c *Connection) {
	if m.bus == nil {
		return
	}
	e := &events.ConnectionChanged{
		BaseEvent: events.NewBaseEvent(eventType, events.EntityConnection, c.ID),
		ServiceID: c.ID,
		Service:   c.Name,
	}
	if err := m.bus.Publish(ctx, e); err != nil {
		m.log.Warn("publish connection change", "connection", c.Name, "error", err)
	}
}
