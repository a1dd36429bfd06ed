package preference

import (
	"context"
	"fmt"
	"strings"
)

var secretKeyPrefixes = []string{
	"pref_anime_connections_password_",
	"connection_token_",
	"pref_mangasync_password_",
	"track_token_",
}

// IsSecretKey reports whether key holds a password or token.
func IsSecretKey(key string) bool {
	for _, prefix := range secretKeyPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// ConnectionsPreferences holds third-party connection settings.
// Passwords and tokens go to the secrets store.
type ConnectionsPreferences struct {
	store   Store
	secrets Store
}

// NewConnectionsPreferences creates the group. secrets is usually a
// KeyringStore; nil keeps secrets in s.
func NewConnectionsPreferences(s, secrets Store) *ConnectionsPreferences {
	if secrets == nil {
		secrets = s
	}
	return &ConnectionsPreferences{store: s, secrets: secrets}
}

func (p *ConnectionsPreferences) Username(connectionID int64) *Preference[string] {
	return String(p.store, fmt.Sprintf("pref_anime_connections_username_%d", connectionID), "")
}

func (p *ConnectionsPreferences) Password(connectionID int64) *Preference[string] {
	return String(p.secrets, fmt.Sprintf("pref_anime_connections_password_%d", connectionID), "")
}

func (p *ConnectionsPreferences) Token(connectionID int64) *Preference[string] {
	return String(p.secrets, fmt.Sprintf("connection_token_%d", connectionID), "")
}

// SetCredentials stores username and password together.
func (p *ConnectionsPreferences) SetCredentials(ctx context.Context, connectionID int64, username, password string) error {
	if err := p.Username(connectionID).Set(ctx, username); err != nil {
		return err
	}
	return p.Password(connectionID).Set(ctx, password)
}

// ClearCredentials forgets username, password and token.
func (p *ConnectionsPreferences) ClearCredentials(ctx context.Context, connectionID int64) error {
	for _, pref := range []*Preference[string]{p.Username(connectionID), p.Password(connectionID), p.Token(connectionID)} {
		if err := pref.Delete(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (p *ConnectionsPreferences) EnableDiscordRPC() *Preference[bool] {
	return Bool(p.store, "pref_enable_discord_rpc", false)
}

func (p *ConnectionsPreferences) DiscordRPCStatus() *Preference[int] {
	return Int(p.store, "pref_discord_rpc_status", 1)
}

func (p *ConnectionsPreferences) DiscordRPCIncognito() *Preference[bool] {
	return Bool(p.store, "pref_discord_rpc_incognito", false)
}

func (p *ConnectionsPreferences) DiscordRPCIncognitoCategories() *Preference[[]string] {
	return StringSet(p.store, "discord_rpc_incognito_categories", nil)
}

// TrackPreferences holds tracker credentials.
type TrackPreferences struct {
	store   Store
	secrets Store
}

// NewTrackPreferences creates the group. nil secrets keeps secrets in s.
func NewTrackPreferences(s, secrets Store) *TrackPreferences {
	if secrets == nil {
		secrets = s
	}
	return &TrackPreferences{store: s, secrets: secrets}
}

func (p *TrackPreferences) Username(trackerID int64) *Preference[string] {
	return String(p.store, fmt.Sprintf("pref_mangasync_username_%d", trackerID), "")
}

func (p *TrackPreferences) Password(trackerID int64) *Preference[string] {
	return String(p.secrets, fmt.Sprintf("pref_mangasync_password_%d", trackerID), "")
}

func (p *TrackPreferences) Token(trackerID int64) *Preference[string] {
	return String(p.secrets, fmt.Sprintf("track_token_%d", trackerID), "")
}

// SetCredentials stores username and password together.
func (p *TrackPreferences) SetCredentials(ctx context.Context, trackerID int64, username, password string) error {
	if err := p.Username(trackerID).Set(ctx, username); err != nil {
		return err
	}
	return p.Password(trackerID).Set(ctx, password)
}

// ClearCredentials forgets username, password and token.
func (p *TrackPreferences) ClearCredentials(ctx context.Context, trackerID int64) error {
	for _, pref := range []*Preference[string]{p.Username(trackerID), p.Password(trackerID), p.Token(trackerID)} {
		if err := pref.Delete(ctx); err != nil {
			return err
		}
	}
	return nil
}
