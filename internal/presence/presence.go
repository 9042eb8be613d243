// Package presence establishes the relay's session with the presence service
// and turns tab counts into activity updates.
package presence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ehrlich-b/tabrelay/internal/discord"
)

// ErrUserDidntUpdate means the session ended before reporting the current user.
var ErrUserDidntUpdate = errors.New("presence: user state never updated")

// ConnectError means the presence service reported Disconnected during bootstrap.
type ConnectError struct {
	Reason string
}

func (e *ConnectError) Error() string {
	return "failed to connect to Discord: " + e.Reason
}

// Conn is an open session with the presence service.
type Conn interface {
	User() *discord.UserWatch
	UpdateActivity(ctx context.Context, args discord.ActivityArgs) error
	Close() error
}

// Connector opens sessions with the presence service.
type Connector interface {
	Connect(ctx context.Context, appID int64, subs discord.Subscriptions) (Conn, error)
}

// DiscordConnector connects to the local Discord desktop client.
type DiscordConnector struct {
	Logger  *slog.Logger
	OnEvent func(discord.Event)
}

func (d DiscordConnector) Connect(ctx context.Context, appID int64, subs discord.Subscriptions) (Conn, error) {
	c, err := discord.Dial(ctx, appID, discord.Options{
		Subscriptions: subs,
		OnEvent:       d.OnEvent,
		Logger:        d.Logger,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Handle bundles a ready session, the user it authenticated as and the user
// observable. It is immutable and shared by every connection.
type Handle struct {
	conn  Conn
	user  discord.User
	watch *discord.UserWatch
}

func (h *Handle) User() discord.User { return h.user }

// Watch returns the user observable the handle was bootstrapped from.
func (h *Handle) Watch() *discord.UserWatch { return h.watch }

// Update publishes count as the current activity.
func (h *Handle) Update(ctx context.Context, count uint32) error {
	return Update(ctx, h.conn, count)
}

func (h *Handle) Close() error { return h.conn.Close() }

// Bootstrap opens a session subscribed to activity events and blocks until the
// service reports the first user state. Only a Connected state yields a Handle.
func Bootstrap(ctx context.Context, connector Connector, appID int64, log *slog.Logger) (*Handle, error) {
	if log == nil {
		log = slog.Default()
	}

	conn, err := connector.Connect(ctx, appID, discord.SubscribeActivity)
	if err != nil {
		return nil, fmt.Errorf("connect to discord: %w", err)
	}
	log.Debug("presence session opened, waiting for user")

	watch := conn.User()
	state, _, err := watch.Changed(ctx, 0)
	if err != nil {
		conn.Close()
		if errors.Is(err, discord.ErrWatchClosed) {
			return nil, ErrUserDidntUpdate
		}
		return nil, fmt.Errorf("wait for user: %w", err)
	}

	if !state.Connected() {
		conn.Close()
		reason := "unknown reason"
		if state.Reason != nil {
			reason = state.Reason.Error()
		}
		log.Error("discord reported disconnected", "reason", reason)
		return nil, &ConnectError{Reason: reason}
	}

	log.Info("presence session ready", "user", state.User.Username, "user_id", state.User.ID)
	return &Handle{conn: conn, user: *state.User, watch: watch}, nil
}
