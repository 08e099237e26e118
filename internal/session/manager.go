package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/foxseedlab/dove/internal/discord"
	"github.com/foxseedlab/dove/internal/event"
	"github.com/google/uuid"
)

// defaultTeardownTimeout bounds how long the request loop waits for a torn
// down session to stop. discordgo cannot interrupt a stalled gateway
// handshake, so a task may outlive it.
const defaultTeardownTimeout = 5 * time.Second

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Manager owns the single backend session. Requests are handled one at a
// time by Run; only the live handle is shared with background tasks.
type Manager struct {
	bus       *event.Bus
	newClient discord.ClientFactory

	// mu guards live. It is cleared before a new one is installed so no
	// request can reach a handle that is being torn down.
	mu   sync.Mutex
	live *liveSession

	// task is touched only by the request loop.
	task *backgroundTask
	// activeTasks counts running background tasks, including ones that were
	// torn down but have not exited yet.
	activeTasks     atomic.Int32
	teardownTimeout time.Duration
}

type liveSession struct {
	id     string
	client discord.Client
	state  State
}

type backgroundTask struct {
	sessionID string
	client    discord.Client
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewManager(bus *event.Bus, newClient discord.ClientFactory) *Manager {
	return &Manager{
		bus:             bus,
		newClient:       newClient,
		teardownTimeout: defaultTeardownTimeout,
	}
}

// Run processes requests until ctx ends or the bus closes, then tears down
// the live session.
func (m *Manager) Run(ctx context.Context) {
	slog.Info("session manager started")
	defer slog.Info("session manager stopped")
	defer m.teardown("manager stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.bus.Done():
			return
		case req := <-m.bus.Requests():
			m.handleRequest(ctx, req)
		}
	}
}

// State reports the connection state of the live session.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.live == nil {
		return StateDisconnected
	}
	return m.live.state
}

func (m *Manager) handleRequest(ctx context.Context, req event.Outbound) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("request handler panicked", "type", fmt.Sprintf("%T", req), "panic", r)
			m.publish(ctx, event.Error{Kind: event.ErrorKindRequest, Message: fmt.Sprint(r)})
		}
	}()

	slog.Debug("request received", "type", fmt.Sprintf("%T", req))
	switch req := req.(type) {
	case event.Login:
		m.login(ctx, req)
	case event.Logout:
		m.teardown("logout requested")
	case event.SendMessage:
		m.sendMessage(ctx, req.ChannelID, req.Text)
	case event.ListGuilds:
		m.listGuilds(ctx)
	case event.ListTextChannels:
		m.listTextChannels(ctx, req.GuildID)
	default:
		slog.Warn("unhandled request", "type", fmt.Sprintf("%T", req))
	}
}

func (m *Manager) login(ctx context.Context, req event.Login) {
	m.teardown("replaced by new login")

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	client, err := m.newClient(req.Token)
	if err != nil {
		slog.Error("failed to create discord client", "error", err, "session_id", sessionID)
		m.publish(ctx, event.Error{Kind: event.ErrorKindTransport, Message: clientFailed(err), SessionID: sessionID})
		return
	}

	taskCtx, cancel := context.WithCancel(ctx)
	client.RegisterReadyHandler(func() {
		m.handleReady(taskCtx, sessionID)
	})
	client.RegisterMessageHandler(func(msg discord.Message) {
		m.handleMessage(taskCtx, msg)
	})

	m.mu.Lock()
	m.live = &liveSession{id: sessionID, client: client, state: StateConnecting}
	m.mu.Unlock()

	t := &backgroundTask{
		sessionID: sessionID,
		client:    client,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	m.task = t
	m.activeTasks.Add(1)
	slog.Info("session starting", "session_id", sessionID)
	go m.runTask(taskCtx, t)
}

func (m *Manager) runTask(ctx context.Context, t *backgroundTask) {
	defer close(t.done)
	defer m.activeTasks.Add(-1)
	defer t.cancel()

	err := t.client.Run(ctx)
	cleared := m.clearHandle(t.sessionID)

	if ctx.Err() != nil {
		slog.Info("session task stopped", "session_id", t.sessionID)
		return
	}
	if err == nil {
		slog.Info("session closed", "session_id", t.sessionID, "handle_cleared", cleared)
		return
	}

	kind, message := describeTaskError(err)
	slog.Error("session task failed", "session_id", t.sessionID, "error", err)
	m.publish(ctx, event.Error{Kind: kind, Message: message, SessionID: t.sessionID})
}

func describeTaskError(err error) (event.ErrorKind, string) {
	if errors.Is(err, discord.ErrAuthenticationRejected) {
		return event.ErrorKindAuthentication, messageInvalidToken
	}
	return event.ErrorKindTransport, err.Error()
}

// clearHandle drops the live handle if it still belongs to sessionID.
func (m *Manager) clearHandle(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.live == nil || m.live.id != sessionID {
		return false
	}
	m.live = nil
	return true
}

// teardown clears the handle, then stops the background task both by
// cancelling its context and by closing the transport. It waits for the task
// at most teardownTimeout; a task still running after that is left to exit on
// its own and can no longer reach the handle or the bus.
func (m *Manager) teardown(reason string) {
	m.mu.Lock()
	m.live = nil
	m.mu.Unlock()

	t := m.task
	if t == nil {
		return
	}
	m.task = nil

	t.cancel()
	go func() {
		if err := t.client.Close(); err != nil {
			slog.Warn("discord client close failed", "error", err, "session_id", t.sessionID)
		}
	}()

	timer := time.NewTimer(m.teardownTimeout)
	defer timer.Stop()
	select {
	case <-t.done:
		slog.Info("session torn down", "session_id", t.sessionID, "reason", reason)
	case <-timer.C:
		slog.Warn("session did not stop in time, leaving it to exit in the background",
			"session_id", t.sessionID, "reason", reason, "timeout", m.teardownTimeout)
	}
}

// handleReady reports only the first readiness of a session. discordgo fires
// Ready again after every re-identify.
func (m *Manager) handleReady(ctx context.Context, sessionID string) {
	m.mu.Lock()
	connected := m.live != nil && m.live.id == sessionID && m.live.state == StateConnecting
	if connected {
		m.live.state = StateConnected
	}
	m.mu.Unlock()

	if !connected || ctx.Err() != nil {
		slog.Debug("ready ignored", "session_id", sessionID)
		return
	}
	slog.Info("session ready", "session_id", sessionID)
	m.publish(ctx, event.Ready{SessionID: sessionID})
}

func (m *Manager) handleMessage(ctx context.Context, msg discord.Message) {
	if ctx.Err() != nil {
		return
	}
	m.publish(ctx, event.MessageReceived{
		Author:    msg.Author,
		Content:   msg.Content,
		ChannelID: msg.ChannelID,
	})
}

// liveClient returns the current handle or reports "Not logged in".
func (m *Manager) liveClient(ctx context.Context) (discord.Client, bool) {
	m.mu.Lock()
	live := m.live
	m.mu.Unlock()
	if live == nil {
		m.publish(ctx, event.Error{Kind: event.ErrorKindPrecondition, Message: messageNotLoggedIn})
		return nil, false
	}
	return live.client, true
}

func (m *Manager) sendMessage(ctx context.Context, channelID, text string) {
	client, ok := m.liveClient(ctx)
	if !ok {
		return
	}
	if err := client.SendChannelMessage(channelID, text); err != nil {
		slog.Error("failed to send message", "error", err, "channel_id", channelID)
		m.publish(ctx, event.Error{Kind: requestErrorKind(err), Message: sendFailed(err)})
	}
}

func (m *Manager) listGuilds(ctx context.Context) {
	client, ok := m.liveClient(ctx)
	if !ok {
		return
	}
	guilds, err := client.ListGuilds()
	if err != nil {
		slog.Error("failed to list guilds", "error", err)
		m.publish(ctx, event.Error{Kind: requestErrorKind(err), Message: guildsFailed(err)})
		return
	}
	m.publish(ctx, event.GuildsListed{Guilds: guilds})
}

func (m *Manager) listTextChannels(ctx context.Context, guildID string) {
	client, ok := m.liveClient(ctx)
	if !ok {
		return
	}
	channels, err := client.ListGuildChannels(guildID)
	if err != nil {
		slog.Error("failed to list channels", "error", err, "guild_id", guildID)
		m.publish(ctx, event.Error{Kind: requestErrorKind(err), Message: channelsFailed(err)})
		return
	}
	m.publish(ctx, event.TextChannelsListed{GuildID: guildID, Channels: textChannels(channels)})
}

func textChannels(channels []discord.Channel) []discord.Channel {
	text := make([]discord.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.Kind != discord.ChannelKindText {
			continue
		}
		text = append(text, ch)
	}
	return text
}

func requestErrorKind(err error) event.ErrorKind {
	if errors.Is(err, discord.ErrAuthenticationRejected) {
		return event.ErrorKindAuthentication
	}
	return event.ErrorKindRequest
}

func (m *Manager) publish(ctx context.Context, ev event.Inbound) {
	m.bus.Publish(ctx, ev)
}
