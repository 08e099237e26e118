// Package chat holds the state behind the chat window: the log of lines shown
// to the user, the selected channel and the slash-command table.
package chat

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/foxseedlab/dove/internal/event"
	"github.com/foxseedlab/dove/internal/guard"
	"github.com/foxseedlab/dove/internal/vault"
	"github.com/google/uuid"
)

type LineKind int

const (
	LineSystem LineKind = iota
	LineError
	LineMessage
)

type Line struct {
	Kind   LineKind
	Author string
	Text   string
}

type Requester interface {
	Submit(ev event.Outbound)
}

type Notifier interface {
	Poll() (event.Inbound, bool)
}

type TokenStore interface {
	SaveToken(token string) error
	LoadToken() (string, error)
	DeleteToken() error
}

// Controller is driven from the render loop only and is not safe for
// concurrent use.
type Controller struct {
	requests      Requester
	notifications Notifier
	tokens        TokenStore
	lookupEnv     func(key string) (string, bool)
	newAttemptID  func() string
	commands      []command

	lines     []Line
	channelID string
	exit      bool

	// attemptID names the latest login. pendingToken is the token of that
	// login when it was typed by hand; it is saved once the Ready of the same
	// attempt arrives.
	attemptID    string
	pendingToken string
}

func NewController(requests Requester, notifications Notifier, tokens TokenStore, defaultChannelID string) *Controller {
	return &Controller{
		requests:      requests,
		notifications: notifications,
		tokens:        tokens,
		lookupEnv:     os.LookupEnv,
		newAttemptID:  uuid.NewString,
		commands:      defaultCommands(),
		channelID:     defaultChannelID,
	}
}

// AutoLogin logs in with the saved token, if any.
func (c *Controller) AutoLogin() {
	token, err := c.tokens.LoadToken()
	if errors.Is(err, vault.ErrNotFound) {
		slog.Info("no saved token, skipping automatic login")
		return
	}
	if err != nil {
		slog.Warn("failed to load saved token", "error", err)
		c.addError(messageAutoLoginFailed)
		return
	}
	slog.Info("logging in with saved token")
	c.login(token, false)
}

// login starts a new attempt. Only hand-typed tokens are kept for saving.
func (c *Controller) login(token string, save bool) {
	c.attemptID = c.newAttemptID()
	c.pendingToken = ""
	if save {
		c.pendingToken = token
	}
	c.addSystem(messageLoggingIn)
	c.requests.Submit(event.Login{SessionID: c.attemptID, Token: token})
}

// Submit handles one line typed by the user.
func (c *Controller) Submit(input string) {
	if strings.TrimSpace(input) == "" {
		return
	}
	if cmdText, ok := strings.CutPrefix(input, CommandPrefix); ok {
		c.processCommand(cmdText)
		return
	}
	c.sendText(input)
}

func (c *Controller) sendText(text string) {
	if guard.ContainsSecretLike(text) {
		slog.Warn("outgoing message blocked by content guard")
		c.addError(messageSecretBlocked)
		return
	}
	if n := utf8.RuneCountInString(text); n > MaxMessageLength {
		c.addError(tooLong(n))
		return
	}
	if c.channelID == "" {
		c.addError(messageNoChannel)
		return
	}
	c.requests.Submit(event.SendMessage{ChannelID: c.channelID, Text: text})
}

// Poll drains every available notification into the chat log and reports
// whether anything was received.
func (c *Controller) Poll() bool {
	received := false
	for {
		ev, ok := c.notifications.Poll()
		if !ok {
			return received
		}
		received = true
		c.handleNotification(ev)
	}
}

func (c *Controller) handleNotification(ev event.Inbound) {
	switch ev := ev.(type) {
	case event.Ready:
		if ev.SessionID != c.attemptID {
			slog.Debug("ignoring ready of a replaced login", "session_id", ev.SessionID)
			return
		}
		c.addSystem(messageLoggedIn)
		c.savePendingToken()
	case event.Error:
		if ev.EndsSession() && (ev.SessionID == "" || ev.SessionID == c.attemptID) {
			c.pendingToken = ""
		}
		c.addError(sanitize(ev.Message))
	case event.MessageReceived:
		c.lines = append(c.lines, Line{Kind: LineMessage, Author: sanitize(ev.Author), Text: sanitize(ev.Content)})
	case event.GuildsListed:
		if len(ev.Guilds) == 0 {
			c.addSystem(messageNoGuilds)
			return
		}
		c.addSystem(messageGuildsHeader)
		for _, g := range ev.Guilds {
			c.addSystem(guildEntry(g))
		}
	case event.TextChannelsListed:
		if len(ev.Channels) == 0 {
			c.addSystem(messageNoChannels)
			return
		}
		c.addSystem(channelsHeader(ev.GuildID))
		for _, ch := range ev.Channels {
			c.addSystem(channelEntry(ch))
		}
	default:
		slog.Warn("unhandled notification", "type", fmt.Sprintf("%T", ev))
	}
}

func (c *Controller) savePendingToken() {
	token := c.pendingToken
	if token == "" {
		return
	}
	c.pendingToken = ""
	if err := c.tokens.SaveToken(token); err != nil {
		slog.Error("failed to save token", "error", err)
		c.addError(messageSaveTokenFailed)
		return
	}
	slog.Info("token saved")
}

// Lines returns a copy of the chat log.
func (c *Controller) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

func (c *Controller) ChannelID() string {
	return c.channelID
}

func (c *Controller) ShouldExit() bool {
	return c.exit
}

func (c *Controller) addSystem(text string) {
	c.lines = append(c.lines, Line{Kind: LineSystem, Text: text})
}

func (c *Controller) addError(text string) {
	c.lines = append(c.lines, Line{Kind: LineError, Text: text})
}
