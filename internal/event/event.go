// Package event defines the requests sent from the interface to the backend
// and the notifications sent back, plus the bus that carries them.
//
// The two directions are separate closed sets: only types declared in this
// package satisfy Outbound or Inbound, so a notification can never be queued
// as a request.
package event

import (
	"log/slog"

	"github.com/foxseedlab/dove/internal/discord"
)

type Outbound interface {
	outbound()
}

type Inbound interface {
	inbound()
}

// Login starts a session. SessionID names the attempt; Ready and
// session-ending errors of that session carry it back. An empty id lets the
// manager pick one.
type Login struct {
	SessionID string
	Token     string
}

type Logout struct{}

type SendMessage struct {
	ChannelID string
	Text      string
}

type ListGuilds struct{}

type ListTextChannels struct {
	GuildID string
}

func (Login) outbound()            {}
func (Logout) outbound()           {}
func (SendMessage) outbound()      {}
func (ListGuilds) outbound()       {}
func (ListTextChannels) outbound() {}

// String keeps the token out of formatted output.
func (l Login) String() string {
	return "Login{SessionID:" + l.SessionID + " Token:<redacted>}"
}

func (l Login) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("session_id", l.SessionID),
		slog.Bool("token_present", l.Token != ""),
	)
}

type ErrorKind int

const (
	ErrorKindRequest ErrorKind = iota
	ErrorKindPrecondition
	ErrorKindAuthentication
	ErrorKindTransport
)

type Ready struct {
	SessionID string
}

// Error reports a failure. SessionID is set when the error ended a session.
type Error struct {
	Kind      ErrorKind
	Message   string
	SessionID string
}

type MessageReceived struct {
	Author    string
	Content   string
	ChannelID string
}

type GuildsListed struct {
	Guilds []discord.Guild
}

type TextChannelsListed struct {
	GuildID  string
	Channels []discord.Channel
}

func (Ready) inbound()              {}
func (Error) inbound()              {}
func (MessageReceived) inbound()    {}
func (GuildsListed) inbound()       {}
func (TextChannelsListed) inbound() {}

// EndsSession reports whether the error means the session is gone.
func (e Error) EndsSession() bool {
	return e.Kind == ErrorKindAuthentication || e.Kind == ErrorKindTransport
}
