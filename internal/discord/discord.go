package discord

import (
	"context"
	"errors"
)

// ErrAuthenticationRejected marks a failure caused by the backend refusing
// the token.
var ErrAuthenticationRejected = errors.New("authentication rejected")

type ChannelKind int

const (
	ChannelKindOther ChannelKind = iota
	ChannelKindText
	ChannelKindVoice
	ChannelKindCategory
)

type Guild struct {
	ID   string
	Name string
}

type Channel struct {
	ID      string
	GuildID string
	Name    string
	Kind    ChannelKind
}

type Message struct {
	Author    string
	Content   string
	ChannelID string
}

// Client is one backend connection. Handlers must be registered before Run.
type Client interface {
	RegisterReadyHandler(handler func())
	RegisterMessageHandler(handler func(Message))
	// Run opens the connection and blocks until ctx ends, Close is called or
	// the connection fails.
	Run(ctx context.Context) error
	Close() error
	SendChannelMessage(channelID, content string) error
	ListGuilds() ([]Guild, error)
	ListGuildChannels(guildID string) ([]Channel, error)
}

// ClientFactory builds a client for a token without connecting.
type ClientFactory func(token string) (Client, error)
