package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/foxseedlab/dove/internal/discord"
	"github.com/gorilla/websocket"
)

// Gateway close code sent when the identify payload carries a bad token.
const gatewayCloseAuthenticationFailed = 4004

const userGuildsLimit = 200

type Client struct {
	session   *discordgo.Session
	closed    chan struct{}
	closeOnce sync.Once
}

func NewClient(token string) (discordpkg.Client, error) {
	s, err := discordgo.New(botToken(token))
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildMessages |
		discordgo.IntentDirectMessages |
		discordgo.IntentMessageContent
	// Handlers run on the gateway goroutine so events reach the bus in
	// gateway order.
	s.SyncEvents = true
	return &Client{
		session: s,
		closed:  make(chan struct{}),
	}, nil
}

func botToken(token string) string {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, "Bot ") {
		return token
	}
	return "Bot " + token
}

func (c *Client) RegisterReadyHandler(handler func()) {
	c.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		if r == nil {
			return
		}
		slog.Info("discord gateway ready", "guilds", len(r.Guilds))
		handler()
	})
}

func (c *Client) RegisterMessageHandler(handler func(discordpkg.Message)) {
	c.session.AddHandler(func(s *discordgo.Session, mc *discordgo.MessageCreate) {
		if mc == nil || mc.Message == nil || mc.Author == nil {
			return
		}
		handler(discordpkg.Message{
			Author:    authorName(mc.Message),
			Content:   mc.Content,
			ChannelID: mc.ChannelID,
		})
	})
}

func (c *Client) Run(ctx context.Context) error {
	if err := c.session.Open(); err != nil {
		return translateError(err)
	}
	select {
	case <-ctx.Done():
	case <-c.closed:
	}
	if err := c.session.Close(); err != nil {
		slog.Warn("discord gateway close failed", "error", err)
	}
	return nil
}

func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
	return c.session.Close()
}

func (c *Client) SendChannelMessage(channelID, content string) error {
	_, err := c.session.ChannelMessageSend(channelID, content)
	return translateError(err)
}

func (c *Client) ListGuilds() ([]discordpkg.Guild, error) {
	userGuilds, err := c.session.UserGuilds(userGuildsLimit, "", "", false)
	if err != nil {
		return nil, translateError(err)
	}
	guilds := make([]discordpkg.Guild, 0, len(userGuilds))
	for _, g := range userGuilds {
		if g == nil || g.ID == "" {
			continue
		}
		guilds = append(guilds, discordpkg.Guild{ID: g.ID, Name: g.Name})
	}
	return guilds, nil
}

func (c *Client) ListGuildChannels(guildID string) ([]discordpkg.Channel, error) {
	raw, err := c.session.GuildChannels(guildID)
	if err != nil {
		return nil, translateError(err)
	}
	channels := make([]discordpkg.Channel, 0, len(raw))
	for _, ch := range raw {
		if ch == nil || ch.ID == "" {
			continue
		}
		channels = append(channels, discordpkg.Channel{
			ID:      ch.ID,
			GuildID: guildIDOrDefault(ch.GuildID, guildID),
			Name:    ch.Name,
			Kind:    channelKind(ch.Type),
		})
	}
	return channels, nil
}

func guildIDOrDefault(got, fallback string) string {
	if got != "" {
		return got
	}
	return fallback
}

func channelKind(t discordgo.ChannelType) discordpkg.ChannelKind {
	switch t {
	case discordgo.ChannelTypeGuildText:
		return discordpkg.ChannelKindText
	case discordgo.ChannelTypeGuildVoice:
		return discordpkg.ChannelKindVoice
	case discordgo.ChannelTypeGuildCategory:
		return discordpkg.ChannelKindCategory
	default:
		return discordpkg.ChannelKindOther
	}
}

func authorName(m *discordgo.Message) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	return preferredDiscordName(m.Author.GlobalName, m.Author.Username, m.Author.ID)
}

func preferredDiscordName(globalName, username, fallback string) string {
	if globalName != "" {
		return globalName
	}
	if username != "" {
		return username
	}
	return fallback
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if isAuthenticationRejected(err) {
		return fmt.Errorf("%w: %w", discordpkg.ErrAuthenticationRejected, err)
	}
	return err
}

func isAuthenticationRejected(err error) bool {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) && closeErr.Code == gatewayCloseAuthenticationFailed {
		return true
	}
	if errors.Is(err, discordgo.ErrUnauthorized) {
		return true
	}
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Response == nil {
		return false
	}
	return restErr.Response.StatusCode == http.StatusUnauthorized
}
