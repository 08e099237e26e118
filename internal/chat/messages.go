package chat

import (
	"fmt"

	"github.com/foxseedlab/dove/internal/config"
	"github.com/foxseedlab/dove/internal/discord"
)

// MaxMessageLength is the longest text the backend accepts in one message.
const MaxMessageLength = 2000

const (
	messageAvailableCommands = "Available commands:"
	messageLoggingIn         = "Logging in..."
	messageUsingEnvToken     = "Using token from env variables"
	messageTokenNotSpecified = "Token not specified"
	messageLoggedIn          = "Logged in successfully"
	messageLoggedOut         = "Logged out"
	messageSecretBlocked     = "Your message was not sent, because it possibly contained Discord token."
	messageNoChannel         = "No channel selected, use /channel <channel-id>"
	messageAutoLoginFailed   = "Unable to get token for automatic login, use /login <token>"
	messageSaveTokenFailed   = "Unable to save token"
	messageForgetTokenFailed = "Unable to forget token"
	messageTokenForgotten    = "Saved token deleted"
	messageGuildsHeader      = "Servers:"
	messageNoGuilds          = "No servers"
	messageNoChannels        = "No text channels"

	messageEnvTokenMissingFormat  = "%s env variable missing"
	messageUnknownCommandFormat   = "Unknown command '%s'"
	messageUsageFormat            = "Usage: /%s"
	messageTooLongFormat          = "Message is too long (%d/%d characters)"
	messageInvalidIDFormat        = "Invalid id '%s'"
	messageChannelSelectedFormat  = "Sending messages to channel %s"
	messageChannelsHeaderFormat   = "Text channels in %s:"
	messageListEntryFormat        = " %s (%s)"
	messageCommandHelpEntryFormat = " %s: %s"
)

func envTokenMissing() string {
	return fmt.Sprintf(messageEnvTokenMissingFormat, config.TokenEnvVar)
}

func unknownCommand(name string) string {
	return fmt.Sprintf(messageUnknownCommandFormat, name)
}

func usage(cmd command) string {
	return fmt.Sprintf(messageUsageFormat, cmd.usage())
}

func tooLong(length int) string {
	return fmt.Sprintf(messageTooLongFormat, length, MaxMessageLength)
}

func invalidID(id string) string {
	return fmt.Sprintf(messageInvalidIDFormat, id)
}

func channelSelected(channelID string) string {
	return fmt.Sprintf(messageChannelSelectedFormat, channelID)
}

func channelsHeader(guildID string) string {
	return fmt.Sprintf(messageChannelsHeaderFormat, guildID)
}

func guildEntry(g discord.Guild) string {
	return fmt.Sprintf(messageListEntryFormat, sanitize(g.Name), g.ID)
}

func channelEntry(ch discord.Channel) string {
	return fmt.Sprintf(messageListEntryFormat, "#"+sanitize(ch.Name), ch.ID)
}

func commandHelpEntry(cmd command) string {
	return fmt.Sprintf(messageCommandHelpEntryFormat, cmd.usage(), cmd.description)
}
