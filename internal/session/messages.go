package session

import "fmt"

const (
	messageNotLoggedIn  = "Not logged in"
	messageInvalidToken = "Invalid token"

	messageSendFailedFormat     = "Unable to send message: %v"
	messageGuildsFailedFormat   = "Unable to get servers: %v"
	messageChannelsFailedFormat = "Unable to get channels: %v"
	messageClientFailedFormat   = "Unable to create client: %v"
)

func sendFailed(err error) string {
	return fmt.Sprintf(messageSendFailedFormat, err)
}

func guildsFailed(err error) string {
	return fmt.Sprintf(messageGuildsFailedFormat, err)
}

func channelsFailed(err error) string {
	return fmt.Sprintf(messageChannelsFailedFormat, err)
}

func clientFailed(err error) string {
	return fmt.Sprintf(messageClientFailedFormat, err)
}
