package chat

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/foxseedlab/dove/internal/config"
	"github.com/foxseedlab/dove/internal/event"
)

// CommandPrefix marks an input line as a command instead of a chat message.
const CommandPrefix = "/"

const envTokenArgument = "env"

type command struct {
	name        string
	args        string
	description string
	minArgs     int
	run         func(c *Controller, args []string)
}

func (cmd command) usage() string {
	if cmd.args == "" {
		return cmd.name
	}
	return cmd.name + " " + cmd.args
}

func defaultCommands() []command {
	return []command{
		{name: "help", description: "Shows a list of commands", run: (*Controller).runHelp},
		{name: "login", args: "<token|env>", description: "Logs into Discord with the specified token", minArgs: 1, run: (*Controller).runLogin},
		{name: "logout", description: "Closes the Discord session", run: (*Controller).runLogout},
		{name: "clear", description: "Clears the chat log", run: (*Controller).runClear},
		{name: "exit", description: "Quits the application", run: (*Controller).runExit},
		{name: "servers", description: "Lists the servers you are in", run: (*Controller).runServers},
		{name: "channels", args: "<server-id>", description: "Lists the text channels of a server", minArgs: 1, run: (*Controller).runChannels},
		{name: "channel", args: "<channel-id>", description: "Selects the channel messages are sent to", minArgs: 1, run: (*Controller).runChannel},
		{name: "forget", description: "Deletes the saved token", run: (*Controller).runForget},
	}
}

func (c *Controller) lookupCommand(name string) (command, bool) {
	for _, cmd := range c.commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

func (c *Controller) processCommand(input string) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return
	}
	name, args := fields[0], fields[1:]

	cmd, ok := c.lookupCommand(name)
	if !ok {
		c.addError(unknownCommand(name))
		return
	}
	if len(args) < cmd.minArgs {
		if cmd.name == "login" {
			c.addError(messageTokenNotSpecified)
			return
		}
		c.addError(usage(cmd))
		return
	}
	slog.Debug("running command", "command", cmd.name, "arg_count", len(args))
	cmd.run(c, args)
}

func (c *Controller) runHelp(_ []string) {
	c.addSystem(messageAvailableCommands)
	for _, cmd := range c.commands {
		c.addSystem(commandHelpEntry(cmd))
	}
}

func (c *Controller) runLogin(args []string) {
	token := args[0]
	if token != envTokenArgument {
		c.login(token, true)
		return
	}

	envToken, ok := c.lookupEnv(config.TokenEnvVar)
	if !ok || envToken == "" {
		c.addError(envTokenMissing())
		return
	}
	c.addSystem(messageUsingEnvToken)
	c.login(envToken, false)
}

func (c *Controller) runLogout(_ []string) {
	c.attemptID = ""
	c.pendingToken = ""
	c.requests.Submit(event.Logout{})
	c.addSystem(messageLoggedOut)
}

func (c *Controller) runClear(_ []string) {
	c.lines = nil
}

func (c *Controller) runExit(_ []string) {
	c.exit = true
}

func (c *Controller) runServers(_ []string) {
	c.requests.Submit(event.ListGuilds{})
}

func (c *Controller) runChannels(args []string) {
	guildID := args[0]
	if !isSnowflake(guildID) {
		c.addError(invalidID(guildID))
		return
	}
	c.requests.Submit(event.ListTextChannels{GuildID: guildID})
}

func (c *Controller) runChannel(args []string) {
	channelID := args[0]
	if !isSnowflake(channelID) {
		c.addError(invalidID(channelID))
		return
	}
	c.channelID = channelID
	c.addSystem(channelSelected(channelID))
}

func (c *Controller) runForget(_ []string) {
	if err := c.tokens.DeleteToken(); err != nil {
		slog.Error("failed to delete saved token", "error", err)
		c.addError(messageForgetTokenFailed)
		return
	}
	c.addSystem(messageTokenForgotten)
}

func isSnowflake(id string) bool {
	_, err := strconv.ParseUint(id, 10, 64)
	return err == nil
}
