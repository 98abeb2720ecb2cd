package config

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/grovetools/meetwatch/errors"
	"github.com/moby/patternmatcher"
)

var (
	nickRegex   = regexp.MustCompile(`^[A-Za-z\[\]\\` + "`" + `_^{|}][A-Za-z0-9\[\]\\` + "`" + `_^{|}-]*$`)
	envVarName  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	channelHead = "#&+!"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !nickRegex.MatchString(c.Agent) {
		return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("agent '%s' is not a valid nickname", c.Agent)).
			WithDetail("agent", c.Agent)
	}

	if err := validateChannels(c.Channels); err != nil {
		return err
	}

	if err := validateIRC(&c.IRC); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid irc configuration")
	}

	if c.Transcript.Channel != "" && !isChannelName(c.Transcript.Channel) {
		return errors.New(errors.ErrCodeConfigValidation,
			fmt.Sprintf("transcript.channel '%s' is not a channel name", c.Transcript.Channel)).
			WithDetail("channel", c.Transcript.Channel)
	}

	return nil
}

func validateChannels(channels []string) error {
	for _, ch := range channels {
		name := strings.TrimPrefix(ch, "!")
		if name == "" {
			return errors.New(errors.ErrCodeConfigValidation, "channel entries cannot be empty")
		}
		if !isChannelName(name) {
			return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("'%s' is not a channel name", ch)).
				WithDetail("channel", ch)
		}
	}
	if _, err := patternmatcher.New(channels); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid channel pattern")
	}
	return nil
}

func validateIRC(irc *IRCConfig) error {
	if irc.Server != "" && irc.WebSocket != "" {
		return errors.New(errors.ErrCodeInvalidInput, "server and websocket are mutually exclusive")
	}

	if irc.Server != "" {
		if _, port, err := net.SplitHostPort(irc.Server); err != nil || port == "" {
			return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("server '%s' must be host:port", irc.Server)).
				WithDetail("server", irc.Server)
		}
	}

	if irc.WebSocket != "" {
		u, err := url.Parse(irc.WebSocket)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
			return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("websocket '%s' must be a ws:// or wss:// URL", irc.WebSocket)).
				WithDetail("websocket", irc.WebSocket)
		}
	}

	if !nickRegex.MatchString(irc.Nick) {
		return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("nick '%s' is not a valid nickname", irc.Nick)).
			WithDetail("nick", irc.Nick)
	}

	if !envVarName.MatchString(irc.PasswordEnv) {
		return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("password_env '%s' is not a variable name", irc.PasswordEnv)).
			WithDetail("password_env", irc.PasswordEnv)
	}

	return nil
}

func isChannelName(name string) bool {
	return name != "" && strings.ContainsRune(channelHead, rune(name[0])) && !strings.ContainsAny(name, " ,\a")
}
