package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Config is the meetwatch configuration as read from meetwatch.yml or
// meetwatch.toml.
type Config struct {
	Version string `yaml:"version,omitempty" toml:"version,omitempty" jsonschema:"description=Configuration version (e.g. '1.0')"`

	// Agent is the nickname of the meeting agent whose reports are trusted.
	Agent string `yaml:"agent,omitempty" toml:"agent,omitempty" jsonschema:"description=Nickname of the meeting agent (default: Zakim)"`

	// Channels lists the tracked channels. Entries may be glob patterns and
	// a leading "!" excludes. Literal names are joined on IRC.
	Channels []string `yaml:"channels,omitempty" toml:"channels,omitempty" jsonschema:"description=Tracked channels; glob patterns allowed and '!' excludes"`

	IRC        IRCConfig        `yaml:"irc,omitempty" toml:"irc,omitempty" jsonschema:"description=Live IRC connection"`
	Transcript TranscriptConfig `yaml:"transcript,omitempty" toml:"transcript,omitempty" jsonschema:"description=Transcript replay"`

	// Extensions holds every other top-level section, such as "logging" and
	// "tui". Decode one with UnmarshalExtension.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" jsonschema:"-"`

	path string
}

// IRCConfig describes how to reach the channel.
type IRCConfig struct {
	Server      string `yaml:"server,omitempty" toml:"server,omitempty" jsonschema:"description=host:port of the IRC server"`
	TLS         bool   `yaml:"tls,omitempty" toml:"tls,omitempty" jsonschema:"description=Connect with TLS"`
	WebSocket   string `yaml:"websocket,omitempty" toml:"websocket,omitempty" jsonschema:"description=ws:// or wss:// URL of an IRC WebSocket gateway; used instead of server"`
	Nick        string `yaml:"nick,omitempty" toml:"nick,omitempty" jsonschema:"description=Nickname to connect as (default: meetwatch)"`
	User        string `yaml:"user,omitempty" toml:"user,omitempty" jsonschema:"description=IRC user name (default: nick)"`
	RealName    string `yaml:"realname,omitempty" toml:"realname,omitempty" jsonschema:"description=IRC real name (default: nick)"`
	PasswordEnv string `yaml:"password_env,omitempty" toml:"password_env,omitempty" jsonschema:"description=Environment variable holding the server password"`
}

// TranscriptConfig describes a logged transcript to replay.
type TranscriptConfig struct {
	Path    string `yaml:"path,omitempty" toml:"path,omitempty" jsonschema:"description=Transcript file to replay"`
	Channel string `yaml:"channel,omitempty" toml:"channel,omitempty" jsonschema:"description=Channel the transcript was recorded in"`
	Follow  bool   `yaml:"follow,omitempty" toml:"follow,omitempty" jsonschema:"description=Keep reading as the transcript grows"`
}

const (
	DefaultVersion     = "1.0"
	DefaultAgent       = "Zakim"
	DefaultNick        = "meetwatch"
	DefaultPasswordEnv = "MEETWATCH_PASSWORD"
)

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Agent == "" {
		c.Agent = DefaultAgent
	}
	if c.IRC.Nick == "" {
		c.IRC.Nick = DefaultNick
	}
	if c.IRC.PasswordEnv == "" {
		c.IRC.PasswordEnv = DefaultPasswordEnv
	}
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded meetwatch.yml into the provided target struct. The target must be a
// pointer. A missing section leaves the target untouched.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
