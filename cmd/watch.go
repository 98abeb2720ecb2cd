package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/grovetools/meetwatch/cli"
	"github.com/grovetools/meetwatch/config"
	"github.com/grovetools/meetwatch/errors"
	"github.com/grovetools/meetwatch/internal/source"
	"github.com/grovetools/meetwatch/logging"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type watchOptions struct {
	server      string
	tls         bool
	websocket   string
	nick        string
	channels    []string
	agent       string
	askPassword bool
	plain       bool
}

// NewWatchCmd creates the command that follows a live IRC channel.
func NewWatchCmd() *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Track a live meeting on IRC",
		Long: `Connects to an IRC server, joins the configured channels and keeps the
agenda, speaker queue and questions up to date as the meeting runs.

Flags override the irc section of meetwatch.yml.

Examples:
  meetwatch watch --server irc.w3.org:6697 --tls --channel '#wg-css'
  meetwatch watch --websocket wss://irc.example.org/webirc --channel '#tpac'
  meetwatch watch --plain --agent RRSAgent`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}

			password, err := resolvePassword(cfg.IRC.PasswordEnv, opts.askPassword)
			if err != nil {
				return err
			}

			logger := cli.GetLogger(cmd)
			targets := source.JoinTargets(cfg.Channels)
			if len(targets) == 0 {
				logger.Warn("No literal channels configured; nothing will be joined")
			}

			irc := &source.IRC{
				Server:    cfg.IRC.Server,
				TLS:       cfg.IRC.TLS,
				WebSocket: cfg.IRC.WebSocket,
				Nick:      cfg.IRC.Nick,
				User:      cfg.IRC.User,
				RealName:  cfg.IRC.RealName,
				Password:  password,
				Channels:  cfg.Channels,
				Logger:    logging.NewLogger("irc"),
			}

			s, err := newSession(cfg, watchTitle(irc, targets), false)
			if err != nil {
				return err
			}
			s.engine.Register(irc)

			if opts.plain {
				logging.NewPrettyLogger().InfoPretty(fmt.Sprintf("Connecting to %s as %s", strings.TrimPrefix(irc.Name(), "irc:"), irc.Nick))
			}
			return s.run(cmd.Context(), cmd.OutOrStdout(), opts.plain)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.server, "server", "", "IRC server as host:port")
	f.BoolVar(&opts.tls, "tls", false, "Connect with TLS")
	f.StringVar(&opts.websocket, "websocket", "", "IRC WebSocket gateway URL (ws:// or wss://)")
	f.StringVar(&opts.nick, "nick", "", "Nickname to connect as")
	f.StringSliceVar(&opts.channels, "channel", nil, "Channel to track; repeatable, patterns and '!' exclusions allowed")
	f.StringVar(&opts.agent, "agent", "", "Nickname of the meeting agent")
	f.BoolVar(&opts.askPassword, "ask-password", false, "Prompt for the server password when the password variable is unset")
	f.BoolVar(&opts.plain, "plain", false, "Print the state as text instead of the full-screen view")

	return cmd
}

// apply overlays the flags that were set onto cfg and re-validates it.
func (o *watchOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("server") {
		cfg.IRC.Server = o.server
		cfg.IRC.WebSocket = ""
	}
	if f.Changed("websocket") {
		cfg.IRC.WebSocket = o.websocket
		cfg.IRC.Server = ""
	}
	if f.Changed("tls") {
		cfg.IRC.TLS = o.tls
	}
	if f.Changed("nick") {
		cfg.IRC.Nick = o.nick
	}
	if f.Changed("channel") {
		cfg.Channels = o.channels
	}
	if f.Changed("agent") {
		cfg.Agent = o.agent
	}

	if cfg.IRC.Server == "" && cfg.IRC.WebSocket == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no IRC server configured; set irc.server or pass --server")
	}
	return cfg.Validate()
}

// resolvePassword reads the password from envVar, prompting on the
// terminal when ask is set and the variable is empty.
func resolvePassword(envVar string, ask bool) (string, error) {
	if password := os.Getenv(envVar); password != "" {
		return password, nil
	}
	if !ask {
		return "", nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.CredentialsMissing(envVar)
	}

	fmt.Fprint(os.Stderr, "IRC password: ")
	data, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeCredentialsMissing, "failed to read password")
	}
	return string(data), nil
}

func watchTitle(irc interface{ Name() string }, targets []string) string {
	where := strings.TrimPrefix(irc.Name(), "irc:")
	if len(targets) == 0 {
		return where
	}
	return strings.Join(targets, " ") + " @ " + where
}
