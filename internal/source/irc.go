package source

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"strings"

	"github.com/grovetools/meetwatch/errors"
	"github.com/grovetools/meetwatch/internal/tracker"
	"github.com/sirupsen/logrus"
	"gopkg.in/irc.v4"
)

const ctcpDelim = "\x01"

// IRC is a live connection to an IRC network. It joins the configured
// channels once registered and delivers every channel PRIVMSG as an event.
type IRC struct {
	// Server is host:port for plain or TLS connections.
	Server string
	TLS    bool
	// WebSocket, when set, is a ws:// or wss:// URL used instead of Server.
	WebSocket string

	Nick     string
	User     string
	RealName string
	Password string

	// Channels to join. Entries containing glob characters or starting
	// with "!" are filter patterns and are not joined.
	Channels []string

	Logger *logrus.Entry

	// Dial overrides how the connection is opened.
	Dial func(ctx context.Context) (io.ReadWriteCloser, error)
}

// Name implements tracker.Source.
func (s *IRC) Name() string {
	if s.WebSocket != "" {
		return "irc:" + s.WebSocket
	}
	return "irc:" + s.Server
}

func (s *IRC) dial(ctx context.Context) (io.ReadWriteCloser, error) {
	if s.Dial != nil {
		return s.Dial(ctx)
	}
	if s.WebSocket != "" {
		return DialWebSocket(ctx, s.WebSocket)
	}
	if s.TLS {
		host, _, err := net.SplitHostPort(s.Server)
		if err != nil {
			host = s.Server
		}
		d := &tls.Dialer{Config: &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}}
		return d.DialContext(ctx, "tcp", s.Server)
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", s.Server)
}

// Run implements tracker.Source.
func (s *IRC) Run(ctx context.Context, events chan<- tracker.Event) error {
	address := s.Server
	if s.WebSocket != "" {
		address = s.WebSocket
	}
	conn, err := s.dial(ctx)
	if err != nil {
		return errors.TransportConnect(address, err)
	}
	defer conn.Close()

	user := s.User
	if user == "" {
		user = s.Nick
	}
	name := s.RealName
	if name == "" {
		name = s.Nick
	}

	client := irc.NewClient(conn, irc.ClientConfig{
		Nick: s.Nick,
		Pass: s.Password,
		User: user,
		Name: name,
		Handler: irc.HandlerFunc(func(c *irc.Client, m *irc.Message) {
			s.handle(ctx, c, m, events)
		}),
	})

	err = client.RunContext(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return errors.TransportClosed(s.Name(), err)
}

func (s *IRC) handle(ctx context.Context, c *irc.Client, m *irc.Message, events chan<- tracker.Event) {
	switch m.Command {
	case "001":
		for _, ch := range JoinTargets(s.Channels) {
			if err := c.Write("JOIN " + ch); err != nil {
				s.log().WithError(err).WithField("channel", ch).Warn("Failed to join channel")
				continue
			}
			s.log().WithField("channel", ch).Info("Joining channel")
		}
	case "PRIVMSG":
		if ev, ok := EventFromMessage(m); ok {
			tracker.Emit(ctx, events, ev)
		}
	case "ERROR":
		s.log().WithField("reason", lastParam(m)).Warn("Server closed the link")
	}
}

func (s *IRC) log() *logrus.Entry {
	if s.Logger != nil {
		return s.Logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// EventFromMessage converts a channel PRIVMSG to an event. Private messages
// and CTCP requests other than ACTION are not events.
func EventFromMessage(m *irc.Message) (tracker.Event, bool) {
	if m.Command != "PRIVMSG" || m.Prefix == nil || len(m.Params) < 2 {
		return tracker.Event{}, false
	}
	target := m.Params[0]
	if !isChannel(target) {
		return tracker.Event{}, false
	}
	text := lastParam(m)
	if strings.HasPrefix(text, ctcpDelim) {
		body := strings.TrimSuffix(strings.TrimPrefix(text, ctcpDelim), ctcpDelim)
		action, ok := strings.CutPrefix(body, "ACTION ")
		if !ok {
			return tracker.Event{}, false
		}
		text = action
	}
	return tracker.Event{Channel: target, Sender: m.Prefix.Name, Text: text}, true
}

// JoinTargets returns the literal channel names among configured channel
// entries.
func JoinTargets(channels []string) []string {
	var out []string
	for _, ch := range channels {
		ch = strings.TrimSpace(ch)
		if ch == "" || strings.HasPrefix(ch, "!") || strings.ContainsAny(ch, "*?[") {
			continue
		}
		out = append(out, ch)
	}
	return out
}

func isChannel(target string) bool {
	return target != "" && strings.ContainsRune("#&+!", rune(target[0]))
}

func lastParam(m *irc.Message) string {
	if len(m.Params) == 0 {
		return ""
	}
	return m.Params[len(m.Params)-1]
}
