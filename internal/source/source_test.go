package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grovetools/meetwatch/errors"
	"github.com/grovetools/meetwatch/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/irc.v4"
)

func collect(t *testing.T, src tracker.Source) []tracker.Event {
	t.Helper()
	events := make(chan tracker.Event, 100)
	require.NoError(t, src.Run(context.Background(), events))
	close(events)
	var out []tracker.Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func TestParseTranscriptLine(t *testing.T) {
	tests := []struct {
		line   string
		sender string
		text   string
		ok     bool
	}{
		{"<alice> agenda+ Charter", "alice", "agenda+ Charter", true},
		{"12:01:33 <Zakim> I see bob on the speaker queue", "Zakim", "I see bob on the speaker queue", true},
		{"[09:15] <@chair> agenda order is 2 1", "chair", "agenda order is 2 1", true},
		{"* Zakim sees no one on the speaker queue", "Zakim", "sees no one on the speaker queue", true},
		{"10:00 * Zakim notes agenda cleared", "Zakim", "notes agenda cleared", true},
		{"<carol>", "carol", "", true},
		{"--- Day changed Mon Oct 19 2026", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			sender, text, ok := ParseTranscriptLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.sender, sender)
			assert.Equal(t, tt.text, text)
		})
	}
}

func TestReader(t *testing.T) {
	log := "<alice> agenda+ one\r\n-- join --\n<Zakim> 1. one [from alice]\n"
	events := collect(t, &Reader{R: strings.NewReader(log), Channel: "#wg"})

	assert.Equal(t, []tracker.Event{
		{Channel: "#wg", Sender: "alice", Text: "agenda+ one"},
		{Channel: "#wg", Sender: "Zakim", Text: "1. one [from alice]"},
	}, events)
}

func TestLines(t *testing.T) {
	src := &Lines{Events: []tracker.Event{{Sender: "a", Text: "x"}, {Sender: "b", Text: "y"}}}
	assert.Len(t, collect(t, src), 2)
}

func TestTranscriptReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meeting.log")
	require.NoError(t, os.WriteFile(path, []byte("<alice> agenda+ one\n<bob> agenda+ two\n"), 0644))

	events := collect(t, &Transcript{Path: path, Channel: "#wg"})
	require.Len(t, events, 2)
	assert.Equal(t, "bob", events[1].Sender)
	assert.Equal(t, "#wg", events[1].Channel)
}

func TestTranscriptMissing(t *testing.T) {
	src := &Transcript{Path: filepath.Join(t.TempDir(), "missing.log")}
	err := src.Run(context.Background(), make(chan tracker.Event, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeSourceNotFound))
}

func TestTranscriptFollow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.log")
	require.NoError(t, os.WriteFile(path, []byte("<alice> agenda+ one\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan tracker.Event, 10)
	done := make(chan error, 1)
	go func() {
		done <- (&Transcript{Path: path, Channel: "#wg", Follow: true, Poll: true}).Run(ctx, events)
	}()

	next := func() tracker.Event {
		select {
		case ev := <-events:
			return ev
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for transcript line")
			return tracker.Event{}
		}
	}

	assert.Equal(t, "agenda+ one", next().Text)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("<bob> agenda+ two\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, "agenda+ two", next().Text)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("follow did not stop")
	}
}

func TestEventFromMessage(t *testing.T) {
	tests := []struct {
		raw  string
		want tracker.Event
		ok   bool
	}{
		{
			raw:  ":alice!a@example.org PRIVMSG #wg :agenda+ Charter",
			want: tracker.Event{Channel: "#wg", Sender: "alice", Text: "agenda+ Charter"},
			ok:   true,
		},
		{
			raw:  ":Zakim!z@example.org PRIVMSG #wg :\x01ACTION sees no one on the speaker queue\x01",
			want: tracker.Event{Channel: "#wg", Sender: "Zakim", Text: "sees no one on the speaker queue"},
			ok:   true,
		},
		{raw: ":bob!b@example.org PRIVMSG meetwatch :hello", ok: false},
		{raw: ":bob!b@example.org PRIVMSG #wg :\x01VERSION\x01", ok: false},
		{raw: ":bob!b@example.org NOTICE #wg :agenda+ nope", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			m, err := irc.ParseMessage(tt.raw)
			require.NoError(t, err)
			ev, ok := EventFromMessage(m)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, ev)
			}
		})
	}
}

func TestJoinTargets(t *testing.T) {
	got := JoinTargets([]string{"#wg", " #css ", "#wg-*", "!#private", "", "#a?"})
	assert.Equal(t, []string{"#wg", "#css"}, got)
}

func TestWebSocketConn(t *testing.T) {
	upgrader := websocket.Upgrader{Subprotocols: []string{ircv3Subprotocol}}
	received := make(chan string, 10)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		_ = ws.WriteMessage(websocket.TextMessage, []byte(":server 001 meetwatch :Welcome"))
		_ = ws.WriteMessage(websocket.TextMessage, []byte(":alice!a@h PRIVMSG #wg :hi\r\n"))
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			received <- string(data)
		}
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, err := DialWebSocket(context.Background(), url)
	require.NoError(t, err)
	defer conn.Close()

	buf := make([]byte, 512)
	var got strings.Builder
	for strings.Count(got.String(), "\r\n") < 2 {
		n, err := conn.Read(buf)
		require.NoError(t, err)
		got.Write(buf[:n])
	}
	assert.Equal(t, ":server 001 meetwatch :Welcome\r\n:alice!a@h PRIVMSG #wg :hi\r\n", got.String())

	_, err = conn.Write([]byte("NICK meetwatch\r\nUSER meet"))
	require.NoError(t, err)
	_, err = conn.Write([]byte("watch 0 * :meetwatch\r\n"))
	require.NoError(t, err)

	for _, want := range []string{"NICK meetwatch", "USER meetwatch 0 * :meetwatch"} {
		select {
		case line := <-received:
			assert.Equal(t, want, line)
		case <-time.After(5 * time.Second):
			t.Fatalf("server did not receive %q", want)
		}
	}
}
