package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/meetwatch/errors"
	"github.com/grovetools/meetwatch/internal/meeting"
	"github.com/grovetools/meetwatch/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

const sampleTranscript = `[10:00] <alice> agenda+ Minutes
[10:00] <alice> agenda+ Flexbox issues
10:01:02 <Zakim> agendum 2 -- Flexbox issues -- taken up [from alice]
* Zakim sees carol, dave on the speaker queue
<bob> question ++ Ship it?
<carol> question ++ 1
--- Day changed
`

// isolate runs the test in an empty directory with no configuration and
// no password in the environment.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("MEETWATCH_PASSWORD", "")
	return testutil.Isolate(t)
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestReplayPrintsFinalState(t *testing.T) {
	dir := isolate(t)
	path := testutil.WriteFile(t, dir, "minutes.txt", sampleTranscript)

	out, err := execute(t, "", "replay", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Minutes [from alice]")
	assert.Contains(t, out, "Flexbox issues [from alice]")
	assert.Contains(t, out, "carol")
	assert.Contains(t, out, "2. dave")
	assert.Contains(t, out, "Q1 (2) Ship it? — bob")
	// One dump only.
	assert.Equal(t, 1, strings.Count(out, "Speaker queue"))
}

func TestReplayJSONFromStdin(t *testing.T) {
	isolate(t)

	out, err := execute(t, sampleTranscript, "replay", "--json", "-")
	require.NoError(t, err)

	var snap meeting.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, 2, snap.Current)
	assert.Equal(t, []string{"carol", "dave"}, snap.Queue)
	require.Len(t, snap.Questions, 1)
	assert.Equal(t, []string{"bob", "carol"}, snap.Questions[0].Supporters)
}

func TestReplayAgentOverride(t *testing.T) {
	isolate(t)

	// Zakim is no longer trusted, so its reports change nothing.
	out, err := execute(t, sampleTranscript, "replay", "--json", "--agent", "RRSAgent", "-")
	require.NoError(t, err)

	var snap meeting.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Zero(t, snap.Current)
	assert.Empty(t, snap.Queue)
	assert.Len(t, snap.Agenda, 2)
}

func TestReplayErrors(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, "", "replay")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = execute(t, "", "replay", filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeSourceNotFound))

	_, err = execute(t, "", "replay", "--channel", "general", "-")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation))
}

func TestReplayUsesConfiguredPath(t *testing.T) {
	dir := isolate(t)
	logPath := testutil.WriteFile(t, dir, "log.txt", sampleTranscript)
	testutil.WriteFile(t, dir, "meetwatch.yml", "transcript:\n  path: "+logPath+"\n  channel: \"#wg-css\"\n")

	out, err := execute(t, "", "replay")
	require.NoError(t, err)
	assert.Contains(t, out, "Flexbox issues")
}

func TestConfigCommands(t *testing.T) {
	dir := isolate(t)
	testutil.WriteFile(t, dir, "meetwatch.yml", "agent: RRSAgent\nchannels: [\"#wg-css\"]\ntui:\n  theme: gruvbox\n")

	out, err := execute(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# Source: ")
	assert.Contains(t, out, "agent: RRSAgent")
	assert.Contains(t, out, "theme: gruvbox")
	assert.Contains(t, out, "nick: meetwatch")

	out, err = execute(t, "", "config", "schema")
	require.NoError(t, err)
	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Contains(t, schema, "properties")

	out, err = execute(t, "", "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	bad := testutil.WriteFile(t, dir, "bad.yml", "irc:\n  port: 1\n")
	_, err = execute(t, "", "config", "validate", bad)
	require.Error(t, err)
}

func TestWatchRequiresServer(t *testing.T) {
	isolate(t)

	_, err := execute(t, "", "watch", "--plain")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = execute(t, "", "watch", "--plain", "--server", "nohost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation))
}

func TestResolvePassword(t *testing.T) {
	t.Setenv("MEETWATCH_TEST_PASS", "s3cret")
	password, err := resolvePassword("MEETWATCH_TEST_PASS", true)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", password)

	password, err = resolvePassword("MEETWATCH_TEST_UNSET", false)
	require.NoError(t, err)
	assert.Empty(t, password)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		t.Skip("stdin is a terminal")
	}
	_, err = resolvePassword("MEETWATCH_TEST_UNSET", true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeCredentialsMissing))
}

// fakeIRCServer accepts one client, welcomes it, waits for the JOIN and
// then sends lines before hanging up.
func fakeIRCServer(t *testing.T, lines ...string) (string, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	joined := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "NICK "):
				conn.Write([]byte(":irc.test 001 " + strings.TrimPrefix(line, "NICK ") + " :Welcome\r\n"))
			case strings.HasPrefix(line, "JOIN "):
				joined <- strings.TrimPrefix(line, "JOIN ")
				for _, l := range lines {
					conn.Write([]byte(l + "\r\n"))
				}
				return
			}
		}
	}()

	return ln.Addr().String(), joined
}

func TestWatchEndToEnd(t *testing.T) {
	isolate(t)
	addr, joined := fakeIRCServer(t,
		":alice!a@h PRIVMSG #wg-css :agenda+ Intro",
		":alice!a@h PRIVMSG #other :agenda+ Elsewhere",
		":Zakim!z@h PRIVMSG #wg-css :\x01ACTION sees alice on the speaker queue\x01",
	)

	out, err := execute(t, "", "watch", "--plain", "--server", addr, "--nick", "tester", "--channel", "#wg-css")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeTransportClosed), "got %v", err)

	assert.Equal(t, "#wg-css", <-joined)
	assert.Contains(t, out, "Intro [from alice]")
	assert.NotContains(t, out, "Elsewhere")
	assert.Contains(t, out, "alice")
}
