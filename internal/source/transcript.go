package source

import (
	"context"
	"io"
	stdlog "log"
	"os"
	"regexp"
	"strings"

	"github.com/grovetools/meetwatch/errors"
	"github.com/grovetools/meetwatch/internal/tracker"
	"github.com/hpcloud/tail"
	"github.com/sirupsen/logrus"
)

// transcriptLine matches the common IRC log layouts:
//
//	<nick> text
//	12:01:33 <nick> text
//	[12:01] <nick> text
//	* nick does something
var (
	transcriptLine = regexp.MustCompile(`^(?:\[?\d{1,2}:\d{2}(?::\d{2})?\]?\s+)?<[@+%~&]?([^>\s]+)>\s?(.*)$`)
	transcriptAct  = regexp.MustCompile(`^(?:\[?\d{1,2}:\d{2}(?::\d{2})?\]?\s+)?\*\s+([^\s]+)\s+(.*)$`)
)

// ParseTranscriptLine extracts the sender and text of a logged chat line.
// Actions ("* Zakim sees ...") yield the action text without the nick.
func ParseTranscriptLine(line string) (sender, text string, ok bool) {
	line = strings.TrimRight(line, "\r\n")
	if m := transcriptLine.FindStringSubmatch(line); m != nil {
		return m[1], m[2], true
	}
	if m := transcriptAct.FindStringSubmatch(line); m != nil {
		return m[1], m[2], true
	}
	return "", "", false
}

// Transcript replays a logged transcript file. With Follow set it keeps
// reading as the file grows, like tail -f, until the context is canceled.
type Transcript struct {
	Path    string
	Channel string
	Follow  bool
	// Poll makes follow mode poll the file instead of using inotify.
	Poll   bool
	Logger *logrus.Entry
}

// Name implements tracker.Source.
func (t *Transcript) Name() string { return "transcript:" + t.Path }

// Run implements tracker.Source.
func (t *Transcript) Run(ctx context.Context, events chan<- tracker.Event) error {
	if _, err := os.Stat(t.Path); err != nil {
		if os.IsNotExist(err) {
			return errors.SourceNotFound(t.Path)
		}
		return errors.Wrap(err, errors.ErrCodeSourceNotFound, "cannot read transcript").
			WithDetail("path", t.Path)
	}

	if !t.Follow {
		f, err := os.Open(t.Path)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSourceNotFound, "cannot open transcript").
				WithDetail("path", t.Path)
		}
		defer f.Close()
		return (&Reader{R: f, Channel: t.Channel}).Run(ctx, events)
	}

	tl, err := tail.TailFile(t.Path, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Poll:     t.Poll,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekStart},
		Logger:   stdlog.New(io.Discard, "", 0),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSourceNotFound, "cannot follow transcript").
			WithDetail("path", t.Path)
	}
	defer tl.Cleanup()
	defer tl.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-tl.Lines:
			if !ok {
				return tl.Err()
			}
			if line.Err != nil {
				if t.Logger != nil {
					t.Logger.WithError(line.Err).Warn("Transcript read error")
				}
				continue
			}
			sender, text, ok := ParseTranscriptLine(line.Text)
			if !ok {
				continue
			}
			ev := tracker.Event{Channel: t.Channel, Sender: sender, Text: text}
			if !tracker.Emit(ctx, events, ev) {
				return ctx.Err()
			}
		}
	}
}
