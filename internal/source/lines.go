package source

import (
	"bufio"
	"context"
	"io"

	"github.com/grovetools/meetwatch/internal/tracker"
)

// Lines delivers a fixed list of events.
type Lines struct {
	Events []tracker.Event
}

// Name implements tracker.Source.
func (l *Lines) Name() string { return "lines" }

// Run implements tracker.Source.
func (l *Lines) Run(ctx context.Context, events chan<- tracker.Event) error {
	for _, ev := range l.Events {
		if !tracker.Emit(ctx, events, ev) {
			return ctx.Err()
		}
	}
	return nil
}

// Reader delivers transcript lines read from r until EOF, all attributed to
// Channel. Lines that do not look like chat are skipped.
type Reader struct {
	R       io.Reader
	Channel string
}

// Name implements tracker.Source.
func (r *Reader) Name() string { return "reader" }

// Run implements tracker.Source.
func (r *Reader) Run(ctx context.Context, events chan<- tracker.Event) error {
	scanner := bufio.NewScanner(r.R)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		sender, text, ok := ParseTranscriptLine(scanner.Text())
		if !ok {
			continue
		}
		ev := tracker.Event{Channel: r.Channel, Sender: sender, Text: text}
		if !tracker.Emit(ctx, events, ev) {
			return ctx.Err()
		}
	}
	return scanner.Err()
}
