// Package tracker runs the event loop that keeps the meeting state in step
// with the channel: transports deliver chat lines, the classifier applies
// them to the store one at a time, and renderers are told what changed.
package tracker

import (
	"context"

	"github.com/grovetools/meetwatch/internal/meeting"
)

// Event is one chat line as delivered by a transport.
type Event struct {
	Channel string
	Sender  string
	Text    string
}

// Source is a transport that delivers chat events.
type Source interface {
	// Name returns the source's name for logging.
	Name() string

	// Run delivers events until ctx is canceled or the transport ends.
	// A nil return means the transport reached a clean end, such as the end
	// of a replayed transcript.
	Run(ctx context.Context, events chan<- Event) error
}

// Renderer redraws from a snapshot of the store. Render is called on the
// engine goroutine and must not block for long: the next event waits for it.
type Renderer interface {
	Render(section meeting.Section, snap meeting.Snapshot)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(section meeting.Section, snap meeting.Snapshot)

// Render calls f.
func (f RendererFunc) Render(section meeting.Section, snap meeting.Snapshot) {
	f(section, snap)
}

// Settings are the parts of the configuration the engine can pick up while
// running.
type Settings struct {
	// Agent is the meeting agent's nickname.
	Agent string
	// Channels are tracked-channel patterns; "!" excludes. Empty tracks
	// every channel.
	Channels []string
}

// Emit sends ev unless ctx is canceled first.
func Emit(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
