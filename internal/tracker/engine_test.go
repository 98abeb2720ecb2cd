package tracker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/grovetools/meetwatch/internal/meeting"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	sections []meeting.Section
	last     meeting.Snapshot
}

func (r *recorder) Render(section meeting.Section, snap meeting.Snapshot) {
	r.sections = append(r.sections, section)
	r.last = snap
}

type sliceSource struct {
	name   string
	events []Event
	err    error
}

func (s *sliceSource) Name() string { return s.name }

func (s *sliceSource) Run(ctx context.Context, events chan<- Event) error {
	for _, ev := range s.events {
		if !Emit(ctx, events, ev) {
			return ctx.Err()
		}
	}
	return s.err
}

type blockingSource struct{}

func (blockingSource) Name() string { return "blocking" }

func (blockingSource) Run(ctx context.Context, _ chan<- Event) error {
	<-ctx.Done()
	return ctx.Err()
}

func newTestEngine(t *testing.T) (*Engine, *recorder) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	entry := logrus.NewEntry(logger)
	e := New(meeting.New(entry), entry)
	r := &recorder{}
	e.AddRenderer(r)
	return e, r
}

func TestHandleNotifiesChangedSection(t *testing.T) {
	e, r := newTestEngine(t)

	assert.Equal(t, meeting.SectionAgenda, e.Handle(Event{Channel: "#wg", Sender: "alice", Text: "agenda+ Charter"}))
	assert.Equal(t, meeting.SectionQueue, e.Handle(Event{Channel: "#wg", Sender: "Zakim", Text: "I see bob on the speaker queue"}))
	assert.Equal(t, meeting.SectionNone, e.Handle(Event{Channel: "#wg", Sender: "alice", Text: "hello all"}))
	assert.Equal(t, meeting.SectionNone, e.Handle(Event{Channel: "#wg", Sender: "alice", Text: "agenda- 7"}))

	assert.Equal(t, []meeting.Section{meeting.SectionAgenda, meeting.SectionQueue}, r.sections)
	assert.Equal(t, []string{"bob"}, r.last.Queue)
}

func TestChannelFilter(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Configure(Settings{Channels: []string{"#wg-*", "!#wg-private"}}))

	e.Handle(Event{Channel: "#WG-CSS", Sender: "a", Text: "agenda+ tracked"})
	e.Handle(Event{Channel: "#wg-private", Sender: "a", Text: "agenda+ excluded"})
	e.Handle(Event{Channel: "#random", Sender: "a", Text: "agenda+ untracked"})

	view := e.Store().AgendaView()
	require.Len(t, view, 1)
	assert.Equal(t, "tracked [from a]", view[0].Text)
}

func TestChannelFilterOnlyExclusions(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Configure(Settings{Channels: []string{"!#private", "!#wg-*"}}))

	e.Handle(Event{Channel: "#wg", Sender: "a", Text: "agenda+ tracked"})
	e.Handle(Event{Channel: "#Private", Sender: "a", Text: "agenda+ excluded"})
	e.Handle(Event{Channel: "#wg-chairs", Sender: "a", Text: "agenda+ excluded too"})

	view := e.Store().AgendaView()
	require.Len(t, view, 1)
	assert.Equal(t, "tracked [from a]", view[0].Text)
}

func TestConfigureAgent(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Configure(Settings{Agent: "Chair"}))

	e.Handle(Event{Sender: "Zakim", Text: "I see mallory on the speaker queue"})
	assert.Empty(t, e.Store().QueueView())

	e.Handle(Event{Sender: "chair", Text: "I see alice on the speaker queue"})
	assert.Equal(t, []string{"alice"}, e.Store().QueueView())
}

func TestStartProcessesAllSourcesInOrder(t *testing.T) {
	e, r := newTestEngine(t)
	e.Register(&sliceSource{name: "replay", events: []Event{
		{Sender: "alice", Text: "agenda+ one"},
		{Sender: "alice", Text: "agenda+ two"},
		{Sender: "alice", Text: "agenda+ three"},
		{Sender: "alice", Text: "agenda order 2 1"},
	}})

	require.NoError(t, e.Start(context.Background()))

	assert.Equal(t, []int{2, 1, 3}, e.Store().Order())
	require.NotEmpty(t, r.sections)
	assert.Equal(t, meeting.SectionAll, r.sections[0])
	assert.Len(t, r.sections, 5)
}

func TestStartReturnsSourceError(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Register(&sliceSource{name: "broken", err: fmt.Errorf("connection reset")})

	err := e.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestStartStopsOnCancel(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Register(blockingSource{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop after cancel")
	}
}

func TestReconfigureKeepsLatest(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Reconfigure(Settings{Agent: "first"})
	e.Reconfigure(Settings{Agent: "second"})

	s := <-e.reconfig
	assert.Equal(t, "second", s.Agent)
}
