package tracker

import (
	"context"
	"sync"

	"github.com/grovetools/meetwatch/errors"
	"github.com/grovetools/meetwatch/internal/meeting"
	"github.com/grovetools/meetwatch/internal/transcript"
	"github.com/sirupsen/logrus"
)

// Engine owns the store and applies events to it strictly in arrival order.
type Engine struct {
	store      *meeting.Store
	classifier *transcript.Classifier
	notifier   Notifier
	filter     *channelFilter
	sources    []Source
	reconfig   chan Settings
	logger     *logrus.Entry
}

// New creates an Engine over st. The classifier trusts transcript.DefaultAgent
// and every channel is tracked until Configure says otherwise.
func New(st *meeting.Store, logger *logrus.Entry) *Engine {
	return &Engine{
		store:      st,
		classifier: transcript.New(""),
		filter:     &channelFilter{},
		reconfig:   make(chan Settings, 1),
		logger:     logger,
	}
}

// Register adds a transport.
func (e *Engine) Register(s Source) {
	e.sources = append(e.sources, s)
}

// AddRenderer registers a renderer with the change notifier.
func (e *Engine) AddRenderer(r Renderer) {
	e.notifier.Add(r)
}

// Configure applies settings immediately. Call it before Start.
func (e *Engine) Configure(s Settings) error {
	filter, err := newChannelFilter(s.Channels)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid channel pattern").
			WithDetail("channels", s.Channels)
	}
	e.filter = filter
	e.classifier.SetAgent(s.Agent)
	return nil
}

// Reconfigure queues settings to be applied between events by a running
// engine. A newer call replaces settings that were not yet applied.
func (e *Engine) Reconfigure(s Settings) {
	for {
		select {
		case e.reconfig <- s:
			return
		default:
		}
		select {
		case <-e.reconfig:
		default:
		}
	}
}

// Store returns the engine's meeting store.
func (e *Engine) Store() *meeting.Store {
	return e.store
}

// Handle classifies and applies a single event, then notifies renderers.
// Events from untracked channels and ordinary conversation change nothing.
func (e *Engine) Handle(ev Event) meeting.Section {
	if !e.filter.tracks(ev.Channel) {
		return meeting.SectionNone
	}
	m, ok := e.classifier.Apply(e.store, ev.Sender, ev.Text)
	if !ok {
		return meeting.SectionNone
	}
	e.logger.WithFields(logrus.Fields{
		"rule":    m.Rule,
		"sender":  ev.Sender,
		"section": m.Section,
	}).Debug("Applied utterance")
	e.notifier.Changed(m.Section, e.store)
	return m.Section
}

func (e *Engine) applySettings(s Settings) {
	if err := e.Configure(s); err != nil {
		e.logger.WithError(err).Warn("Ignoring new settings")
		return
	}
	e.logger.WithFields(logrus.Fields{
		"agent":    e.classifier.Agent(),
		"channels": s.Channels,
	}).Info("Settings reloaded")
}

// Start runs every registered source and processes their events until ctx is
// canceled or all sources have finished. It returns the first source error.
func (e *Engine) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan Event, 100)
	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)

	for _, s := range e.sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			log := e.logger.WithField("source", src.Name())
			log.Info("Starting source")
			err := src.Run(ctx, events)
			if err == nil || ctx.Err() != nil {
				log.Info("Source finished")
				return
			}
			log.WithError(err).Error("Source failed")
			errMu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			errMu.Unlock()
		}(s)
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	e.notifier.Changed(meeting.SectionAll, e.store)

	for {
		select {
		case <-ctx.Done():
			<-finished
			return nil
		case s := <-e.reconfig:
			e.applySettings(s)
		case ev := <-events:
			e.Handle(ev)
		case <-finished:
			for {
				select {
				case ev := <-events:
					e.Handle(ev)
				default:
					errMu.Lock()
					defer errMu.Unlock()
					return firstErr
				}
			}
		}
	}
}
