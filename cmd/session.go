package cmd

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/meetwatch/config"
	"github.com/grovetools/meetwatch/internal/meeting"
	"github.com/grovetools/meetwatch/internal/tracker"
	"github.com/grovetools/meetwatch/internal/view"
	"github.com/grovetools/meetwatch/logging"
	"github.com/grovetools/meetwatch/tui"
	"github.com/grovetools/meetwatch/tui/theme"
	"github.com/sirupsen/logrus"
)

// session wires one engine to its sources, renderers and the config
// watcher.
type session struct {
	cfg      *config.Config
	title    string
	trackAll bool
	engine   *tracker.Engine
	logger   *logrus.Entry
}

func newSession(cfg *config.Config, title string, trackAll bool) (*session, error) {
	s := &session{
		cfg:      cfg,
		title:    title,
		trackAll: trackAll,
		logger:   logging.NewLogger("session"),
	}

	store := meeting.New(logging.NewLogger("meeting"))
	s.engine = tracker.New(store, logging.NewLogger("tracker"))
	if err := s.engine.Configure(s.settings(cfg)); err != nil {
		return nil, err
	}
	return s, nil
}

// settings picks the live-reloadable parts of cfg. A replayed transcript
// is a single channel, so its filter tracks everything.
func (s *session) settings(cfg *config.Config) tracker.Settings {
	settings := tracker.Settings{Agent: cfg.Agent, Channels: cfg.Channels}
	if s.trackAll {
		settings.Channels = nil
	}
	return settings
}

// watchConfig reloads agent and channel settings when the project file
// changes.
func (s *session) watchConfig(ctx context.Context) {
	path := s.cfg.Path()
	if path == "" {
		return
	}

	w, err := config.NewWatcher(path, config.DefaultDebounce, logging.NewLogger("config"), func(cfg *config.Config) {
		s.engine.Reconfigure(s.settings(cfg))
	})
	if err != nil {
		s.logger.WithError(err).Warn("Configuration changes will not be picked up")
		return
	}
	go w.Start(ctx)
}

// run drives the engine until the sources end or ctx is canceled. With a
// terminal and without plain, the meeting is shown full screen until the
// user quits; otherwise every change is written to out.
func (s *session) run(ctx context.Context, out io.Writer, plain bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.watchConfig(ctx)

	if plain || !tui.Interactive() {
		s.engine.AddRenderer(view.NewPlain(out))
		return s.engine.Start(ctx)
	}

	program := view.NewProgram(view.NewModel(s.title, theme.DefaultTheme), tea.WithOutput(out))
	s.engine.AddRenderer(program)
	logging.AddHook(logging.NewDiagnosticsHook(program.Diagnose))
	prev := logging.SetGlobalOutput(io.Discard)
	defer logging.SetGlobalOutput(prev)

	done := make(chan error, 1)
	go func() {
		err := s.engine.Start(ctx)
		if ctx.Err() == nil {
			if err != nil {
				program.Finish(theme.RenderStatus("error", "stopped: "+err.Error()))
			} else {
				program.Finish(theme.RenderStatus("info", "source finished"))
			}
		}
		done <- err
	}()

	runErr := program.Run()
	cancel()
	err := <-done
	if runErr != nil {
		return runErr
	}
	return err
}

// store exposes the tracked state, for printing a final snapshot.
func (s *session) store() *meeting.Store {
	return s.engine.Store()
}
