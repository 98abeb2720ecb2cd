package cmd

import (
	"context"
	"fmt"

	"github.com/grovetools/meetwatch/cli"
	"github.com/grovetools/meetwatch/errors"
	"github.com/grovetools/meetwatch/internal/source"
	"github.com/grovetools/meetwatch/internal/tracker"
	"github.com/grovetools/meetwatch/internal/view"
	"github.com/grovetools/meetwatch/logging"
	"github.com/grovetools/meetwatch/tui/theme"
	"github.com/spf13/cobra"
)

const defaultTranscriptChannel = "#transcript"

// NewReplayCmd creates the command that rebuilds meeting state from a
// logged transcript.
func NewReplayCmd() *cobra.Command {
	var (
		follow  bool
		channel string
		agent   string
		plain   bool
	)

	cmd := &cobra.Command{
		Use:   "replay [FILE]",
		Short: "Rebuild meeting state from a logged transcript",
		Long: `Reads a logged IRC transcript and applies every line as if it had been
said live. Without --follow the final state is printed once; with --follow
the file is watched as it grows. FILE defaults to transcript.path from the
configuration; "-" reads standard input.

Examples:
  meetwatch replay minutes-2024-05-01.txt
  meetwatch replay --follow ~/irclogs/wg-css.log
  cat log.txt | meetwatch replay -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}

			path := cfg.Transcript.Path
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New(errors.ErrCodeInvalidInput, "no transcript given; pass FILE or set transcript.path")
			}

			f := cmd.Flags()
			if f.Changed("agent") {
				cfg.Agent = agent
			}
			if f.Changed("channel") {
				cfg.Transcript.Channel = channel
			}
			if f.Changed("follow") {
				cfg.Transcript.Follow = follow
			}
			if cfg.Transcript.Channel == "" {
				cfg.Transcript.Channel = defaultTranscriptChannel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			var src tracker.Source
			if path == "-" {
				src = &source.Reader{R: cmd.InOrStdin(), Channel: cfg.Transcript.Channel}
			} else {
				src = &source.Transcript{
					Path:    path,
					Channel: cfg.Transcript.Channel,
					Follow:  cfg.Transcript.Follow,
					Logger:  logging.NewLogger("transcript"),
				}
			}

			s, err := newSession(cfg, fmt.Sprintf("%s (%s)", cfg.Transcript.Channel, path), true)
			if err != nil {
				return err
			}
			s.engine.Register(src)

			if cfg.Transcript.Follow && path != "-" {
				return s.run(cmd.Context(), cmd.OutOrStdout(), plain)
			}
			return replayOnce(cmd.Context(), s, cmd)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&follow, "follow", "f", false, "Keep reading as the transcript grows")
	f.StringVar(&channel, "channel", "", "Channel the transcript was recorded in")
	f.StringVar(&agent, "agent", "", "Nickname of the meeting agent")
	f.BoolVar(&plain, "plain", false, "Print the state as text instead of the full-screen view")

	return cmd
}

// replayOnce runs the transcript to its end and prints the final state.
func replayOnce(ctx context.Context, s *session, cmd *cobra.Command) error {
	if err := s.engine.Start(ctx); err != nil {
		return err
	}

	snap := s.store().Snapshot()
	if cli.GetOptions(cmd).JSONOutput {
		return writeJSON(cmd.OutOrStdout(), snap)
	}
	fmt.Fprint(cmd.OutOrStdout(), view.Dump(snap, theme.DefaultTheme))
	return nil
}
