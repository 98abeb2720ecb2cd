package cmd

import (
	"github.com/grovetools/meetwatch/cli"
	"github.com/grovetools/meetwatch/version"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the meetwatch command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"meetwatch",
		"Follow a meeting's agenda, speaker queue and questions from its IRC channel",
	)
	cli.SetVersionTemplate(root, version.GetInfo())

	root.AddCommand(NewWatchCmd())
	root.AddCommand(NewReplayCmd())
	root.AddCommand(NewConfigCmd())
	root.AddCommand(cli.NewVersionCommand("meetwatch"))

	return root
}
