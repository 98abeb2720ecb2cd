package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grovetools/meetwatch/cli"
	"github.com/grovetools/meetwatch/cmd"
	"github.com/grovetools/meetwatch/tui"
)

func main() {
	tui.InitializeTUI()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cmd.NewRootCmd())
	stop()
	os.Exit(code)
}
