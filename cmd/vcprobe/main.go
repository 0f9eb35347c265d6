// Package main is the entry point for the vcprobe command.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/chmouel/vcprobe/internal/bootstrap"
	"github.com/chmouel/vcprobe/internal/buildinfo"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(buildinfo.Info{Version: version, Commit: commit, Date: date, BuiltBy: builtBy})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := bootstrap.Run(ctx, os.Args)
	stop()
	os.Exit(code)
}
