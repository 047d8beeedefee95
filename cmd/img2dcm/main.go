package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	cmd "github.com/jpfielding/img2dcm/cmd/img2dcm/cmd"
	"github.com/jpfielding/img2dcm/pkg/logging"
)

var (
	GitSHA string = "NA"
)

func main() {
	// register sigterm for graceful shutdown
	ctx, cnc := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cnc()
	go func() {
		defer cnc() // removes the signal handler so a second ctrl-c kills
		<-ctx.Done()
	}()
	slog.SetDefault(logging.Logger(os.Stdout, false, slog.LevelInfo))
	ctx = logging.AppendCtx(ctx,
		slog.Group("img2dcm",
			slog.String("git", GitSHA),
		))
	if err := cmd.NewRoot(ctx, GitSHA).Execute(); err != nil {
		os.Exit(1)
	}
}
