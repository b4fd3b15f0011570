package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kailas-cloud/findmyfood/internal/cli"
	"github.com/kailas-cloud/findmyfood/internal/config"
	"github.com/kailas-cloud/findmyfood/internal/version"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], cli.Dependencies{Version: version.String()}, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
