package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yanqian/faqbot/internal/interface/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, cli.NewRootCommand(cli.Options{})); err != nil {
		os.Exit(1)
	}
}
