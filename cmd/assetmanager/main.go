package main

import (
	"context"
	"fmt"
	"os"

	"github.com/vormadev/assetmanager/internal/commands"
	"github.com/vormadev/assetmanager/kit/colorlog"
	"github.com/vormadev/assetmanager/kit/grace"
)

func main() {
	ctx, stop := grace.NotifyContext(context.Background(), grace.Options{
		Logger: colorlog.New("assetmanager", colorlog.Options{Output: os.Stderr}),
	})
	defer stop()

	if err := commands.NewApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "assetmanager:", err)
		stop()
		os.Exit(1)
	}
}
