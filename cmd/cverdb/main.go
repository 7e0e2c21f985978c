package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/gookit/color"

	"github.com/cverdb/cverdb/cmd/cverdb/cli"
	"github.com/cverdb/cverdb/internal/log"
)

func main() {
	cmd := cli.New()

	ctx, cancel := context.WithCancel(context.Background())
	cmd.SetContext(ctx)

	// note: it is important to always do signal handling from the main package so that
	// library consumers are never on the hook for it
	signals := make(chan os.Signal, 10)
	signal.Notify(signals, os.Interrupt)

	defer func() {
		signal.Stop(signals)
		cancel()
	}()

	go func() {
		select {
		case <-signals: // first signal, cancel context
			log.Trace("signal interrupt, stop requested")
			cancel()
		case <-ctx.Done():
		}
		<-signals // second signal, hard exit
		log.Trace("signal interrupt, killing")
		os.Exit(1)
	}()

	if err := cmd.Execute(); err != nil {
		color.Red.Printf("error: %v\n", err)
		defer os.Exit(1)
	}
}
