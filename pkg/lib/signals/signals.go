// Package signals ties a context to the process' interrupt signals.
package signals

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

	signalCtx context.Context
	once      sync.Once
)

// Context returns a context that is cancelled on the first SIGINT or
// SIGTERM. A second signal exits the process with status 1. Every call
// returns the same context.
func Context() context.Context {
	once.Do(func() {
		signalCtx = notify(context.Background(), func() { os.Exit(1) }, shutdownSignals...)
	})
	return signalCtx
}

func notify(parent context.Context, exit func(), sigs ...os.Signal) context.Context {
	c := make(chan os.Signal, 2)
	signal.Notify(c, sigs...)
	ctx, cancel := context.WithCancel(parent)
	go func() {
		<-c
		cancel()
		<-c
		exit()
	}()
	return ctx
}
