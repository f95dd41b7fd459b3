package main

import (
	"context"
	"os/signal"
)

// notifyContext cancels on the platform's shutdown signals, which in turn
// kills any running pandoc process group.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
