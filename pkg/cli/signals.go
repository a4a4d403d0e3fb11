package cli

import (
	"os"
	"os/signal"
	"syscall"
)

// WaitForShutdown returns a channel that receives SIGINT and SIGTERM.
// The caller blocks on the channel to wait for a shutdown request.
func WaitForShutdown() <-chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	return sigChan
}
