package graceful

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

// MakeSigintChan returns a channel that receives SIGINT and SIGTERM.
func MakeSigintChan() chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return sigCh
}

// CancelOnSignal cancels the process context when an exit signal arrives.
func CancelOnSignal(cancel context.CancelFunc, logger *logrus.Logger) {
	go func() {
		sig := <-MakeSigintChan()
		logger.Infof("received exit signal: %v", sig)
		cancel()
	}()
}
