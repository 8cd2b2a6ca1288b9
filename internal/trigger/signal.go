package trigger

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// StartSignalSource installs handlers for SIGINT and SIGTERM. The first
// signal pushes (Stop, "signal") to queue and logs it; a second signal
// received before the returned stop func is called bypasses graceful
// cleanup entirely and exits the process immediately. The signal scope is
// meant to be the outermost of the three trigger scopes so that a signal
// during another source's teardown still works as a plain terminate.
func StartSignalSource(logger *slog.Logger, queue *Queue) (stop func()) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		first := true

		for {
			select {
			case <-done:
				return
			case sig := <-sigCh:
				if !first {
					logger.Warn("got signal again, exiting immediately", slog.String("signal", sig.String()))
					os.Exit(1)
				}

				first = false

				logger.Warn("got signal, stopping sync loop...", slog.String("signal", sig.String()))
				queue.Put(Event{Op: Stop, Reason: "signal"})
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
		<-stopped
	}
}
