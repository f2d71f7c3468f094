package pipeline

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler derives a context from parent that is cancelled on SIGINT
// or SIGTERM. The stop hooks run in order before the cancel. A second signal
// exits with status 130. The handler is released once parent is done.
func SetupSignalHandler(parent context.Context, component string, stopHooks ...func(context.Context)) context.Context {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		select {
		case <-parent.Done():
			signal.Stop(sigCh)
			cancel()
			return
		case sig := <-sigCh:
			log.Printf("[%s] %v received, stopping after in-flight battles", component, sig)
			for _, stop := range stopHooks {
				stop(ctx)
			}
			cancel()
		}

		<-sigCh
		log.Printf("[%s] Second signal, exiting without cleanup", component)
		os.Exit(130)
	}()

	return ctx
}
