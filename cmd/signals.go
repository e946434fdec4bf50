package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrisdamba/foodmatch/internal/simulator"
)

// watchSignals drains the simulation on the first SIGINT/SIGTERM and cancels
// it outright on the second. The returned func stops watching.
func watchSignals(sim *simulator.Simulator, cancel context.CancelFunc) func() {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case <-sigCh:
			sim.Shutdown()
		case <-done:
			return
		}
		select {
		case <-sigCh:
			slog.Warn("second signal received, stopping without draining")
			cancel()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
