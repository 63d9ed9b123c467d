//go:build unix

// ABOUTME: OS signal source for visibility changes on unix hosts
// ABOUTME: SIGUSR1 hides, SIGUSR2 and SIGCONT show
package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Notify translates OS signals into visibility signals until ctx is done
func Notify(ctx context.Context) <-chan Signal {
	raw := make(chan os.Signal, 4)
	signal.Notify(raw, syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGCONT)

	out := make(chan Signal, 4)
	go func() {
		defer close(out)
		defer signal.Stop(raw)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-raw:
				s := Visible
				switch sig {
				case syscall.SIGUSR1:
					s = Hidden
				case syscall.SIGCONT:
					s = Restored
				}
				select {
				case out <- s:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
