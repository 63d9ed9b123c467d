//go:build !unix

// ABOUTME: Visibility signal source for hosts without job-control signals
// ABOUTME: Never reports a change
package lifecycle

import "context"

// Notify returns a channel that closes when ctx is done
func Notify(ctx context.Context) <-chan Signal {
	out := make(chan Signal)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out
}
