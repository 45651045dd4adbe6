package bridge

import (
	"context"
	"time"
)

// Shutdown closes the browser session with a bounded wait and then stops
// the run loop. It is registered for both normal exit and termination
// signals; running it twice is a no-op, and it never blocks process
// termination indefinitely.
func (b *Bridge) Shutdown() {
	b.shutdownOnce.Do(func() {
		b.mu.Lock()
		client := b.client
		b.mu.Unlock()

		if client != nil {
			timeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			_, err := b.loop.Submit(ctx, func(ctx context.Context) (interface{}, error) {
				return nil, client.Shutdown()
			})
			if err != nil {
				// Cleanup failures are logged and swallowed: exit proceeds
				b.log.Errorf("Error closing browser: %v", err)
			}
		}

		b.loop.Stop()
		b.log.Infof("Shutdown complete")
	})
}
