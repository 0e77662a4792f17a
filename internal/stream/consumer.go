package stream

import "context"

// StreamConsumer pulls guard events off a transport, runs them through the
// pipeline, and publishes results. Setup prepares the consumer group; Start
// blocks until the context is cancelled or the transport fails.
type StreamConsumer interface {
	Setup(ctx context.Context) error
	Start(ctx context.Context) error
	Stop() error
}
