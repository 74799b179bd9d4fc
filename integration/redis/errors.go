package redis

import "errors"

var (
	// ErrNilClient is returned by New when no Redis client is provided.
	ErrNilClient = errors.New("redis client is nil")

	// ErrEmptyChannel is returned by New when the channel name is empty.
	ErrEmptyChannel = errors.New("redis channel name is empty")

	// ErrSubscriptionClosed terminates the processor when the Pub/Sub
	// message channel closes unexpectedly.
	ErrSubscriptionClosed = errors.New("redis subscription closed")
)
