package replay

import "github.com/dmitrymomot/replaycast/pkg/backpressure"

// Unbounded is the demand value that switches a subscription to unlimited
// delivery. Once requested, demand saturates and is never decremented.
const Unbounded = backpressure.Unbounded

// Subscription is the handle a subscriber uses to control its stream.
// Both methods are safe for concurrent use from any goroutine.
type Subscription interface {
	// Request adds n to the subscriber's pending demand. n must be
	// positive; a non-positive n cancels the subscription and signals
	// backpressure.ErrInvalidDemand through the subscriber's OnError.
	Request(n int64)

	// Cancel removes the subscriber from the processor. Idempotent; after
	// Cancel returns no further callbacks are initiated for this
	// subscriber.
	Cancel()
}

// Subscriber receives the replayed stream. OnSubscribe is invoked exactly
// once with the subscription handle, followed by zero or more OnNext calls
// and at most one of OnError or OnComplete.
//
// Callbacks must not block indefinitely: a stalled callback delays this
// subscriber's drain (other subscribers are unaffected). Callbacks must not
// panic.
type Subscriber[T any] interface {
	OnSubscribe(s Subscription)
	OnNext(v T)
	OnError(err error)
	OnComplete()
}

// Upstream is the producer-facing half of the processor: the callbacks an
// upstream source drives to feed values in. Processor implements it, which
// lets sources (for example integration/redis.Source) publish without
// knowing about the consumer side.
//
// Exactly one goroutine may call these methods, and never concurrently.
type Upstream[T any] interface {
	OnNext(v T)
	OnError(err error)
	OnComplete()
}
