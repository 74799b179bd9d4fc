package replay

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dmitrymomot/replaycast/pkg/backpressure"
)

// subscription carries the per-subscriber replay state: the cursor into the
// buffer, the pending demand, and the work-in-progress counter that
// serializes the drain loop.
//
// The cursor fields (index, tailIndex, segment, node) are guarded by the wip
// counter: only the goroutine that won enter() may touch them, so they need
// no atomics of their own.
type subscription[T any] struct {
	id         string
	subscriber Subscriber[T]
	parent     *Processor[T]

	// Unbounded cursor: logical stream position plus offset into the
	// current segment.
	index     int64
	tailIndex int
	segment   *segment[T]

	// Bounded cursor: last node whose value was delivered, nil meaning
	// "start from the buffer head".
	node *node[T]

	requested atomic.Int64
	wip       atomic.Int32
	cancelled atomic.Bool
}

func newSubscription[T any](sub Subscriber[T], parent *Processor[T]) *subscription[T] {
	return &subscription[T]{
		id:         uuid.NewString(),
		subscriber: sub,
		parent:     parent,
	}
}

// Request implements Subscription. Non-positive demand cancels the
// subscription and surfaces the violation through the subscriber's OnError;
// on an already cancelled subscription it is a no-op.
func (s *subscription[T]) Request(n int64) {
	if err := backpressure.Validate(n); err != nil {
		if !s.cancelled.Load() {
			s.Cancel()
			s.subscriber.OnError(err)
		}
		return
	}
	backpressure.AddCap(&s.requested, n)
	s.parent.buf.drain(s)
}

// Cancel implements Subscription. The cursor is released here only when this
// call wins the wip serializer; a drain already in flight observes the
// cancelled flag and releases it itself.
func (s *subscription[T]) Cancel() {
	if s.cancelled.CompareAndSwap(false, true) {
		s.parent.remove(s)

		if s.enter() {
			s.segment = nil
			s.node = nil
		}
	}
}

// enter attempts to take ownership of the drain body. The caller that moves
// wip from zero owns the body; all others merely record a missed signal.
func (s *subscription[T]) enter() bool {
	return s.wip.Add(1) == 1
}

// leave releases ownership after processing missed signals. A non-zero
// return means more signals arrived during the body and the owner must loop
// again.
func (s *subscription[T]) leave(missed int32) int32 {
	return s.wip.Add(-missed)
}
