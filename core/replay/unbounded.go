package replay

import (
	"sync/atomic"

	"github.com/dmitrymomot/replaycast/pkg/backpressure"
)

// segment is a fixed-size block of value slots chained to its successor.
// The next pointer is written once by the producer on rollover and published
// atomically so readers can follow the chain without coordination.
type segment[T any] struct {
	values []T
	next   atomic.Pointer[segment[T]]
}

// unboundedBuffer retains the entire produced history in a chain of
// segments. Segments are never freed.
//
// The producer-side fields (tail, tailIndex) are owned by the single
// producer goroutine. size is the publication point: it is incremented with
// release semantics only after the value slot (and, on rollover, the segment
// link) has been written, so a reader that observes size == k may safely
// read the first k slots.
type unboundedBuffer[T any] struct {
	segmentSize int
	head        *segment[T]
	tail        *segment[T]
	tailIndex   int
	size        atomic.Int64
	done        atomic.Bool
	err         error // written before the done latch
}

func newUnboundedBuffer[T any](segmentSize int) *unboundedBuffer[T] {
	s := &segment[T]{values: make([]T, segmentSize)}
	return &unboundedBuffer[T]{
		segmentSize: segmentSize,
		head:        s,
		tail:        s,
	}
}

func (b *unboundedBuffer[T]) onNext(v T) {
	i := b.tailIndex
	if i == b.segmentSize {
		next := &segment[T]{values: make([]T, b.segmentSize)}
		next.values[0] = v
		b.tail.next.Store(next)
		b.tail = next
		b.tailIndex = 1
	} else {
		b.tail.values[i] = v
		b.tailIndex = i + 1
	}
	b.size.Add(1)
}

func (b *unboundedBuffer[T]) onError(err error) {
	b.err = err
	b.done.Store(true)
}

func (b *unboundedBuffer[T]) onComplete() {
	b.done.Store(true)
}

func (b *unboundedBuffer[T]) isDone() bool {
	return b.done.Load()
}

func (b *unboundedBuffer[T]) errValue() error {
	if !b.done.Load() {
		return nil
	}
	return b.err
}

// drain emits buffered values to rs as demand permits. At most one
// goroutine runs the body per subscription; concurrent signals are folded
// into the wip counter and processed by the owner before it leaves.
func (b *unboundedBuffer[T]) drain(rs *subscription[T]) {
	if !rs.enter() {
		return
	}

	missed := int32(1)
	sub := rs.subscriber
	n := b.segmentSize

	for {
		r := rs.requested.Load()
		var e int64

		node := rs.segment
		if node == nil {
			node = b.head
		}
		tailIndex := rs.tailIndex
		index := rs.index

		for e != r {
			if rs.cancelled.Load() {
				rs.segment = nil
				return
			}

			d := b.done.Load()
			empty := index == b.size.Load()

			if d && empty {
				rs.segment = nil
				if ex := b.err; ex != nil {
					sub.OnError(ex)
				} else {
					sub.OnComplete()
				}
				return
			}

			if empty {
				break
			}

			if tailIndex == n {
				node = node.next.Load()
				tailIndex = 0
			}

			sub.OnNext(node.values[tailIndex])

			e++
			tailIndex++
			index++
		}

		// Demand exhausted: the terminal still wins over missing demand
		// once the subscriber has caught up.
		if e == r {
			if rs.cancelled.Load() {
				rs.segment = nil
				return
			}

			if b.done.Load() && index == b.size.Load() {
				rs.segment = nil
				if ex := b.err; ex != nil {
					sub.OnError(ex)
				} else {
					sub.OnComplete()
				}
				return
			}
		}

		if e != 0 && r != Unbounded {
			backpressure.Produced(&rs.requested, e)
		}

		// Cursor write-back happens only here, so request and cancel
		// always observe a consistent (segment, index, tailIndex) triple.
		rs.index = index
		rs.tailIndex = tailIndex
		rs.segment = node

		missed = rs.leave(missed)
		if missed == 0 {
			break
		}
	}
}
