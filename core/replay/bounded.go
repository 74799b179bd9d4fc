package replay

import (
	"sync/atomic"

	"github.com/dmitrymomot/replaycast/pkg/backpressure"
)

// node carries one value and a publishable pointer to its successor. The
// chain starts with a valueless sentinel.
type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// boundedBuffer retains at most limit values in a singly-linked chain.
// Eviction advances head; it never mutates published next pointers, so a
// subscriber holding an evicted node still reads a consistent suffix by
// following next from wherever it stopped. Nodes become reclaimable once no
// cursor references them.
//
// tail and size are owned by the single producer goroutine. head is atomic
// because late subscribers read it to position their cursor.
type boundedBuffer[T any] struct {
	limit int
	head  atomic.Pointer[node[T]]
	tail  *node[T]
	size  int
	done  atomic.Bool
	err   error // written before the done latch
}

func newBoundedBuffer[T any](limit int) *boundedBuffer[T] {
	n := &node[T]{}
	b := &boundedBuffer[T]{
		limit: limit,
		tail:  n,
	}
	b.head.Store(n)
	return b
}

func (b *boundedBuffer[T]) onNext(v T) {
	n := &node[T]{value: v}
	b.tail.next.Store(n)
	b.tail = n

	if b.size == b.limit {
		b.head.Store(b.head.Load().next.Load())
	} else {
		b.size++
	}
}

func (b *boundedBuffer[T]) onError(err error) {
	b.err = err
	b.done.Store(true)
}

func (b *boundedBuffer[T]) onComplete() {
	b.done.Store(true)
}

func (b *boundedBuffer[T]) isDone() bool {
	return b.done.Load()
}

func (b *boundedBuffer[T]) errValue() error {
	if !b.done.Load() {
		return nil
	}
	return b.err
}

// drain emits buffered values to rs as demand permits, serialized by the
// subscription's wip counter. The cursor is the last delivered node; its
// next pointer being nil is the empty condition.
func (b *boundedBuffer[T]) drain(rs *subscription[T]) {
	if !rs.enter() {
		return
	}

	missed := int32(1)
	sub := rs.subscriber

	for {
		r := rs.requested.Load()
		var e int64

		cur := rs.node
		if cur == nil {
			cur = b.head.Load()
		}

		for e != r {
			if rs.cancelled.Load() {
				rs.node = nil
				return
			}

			d := b.done.Load()
			next := cur.next.Load()
			empty := next == nil

			if d && empty {
				rs.node = nil
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

			sub.OnNext(next.value)

			e++
			cur = next
		}

		// Demand exhausted: the terminal still wins over missing demand
		// once the subscriber has caught up.
		if e == r {
			if rs.cancelled.Load() {
				rs.node = nil
				return
			}

			if b.done.Load() && cur.next.Load() == nil {
				rs.node = nil
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

		rs.node = cur

		missed = rs.leave(missed)
		if missed == 0 {
			break
		}
	}
}
