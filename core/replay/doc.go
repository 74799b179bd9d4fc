// Package replay provides a multicast replay processor with reactive backpressure.
//
// A Processor accepts a monotonic stream of values from a single upstream
// producer and re-emits the recorded history to every downstream subscriber,
// each at its own pace. Depending on construction, the processor either
// retains the entire history (unbounded, segmented storage) or only the most
// recent N values (bounded, linked ring storage).
//
// The implementation is lock-free: producer callbacks, subscriber demand
// signals, and cancellations execute on their caller's goroutine and
// synchronize exclusively through atomics. Per-subscriber emission is
// serialized by a work-in-progress counter, so each value is delivered
// exactly once and in producer order to every subscriber, regardless of how
// arrivals, requests, and cancellations interleave.
//
// # Architecture
//
// The package is built from three cooperating parts:
//
//   - a replay buffer (unbounded segment chain or bounded linked ring) that
//     the single producer appends to,
//   - a copy-on-write subscriber registry swapped atomically on subscribe,
//     cancel, and terminal signals,
//   - a per-subscriber drain loop that reconciles pending demand with
//     buffered values and pushes them to the subscriber.
//
// # Usage
//
// Replaying the full history to every subscriber:
//
//	p, err := replay.NewUnbounded[string](16)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	p.OnNext("alpha")
//	p.OnNext("beta")
//
//	// A late subscriber still observes the full stream.
//	p.Subscribe(sub) // sub receives "alpha", "beta", then live values
//
//	p.OnNext("gamma")
//	p.OnComplete()
//
// Retaining only the last N values:
//
//	p, err := replay.NewBounded[int](100)
//
// Channel-based consumption with automatic demand management:
//
//	stream := p.Stream(ctx)
//	for v := range stream.Values() {
//		fmt.Println(v)
//	}
//	if err := stream.Err(); err != nil {
//		log.Println("stream failed:", err)
//	}
//
// # Backpressure
//
// Subscribers control delivery through Subscription.Request. Demand is a
// saturating 64-bit credit: requesting Unbounded switches the subscriber to
// unlimited delivery. Values are only delivered against outstanding demand;
// terminal signals (completion or error) are delivered as soon as the
// subscriber has drained the buffer, without consuming demand.
//
// # Producer contract
//
// Exactly one goroutine may drive the producer side. OnNext must never be
// called concurrently with itself or with OnError/OnComplete. Values and
// errors arriving after the terminal latch are routed to the dropped-signal
// handlers (see WithDroppedValueHandler and WithDroppedErrorHandler); a
// repeated OnComplete is ignored. None of them reach subscribers.
//
// # Thread safety
//
// Subscribe, Request, and Cancel are safe for concurrent use from any
// goroutine. No operation blocks; a subscriber whose OnNext callback stalls
// delays only its own drain.
package replay
