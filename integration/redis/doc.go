// Package redis adapts a Redis Pub/Sub channel into the producer side of a
// replay processor.
//
// Source subscribes to one Redis channel and forwards every received
// payload to an upstream handle (typically a *replay.Processor[string]),
// honoring the processor's single-producer contract: one Run call drives
// all producer callbacks from a single goroutine.
//
// # Usage
//
//	client := goredis.NewClient(&goredis.Options{Addr: "localhost:6379"})
//
//	p, err := replay.NewBounded[string](1000)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	source, err := redis.New(client, "events")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Run blocks until the context is cancelled or the subscription fails.
//	go func() {
//		if err := source.Run(ctx, p); err != nil && !errors.Is(err, context.Canceled) {
//			log.Println("source stopped:", err)
//		}
//	}()
//
// Context cancellation completes the processor; a failed Pub/Sub
// subscription terminates it with the underlying error, so every replay
// subscriber observes a proper terminal signal either way.
package redis
