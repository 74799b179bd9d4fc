package replay

import (
	"context"
)

// DefaultStreamBuffer is the default demand window of a Stream: the number
// of values that may be in flight between the processor and the consuming
// channel.
const DefaultStreamBuffer = 100

// StreamOption configures a Stream.
type StreamOption func(*streamConfig)

type streamConfig struct {
	buffer int
}

// WithStreamBuffer sets the demand window of the stream. Larger windows
// let a fast producer run further ahead of the consumer. Values below 1 are
// ignored.
func WithStreamBuffer(size int) StreamOption {
	return func(c *streamConfig) {
		if size > 0 {
			c.buffer = size
		}
	}
}

// Stream adapts a subscription to channel-based consumption. Demand is
// managed automatically: the stream requests its buffer size up front and
// one more value for each value handed to the consumer, so the processor
// side never blocks on a slow consumer.
type Stream[T any] struct {
	in     chan T
	out    chan T
	cancel context.CancelFunc
	sub    Subscription
	err    error
}

// Stream subscribes to the processor and returns a channel-based consumer.
// The stream replays history and live values until the processor
// terminates, the context is cancelled, or Close is called.
func (p *Processor[T]) Stream(ctx context.Context, opts ...StreamOption) *Stream[T] {
	cfg := streamConfig{buffer: DefaultStreamBuffer}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(ctx)

	s := &Stream[T]{
		in:     make(chan T, cfg.buffer),
		out:    make(chan T),
		cancel: cancel,
	}

	p.Subscribe(&streamSubscriber[T]{stream: s, window: int64(cfg.buffer)})

	go s.pump(ctx)

	return s
}

// Values returns the channel delivering replayed and live values. It is
// closed when the stream ends for any reason; consult Err afterwards to
// distinguish completion from failure.
func (s *Stream[T]) Values() <-chan T {
	return s.out
}

// Err returns the terminal error of the stream. It must only be called
// after Values has been closed; it returns nil on successful completion or
// cancellation.
func (s *Stream[T]) Err() error {
	return s.err
}

// Close cancels the subscription and releases the stream. Safe to call
// multiple times and concurrently with consumption.
func (s *Stream[T]) Close() {
	s.cancel()
}

// pump moves values from the subscriber-facing buffer to the consumer
// channel, granting one unit of demand per delivered value.
func (s *Stream[T]) pump(ctx context.Context) {
	defer close(s.out)

	for {
		select {
		case v, ok := <-s.in:
			if !ok {
				return
			}
			select {
			case s.out <- v:
				s.sub.Request(1)
			case <-ctx.Done():
				s.sub.Cancel()
				return
			}
		case <-ctx.Done():
			s.sub.Cancel()
			return
		}
	}
}

// streamSubscriber is the Subscriber half of a Stream. OnNext never blocks:
// outstanding demand never exceeds the free capacity of the in channel.
type streamSubscriber[T any] struct {
	stream *Stream[T]
	window int64
}

func (ss *streamSubscriber[T]) OnSubscribe(sub Subscription) {
	ss.stream.sub = sub
	sub.Request(ss.window)
}

func (ss *streamSubscriber[T]) OnNext(v T) {
	ss.stream.in <- v
}

func (ss *streamSubscriber[T]) OnError(err error) {
	ss.stream.err = err
	close(ss.stream.in)
}

func (ss *streamSubscriber[T]) OnComplete() {
	close(ss.stream.in)
}
