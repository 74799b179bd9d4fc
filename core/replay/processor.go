package replay

import (
	"io"
	"log/slog"
	"sync/atomic"
)

// buffer is the storage strategy behind a Processor. Both implementations
// share the same contract: the producer-side methods are single-goroutine,
// drain may be invoked concurrently for distinct subscriptions.
type buffer[T any] interface {
	onNext(v T)
	onError(err error)
	onComplete()
	drain(rs *subscription[T])
	isDone() bool
	errValue() error
}

// registryState is the immutable subscriber set. A terminated state is
// distinct from an empty one: no subscription can ever be added to it.
type registryState[T any] struct {
	entries    []*subscription[T]
	terminated bool
}

// Processor multicasts a single produced stream to many subscribers,
// replaying recorded history to each. It implements Subscriber[T] on its
// producer side so an upstream source can drive it directly, and hands out
// Subscription handles on its consumer side.
type Processor[T any] struct {
	buf  buffer[T]
	subs atomic.Pointer[registryState[T]]

	logger       *slog.Logger
	droppedValue func(T)
	droppedError func(error)
}

// Option configures a Processor.
type Option[T any] func(*Processor[T])

// WithLogger configures structured logging for subscribe, terminal, and
// dropped-signal events. The drain hot path never logs.
// Use slog.New(slog.NewTextHandler(io.Discard, nil)) to disable logging.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(p *Processor[T]) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithDroppedValueHandler sets the sink for values arriving after the
// terminal latch. The default logs them at warn level.
func WithDroppedValueHandler[T any](fn func(T)) Option[T] {
	return func(p *Processor[T]) {
		if fn != nil {
			p.droppedValue = fn
		}
	}
}

// WithDroppedErrorHandler sets the sink for errors arriving after the
// terminal latch. The default logs them at warn level.
func WithDroppedErrorHandler[T any](fn func(error)) Option[T] {
	return func(p *Processor[T]) {
		if fn != nil {
			p.droppedError = fn
		}
	}
}

// NewUnbounded creates a processor that retains the entire produced history
// in a chain of fixed-size segments. segmentSize tunes the allocation
// granularity, not the retention; every subscriber replays from the first
// value. segmentSize must be at least 1.
func NewUnbounded[T any](segmentSize int, opts ...Option[T]) (*Processor[T], error) {
	if segmentSize < 1 {
		return nil, ErrInvalidBufferSize
	}
	return newProcessor(newUnboundedBuffer[T](segmentSize), opts...), nil
}

// NewBounded creates a processor that retains at most limit values, evicting
// the oldest on overflow. A late subscriber replays the retained tail.
// limit must be at least 1.
func NewBounded[T any](limit int, opts ...Option[T]) (*Processor[T], error) {
	if limit < 1 {
		return nil, ErrInvalidBufferSize
	}
	return newProcessor(newBoundedBuffer[T](limit), opts...), nil
}

// New creates a processor from a Config, selecting the storage strategy by
// cfg.Unbounded.
func New[T any](cfg Config, opts ...Option[T]) (*Processor[T], error) {
	if cfg.Unbounded {
		return NewUnbounded[T](cfg.BufferSize, opts...)
	}
	return NewBounded[T](cfg.BufferSize, opts...)
}

func newProcessor[T any](buf buffer[T], opts ...Option[T]) *Processor[T] {
	p := &Processor[T]{
		buf:    buf,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	p.subs.Store(&registryState[T]{})

	for _, opt := range opts {
		opt(p)
	}

	if p.droppedValue == nil {
		p.droppedValue = func(v T) {
			p.logger.Warn("value dropped after terminal signal", slog.Any("value", v))
		}
	}
	if p.droppedError == nil {
		p.droppedError = func(err error) {
			p.logger.Warn("error dropped after terminal signal", slog.String("error", err.Error()))
		}
	}

	return p
}

// Subscribe attaches a downstream subscriber. The subscriber first receives
// its Subscription handle, then replayed history as it requests demand. A
// subscriber attaching after the terminal signal receives whatever the
// buffer retains followed by the latched terminal.
func (p *Processor[T]) Subscribe(sub Subscriber[T]) {
	rs := newSubscription(sub, p)
	sub.OnSubscribe(rs)

	if p.add(rs) {
		if rs.cancelled.Load() {
			p.remove(rs)
			return
		}
		p.logger.Debug("subscriber attached", slog.String("subscription_id", rs.id))
	} else {
		// Registry already terminated: drain so the subscriber observes
		// the latched terminal signal.
		p.buf.drain(rs)
	}
}

// OnSubscribe wires the processor to its upstream source. If the processor
// is already terminal the upstream is cancelled, otherwise unbounded demand
// is requested: the processor itself never applies backpressure upstream.
func (p *Processor[T]) OnSubscribe(s Subscription) {
	if p.buf.isDone() {
		s.Cancel()
	} else {
		s.Request(Unbounded)
	}
}

// OnNext records v and fans the new value out to every currently registered
// subscription. Single producer goroutine only.
func (p *Processor[T]) OnNext(v T) {
	b := p.buf
	if b.isDone() {
		p.droppedValue(v)
		return
	}
	b.onNext(v)
	for _, rs := range p.subs.Load().entries {
		b.drain(rs)
	}
}

// OnError latches err as the terminal signal. Every current subscriber
// receives it after draining its remaining values; future subscribers
// replay the history and then receive it as well. err must be non-nil.
func (p *Processor[T]) OnError(err error) {
	b := p.buf
	if b.isDone() {
		p.droppedError(err)
		return
	}
	b.onError(err)

	for _, rs := range p.terminate() {
		b.drain(rs)
	}
	p.logger.Debug("stream terminated with error", slog.String("error", err.Error()))
}

// OnComplete latches successful completion. Subscribers receive it once
// they have drained the buffered history.
func (p *Processor[T]) OnComplete() {
	b := p.buf
	if b.isDone() {
		return
	}
	b.onComplete()

	for _, rs := range p.terminate() {
		b.drain(rs)
	}
	p.logger.Debug("stream completed")
}

// HasSubscribers reports whether any subscription is currently registered.
func (p *Processor[T]) HasSubscribers() bool {
	return len(p.subs.Load().entries) != 0
}

// SubscriberCount returns the number of currently registered subscriptions.
func (p *Processor[T]) SubscriberCount() int {
	return len(p.subs.Load().entries)
}

// Done reports whether the terminal signal has been latched.
func (p *Processor[T]) Done() bool {
	return p.buf.isDone()
}

// Err returns the latched terminal error, or nil if the processor has not
// terminated or completed successfully.
func (p *Processor[T]) Err() error {
	return p.buf.errValue()
}

// add registers rs through a copy-on-write swap. It fails only when the
// registry has been terminated.
func (p *Processor[T]) add(rs *subscription[T]) bool {
	for {
		cur := p.subs.Load()
		if cur.terminated {
			return false
		}

		next := &registryState[T]{entries: make([]*subscription[T], len(cur.entries)+1)}
		copy(next.entries, cur.entries)
		next.entries[len(cur.entries)] = rs

		if p.subs.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// remove deletes rs by identity through a copy-on-write swap. Absent
// entries are a no-op.
func (p *Processor[T]) remove(rs *subscription[T]) {
	for {
		cur := p.subs.Load()
		if cur.terminated || len(cur.entries) == 0 {
			return
		}

		idx := -1
		for i, e := range cur.entries {
			if e == rs {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}

		next := &registryState[T]{entries: make([]*subscription[T], 0, len(cur.entries)-1)}
		next.entries = append(next.entries, cur.entries[:idx]...)
		next.entries = append(next.entries, cur.entries[idx+1:]...)

		if p.subs.CompareAndSwap(cur, next) {
			return
		}
	}
}

// terminate swaps the registry to its terminated state and returns the
// subscriptions that were registered at that moment. Later calls return nil.
func (p *Processor[T]) terminate() []*subscription[T] {
	for {
		cur := p.subs.Load()
		if cur.terminated {
			return nil
		}
		if p.subs.CompareAndSwap(cur, &registryState[T]{terminated: true}) {
			return cur.entries
		}
	}
}
