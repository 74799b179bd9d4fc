package replay_test

import (
	"sync"
	"testing"
	"time"

	"github.com/dmitrymomot/replaycast/core/replay"
)

// recordingSubscriber captures every callback for assertions. autoRequest,
// when non-zero, is requested from inside OnSubscribe.
type recordingSubscriber[T any] struct {
	autoRequest int64

	mu        sync.Mutex
	sub       replay.Subscription
	values    []T
	errs      []error
	completes int

	terminalOnce sync.Once
	terminal     chan struct{}
}

func newRecordingSubscriber[T any](autoRequest int64) *recordingSubscriber[T] {
	return &recordingSubscriber[T]{
		autoRequest: autoRequest,
		terminal:    make(chan struct{}),
	}
}

func (r *recordingSubscriber[T]) OnSubscribe(s replay.Subscription) {
	r.mu.Lock()
	r.sub = s
	r.mu.Unlock()

	if r.autoRequest != 0 {
		s.Request(r.autoRequest)
	}
}

func (r *recordingSubscriber[T]) OnNext(v T) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
}

func (r *recordingSubscriber[T]) OnError(err error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
	r.terminalOnce.Do(func() { close(r.terminal) })
}

func (r *recordingSubscriber[T]) OnComplete() {
	r.mu.Lock()
	r.completes++
	r.mu.Unlock()
	r.terminalOnce.Do(func() { close(r.terminal) })
}

func (r *recordingSubscriber[T]) Subscription() replay.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sub
}

func (r *recordingSubscriber[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}

func (r *recordingSubscriber[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[0]
}

func (r *recordingSubscriber[T]) Completed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completes > 0
}

// TerminalCount counts every terminal callback received, for asserting the
// at-most-one-terminal contract.
func (r *recordingSubscriber[T]) TerminalCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs) + r.completes
}

func (r *recordingSubscriber[T]) WaitTerminal(t *testing.T, timeout time.Duration) {
	t.Helper()
	select {
	case <-r.terminal:
	case <-time.After(timeout):
		t.Fatal("timed out waiting for terminal signal")
	}
}

// cancellingSubscriber cancels its subscription from inside OnSubscribe.
type cancellingSubscriber[T any] struct {
	*recordingSubscriber[T]
}

func (c *cancellingSubscriber[T]) OnSubscribe(s replay.Subscription) {
	c.recordingSubscriber.OnSubscribe(s)
	s.Cancel()
}

// fakeUpstream records the processor's reaction to an upstream handshake.
type fakeUpstream struct {
	mu        sync.Mutex
	requested []int64
	cancels   int
}

func (f *fakeUpstream) Request(n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, n)
}

func (f *fakeUpstream) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels++
}
