package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/dmitrymomot/replaycast/core/replay"
)

const (
	// DefaultWindow is the default demand window of a Sink.
	DefaultWindow = 32

	closeWriteTimeout = 5 * time.Second
)

// EncodeFunc serializes a value into one WebSocket message payload.
type EncodeFunc[T any] func(T) ([]byte, error)

// JSON returns an EncodeFunc marshalling values with encoding/json.
func JSON[T any]() EncodeFunc[T] {
	return func(v T) ([]byte, error) {
		return json.Marshal(v)
	}
}

// Sink forwards a replayed stream over a WebSocket connection. It is a
// replay.Subscriber; attach it with Processor.Subscribe. One Sink serves
// one connection.
type Sink[T any] struct {
	conn   *gws.Conn
	encode EncodeFunc[T]
	window int64
	logger *slog.Logger

	sub replay.Subscription
}

// SinkOption configures a Sink.
type SinkOption[T any] func(*Sink[T])

// WithWindow sets the demand window: how many values may be requested ahead
// of completed writes. Values below 1 are ignored.
func WithWindow[T any](n int64) SinkOption[T] {
	return func(s *Sink[T]) {
		if n > 0 {
			s.window = n
		}
	}
}

// WithSinkLogger sets the logger for write and encode failures.
func WithSinkLogger[T any](logger *slog.Logger) SinkOption[T] {
	return func(s *Sink[T]) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSink creates a Sink writing to conn with the given encoder.
func NewSink[T any](conn *gws.Conn, encode EncodeFunc[T], opts ...SinkOption[T]) (*Sink[T], error) {
	if conn == nil {
		return nil, ErrNilConn
	}
	if encode == nil {
		return nil, ErrNilEncoder
	}

	s := &Sink[T]{
		conn:   conn,
		encode: encode,
		window: DefaultWindow,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// OnSubscribe stores the subscription handle and opens the demand window.
func (s *Sink[T]) OnSubscribe(sub replay.Subscription) {
	s.sub = sub
	sub.Request(s.window)
}

// OnNext encodes and writes one value, then grants one unit of demand. Any
// failure cancels the subscription.
func (s *Sink[T]) OnNext(v T) {
	payload, err := s.encode(v)
	if err != nil {
		s.logger.Error("encode failed, cancelling subscription", slog.String("error", err.Error()))
		s.sub.Cancel()
		return
	}

	if err := s.conn.WriteMessage(gws.TextMessage, payload); err != nil {
		s.logger.Error("write failed, cancelling subscription", slog.String("error", err.Error()))
		s.sub.Cancel()
		return
	}

	s.sub.Request(1)
}

// OnError forwards the upstream error as a close frame.
func (s *Sink[T]) OnError(err error) {
	s.writeClose(gws.CloseInternalServerErr, err.Error())
}

// OnComplete sends a normal close frame.
func (s *Sink[T]) OnComplete() {
	s.writeClose(gws.CloseNormalClosure, "")
}

func (s *Sink[T]) writeClose(code int, reason string) {
	msg := gws.FormatCloseMessage(code, reason)
	if err := s.conn.WriteControl(gws.CloseMessage, msg, time.Now().Add(closeWriteTimeout)); err != nil {
		s.logger.Error("close frame write failed", slog.String("error", err.Error()))
	}
}
