package redis

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/replaycast/core/replay"
)

// Source bridges one Redis Pub/Sub channel to a replay processor.
type Source struct {
	client  goredis.UniversalClient
	channel string
	logger  *slog.Logger
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithSourceLogger sets the logger for subscription lifecycle events.
func WithSourceLogger(logger *slog.Logger) SourceOption {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Source forwarding messages from the given Pub/Sub channel.
func New(client goredis.UniversalClient, channel string, opts ...SourceOption) (*Source, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if channel == "" {
		return nil, ErrEmptyChannel
	}

	s := &Source{
		client:  client,
		channel: channel,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Run subscribes to the Redis channel and drives dst's producer callbacks
// until the context is cancelled. It blocks for the lifetime of the
// subscription and must be the only producer of dst.
//
// On context cancellation dst is completed and the context error returned.
// If the Pub/Sub subscription cannot be established or its message channel
// closes, dst is terminated with the error.
func (s *Source) Run(ctx context.Context, dst replay.Upstream[string]) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		err = fmt.Errorf("subscribe to %q: %w", s.channel, err)
		dst.OnError(err)
		return err
	}

	s.logger.Info("redis source started", slog.String("channel", s.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			dst.OnComplete()
			s.logger.Info("redis source stopped", slog.String("channel", s.channel))
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				dst.OnError(ErrSubscriptionClosed)
				return ErrSubscriptionClosed
			}
			dst.OnNext(msg.Payload)
		}
	}
}
