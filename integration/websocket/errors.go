package websocket

import "errors"

var (
	// ErrNilConn is returned by NewSink when no connection is provided.
	ErrNilConn = errors.New("websocket connection is nil")

	// ErrNilEncoder is returned by NewSink when no encode function is
	// provided.
	ErrNilEncoder = errors.New("websocket encode function is nil")
)
