// Package websocket bridges a replay subscription to a WebSocket
// connection.
//
// Sink implements replay.Subscriber, writing each replayed value as one
// WebSocket message on an already-established connection. The replay drain
// serializes deliveries per subscriber, which satisfies the gorilla
// websocket requirement of at most one concurrent writer per connection
// without any extra locking.
//
// Backpressure maps naturally: the sink requests a fixed window of demand
// up front and one more value per completed write, so a slow or stalled
// peer delays only this subscriber's drain while other subscribers keep
// their own pace.
//
// # Usage
//
//	conn, _, err := gws.DefaultDialer.Dial(url, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sink, err := websocket.NewSink(conn, websocket.JSON[Event]())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	p.Subscribe(sink)
//
// Completion sends a normal close frame; an upstream error sends a close
// frame carrying the error text. Encoding or write failures cancel the
// subscription so the processor stops draining to a dead connection.
package websocket
