// Package replaycast provides a lock-free multicast replay buffer with
// reactive backpressure, plus adapters bridging it to external transports.
//
// # Package Organization
//
//	github.com/dmitrymomot/replaycast/core/replay          - Replay processor: buffers, registry, drain loop
//	github.com/dmitrymomot/replaycast/pkg/backpressure     - Saturating demand-counter arithmetic
//	github.com/dmitrymomot/replaycast/integration/redis    - Redis Pub/Sub upstream source
//	github.com/dmitrymomot/replaycast/integration/websocket - WebSocket downstream sink
//
// For detailed documentation on any package, use the go doc command:
//
//	go doc github.com/dmitrymomot/replaycast/core/replay
package replaycast
