// Package realtime maintains the subscription channel to the Mahavishnu
// orchestrator.
//
// The client keeps subscription state independent of connection state: a
// subscription registered while the link is down is replayed automatically on
// the next successful connect, so callers never observe subscription loss
// across a reconnect. Connection failures are absorbed by a backoff/retry
// loop and reflected only through Status.
package realtime
