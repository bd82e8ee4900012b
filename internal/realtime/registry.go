package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// Handler receives messages published on a subscribed channel. Handlers run
// synchronously on the read loop; a panicking handler is isolated and does
// not stop dispatch to the remaining handlers.
type Handler func(channel string, payload json.RawMessage)

// Handle identifies one registered handler for later removal.
type Handle struct {
	channel string
	id      uint64
}

// Channel reports which channel the handle subscribes to.
func (h Handle) Channel() string { return h.channel }

type subscription struct {
	id      uint64
	handler Handler
}

// registry tracks subscribed channels and their handlers independent of
// connection state. Channel names are unique; subscribing an already-known
// channel appends a handler rather than duplicating the channel entry.
type registry struct {
	mu       sync.Mutex
	order    []string
	channels map[string][]subscription
	nextID   uint64
}

func newRegistry() *registry {
	return &registry{channels: make(map[string][]subscription)}
}

// add registers a handler and reports whether this is the channel's first
// handler (meaning a subscribe frame is owed to the orchestrator).
func (r *registry) add(channel string, handler Handler) (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	subs, known := r.channels[channel]
	if !known {
		r.order = append(r.order, channel)
	}
	r.channels[channel] = append(subs, subscription{id: r.nextID, handler: handler})
	return Handle{channel: channel, id: r.nextID}, !known
}

// remove drops the handler named by the handle. It reports whether the
// handle was known and whether its channel is now empty (meaning an
// unsubscribe frame is owed).
func (r *registry) remove(handle Handle) (found, emptied bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.channels[handle.channel]
	if !ok {
		return false, false
	}
	for i, sub := range subs {
		if sub.id != handle.id {
			continue
		}
		subs = append(subs[:i], subs[i+1:]...)
		if len(subs) == 0 {
			delete(r.channels, handle.channel)
			r.dropFromOrder(handle.channel)
			return true, true
		}
		r.channels[handle.channel] = subs
		return true, false
	}
	return false, false
}

func (r *registry) dropFromOrder(channel string) {
	for i, name := range r.order {
		if name == channel {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

// list returns the subscribed channels in registration order.
func (r *registry) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// dispatch invokes every handler registered for the channel, in registration
// order. A handler panic is logged and dispatch continues.
func (r *registry) dispatch(channel string, payload json.RawMessage) {
	r.mu.Lock()
	subs := make([]subscription, len(r.channels[channel]))
	copy(subs, r.channels[channel])
	r.mu.Unlock()

	for _, sub := range subs {
		dispatchOne(channel, payload, sub.handler)
	}
}

func dispatchOne(channel string, payload json.RawMessage, handler Handler) {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Printf("realtime: handler panic channel=%s err=%v", channel, recovered)
		}
	}()
	handler(channel, payload)
}
