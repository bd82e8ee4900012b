package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrUnknownHandle indicates an unsubscribe for a handle that is not
// registered. It is local and non-fatal.
var ErrUnknownHandle = errors.New("unknown subscription handle")

// State is the connectivity of the client toward the orchestrator.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateBackoff
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateBackoff:
		return "backoff"
	default:
		return "unknown"
	}
}

// Config holds the connection settings for a Client.
type Config struct {
	// Endpoint is the ws:// or wss:// orchestrator address.
	Endpoint string

	HandshakeTimeout time.Duration

	BackoffMin    time.Duration
	BackoffMax    time.Duration
	BackoffJitter float64

	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration
}

func (c *Config) applyDefaults() {
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
	if c.BackoffMin <= 0 {
		c.BackoffMin = time.Second
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = 30 * time.Second
	}
	if c.BackoffJitter <= 0 {
		c.BackoffJitter = 0.5
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = 15 * time.Second
	}
	if c.HeartbeatTimeout <= 0 {
		c.HeartbeatTimeout = 45 * time.Second
	}
}

// Client maintains a long-lived channel to the orchestrator with soft
// failover: while started it reconnects indefinitely with capped,
// jittered exponential backoff, and on every successful connect it replays
// all registered subscriptions in registration order. Subscribe, Unsubscribe
// and Status never block on network I/O.
type Client struct {
	cfg      Config
	registry *registry
	state    atomic.Int32
	outbox   chan Message

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewClient builds a client for the configured orchestrator endpoint. The
// client is idle until Start.
func NewClient(cfg Config) *Client {
	cfg.applyDefaults()
	return &Client{
		cfg:      cfg,
		registry: newRegistry(),
		outbox:   make(chan Message, 64),
	}
}

// Start launches the background connect/read loop. Starting an already
// started client is a no-op.
func (c *Client) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(ctx, c.done)
}

// Stop cancels the background loop, unblocking any in-progress connect or
// read, and transitions to Disconnected. No reconnection is attempted until
// Start is called again. Registered subscriptions are retained.
func (c *Client) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Status returns the current connection state without blocking.
func (c *Client) Status() State {
	return State(c.state.Load())
}

// Subscribe registers a handler for a channel. It always succeeds locally:
// when connected a subscribe frame is enqueued immediately, otherwise the
// subscription is replayed on the next connect.
func (c *Client) Subscribe(channel string, handler Handler) Handle {
	handle, first := c.registry.add(channel, handler)
	if first && c.Status() == StateConnected {
		c.enqueue(Message{Op: opSubscribe, Channel: channel})
	}
	return handle
}

// Unsubscribe removes the handler named by the handle. When the last handler
// for a channel goes away, the channel itself is dropped and, if connected,
// an unsubscribe frame is enqueued.
func (c *Client) Unsubscribe(handle Handle) error {
	found, emptied := c.registry.remove(handle)
	if !found {
		return ErrUnknownHandle
	}
	if emptied && c.Status() == StateConnected {
		c.enqueue(Message{Op: opUnsubscribe, Channel: handle.channel})
	}
	return nil
}

// Channels returns the subscribed channel names in registration order.
func (c *Client) Channels() []string {
	return c.registry.list()
}

// enqueue hands a frame to the writer without waiting for network I/O.
func (c *Client) enqueue(msg Message) {
	select {
	case c.outbox <- msg:
	default:
		// Registry state is replayed on reconnect, so dropping a control
		// frame under pressure is recoverable.
		log.Printf("realtime: outbox full, dropping frame op=%s channel=%s", msg.Op, msg.Channel)
	}
}

func (c *Client) setState(s State) {
	c.state.Store(int32(s))
}

// run is the background loop: connect, serve until the link drops, back off,
// repeat. Cancellation is honored at every suspension point.
func (c *Client) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer c.setState(StateDisconnected)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.BackoffMin
	bo.MaxInterval = c.cfg.BackoffMax
	bo.RandomizationFactor = c.cfg.BackoffJitter

	for {
		if ctx.Err() != nil {
			return
		}

		c.setState(StateConnecting)
		cn, err := dialConn(c.cfg.Endpoint, c.cfg.HandshakeTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			wait := bo.NextBackOff()
			log.Printf("realtime: connect failed endpoint=%q retry_in=%s err=%v", c.cfg.Endpoint, wait, err)
			c.setState(StateBackoff)
			if !sleepCtx(ctx, wait) {
				return
			}
			continue
		}

		// The delay resets to its minimum on any successful connect.
		bo.Reset()
		c.setState(StateConnected)
		log.Printf("realtime: connected endpoint=%q channels=%d", c.cfg.Endpoint, len(c.registry.list()))

		err = c.serve(ctx, cn)
		_ = cn.close()
		if ctx.Err() != nil {
			return
		}

		wait := bo.NextBackOff()
		log.Printf("realtime: connection lost endpoint=%q retry_in=%s err=%v", c.cfg.Endpoint, wait, err)
		c.setState(StateBackoff)
		if !sleepCtx(ctx, wait) {
			return
		}
	}
}

// serve replays subscriptions over a fresh connection and pumps frames until
// the connection fails or the client stops.
func (c *Client) serve(ctx context.Context, cn *conn) error {
	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Closing the websocket unblocks a pending read as soon as the client
	// stops or the writer hits an error.
	go func() {
		<-serveCtx.Done()
		_ = cn.close()
	}()

	// Frames queued for a previous connection are stale: subscriptions are
	// about to be replayed from the registry.
	c.drainOutbox()

	for _, channel := range c.registry.list() {
		if err := cn.send(Message{Op: opSubscribe, Channel: channel}); err != nil {
			return err
		}
	}

	go c.writeLoop(serveCtx, cn, cancel)

	for {
		msg, err := cn.receive(time.Now().Add(c.cfg.HeartbeatTimeout))
		if err != nil {
			return err
		}
		switch msg.Op {
		case opPing:
			c.enqueue(Message{Op: opPong})
		case opPong:
			// Liveness only; the read deadline was already refreshed.
		default:
			if msg.Channel != "" {
				c.registry.dispatch(msg.Channel, msg.Payload)
			}
		}
	}
}

// writeLoop sends queued frames and heartbeat pings. On a send failure it
// cancels the serve context, which closes the connection and ends the read
// loop.
func (c *Client) writeLoop(ctx context.Context, cn *conn, cancel context.CancelFunc) {
	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.outbox:
			if err := cn.send(msg); err != nil {
				log.Printf("realtime: send failed op=%s channel=%s err=%v", msg.Op, msg.Channel, err)
				cancel()
				return
			}
		case <-ticker.C:
			if err := cn.send(Message{Op: opPing}); err != nil {
				log.Printf("realtime: heartbeat failed err=%v", err)
				cancel()
				return
			}
		}
	}
}

func (c *Client) drainOutbox() {
	for {
		select {
		case <-c.outbox:
		default:
			return
		}
	}
}

// sleepCtx waits for d and reports false if the context was cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Publish enqueues a payload for a channel when connected. It reports false
// without error when the link is down; realtime publication is best-effort.
func (c *Client) Publish(channel string, payload any) bool {
	if c.Status() != StateConnected {
		return false
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		log.Printf("realtime: encode publish payload channel=%s err=%v", channel, err)
		return false
	}
	c.enqueue(Message{Op: "publish", Channel: channel, Payload: encoded})
	return true
}
