package realtime

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/websocket"
)

// Wire operations understood by the orchestrator.
const (
	opSubscribe   = "subscribe"
	opUnsubscribe = "unsubscribe"
	opPing        = "ping"
	opPong        = "pong"
)

// Message is one realtime wire frame. Outbound control frames carry Op and
// Channel; inbound channel messages carry Channel and Payload.
type Message struct {
	Op      string          `json:"op,omitempty"`
	Channel string          `json:"channel,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// conn owns a single websocket connection to the orchestrator endpoint.
// Sends are serialised under a mutex so control frames from concurrent
// callers never interleave on the wire.
type conn struct {
	ws  *websocket.Conn
	dec *json.Decoder

	sendMu sync.Mutex
	enc    *json.Encoder
}

// dialConn establishes one websocket connection, bounding the TCP and
// handshake phases by the given timeout.
func dialConn(endpoint string, timeout time.Duration) (*conn, error) {
	origin, err := originFor(endpoint)
	if err != nil {
		return nil, err
	}

	cfg, err := websocket.NewConfig(endpoint, origin)
	if err != nil {
		return nil, fmt.Errorf("websocket config: %w", err)
	}
	cfg.Dialer = &net.Dialer{Timeout: timeout}

	ws, err := websocket.DialConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	return &conn{
		ws:  ws,
		dec: json.NewDecoder(ws),
		enc: json.NewEncoder(ws),
	}, nil
}

// originFor derives the handshake origin from the ws/wss endpoint URL.
func originFor(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	scheme := "http"
	if u.Scheme == "wss" {
		scheme = "https"
	}
	return scheme + "://" + u.Host, nil
}

func (c *conn) send(msg Message) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.enc.Encode(msg)
}

// receive blocks until the next frame arrives or the deadline passes.
func (c *conn) receive(deadline time.Time) (Message, error) {
	if err := c.ws.SetReadDeadline(deadline); err != nil {
		return Message{}, err
	}
	var msg Message
	if err := c.dec.Decode(&msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

func (c *conn) close() error {
	return c.ws.Close()
}
