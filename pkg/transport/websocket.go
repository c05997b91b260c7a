package transport

import (
	"fmt"
	"sync"

	"github.com/decred/slog"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/mkovalev/hatparty/pkg/wire"
)

// WSChannel is the WebSocket implementation of Channel. A single reader
// goroutine decodes frames into the events channel, which keeps delivery
// order intact; writes are serialized by a mutex.
type WSChannel struct {
	cfg   Config
	log   slog.Logger
	clock clockwork.Clock

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool

	events chan wire.Event
	connID string
}

// Dial connects to the game server and starts the read loop.
func Dial(cfg Config, log slog.Logger) (*WSChannel, error) {
	return DialWithClock(cfg, log, clockwork.NewRealClock())
}

// DialWithClock is Dial with an injectable clock for the reconnect delay.
func DialWithClock(cfg Config, log slog.Logger, clock clockwork.Clock) (*WSChannel, error) {
	c := &WSChannel{
		cfg:    cfg,
		log:    log,
		clock:  clock,
		events: make(chan wire.Event, 64),
		connID: uuid.NewString(),
	}

	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	c.conn = conn

	go c.readPump()
	return c, nil
}

func (c *WSChannel) dial() (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	conn, _, err := dialer.Dial(c.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}
	c.log.Infof("connected to %s (conn %s)", c.cfg.URL, c.connID)
	return conn, nil
}

// Events returns the inbound event stream. Closed when the connection is
// permanently gone.
func (c *WSChannel) Events() <-chan wire.Event {
	return c.events
}

// Send encodes and writes one command frame.
func (c *WSChannel) Send(cmd wire.Command) error {
	payload, err := wire.EncodeCommand(cmd)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.conn == nil {
		return ErrChannelClosed
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("send %s: %w", cmd.Type, err)
	}
	return nil
}

// Close tears the channel down. Safe to call more than once.
func (c *WSChannel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *WSChannel) readPump() {
	defer close(c.events)

	for {
		c.mu.Lock()
		conn := c.conn
		closed := c.closed
		c.mu.Unlock()
		if closed || conn == nil {
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if c.isClosed() {
				return
			}
			c.log.Warnf("read failed: %v", err)
			if !c.reconnect() {
				return
			}
			continue
		}

		ev, err := wire.DecodeEvent(data)
		if err != nil {
			// A malformed frame is the server's problem, not a
			// reason to drop the connection.
			c.log.Warnf("dropping frame: %v", err)
			continue
		}
		c.events <- ev
	}
}

func (c *WSChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// reconnect redials up to the configured number of attempts. On success the
// server replays its current state as ordinary events, so resuming the read
// loop is all that is needed here.
func (c *WSChannel) reconnect() bool {
	for attempt := 1; attempt <= c.cfg.ReconnectAttempts; attempt++ {
		if c.isClosed() {
			return false
		}
		c.clock.Sleep(c.cfg.ReconnectDelay)

		conn, err := c.dial()
		if err != nil {
			c.log.Warnf("reconnect attempt %d/%d failed: %v",
				attempt, c.cfg.ReconnectAttempts, err)
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			conn.Close()
			return false
		}
		c.conn = conn
		c.mu.Unlock()
		c.log.Infof("reconnected after %d attempt(s)", attempt)
		return true
	}
	c.log.Errorf("giving up after %d reconnect attempts", c.cfg.ReconnectAttempts)
	return false
}
