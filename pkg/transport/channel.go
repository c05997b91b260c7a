// Package transport carries the duplex event stream between the client and
// the game server. The server is authoritative; this layer only moves
// frames, preserving delivery order, and handles reconnection.
package transport

import (
	"errors"
	"time"

	"github.com/mkovalev/hatparty/pkg/wire"
)

// ErrChannelClosed is returned by Send after the channel shut down.
var ErrChannelClosed = errors.New("event channel is closed")

// Channel is the duplex message stream to the server. Events are delivered
// strictly in the order the server sent them; the Events channel is closed
// once the connection is gone for good.
type Channel interface {
	Events() <-chan wire.Event
	Send(cmd wire.Command) error
	Close() error
}

// Config holds the connection settings for a WebSocket channel.
type Config struct {
	// URL is the ws:// or wss:// endpoint of the game server.
	URL string

	// ReconnectAttempts bounds how many redials a broken connection
	// gets before the channel closes. Zero disables reconnection.
	ReconnectAttempts int

	// ReconnectDelay is the wait between redial attempts.
	ReconnectDelay time.Duration

	// HandshakeTimeout bounds the initial WebSocket upgrade.
	HandshakeTimeout time.Duration
}

// DefaultConfig mirrors the connection settings the web client shipped
// with: five attempts, one second apart.
func DefaultConfig(url string) Config {
	return Config{
		URL:               url,
		ReconnectAttempts: 5,
		ReconnectDelay:    time.Second,
		HandshakeTimeout:  10 * time.Second,
	}
}
