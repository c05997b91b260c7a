package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/mkovalev/hatparty/pkg/wire"
)

var upgrader = websocket.Upgrader{}

// wsTestServer runs handler for every connection it accepts.
type wsTestServer struct {
	srv *httptest.Server

	mu       sync.Mutex
	received []string
}

func newWSTestServer(t *testing.T, handler func(s *wsTestServer, conn *websocket.Conn)) *wsTestServer {
	t.Helper()
	s := &wsTestServer{}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		handler(s, conn)
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *wsTestServer) url() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http")
}

func (s *wsTestServer) record(msg string) {
	s.mu.Lock()
	s.received = append(s.received, msg)
	s.mu.Unlock()
}

func (s *wsTestServer) waitForMessage(t *testing.T) string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		if len(s.received) > 0 {
			msg := s.received[0]
			s.received = s.received[1:]
			s.mu.Unlock()
			return msg
		}
		s.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("server received no message")
	return ""
}

func testConfig(url string) Config {
	cfg := DefaultConfig(url)
	cfg.ReconnectAttempts = 2
	cfg.ReconnectDelay = 10 * time.Millisecond
	return cfg
}

func recvEvent(t *testing.T, ch *WSChannel) wire.Event {
	t.Helper()
	select {
	case ev, ok := <-ch.Events():
		require.True(t, ok, "events channel closed")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("no event arrived")
		return wire.Event{}
	}
}

func TestChannelReceiveAndSend(t *testing.T) {
	s := newWSTestServer(t, func(s *wsTestServer, conn *websocket.Conn) {
		err := conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"event": "joined", "data": {"roomId": "r1"}}`))
		require.NoError(t, err)

		_, msg, err := conn.ReadMessage()
		if err == nil {
			s.record(string(msg))
		}
	})

	ch, err := Dial(testConfig(s.url()), slog.Disabled)
	require.NoError(t, err)
	defer ch.Close()

	ev := recvEvent(t, ch)
	require.Equal(t, wire.EventJoined, ev.Type)

	require.NoError(t, ch.Send(wire.Command{Type: wire.CmdEndTurn}))
	require.JSONEq(t, `{"event": "end_turn"}`, s.waitForMessage(t))
}

func TestChannelDropsMalformedFrames(t *testing.T) {
	s := newWSTestServer(t, func(_ *wsTestServer, conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`this is not json`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"data": {}}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"event": "turn_time_up"}`))
	})

	ch, err := Dial(testConfig(s.url()), slog.Disabled)
	require.NoError(t, err)
	defer ch.Close()

	ev := recvEvent(t, ch)
	require.Equal(t, wire.EventTurnTimeUp, ev.Type)
}

func TestChannelPreservesOrder(t *testing.T) {
	s := newWSTestServer(t, func(_ *wsTestServer, conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"event": "phase_changed", "data": {"phase": "game"}}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"event": "start_timer", "data": {"duration": 60}}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"event": "turn_time_up"}`))
	})

	ch, err := Dial(testConfig(s.url()), slog.Disabled)
	require.NoError(t, err)
	defer ch.Close()

	require.Equal(t, wire.EventPhaseChanged, recvEvent(t, ch).Type)
	require.Equal(t, wire.EventStartTimer, recvEvent(t, ch).Type)
	require.Equal(t, wire.EventTurnTimeUp, recvEvent(t, ch).Type)
}

func TestSendAfterClose(t *testing.T) {
	s := newWSTestServer(t, func(_ *wsTestServer, conn *websocket.Conn) {
		conn.ReadMessage()
	})

	ch, err := Dial(testConfig(s.url()), slog.Disabled)
	require.NoError(t, err)

	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close())

	require.ErrorIs(t, ch.Send(wire.Command{Type: wire.CmdEndTurn}), ErrChannelClosed)
}

func TestReconnectResumesStream(t *testing.T) {
	var conns int
	var mu sync.Mutex
	s := newWSTestServer(t, func(_ *wsTestServer, conn *websocket.Conn) {
		mu.Lock()
		conns++
		n := conns
		mu.Unlock()

		if n == 1 {
			// Drop the first connection without a closing handshake.
			conn.Close()
			return
		}
		conn.WriteMessage(websocket.TextMessage, []byte(`{"event": "joined"}`))
	})

	ch, err := Dial(testConfig(s.url()), slog.Disabled)
	require.NoError(t, err)
	defer ch.Close()

	// The only event must come from the second connection.
	ev := recvEvent(t, ch)
	require.Equal(t, wire.EventJoined, ev.Type)
}

func TestEventsClosedWhenServerGone(t *testing.T) {
	s := newWSTestServer(t, func(_ *wsTestServer, conn *websocket.Conn) {
		conn.Close()
	})

	cfg := testConfig(s.url())
	ch, err := Dial(cfg, slog.Disabled)
	require.NoError(t, err)

	s.srv.CloseClientConnections()
	s.srv.Close()

	select {
	case _, ok := <-ch.Events():
		require.False(t, ok, "expected closed events channel")
	case <-time.After(5 * time.Second):
		t.Fatal("events channel never closed")
	}
}
