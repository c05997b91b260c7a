package client

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/decred/slog"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/mkovalev/hatparty/pkg/game"
	"github.com/mkovalev/hatparty/pkg/transport"
	"github.com/mkovalev/hatparty/pkg/wire"
)

// fakeChannel is an in-memory transport.Channel for driving the client in
// tests.
type fakeChannel struct {
	events chan wire.Event
	sent   chan wire.Command
	closed chan struct{}
}

var _ transport.Channel = (*fakeChannel)(nil)

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		events: make(chan wire.Event, 16),
		sent:   make(chan wire.Command, 16),
		closed: make(chan struct{}),
	}
}

func (f *fakeChannel) Events() <-chan wire.Event { return f.events }

func (f *fakeChannel) Send(cmd wire.Command) error {
	f.sent <- cmd
	return nil
}

func (f *fakeChannel) Close() error {
	select {
	case <-f.closed:
	default:
		close(f.closed)
	}
	return nil
}

func (f *fakeChannel) push(t *testing.T, typ wire.EventType, payload string) {
	t.Helper()
	f.events <- wire.Event{Type: typ, Data: json.RawMessage(payload)}
}

func (f *fakeChannel) nextSent(t *testing.T) wire.Command {
	t.Helper()
	select {
	case cmd := <-f.sent:
		return cmd
	case <-time.After(5 * time.Second):
		t.Fatal("no command was sent")
		return wire.Command{}
	}
}

func newTestClient(t *testing.T) (*GameClient, *fakeChannel, *clockwork.FakeClock) {
	t.Helper()

	ch := newFakeChannel()
	fc := clockwork.NewFakeClock()
	cfg := &AppConfig{
		ServerURL:     "ws://test",
		RoomID:        "room-1",
		UserID:        1,
		Notifications: NewNotificationManager(),
	}

	gc, err := NewGameClient(context.Background(), cfg, ch, slog.Disabled, fc)
	require.NoError(t, err)
	t.Cleanup(func() { gc.Close() })

	// The client introduces itself with check_role.
	cmd := ch.nextSent(t)
	require.Equal(t, wire.CmdCheckRole, cmd.Type)

	return gc, ch, fc
}

func nextUpdate(t *testing.T, gc *GameClient) tea.Msg {
	t.Helper()
	select {
	case msg := <-gc.UpdatesCh:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("no update arrived")
		return nil
	}
}

func waitForSnapshot(t *testing.T, gc *GameClient) game.Snapshot {
	t.Helper()
	for {
		if snap, ok := nextUpdate(t, gc).(SnapshotMsg); ok {
			return game.Snapshot(snap)
		}
	}
}

func TestClientValidatesConfig(t *testing.T) {
	_, err := NewGameClient(context.Background(), &AppConfig{}, newFakeChannel(), slog.Disabled, clockwork.NewFakeClock())
	require.Error(t, err)
}

func TestClientAppliesPhaseEvents(t *testing.T) {
	gc, ch, _ := newTestClient(t)

	ch.push(t, wire.EventPhaseChanged, `{"phase": "setup", "participants": [{"id": 1, "name": "ann"}]}`)

	snap := waitForSnapshot(t, gc)
	require.Equal(t, game.PhaseSetup, snap.Phase)
	require.Len(t, snap.Players, 1)
}

func TestClientTracksCreatorRole(t *testing.T) {
	gc, ch, _ := newTestClient(t)
	require.False(t, gc.IsCreator())

	notified := make(chan bool, 1)
	gc.Notifications().RegisterSync(OnRoleInfoNtfn(func(isCreator bool) {
		notified <- isCreator
	}))

	ch.push(t, wire.EventRoleInfo, `{"isCreator": true}`)

	select {
	case isCreator := <-notified:
		require.True(t, isCreator)
	case <-time.After(5 * time.Second):
		t.Fatal("role_info notification never arrived")
	}
	require.True(t, gc.IsCreator())
}

func TestClientSurfacesServerErrors(t *testing.T) {
	gc, ch, _ := newTestClient(t)

	ch.push(t, wire.EventErrorMessage, `"room is full"`)

	for {
		if msg, ok := nextUpdate(t, gc).(ServerErrorMsg); ok {
			require.Equal(t, "room is full", string(msg))
			return
		}
	}
}

func TestClientResetsWordsDraftOnEnterWords(t *testing.T) {
	gc, ch, _ := newTestClient(t)

	ch.push(t, wire.EventPhaseChanged, `{"phase": "enterWords", "wordsPerPlayer": 3}`)
	waitForSnapshot(t, gc)

	require.Len(t, gc.Words(), 3)
	require.False(t, gc.WordsComplete())

	require.NoError(t, gc.SetWord(0, "walrus"))
	require.NoError(t, gc.SetWord(1, "otter"))
	require.NoError(t, gc.SetWord(2, "ferret"))
	require.NoError(t, gc.SubmitWords())

	cmd := ch.nextSent(t)
	require.Equal(t, wire.CmdSubmitWords, cmd.Type)
	payload, ok := cmd.Data.(wire.SubmitWordsPayload)
	require.True(t, ok)
	require.Equal(t, []string{"walrus", "otter", "ferret"}, payload.Words)
}

func TestClientResetsPairingOnPrepareRound(t *testing.T) {
	gc, ch, _ := newTestClient(t)

	ch.push(t, wire.EventPhaseChanged, `{
		"phase": "prepare_round",
		"participants": [{"id": 1, "name": "ann"}, {"id": 2, "name": "bob"}]
	}`)
	waitForSnapshot(t, gc)

	require.NoError(t, gc.AddPair(1, 2))
	require.NoError(t, gc.AddPair(2, 1))
	require.True(t, gc.PairsComplete())

	require.NoError(t, gc.ConfirmPairs())
	cmd := ch.nextSent(t)
	require.Equal(t, wire.CmdSetPairs, cmd.Type)
	require.Empty(t, gc.Pairs())
}

func TestPlayerReadyRequiresExplainerRole(t *testing.T) {
	gc, ch, _ := newTestClient(t)

	require.ErrorIs(t, gc.PlayerReady(), ErrNotExplainer)
	require.ErrorIs(t, gc.WordGuessed(), ErrNotExplainer)

	ch.push(t, wire.EventPhaseChanged, `{"phase": "game", "activePlayerId": 1, "guesserId": 2}`)
	waitForSnapshot(t, gc)

	require.NoError(t, gc.PlayerReady())
	cmd := ch.nextSent(t)
	require.Equal(t, wire.CmdPlayerReady, cmd.Type)
	require.True(t, gc.Snapshot().LocalReady)
}

func TestWordGuessedClearsWord(t *testing.T) {
	gc, ch, _ := newTestClient(t)

	ch.push(t, wire.EventPhaseChanged, `{"phase": "game", "activePlayerId": 1, "guesserId": 2}`)
	waitForSnapshot(t, gc)
	ch.push(t, wire.EventRevealWord, `{"word": "walrus"}`)
	waitForSnapshot(t, gc)

	require.NoError(t, gc.WordGuessed())
	cmd := ch.nextSent(t)
	require.Equal(t, wire.CmdWordGuessed, cmd.Type)
	require.Equal(t, "", gc.Snapshot().Turn.CurrentWord)
}

func TestTimerExpirySendsEndTurnOnce(t *testing.T) {
	gc, ch, fc := newTestClient(t)

	ch.push(t, wire.EventPhaseChanged, `{"phase": "game", "activePlayerId": 1, "guesserId": 2}`)
	waitForSnapshot(t, gc)
	ch.push(t, wire.EventStartTimer, `{"timeLeft": 2}`)
	waitForSnapshot(t, gc)

	waitForTick := func(want int) {
		for {
			if tick, ok := nextUpdate(t, gc).(TimerTickMsg); ok && int(tick) == want {
				return
			}
		}
	}

	fc.BlockUntil(1)
	fc.Advance(time.Second)
	waitForTick(1)
	fc.Advance(time.Second)
	waitForTick(0)

	cmd := ch.nextSent(t)
	require.Equal(t, wire.CmdEndTurn, cmd.Type)

	// The expiry is single fire; a late turn_time_up must not produce a
	// second end_turn.
	ch.push(t, wire.EventTurnTimeUp, `{}`)
	waitForSnapshot(t, gc)

	select {
	case cmd := <-ch.sent:
		t.Fatalf("unexpected extra command %s", cmd.Type)
	case <-time.After(50 * time.Millisecond):
	}
	require.False(t, gc.Snapshot().TimerRunning)
}

func TestConfirmTeamsRecordsRosters(t *testing.T) {
	gc, ch, _ := newTestClient(t)

	ch.push(t, wire.EventPhaseChanged, `{
		"phase": "prepare_round", "mode": "team",
		"participants": [{"id": 1, "name": "ann"}, {"id": 2, "name": "bob"}]
	}`)
	waitForSnapshot(t, gc)

	require.NoError(t, gc.AddToTeam(0, 1))
	require.NoError(t, gc.AddToTeam(1, 2))
	require.NoError(t, gc.ConfirmTeams())

	cmd := ch.nextSent(t)
	require.Equal(t, wire.CmdSetTeams, cmd.Type)
	payload, ok := cmd.Data.(wire.SetTeamsPayload)
	require.True(t, ok)
	require.Equal(t, [2][]int{{1}, {2}}, payload.Teams)

	// With the rosters recorded, team-number guesser ids resolve.
	ch.push(t, wire.EventTurnChanged, `{"activePlayerId": 2, "guesserId": 1}`)
	waitForSnapshot(t, gc)
	require.Equal(t, game.RoleGuesser, gc.Snapshot().Role)
}

func TestDisconnectStopsTimerAndNotifies(t *testing.T) {
	gc, ch, _ := newTestClient(t)

	ch.push(t, wire.EventStartTimer, `{"duration": 60}`)
	waitForSnapshot(t, gc)
	require.True(t, gc.Snapshot().TimerRunning)

	close(ch.events)

	for {
		if _, ok := nextUpdate(t, gc).(DisconnectedMsg); ok {
			break
		}
	}
	require.False(t, gc.Snapshot().TimerRunning)
}
