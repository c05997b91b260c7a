package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEventPlayersListArray(t *testing.T) {
	// players_list carries a bare array, not an object.
	ev, err := DecodeEvent([]byte(`{"event": "players_list", "data": [{"id": 1, "name": "ann"}]}`))
	require.NoError(t, err)
	require.Equal(t, EventPlayersList, ev.Type)

	var players []Player
	require.NoError(t, json.Unmarshal(ev.Data, &players))
	require.Len(t, players, 1)
	require.Equal(t, 1, players[0].ID)
}

func TestDecodeEventSparsePhasePayload(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"event": "phase_changed", "data": {"round": 2, "scores": {"1": 5}}}`))
	require.NoError(t, err)

	var p PhaseChangedPayload
	require.NoError(t, json.Unmarshal(ev.Data, &p))

	require.Nil(t, p.Phase)
	require.Nil(t, p.CurrentWord)
	require.Nil(t, p.ActivePlayerID)
	require.NotNil(t, p.Round)
	require.Equal(t, 2, *p.Round)
	require.Equal(t, map[int]int{1: 5}, p.Scores)
}

func TestDecodeEventNullVsAbsent(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"event": "turn_changed", "data": {"activePlayerId": null, "guesserId": 3}}`))
	require.NoError(t, err)

	var p TurnChangedPayload
	require.NoError(t, json.Unmarshal(ev.Data, &p))
	require.Nil(t, p.ActivePlayerID)
	require.NotNil(t, p.GuesserID)
	require.Equal(t, 3, *p.GuesserID)
}

func TestDecodeEventWithoutData(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"event": "turn_time_up"}`))
	require.NoError(t, err)
	require.Equal(t, EventTurnTimeUp, ev.Type)
	require.Nil(t, ev.Data)
}

func TestDecodeEventUnknownNameAccepted(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"event": "some_future_event", "data": {}}`))
	require.NoError(t, err)
	require.Equal(t, EventType("some_future_event"), ev.Type)
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	_, err := DecodeEvent([]byte(`not json`))
	require.Error(t, err)

	_, err = DecodeEvent([]byte(`{"data": {}}`))
	require.Error(t, err, "missing event name")
}

func TestEncodeCommandFrameShape(t *testing.T) {
	raw, err := EncodeCommand(Command{
		Type: CmdCheckRole,
		Data: CheckRolePayload{RoomID: "r-17", UserID: 4},
	})
	require.NoError(t, err)

	var f struct {
		Event string `json:"event"`
		Data  struct {
			RoomID string `json:"roomId"`
			UserID int    `json:"userId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &f))
	require.Equal(t, "check_role", f.Event)
	require.Equal(t, "r-17", f.Data.RoomID)
	require.Equal(t, 4, f.Data.UserID)
}

func TestEncodeCommandWithoutPayload(t *testing.T) {
	raw, err := EncodeCommand(Command{Type: CmdEndTurn})
	require.NoError(t, err)
	require.JSONEq(t, `{"event": "end_turn"}`, string(raw))
}
