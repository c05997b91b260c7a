package wire

import (
	"encoding/json"
	"fmt"
)

// EventType names an inbound server event. The names are part of the wire
// contract shared with the game server and must not change.
type EventType string

const (
	EventPlayersList       EventType = "players_list"
	EventPhaseChanged      EventType = "phase_changed"
	EventRevealWord        EventType = "reveal_word"
	EventWaitingForPlayers EventType = "waiting_for_players"
	EventNextWord          EventType = "next_word"
	EventTurnChanged       EventType = "turn_changed"
	EventStartTimer        EventType = "start_timer"
	EventUpdateTimer       EventType = "update_timer"
	EventTurnTimeUp        EventType = "turn_time_up"
	EventGameStarted       EventType = "game_started"

	// Room lifecycle events. The core only consumes role_info and the
	// error stream; the rest are surfaced to the caller untouched.
	EventJoined          EventType = "joined"
	EventLeftRoomSuccess EventType = "left_room_success"
	EventRoomNotFound    EventType = "room_not_found"
	EventRoomClosed      EventType = "room_closed"
	EventActiveRoomInfo  EventType = "active_room_info"
	EventRoleInfo        EventType = "role_info"
	EventErrorMessage    EventType = "error_message"
)

// CommandType names an outbound client command.
type CommandType string

const (
	CmdCreateGame       CommandType = "create_game"
	CmdCancelCreateGame CommandType = "cancel_create_game"
	CmdSubmitWords      CommandType = "submit_words"
	CmdPlayerReady      CommandType = "player_ready"
	CmdWordGuessed      CommandType = "word_guessed"
	CmdSetPairs         CommandType = "set_pairs"
	CmdSetTeams         CommandType = "set_teams"
	CmdEndTurn          CommandType = "end_turn"
	CmdEndGameEarly     CommandType = "end_game_early"
	CmdCheckRole        CommandType = "check_role"
)

// Frame is the envelope every message travels in, both directions: an event
// or command name plus its raw payload.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Event is a decoded inbound frame.
type Event struct {
	Type EventType
	Data json.RawMessage
}

// Command is an outbound frame before encoding.
type Command struct {
	Type CommandType
	Data interface{}
}

// DecodeEvent parses a raw frame into an Event. Unknown event names are not
// an error; the session layer decides what to ignore.
func DecodeEvent(raw []byte) (Event, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return Event{}, fmt.Errorf("decode frame: %w", err)
	}
	if f.Event == "" {
		return Event{}, fmt.Errorf("frame missing event name")
	}
	return Event{Type: EventType(f.Event), Data: f.Data}, nil
}

// EncodeCommand serializes a command into its wire frame.
func EncodeCommand(cmd Command) ([]byte, error) {
	f := Frame{Event: string(cmd.Type)}
	if cmd.Data != nil {
		data, err := json.Marshal(cmd.Data)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", cmd.Type, err)
		}
		f.Data = data
	}
	payload, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode %s frame: %w", cmd.Type, err)
	}
	return payload, nil
}
