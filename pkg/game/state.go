package game

import "github.com/mkovalev/hatparty/pkg/wire"

// Phase is the coarse stage of the game session. The server is the only
// transition source; the client starts in PhaseLoading until the first
// phase_changed arrives.
type Phase string

const (
	PhaseLoading      Phase = "loading"
	PhaseSetup        Phase = "setup"
	PhaseEnterWords   Phase = "enterWords"
	PhasePrepareRound Phase = "prepare_round"
	PhaseGame         Phase = "game"
	PhaseFinished     Phase = "finished"
)

// Mode selects how guessing is organized.
type Mode string

const (
	ModeSolo Mode = "solo"
	ModeTeam Mode = "team"
)

// GameType distinguishes fully online play from a shared-screen game.
type GameType string

const (
	TypeOnline  GameType = "online"
	TypeOffline GameType = "offline"
)

// Role is the local player's part in the current turn.
type Role string

const (
	RoleExplainer Role = "explainer"
	RoleGuesser   Role = "guesser"
	RoleSpectator Role = "spectator"
)

// Player mirrors one entry of the server's participant list.
type Player struct {
	ID   int
	Name string
}

// RoundState holds the game configuration pushed by phase_changed. It
// persists across phases until the server supersedes it.
type RoundState struct {
	Round          int
	Mode           Mode
	Type           GameType
	RoundTime      []int
	WordsPerPlayer int
}

// TurnState tracks the active explainer/guesser assignment. CurrentWord is
// non-empty only while the local player is the explainer; every boundary
// handler clears it.
type TurnState struct {
	ActivePlayerID *int
	GuesserID      *int
	CurrentWord    string
	Scores         map[int]int
}

// WaitingStatus reports submission progress during enterWords.
type WaitingStatus struct {
	Submitted int
	Total     int
}

// Snapshot is the read-only view handed to rendering after every accepted
// event or tick. Slices and maps are copies; holders may keep it as long as
// they like.
type Snapshot struct {
	Phase          Phase
	Round          RoundState
	Turn           TurnState
	Waiting        WaitingStatus
	Players        []Player
	Role           Role
	LocalReady     bool
	TimerSeconds   int
	TimerRunning   bool
}

func copyScores(src map[int]int) map[int]int {
	if src == nil {
		return nil
	}
	dst := make(map[int]int, len(src))
	for id, s := range src {
		dst[id] = s
	}
	return dst
}

func playersFromWire(list []wire.Player) []Player {
	players := make([]Player, 0, len(list))
	for _, p := range list {
		players = append(players, Player{ID: p.ID, Name: p.Name})
	}
	return players
}
