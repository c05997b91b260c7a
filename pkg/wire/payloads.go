package wire

// PlayerRef identifies a player inside a pairing payload.
type PlayerRef struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// Player is one entry of a players_list payload. The players_list data is
// the bare JSON array itself, not an object wrapping it.
type Player struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// PhaseChangedPayload carries a full or partial state push. Every field is
// independently optional; absent fields leave the client state untouched,
// with the single exception of CurrentWord (see game.Machine).
type PhaseChangedPayload struct {
	Phase          *string        `json:"phase,omitempty"`
	Round          *int           `json:"round,omitempty"`
	Type           *string        `json:"type,omitempty"`
	Mode           *string        `json:"mode,omitempty"`
	RoundTime      []int          `json:"roundTime,omitempty"`
	WordsPerPlayer *int           `json:"wordsPerPlayer,omitempty"`
	Participants   []Player       `json:"participants,omitempty"`
	Scores         map[int]int    `json:"scores,omitempty"`
	CurrentWord    *string        `json:"currentWord,omitempty"`
	ActivePlayerID *int           `json:"activePlayerId,omitempty"`
	GuesserID      *int           `json:"guesserId,omitempty"`
	WaitingStatus  *WaitingStatus `json:"waitingStatus,omitempty"`
}

// WaitingStatus reports word-submission progress during enterWords.
type WaitingStatus struct {
	Submitted *int `json:"submitted,omitempty"`
	Total     *int `json:"total,omitempty"`
}

// RevealWordPayload delivers the secret word after the explainer reported
// readiness.
type RevealWordPayload struct {
	Word string `json:"word"`
}

// NextWordPayload advances the explainer to the next word, optionally with
// refreshed scores.
type NextWordPayload struct {
	Word   *string     `json:"word,omitempty"`
	Scores map[int]int `json:"scores,omitempty"`
}

// TurnChangedPayload starts a new turn inside the current phase.
type TurnChangedPayload struct {
	ActivePlayerID *int        `json:"activePlayerId"`
	GuesserID      *int        `json:"guesserId"`
	Round          *int        `json:"round,omitempty"`
	Scores         map[int]int `json:"scores,omitempty"`
}

// StartTimerPayload starts the local countdown. TimeLeft is a server-side
// correction for clients that joined mid-turn and takes precedence over
// Duration.
type StartTimerPayload struct {
	Duration *int `json:"duration,omitempty"`
	TimeLeft *int `json:"timeLeft,omitempty"`
}

// UpdateTimerPayload snaps the countdown to the server's value.
type UpdateTimerPayload struct {
	TimeLeft *int `json:"timeLeft"`
}

// RoleInfoPayload reports whether the local user created the room.
type RoleInfoPayload struct {
	IsCreator bool `json:"isCreator"`
}

// CreateGamePayload configures and starts a game.
type CreateGamePayload struct {
	Type           string `json:"type"`
	Mode           string `json:"mode"`
	RoundTime      []int  `json:"roundTime"`
	WordsPerPlayer int    `json:"wordsPerPlayer"`
}

// SubmitWordsPayload sends the local player's words for the hat.
type SubmitWordsPayload struct {
	Words []string `json:"words"`
}

// Pair maps one explainer to one guesser for solo mode.
type Pair struct {
	Explainer PlayerRef `json:"explainer"`
	Guesser   PlayerRef `json:"guesser"`
}

// SetPairsPayload confirms the assembled pairing order.
type SetPairsPayload struct {
	Pairs []Pair `json:"pairs"`
}

// SetTeamsPayload confirms the two team rosters.
type SetTeamsPayload struct {
	Teams [2][]int `json:"teams"`
}

// CheckRolePayload asks the server whether this user created the room.
type CheckRolePayload struct {
	RoomID string `json:"roomId"`
	UserID int    `json:"userId"`
}
