package game

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/decred/slog"

	"github.com/mkovalev/hatparty/pkg/wire"
)

// Machine is the canonical holder of the session state. It consumes the
// ordered event stream and materializes {phase, round, turn, waiting,
// players}; everything else reads through Snapshot.
//
// Transition table (server-driven; the machine never infers a transition
// from anything but an explicit phase_changed):
//
//	loading -> setup -> enterWords -> prepare_round -> game
//	game -> prepare_round (next round) | finished (schedule done or early end)
//
// The machine stays permissive at runtime: fields present on an event are
// applied, fields absent are kept, and an event arriving in an unexpected
// phase is applied anyway. The client is a state mirror, not a protocol
// verifier. Two hard rules are enforced on every boundary regardless of
// payload: the local-ready flag is cleared and the countdown is stopped, so
// no per-turn artifact survives a phase or turn change. The current word is
// additionally fail-closed: absent on phase_changed means cleared, and
// next_word only materializes a word for the resolved explainer.
type Machine struct {
	mu            sync.RWMutex
	localPlayerID int
	timer         *Reconciler
	log           slog.Logger

	phase      Phase
	round      RoundState
	turn       TurnState
	waiting    WaitingStatus
	players    []Player
	localReady bool
	rosters    [2][]int
}

// NewMachine creates a machine in the loading phase.
func NewMachine(localPlayerID int, timer *Reconciler, log slog.Logger) *Machine {
	return &Machine{
		localPlayerID: localPlayerID,
		timer:         timer,
		log:           log,
		phase:         PhaseLoading,
		round: RoundState{
			Mode:           ModeSolo,
			Type:           TypeOnline,
			WordsPerPlayer: 1,
		},
	}
}

// HandleEvent applies one inbound event. Decode failures are returned to the
// caller for logging; they never terminate the stream.
func (m *Machine) HandleEvent(ev wire.Event) error {
	switch ev.Type {
	case wire.EventPlayersList:
		return m.handlePlayersList(ev.Data)
	case wire.EventPhaseChanged:
		return m.handlePhaseChanged(ev.Data)
	case wire.EventRevealWord:
		return m.handleRevealWord(ev.Data)
	case wire.EventWaitingForPlayers:
		return m.handleWaiting(ev.Data)
	case wire.EventNextWord:
		return m.handleNextWord(ev.Data)
	case wire.EventTurnChanged:
		return m.handleTurnChanged(ev.Data)
	case wire.EventStartTimer:
		return m.handleStartTimer(ev.Data)
	case wire.EventUpdateTimer:
		return m.handleUpdateTimer(ev.Data)
	case wire.EventTurnTimeUp:
		m.handleTurnTimeUp()
		return nil
	case wire.EventGameStarted:
		m.log.Debugf("game started")
		return nil
	default:
		m.log.Debugf("ignoring event %q", ev.Type)
		return nil
	}
}

func (m *Machine) handlePlayersList(data json.RawMessage) error {
	var list []wire.Player
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("players_list: %w", err)
	}
	m.mu.Lock()
	m.players = playersFromWire(list)
	m.mu.Unlock()
	m.log.Debugf("players list replaced, %d players", len(list))
	return nil
}

func (m *Machine) handlePhaseChanged(data json.RawMessage) error {
	var p wire.PhaseChangedPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("phase_changed: %w", err)
	}

	m.mu.Lock()
	if p.Phase != nil {
		m.phase = Phase(*p.Phase)
	}
	if p.Round != nil {
		m.round.Round = *p.Round
	}
	if p.Type != nil {
		m.round.Type = GameType(*p.Type)
	}
	if p.Mode != nil {
		m.round.Mode = Mode(*p.Mode)
	}
	if p.RoundTime != nil {
		m.round.RoundTime = append([]int(nil), p.RoundTime...)
	}
	if p.WordsPerPlayer != nil {
		m.round.WordsPerPlayer = *p.WordsPerPlayer
	}
	if p.Participants != nil {
		m.players = playersFromWire(p.Participants)
	}
	if p.Scores != nil {
		m.turn.Scores = copyScores(p.Scores)
	}
	if p.ActivePlayerID != nil {
		m.turn.ActivePlayerID = p.ActivePlayerID
	}
	if p.GuesserID != nil {
		m.turn.GuesserID = p.GuesserID
	}
	if p.WaitingStatus != nil {
		m.waiting = WaitingStatus{
			Submitted: derefOrZero(p.WaitingStatus.Submitted),
			Total:     derefOrZero(p.WaitingStatus.Total),
		}
	}
	// Absent currentWord means cleared. A stale visible word is a
	// confidentiality leak, so this slot fails closed.
	if p.CurrentWord != nil {
		m.turn.CurrentWord = *p.CurrentWord
	} else {
		m.turn.CurrentWord = ""
	}
	m.localReady = false
	phase := m.phase
	m.mu.Unlock()

	m.timer.Stop()
	m.log.Debugf("phase changed: %s", phase)
	return nil
}

func (m *Machine) handleRevealWord(data json.RawMessage) error {
	var p wire.RevealWordPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("reveal_word: %w", err)
	}
	m.mu.Lock()
	m.turn.CurrentWord = p.Word
	m.mu.Unlock()
	return nil
}

func (m *Machine) handleWaiting(data json.RawMessage) error {
	var p wire.WaitingStatus
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("waiting_for_players: %w", err)
	}
	m.mu.Lock()
	if p.Submitted != nil {
		m.waiting.Submitted = *p.Submitted
	}
	if p.Total != nil {
		m.waiting.Total = *p.Total
	}
	m.mu.Unlock()
	return nil
}

func (m *Machine) handleNextWord(data json.RawMessage) error {
	var p wire.NextWordPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("next_word: %w", err)
	}
	m.mu.Lock()
	if p.Scores != nil {
		m.turn.Scores = copyScores(p.Scores)
	}
	explainer := m.turn.ActivePlayerID != nil && *m.turn.ActivePlayerID == m.localPlayerID
	if explainer {
		if p.Word != nil {
			m.turn.CurrentWord = *p.Word
		}
	} else {
		// The word is never shown to anyone but the explainer, even
		// if the server misdelivers it.
		m.turn.CurrentWord = ""
	}
	m.mu.Unlock()
	return nil
}

func (m *Machine) handleTurnChanged(data json.RawMessage) error {
	var p wire.TurnChangedPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("turn_changed: %w", err)
	}
	m.mu.Lock()
	m.turn.ActivePlayerID = p.ActivePlayerID
	m.turn.GuesserID = p.GuesserID
	if p.Round != nil {
		m.round.Round = *p.Round
	}
	if p.Scores != nil {
		m.turn.Scores = copyScores(p.Scores)
	}
	m.turn.CurrentWord = ""
	m.localReady = false
	m.mu.Unlock()

	m.timer.Stop()
	return nil
}

func (m *Machine) handleStartTimer(data json.RawMessage) error {
	var p wire.StartTimerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("start_timer: %w", err)
	}
	// timeLeft is the server's "this many remain" correction for a client
	// that connected mid-turn; it wins over the nominal duration.
	switch {
	case p.TimeLeft != nil:
		m.timer.Start(*p.TimeLeft)
	case p.Duration != nil:
		m.timer.Start(*p.Duration)
	default:
		m.log.Warnf("start_timer without duration or timeLeft, ignored")
	}
	return nil
}

func (m *Machine) handleUpdateTimer(data json.RawMessage) error {
	var p wire.UpdateTimerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("update_timer: %w", err)
	}
	if p.TimeLeft != nil {
		m.timer.Resync(*p.TimeLeft)
	}
	return nil
}

func (m *Machine) handleTurnTimeUp() {
	m.mu.Lock()
	m.localReady = false
	m.turn.CurrentWord = ""
	m.mu.Unlock()

	m.timer.Stop()
}

// SetLocalReady marks the local explainer as ready. Called by the client
// right after player_ready is sent.
func (m *Machine) SetLocalReady() {
	m.mu.Lock()
	m.localReady = true
	m.mu.Unlock()
}

// ClearWord blanks the visible word, used after word_guessed goes out so
// the old word is not shown while the next one is in flight.
func (m *Machine) ClearWord() {
	m.mu.Lock()
	m.turn.CurrentWord = ""
	m.mu.Unlock()
}

// SetTeamRosters records the confirmed team rosters used for team-mode role
// resolution.
func (m *Machine) SetTeamRosters(rosters [2][]int) {
	m.mu.Lock()
	for i := range rosters {
		m.rosters[i] = append([]int(nil), rosters[i]...)
	}
	m.mu.Unlock()
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// Players returns a copy of the current participant list.
func (m *Machine) Players() []Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Player(nil), m.players...)
}

// Role resolves the local player's role for the current turn.
func (m *Machine) Role() Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return ResolveRole(m.turn.ActivePlayerID, m.turn.GuesserID, m.localPlayerID, m.round.Mode, m.rosters)
}

// Snapshot materializes the read-only view for rendering. All reference
// fields are copies.
func (m *Machine) Snapshot() Snapshot {
	m.mu.RLock()
	snap := Snapshot{
		Phase: m.phase,
		Round: RoundState{
			Round:          m.round.Round,
			Mode:           m.round.Mode,
			Type:           m.round.Type,
			RoundTime:      append([]int(nil), m.round.RoundTime...),
			WordsPerPlayer: m.round.WordsPerPlayer,
		},
		Turn: TurnState{
			ActivePlayerID: copyIntPtr(m.turn.ActivePlayerID),
			GuesserID:      copyIntPtr(m.turn.GuesserID),
			CurrentWord:    m.turn.CurrentWord,
			Scores:         copyScores(m.turn.Scores),
		},
		Waiting:    m.waiting,
		Players:    append([]Player(nil), m.players...),
		Role:       ResolveRole(m.turn.ActivePlayerID, m.turn.GuesserID, m.localPlayerID, m.round.Mode, m.rosters),
		LocalReady: m.localReady,
	}
	m.mu.RUnlock()

	snap.TimerSeconds = m.timer.Seconds()
	snap.TimerRunning = m.timer.Running()
	return snap
}

func derefOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
