package ui

import (
	"context"
	"log"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkovalev/hatparty/pkg/client"
	"github.com/mkovalev/hatparty/pkg/game"
)

// screenState represents the current screen in the UI. Most screens map
// directly onto a session phase; the setup form is a sub-screen of setup
// that only the room creator reaches.
type screenState int

const (
	stateConnecting screenState = iota
	stateSetup
	stateSetupForm
	stateEnterWords
	statePreparePairs
	statePrepareTeams
	stateGame
	stateFinished
	stateDisconnected
)

// Model contains all the state for our UI.
type Model struct {
	ctx    context.Context
	client *client.GameClient

	state screenState
	snap  game.Snapshot
	err   error

	// Temporary message
	message string

	// Countdown shown during the game screen.
	timerSeconds int

	isCreator bool

	// Setup form inputs (just strings for simplicity)
	formMode          game.Mode
	roundTime         string
	wordsPerPlayer    string
	selectedFormField int

	// Word entry
	words       []string
	selectedRow int

	// Pairing editor: a pair is built explainer-first.
	pendingExplainer *int

	// Team editor
	selectedTeam int
}

// NewModel creates a new UI model.
func NewModel(ctx context.Context, cl *client.GameClient) Model {
	return Model{
		ctx:            ctx,
		client:         cl,
		state:          stateConnecting,
		formMode:       game.ModeSolo,
		roundTime:      "60",
		wordsPerPlayer: "5",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.client), waitForError(m.client))
}

// screenFor maps a session phase onto the screen that renders it. The
// setup form and the pairing/team split are resolved from local state.
func (m Model) screenFor(phase game.Phase) screenState {
	switch phase {
	case game.PhaseLoading:
		return stateConnecting
	case game.PhaseSetup:
		if m.state == stateSetupForm {
			return stateSetupForm
		}
		return stateSetup
	case game.PhaseEnterWords:
		return stateEnterWords
	case game.PhasePrepareRound:
		if m.snap.Round.Mode == game.ModeTeam {
			return statePrepareTeams
		}
		return statePreparePairs
	case game.PhaseGame:
		return stateGame
	case game.PhaseFinished:
		return stateFinished
	}
	return m.state
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case client.SnapshotMsg:
		prev := m.snap.Phase
		m.snap = game.Snapshot(msg)
		if m.snap.Phase != prev {
			m.enterScreen(m.snap.Phase)
		}
		m.timerSeconds = m.snap.TimerSeconds
		m.isCreator = m.client.IsCreator()
		cmds = append(cmds, waitForUpdate(m.client))

	case client.TimerTickMsg:
		m.timerSeconds = int(msg)
		cmds = append(cmds, waitForUpdate(m.client))

	case client.ServerErrorMsg:
		m.message = string(msg)
		cmds = append(cmds, waitForUpdate(m.client))

	case client.RoomClosedMsg:
		m.message = "The room was closed"
		m.state = stateDisconnected
		cmds = append(cmds, waitForUpdate(m.client))

	case client.DisconnectedMsg:
		m.message = "Connection lost"
		m.state = stateDisconnected

	case errMsg:
		m.err = msg.err
		cmds = append(cmds, waitForError(m.client))
	}

	return m, tea.Batch(cmds...)
}

// enterScreen resets per-screen editing state when the session moves to a
// new phase.
func (m *Model) enterScreen(phase game.Phase) {
	m.state = m.screenFor(phase)
	m.selectedRow = 0
	m.pendingExplainer = nil
	m.selectedTeam = 0
	m.message = ""
	m.err = nil
	if phase == game.PhaseEnterWords {
		m.words = m.client.Words()
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.state == stateDisconnected || m.state == stateFinished {
		if key == "q" || key == "enter" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.state {
	case stateSetup:
		return m.handleSetupKey(key)
	case stateSetupForm:
		return m.handleSetupFormKey(key)
	case stateEnterWords:
		return m.handleWordsKey(msg)
	case statePreparePairs:
		return m.handlePairsKey(key)
	case statePrepareTeams:
		return m.handleTeamsKey(key)
	case stateGame:
		return m.handleGameKey(key)
	}
	return m, nil
}

func (m Model) handleSetupKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "enter", "c":
		if m.isCreator {
			m.state = stateSetupForm
			m.selectedFormField = 0
		}
	}
	return m, nil
}

func (m Model) handleSetupFormKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "esc":
		m.state = stateSetup
		if err := m.client.CancelCreateGame(); err != nil {
			m.message = err.Error()
		}
		return m, nil
	case "up", "k":
		m.selectedFormField = max(0, m.selectedFormField-1)
		return m, nil
	case "down", "j":
		m.selectedFormField = min(2, m.selectedFormField+1)
		return m, nil
	case "left", "right", "h", "l":
		if m.selectedFormField == 0 {
			if m.formMode == game.ModeSolo {
				m.formMode = game.ModeTeam
			} else {
				m.formMode = game.ModeSolo
			}
		}
		return m, nil
	case "enter":
		roundTime, err := strconv.Atoi(m.roundTime)
		if err != nil || roundTime <= 0 {
			m.message = "round time must be a positive number"
			return m, nil
		}
		wordsPer, err := strconv.Atoi(m.wordsPerPlayer)
		if err != nil || wordsPer <= 0 {
			m.message = "words per player must be a positive number"
			return m, nil
		}
		if err := m.client.CreateGame(game.TypeOnline, m.formMode,
			[]int{roundTime, roundTime, roundTime}, wordsPer); err != nil {
			m.message = err.Error()
		}
		return m, nil
	}

	// Numeric fields accept digits and backspace.
	field := &m.roundTime
	switch m.selectedFormField {
	case 1:
		field = &m.roundTime
	case 2:
		field = &m.wordsPerPlayer
	default:
		return m, nil
	}
	if key == "backspace" && len(*field) > 0 {
		*field = (*field)[:len(*field)-1]
	} else if len(key) == 1 && key >= "0" && key <= "9" {
		*field += key
	}
	return m, nil
}

func (m Model) handleWordsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "up":
		m.selectedRow = max(0, m.selectedRow-1)
		return m, nil
	case "down":
		m.selectedRow = min(len(m.words)-1, m.selectedRow+1)
		return m, nil
	case "enter":
		if err := m.client.SubmitWords(); err != nil {
			m.message = err.Error()
		} else {
			m.message = "Words submitted, waiting for the others"
		}
		return m, nil
	case "backspace":
		if m.selectedRow < len(m.words) && len(m.words[m.selectedRow]) > 0 {
			w := m.words[m.selectedRow]
			m.setWord(m.selectedRow, w[:len(w)-1])
		}
		return m, nil
	}
	if len(msg.Runes) > 0 && m.selectedRow < len(m.words) {
		m.setWord(m.selectedRow, m.words[m.selectedRow]+string(msg.Runes))
	}
	return m, nil
}

func (m *Model) setWord(idx int, word string) {
	if err := m.client.SetWord(idx, word); err != nil {
		m.message = err.Error()
		return
	}
	m.words[idx] = word
}

func (m Model) handlePairsKey(key string) (tea.Model, tea.Cmd) {
	players := m.snap.Players
	switch key {
	case "up", "k":
		m.selectedRow = max(0, m.selectedRow-1)
	case "down", "j":
		m.selectedRow = min(len(players)-1, m.selectedRow+1)
	case "enter":
		if m.selectedRow >= len(players) {
			break
		}
		id := players[m.selectedRow].ID
		if m.pendingExplainer == nil {
			m.pendingExplainer = &id
			break
		}
		if err := m.client.AddPair(*m.pendingExplainer, id); err != nil {
			m.message = err.Error()
		}
		m.pendingExplainer = nil
	case "esc":
		m.pendingExplainer = nil
	case "d":
		if m.selectedRow < len(players) {
			if err := m.client.RemovePair(players[m.selectedRow].ID); err != nil {
				m.message = err.Error()
			}
		}
	case "s":
		if err := m.client.ShufflePairs(); err != nil {
			m.message = err.Error()
		}
	case "c":
		if err := m.client.ConfirmPairs(); err != nil {
			m.message = err.Error()
		} else {
			m.message = "Pairs confirmed"
		}
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleTeamsKey(key string) (tea.Model, tea.Cmd) {
	players := m.snap.Players
	switch key {
	case "up", "k":
		m.selectedRow = max(0, m.selectedRow-1)
	case "down", "j":
		m.selectedRow = min(len(players)-1, m.selectedRow+1)
	case "left", "h":
		m.selectedTeam = 0
	case "right", "l":
		m.selectedTeam = 1
	case "enter":
		if m.selectedRow >= len(players) {
			break
		}
		id := players[m.selectedRow].ID
		if err := m.client.AddToTeam(m.selectedTeam, id); err != nil {
			m.message = err.Error()
		}
	case "d":
		if m.selectedRow < len(players) {
			if err := m.client.RemoveFromTeam(players[m.selectedRow].ID); err != nil {
				m.message = err.Error()
			}
		}
	case "c":
		if err := m.client.ConfirmTeams(); err != nil {
			m.message = err.Error()
		} else {
			m.message = "Teams confirmed"
		}
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleGameKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "r":
		if err := m.client.PlayerReady(); err != nil {
			m.message = err.Error()
		}
	case "g", "enter":
		if err := m.client.WordGuessed(); err != nil {
			m.message = err.Error()
		}
	case "e":
		if err := m.client.EndTurn(); err != nil {
			m.message = err.Error()
		}
	case "x":
		if m.isCreator {
			if err := m.client.EndGameEarly(); err != nil {
				m.message = err.Error()
			}
		}
	}
	return m, nil
}

// Run starts the UI and blocks until it exits.
func Run(ctx context.Context, cl *client.GameClient) {
	p := tea.NewProgram(NewModel(ctx, cl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running UI: %v", err)
	}
}
