package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkovalev/hatparty/pkg/game"
)

// View renders the current state of the UI.
func (m Model) View() string {
	var s string

	if m.message != "" {
		s += titleStyle.Render(m.message) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	}

	switch m.state {
	case stateConnecting:
		s += titleStyle.Render("Hat Party") + "\n\n"
		s += "Connecting to the room...\n"

	case stateSetup:
		s += m.renderSetup()

	case stateSetupForm:
		s += m.renderSetupForm()

	case stateEnterWords:
		s += m.renderEnterWords()

	case statePreparePairs:
		s += m.renderPreparePairs()

	case statePrepareTeams:
		s += m.renderPrepareTeams()

	case stateGame:
		s += m.renderGame()

	case stateFinished:
		s += m.renderFinished()

	case stateDisconnected:
		s += titleStyle.Render("Disconnected") + "\n\n"
		s += helpStyle.Render("Press Enter to exit")
	}

	return s
}

func (m Model) renderSetup() string {
	s := titleStyle.Render("Hat Party - Room "+m.client.RoomID) + "\n\n"
	s += m.renderPlayers(nil)
	if m.isCreator {
		s += "\n" + helpStyle.Render("Press Enter to set up a game, 'q' to quit")
	} else {
		s += "\n" + helpStyle.Render("Waiting for the host to start a game. Press 'q' to quit")
	}
	return s
}

func (m Model) renderSetupForm() string {
	s := titleStyle.Render("New Game") + "\n\n"

	fields := []struct {
		label string
		value string
	}{
		{"Mode", string(m.formMode)},
		{"Round Time (sec)", m.roundTime},
		{"Words Per Player", m.wordsPerPlayer},
	}

	for i, field := range fields {
		style := blurredStyle
		cursor := " "
		if i == m.selectedFormField {
			style = focusedStyle
			cursor = ">"
		}
		s += style.Render(fmt.Sprintf("%s %s: %s", cursor, field.label, field.value)) + "\n"
	}
	s += "\n" + helpStyle.Render("Arrows to navigate, left/right toggles mode, Enter to create, Esc to cancel")
	return s
}

func (m Model) renderEnterWords() string {
	s := titleStyle.Render("Enter Your Words") + "\n\n"

	if m.snap.Waiting.Total > 0 {
		s += infoStyle.Render(fmt.Sprintf("Submitted: %d/%d",
			m.snap.Waiting.Submitted, m.snap.Waiting.Total)) + "\n\n"
	}

	for i, w := range m.words {
		style := blurredStyle
		cursor := " "
		if i == m.selectedRow {
			style = focusedStyle
			cursor = ">"
		}
		s += style.Render(fmt.Sprintf("%s %d: %s", cursor, i+1, w)) + "\n"
	}
	s += "\n" + helpStyle.Render("Type to edit, arrows to move, Enter to submit all")
	return s
}

func (m Model) renderPreparePairs() string {
	s := titleStyle.Render("Set Up Pairs") + "\n\n"

	if m.pendingExplainer != nil {
		s += infoStyle.Render(fmt.Sprintf("Explainer: %s. Now pick the guesser.",
			m.playerName(*m.pendingExplainer))) + "\n\n"
	}

	s += m.renderPlayers(func(p game.Player) string {
		for _, pair := range m.client.Pairs() {
			if pair.Explainer.ID == p.ID {
				return fmt.Sprintf("explains to %s", pair.Guesser.Name)
			}
			if pair.Guesser.ID == p.ID {
				return fmt.Sprintf("guesses for %s", pair.Explainer.Name)
			}
		}
		return "unpaired"
	})

	if pairs := m.client.Pairs(); len(pairs) > 0 {
		s += "\nTurn order:\n"
		for i, pair := range pairs {
			s += blurredStyle.Render(fmt.Sprintf("  %d. %s -> %s",
				i+1, pair.Explainer.Name, pair.Guesser.Name)) + "\n"
		}
	}

	s += "\n" + helpStyle.Render("Enter picks explainer then guesser, 'd' unpairs, 's' shuffles, 'c' confirms")
	return s
}

func (m Model) renderPrepareTeams() string {
	s := titleStyle.Render("Set Up Teams") + "\n\n"

	teams := m.client.Teams()
	boxes := make([]string, 2)
	for t := 0; t < 2; t++ {
		var b strings.Builder
		header := fmt.Sprintf("Team %d", t+1)
		if t == m.selectedTeam {
			header = focusedStyle.Render(header + " *")
		}
		b.WriteString(header + "\n")
		for _, id := range teams[t] {
			b.WriteString(m.playerName(id) + "\n")
		}
		boxes[t] = teamBoxStyle.Render(b.String())
	}
	s += lipgloss.JoinHorizontal(lipgloss.Top, boxes[0], boxes[1]) + "\n\n"

	s += m.renderPlayers(func(p game.Player) string {
		for t := 0; t < 2; t++ {
			for _, id := range teams[t] {
				if id == p.ID {
					return fmt.Sprintf("team %d", t+1)
				}
			}
		}
		return "unassigned"
	})

	s += "\n" + helpStyle.Render("Left/right picks the team, Enter assigns, 'd' unassigns, 'c' confirms")
	return s
}

func (m Model) renderGame() string {
	s := titleStyle.Render(fmt.Sprintf("Round %d", m.snap.Round.Round)) + "\n\n"

	if m.snap.TimerRunning || m.timerSeconds > 0 {
		style := timerStyle
		if m.timerSeconds <= 10 {
			style = timerLowStyle
		}
		s += style.Render(fmt.Sprintf("  %02d:%02d", m.timerSeconds/60, m.timerSeconds%60)) + "\n\n"
	}

	role := m.snap.Role
	switch role {
	case game.RoleExplainer:
		if m.snap.Turn.CurrentWord != "" {
			s += "Your word:\n"
			s += wordStyle.Render(m.snap.Turn.CurrentWord) + "\n\n"
			s += helpStyle.Render("Press 'g' when guessed, 'e' to end the turn early")
		} else if m.snap.LocalReady {
			s += infoStyle.Render("Waiting for the word...") + "\n"
		} else {
			s += infoStyle.Render("You are explaining this turn.") + "\n"
			s += helpStyle.Render("Press 'r' when ready to start")
		}
	case game.RoleGuesser:
		s += infoStyle.Render("You are guessing! Listen up.") + "\n"
	default:
		active := "someone"
		if m.snap.Turn.ActivePlayerID != nil {
			active = m.playerName(*m.snap.Turn.ActivePlayerID)
		}
		s += infoStyle.Render(fmt.Sprintf("%s is explaining.", active)) + "\n"
	}

	s += "\n" + m.renderScores()
	if m.isCreator {
		s += helpStyle.Render("Press 'x' to finish the game early")
	}
	return s
}

func (m Model) renderFinished() string {
	s := titleStyle.Render("Game Over") + "\n\n"
	s += m.renderScores()
	s += helpStyle.Render("Press Enter to exit")
	return s
}

func (m Model) renderScores() string {
	scores := m.snap.Turn.Scores
	if len(scores) == 0 {
		return ""
	}

	ids := make([]int, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return scores[ids[i]] > scores[ids[j]] })

	s := "Scores:\n"
	for _, id := range ids {
		name := m.playerName(id)
		if m.snap.Round.Mode == game.ModeTeam {
			name = fmt.Sprintf("Team %d", id)
		}
		s += scoreStyle.Render(fmt.Sprintf("  %s: %d", name, scores[id])) + "\n"
	}
	return s + "\n"
}

// renderPlayers lists the participants, highlighting the local player and
// the selected row. The annotate callback adds a per-player suffix.
func (m Model) renderPlayers(annotate func(game.Player) string) string {
	players := m.snap.Players
	if len(players) == 0 {
		return blurredStyle.Render("No players yet.") + "\n"
	}

	s := "Players:\n"
	for i, p := range players {
		line := fmt.Sprintf("  %s", p.Name)
		if p.ID == m.client.ID {
			line += " (you)"
		}
		if annotate != nil {
			line += " - " + annotate(p)
		}
		style := blurredStyle
		if i == m.selectedRow && (m.state == statePreparePairs || m.state == statePrepareTeams) {
			style = focusedStyle
			line = ">" + line[1:]
		}
		s += style.Render(line) + "\n"
	}
	return s
}

func (m Model) playerName(id int) string {
	for _, p := range m.snap.Players {
		if p.ID == id {
			return p.Name
		}
	}
	return fmt.Sprintf("player %d", id)
}
