package client

import (
	"fmt"

	"github.com/mkovalev/hatparty/pkg/game"
	"github.com/mkovalev/hatparty/pkg/wire"
)

// ErrNotExplainer is returned for actions only the active explainer may take.
var ErrNotExplainer = fmt.Errorf("local player is not the explainer")

// CreateGame asks the server to open the setup with the given parameters.
// Only the room creator's request is honored server-side.
func (gc *GameClient) CreateGame(gameType game.GameType, mode game.Mode, roundTime []int, wordsPerPlayer int) error {
	return gc.channel.Send(wire.Command{
		Type: wire.CmdCreateGame,
		Data: wire.CreateGamePayload{
			Type:           string(gameType),
			Mode:           string(mode),
			RoundTime:      roundTime,
			WordsPerPlayer: wordsPerPlayer,
		},
	})
}

// CancelCreateGame backs out of the setup phase.
func (gc *GameClient) CancelCreateGame() error {
	return gc.channel.Send(wire.Command{Type: wire.CmdCancelCreateGame})
}

// SetWord stores one word of the local word list draft.
func (gc *GameClient) SetWord(idx int, word string) error {
	gc.RLock()
	words := gc.words
	gc.RUnlock()
	return words.SetWord(idx, word)
}

// Words returns the current word list draft.
func (gc *GameClient) Words() []string {
	gc.RLock()
	words := gc.words
	gc.RUnlock()
	return words.Words()
}

// WordsComplete reports whether every slot of the word draft is filled.
func (gc *GameClient) WordsComplete() bool {
	gc.RLock()
	words := gc.words
	gc.RUnlock()
	return words.IsComplete()
}

// SubmitWords confirms the word draft and sends it to the server.
func (gc *GameClient) SubmitWords() error {
	gc.RLock()
	words := gc.words
	gc.RUnlock()

	confirmed, err := words.Confirm()
	if err != nil {
		return err
	}
	return gc.channel.Send(wire.Command{
		Type: wire.CmdSubmitWords,
		Data: wire.SubmitWordsPayload{Words: confirmed},
	})
}

// PlayerReady marks the local explainer ready to start the turn. The ready
// flag is local bookkeeping until the server starts the timer.
func (gc *GameClient) PlayerReady() error {
	if gc.machine.Role() != game.RoleExplainer {
		return ErrNotExplainer
	}
	if err := gc.channel.Send(wire.Command{Type: wire.CmdPlayerReady}); err != nil {
		return err
	}
	gc.machine.SetLocalReady()
	return nil
}

// WordGuessed reports the current word as guessed. The word is cleared
// immediately; the server follows up with the next one.
func (gc *GameClient) WordGuessed() error {
	if gc.machine.Role() != game.RoleExplainer {
		return ErrNotExplainer
	}
	if err := gc.channel.Send(wire.Command{Type: wire.CmdWordGuessed}); err != nil {
		return err
	}
	gc.machine.ClearWord()
	return nil
}

// AddPair adds an explainer/guesser pair to the pairing draft.
func (gc *GameClient) AddPair(explainerID, guesserID int) error {
	return gc.pairing.AddPair(explainerID, guesserID)
}

// RemovePair drops the pair with the given explainer from the draft.
func (gc *GameClient) RemovePair(explainerID int) error {
	return gc.pairing.RemovePair(explainerID)
}

// ReorderPairs moves a pair within the draft's turn order.
func (gc *GameClient) ReorderPairs(from, to int) error {
	return gc.pairing.Reorder(from, to)
}

// ShufflePairs rebuilds the draft as a random cycle over all players.
func (gc *GameClient) ShufflePairs() error {
	return gc.pairing.Shuffle()
}

// Pairs returns the current pairing draft in turn order.
func (gc *GameClient) Pairs() []wire.Pair {
	return gc.pairing.Pairs()
}

// PairsComplete reports whether every player is paired.
func (gc *GameClient) PairsComplete() bool {
	return gc.pairing.IsComplete()
}

// ConfirmPairs sends the completed pairing to the server and consumes the
// draft.
func (gc *GameClient) ConfirmPairs() error {
	pairs, err := gc.pairing.Confirm()
	if err != nil {
		return err
	}
	return gc.channel.Send(wire.Command{
		Type: wire.CmdSetPairs,
		Data: wire.SetPairsPayload{Pairs: pairs},
	})
}

// AddToTeam assigns a player to team 0 or 1 in the team draft.
func (gc *GameClient) AddToTeam(team, playerID int) error {
	return gc.teams.AddToTeam(team, playerID)
}

// RemoveFromTeam unassigns a player from whichever team holds it.
func (gc *GameClient) RemoveFromTeam(playerID int) error {
	return gc.teams.RemoveFromTeam(playerID)
}

// Teams returns the current team rosters draft.
func (gc *GameClient) Teams() [2][]int {
	return gc.teams.Teams()
}

// ConfirmTeams sends the completed rosters to the server, consumes the
// draft, and records the rosters for later role resolution.
func (gc *GameClient) ConfirmTeams() error {
	teams, err := gc.teams.Confirm()
	if err != nil {
		return err
	}
	gc.machine.SetTeamRosters(teams)
	return gc.channel.Send(wire.Command{
		Type: wire.CmdSetTeams,
		Data: wire.SetTeamsPayload{Teams: teams},
	})
}

// EndTurn asks the server to close the current turn early.
func (gc *GameClient) EndTurn() error {
	return gc.channel.Send(wire.Command{Type: wire.CmdEndTurn})
}

// EndGameEarly asks the server to finish the game now. The phase change
// arrives back as an ordinary event; only the countdown stops locally.
func (gc *GameClient) EndGameEarly() error {
	if err := gc.channel.Send(wire.Command{Type: wire.CmdEndGameEarly}); err != nil {
		return err
	}
	gc.timer.Stop()
	return nil
}

// CheckRole asks the server whether the local user created the room.
func (gc *GameClient) CheckRole() error {
	return gc.channel.Send(wire.Command{
		Type: wire.CmdCheckRole,
		Data: wire.CheckRolePayload{RoomID: gc.RoomID, UserID: gc.ID},
	})
}
