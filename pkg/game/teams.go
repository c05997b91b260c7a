package game

import (
	"errors"
	"sync"
)

var (
	ErrBadTeamIndex  = errors.New("team index must be 0 or 1")
	ErrAlreadyOnTeam = errors.New("player already belongs to a team")
	ErrNotOnTeam     = errors.New("player is not on a team")
	ErrEmptyTeam     = errors.New("both teams need at least one player")
)

// TeamDraft partitions players into the two guessing teams before the
// roster is confirmed. Players left unassigned are simply excluded from the
// confirmed roster; the server only requires both teams non-empty.
type TeamDraft struct {
	mu    sync.Mutex
	teams [2][]int
}

// NewTeamDraft starts with two empty teams.
func NewTeamDraft() *TeamDraft {
	return &TeamDraft{}
}

// Reset empties both teams.
func (d *TeamDraft) Reset() {
	d.mu.Lock()
	d.teams = [2][]int{}
	d.mu.Unlock()
}

// AddToTeam puts a player on the given team. Fails without mutation if the
// player already belongs to either team.
func (d *TeamDraft) AddToTeam(team, playerID int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if team < 0 || team > 1 {
		return ErrBadTeamIndex
	}
	for _, roster := range d.teams {
		for _, id := range roster {
			if id == playerID {
				return ErrAlreadyOnTeam
			}
		}
	}
	d.teams[team] = append(d.teams[team], playerID)
	return nil
}

// RemoveFromTeam takes a player off whichever team holds it.
func (d *TeamDraft) RemoveFromTeam(playerID int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for t := range d.teams {
		for i, id := range d.teams[t] {
			if id == playerID {
				d.teams[t] = append(d.teams[t][:i], d.teams[t][i+1:]...)
				return nil
			}
		}
	}
	return ErrNotOnTeam
}

// Teams returns a copy of both rosters.
func (d *TeamDraft) Teams() [2][]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.copyLocked()
}

// Confirm hands out the roster payload for set_teams and consumes the
// draft. Both teams must be non-empty.
func (d *TeamDraft) Confirm() ([2][]int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.teams[0]) == 0 || len(d.teams[1]) == 0 {
		return [2][]int{}, ErrEmptyTeam
	}
	teams := d.copyLocked()
	d.teams = [2][]int{}
	return teams, nil
}

func (d *TeamDraft) copyLocked() [2][]int {
	var out [2][]int
	for i := range d.teams {
		out[i] = append([]int(nil), d.teams[i]...)
	}
	return out
}
