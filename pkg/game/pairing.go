package game

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/mkovalev/hatparty/pkg/wire"
)

var (
	ErrSelfPair         = errors.New("explainer and guesser must be different players")
	ErrUnknownPlayer    = errors.New("player is not in the room")
	ErrExplainerTaken   = errors.New("player already explains in another pair")
	ErrGuesserTaken     = errors.New("player already guesses in another pair")
	ErrPairNotFound     = errors.New("no pair with that explainer")
	ErrIndexOutOfRange  = errors.New("pair index out of range")
	ErrDraftIncomplete  = errors.New("every player must appear exactly once as explainer and guesser")
	ErrNotEnoughPlayers = errors.New("need at least two players")
)

// PairingDraft assembles the solo-mode explainer->guesser order before it
// is confirmed to the server. All rule violations are rejected at the call
// site without mutating the draft; the list order is the turn order and is
// preserved exactly as arranged.
type PairingDraft struct {
	mu      sync.Mutex
	players []Player
	pairs   []wire.Pair
	rng     *rand.Rand
}

// NewPairingDraft starts an empty draft over the given roster.
func NewPairingDraft(players []Player, rng *rand.Rand) *PairingDraft {
	return &PairingDraft{
		players: append([]Player(nil), players...),
		rng:     rng,
	}
}

// Reset rebinds the draft to a new roster and discards all pairs.
func (d *PairingDraft) Reset(players []Player) {
	d.mu.Lock()
	d.players = append([]Player(nil), players...)
	d.pairs = nil
	d.mu.Unlock()
}

// AddPair appends explainer->guesser. Each player may appear at most once
// per role across the whole draft.
func (d *PairingDraft) AddPair(explainerID, guesserID int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if explainerID == guesserID {
		return ErrSelfPair
	}
	explainer, ok := d.findLocked(explainerID)
	if !ok {
		return ErrUnknownPlayer
	}
	guesser, ok := d.findLocked(guesserID)
	if !ok {
		return ErrUnknownPlayer
	}
	for _, p := range d.pairs {
		if p.Explainer.ID == explainerID {
			return ErrExplainerTaken
		}
		if p.Guesser.ID == guesserID {
			return ErrGuesserTaken
		}
	}

	d.pairs = append(d.pairs, wire.Pair{
		Explainer: wire.PlayerRef{ID: explainer.ID, Name: explainer.Name},
		Guesser:   wire.PlayerRef{ID: guesser.ID, Name: guesser.Name},
	})
	return nil
}

// RemovePair deletes the pair keyed by its explainer.
func (d *PairingDraft) RemovePair(explainerID int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, p := range d.pairs {
		if p.Explainer.ID == explainerID {
			d.pairs = append(d.pairs[:i], d.pairs[i+1:]...)
			return nil
		}
	}
	return ErrPairNotFound
}

// Reorder moves the pair at from to position to, shifting the rest.
func (d *PairingDraft) Reorder(from, to int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if from < 0 || from >= len(d.pairs) || to < 0 || to >= len(d.pairs) {
		return ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}
	moved := d.pairs[from]
	d.pairs = append(d.pairs[:from], d.pairs[from+1:]...)
	d.pairs = append(d.pairs[:to], append([]wire.Pair{moved}, d.pairs[to:]...)...)
	return nil
}

// Shuffle replaces the whole draft with a random cycle over the roster:
// player i explains to player i+1 mod n. Every player appears exactly once
// in each role and never pairs with themselves.
func (d *PairingDraft) Shuffle() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := len(d.players)
	if n < 2 {
		return ErrNotEnoughPlayers
	}

	shuffled := append([]Player(nil), d.players...)
	d.rng.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	pairs := make([]wire.Pair, 0, n)
	for i, explainer := range shuffled {
		guesser := shuffled[(i+1)%n]
		pairs = append(pairs, wire.Pair{
			Explainer: wire.PlayerRef{ID: explainer.ID, Name: explainer.Name},
			Guesser:   wire.PlayerRef{ID: guesser.ID, Name: guesser.Name},
		})
	}
	d.pairs = pairs
	return nil
}

// Pairs returns a copy of the current draft in turn order.
func (d *PairingDraft) Pairs() []wire.Pair {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]wire.Pair(nil), d.pairs...)
}

// IsComplete reports whether every player appears exactly once as explainer
// and once as guesser. Given the AddPair uniqueness rules, the pair count
// matching the (non-empty) roster size is equivalent.
func (d *PairingDraft) IsComplete() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.completeLocked()
}

// Confirm hands out the pairing payload for set_pairs and consumes the
// draft. Only callable when the draft is complete.
func (d *PairingDraft) Confirm() ([]wire.Pair, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.completeLocked() {
		return nil, ErrDraftIncomplete
	}
	pairs := d.pairs
	d.pairs = nil
	return pairs, nil
}

func (d *PairingDraft) completeLocked() bool {
	return len(d.pairs) > 0 && len(d.pairs) == len(d.players)
}

func (d *PairingDraft) findLocked(id int) (Player, bool) {
	for _, p := range d.players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}
