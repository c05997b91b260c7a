package game

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrWordIndexOutOfRange = errors.New("word index out of range")
	ErrWordsIncomplete     = errors.New("every word slot must be filled")
)

// WordsDraft buffers the local player's words during enterWords. The slot
// count is fixed by wordsPerPlayer; submit_words only goes out once every
// slot holds a non-blank word.
type WordsDraft struct {
	mu    sync.Mutex
	words []string
}

// NewWordsDraft allocates count empty slots.
func NewWordsDraft(count int) *WordsDraft {
	if count < 1 {
		count = 1
	}
	return &WordsDraft{words: make([]string, count)}
}

// SetWord fills one slot.
func (d *WordsDraft) SetWord(i int, word string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if i < 0 || i >= len(d.words) {
		return ErrWordIndexOutOfRange
	}
	d.words[i] = word
	return nil
}

// Words returns a copy of the slots.
func (d *WordsDraft) Words() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.words...)
}

// IsComplete reports whether every slot holds a non-blank word.
func (d *WordsDraft) IsComplete() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.completeLocked()
}

// Confirm hands out the trimmed word list for submit_words.
func (d *WordsDraft) Confirm() ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.completeLocked() {
		return nil, ErrWordsIncomplete
	}
	words := make([]string, len(d.words))
	for i, w := range d.words {
		words[i] = strings.TrimSpace(w)
	}
	return words, nil
}

func (d *WordsDraft) completeLocked() bool {
	for _, w := range d.words {
		if strings.TrimSpace(w) == "" {
			return false
		}
	}
	return true
}
