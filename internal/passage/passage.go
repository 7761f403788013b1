// Package passage supplies the reference text for each typing session.
package passage

import (
	"errors"
	"math/rand"
	"time"
)

// Builtin is the default passage set.
var Builtin = []string{
	"Practice makes progress. Keep your fingers light and your eyes on the line ahead.",
	"Typing is a rhythm. Trust your muscle memory and let accuracy guide your speed.",
	"Small steps add up quickly. Stay calm, keep breathing, and correct gently.",
	"Precision first, speed second. Consistency over time builds mastery.",
	"Focus on smooth motion. Rest your wrists and let the keys do the work.",
}

// ErrNoPassages is returned when a provider would have nothing to offer.
var ErrNoPassages = errors.New("passage set is empty")

// Provider returns the passage for a new session.
type Provider interface {
	Next() string
}

// NewRand returns a random source seeded with seed, or with the current
// time when seed is zero.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Picker selects passages uniformly at random from a fixed set.
type Picker struct {
	rnd      *rand.Rand
	passages []string
}

// NewPicker returns a Picker over passages drawing from rnd.
func NewPicker(passages []string, rnd *rand.Rand) (*Picker, error) {
	if len(passages) == 0 {
		return nil, ErrNoPassages
	}
	return &Picker{rnd: rnd, passages: append([]string(nil), passages...)}, nil
}

// Next returns one passage chosen uniformly at random.
func (p *Picker) Next() string {
	return p.passages[p.rnd.Intn(len(p.passages))]
}
