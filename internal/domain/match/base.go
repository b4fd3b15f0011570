package match

import (
	"math/rand/v2"
	"sync"
)

// BaseScorer supplies the starting score of a compliant item.
// It carries no signal; it only varies how compliant items are displayed.
type BaseScorer interface {
	Base() int
}

// FixedBase always returns the same base score.
type FixedBase int

// Base implements BaseScorer.
func (f FixedBase) Base() int { return int(f) }

// RandomBase draws a base score uniformly from [MinBase, MaxBase).
// It is safe for concurrent use.
type RandomBase struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomBase creates a seeded random base scorer.
func NewRandomBase(seed uint64) *RandomBase {
	return &RandomBase{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))} //nolint:gosec // display variety only
}

// Base implements BaseScorer.
func (r *RandomBase) Base() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return MinBase + r.rng.IntN(MaxBase-MinBase)
}
