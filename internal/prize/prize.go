// Package prize picks the target slot for a round using probability weights.
// The physics engine treats the chosen slot as an opaque constraint; this
// package is the upstream selector that produces it.
package prize

import (
	"fmt"

	"github.com/michael-h-patrianna/plinko-sub002/internal/physics"
)

// prizeStreamTag offsets the seed derivation so the selector never consumes
// the same generator stream as any simulation attempt.
const prizeStreamTag = 1 << 30

// Selector draws slot indices proportionally to their weights.
type Selector struct {
	weights []int
	total   int
}

// NewSelector validates and builds a selector. Weights must be non-empty and
// strictly positive, one per slot.
func NewSelector(weights []int) (*Selector, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("prize weights must not be empty")
	}
	total := 0
	for i, w := range weights {
		if w <= 0 {
			return nil, fmt.Errorf("prize weight %d must be positive, got %d", i, w)
		}
		total += w
	}
	s := &Selector{weights: make([]int, len(weights)), total: total}
	copy(s.weights, weights)
	return s, nil
}

// Uniform returns a selector giving every slot equal probability.
func Uniform(slotCount int) *Selector {
	weights := make([]int, slotCount)
	for i := range weights {
		weights[i] = 1
	}
	s, _ := NewSelector(weights)
	return s
}

// SlotCount reports how many slots the selector covers.
func (s *Selector) SlotCount() int {
	return len(s.weights)
}

// Pick draws a slot index deterministically from the round seed: the same
// seed always selects the same slot.
func (s *Selector) Pick(seed int64) int {
	rng := physics.NewRng(physics.DeriveAttemptSeed(seed, prizeStreamTag))
	roll := int(rng.Float64() * float64(s.total))
	cumulative := 0
	for i, w := range s.weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(s.weights) - 1
}
