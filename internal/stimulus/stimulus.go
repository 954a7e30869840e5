// Package stimulus chooses which cue to present and how combos unfold.
package stimulus

import (
	"math/rand"
	"time"

	"github.com/akhutsishvili/hit-reflex-trainer/internal/model"
)

// Generator produces randomized stimulus choices. It is purely
// functional over its rng: no timing responsibility, no side effects.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Action picks the cue for one stimulus: a 50/50 draw in mode both,
// the single allowed kind otherwise.
func (g *Generator) Action(mode model.Mode) model.Action {
	switch mode {
	case model.ModeStrikeA:
		return model.ActionStrikeA
	case model.ModeStrikeB:
		return model.ActionStrikeB
	}
	if g.rnd.Intn(2) == 0 {
		return model.ActionStrikeA
	}
	return model.ActionStrikeB
}

// Draw samples a uniformly distributed integer from r, inclusive on both
// ends. Degenerate ranges (min == max) are deterministic. Ranges are
// assumed pre-validated by the difficulty resolver.
func (g *Generator) Draw(r model.Range) int {
	if r.Min >= r.Max {
		return r.Min
	}
	return r.Min + g.rnd.Intn(r.Max-r.Min+1)
}

// ComboPlan describes one combo: how many strikes and the gap preceding
// each strike after the first, each gap an independent draw.
type ComboPlan struct {
	Size   int
	GapsMs []int
}

// Combo samples a combo plan from the profile's combo ranges.
func (g *Generator) Combo(p model.DifficultyProfile) ComboPlan {
	size := g.Draw(p.ComboSize)
	gaps := make([]int, 0, size-1)
	for i := 1; i < size; i++ {
		gaps = append(gaps, g.Draw(p.StrikeGap))
	}
	return ComboPlan{Size: size, GapsMs: gaps}
}
