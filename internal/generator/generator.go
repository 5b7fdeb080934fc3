// Package generator picks prompts for a round.
package generator

import (
	"math/rand"
	"sync"
	"time"

	"github.com/verte-zerg/movwise/internal/deck"
	"github.com/verte-zerg/movwise/internal/model"
)

// HardWeight biases hard rounds toward difficult prompts.
const HardWeight = 1.5

// Generator produces randomized prompt selections.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Pick selects a prompt uniformly, avoiding lastID when another prompt exists.
func (g *Generator) Pick(prompts []model.Prompt, lastID string) (model.Prompt, bool) {
	return g.PickWeighted(prompts, lastID, 0)
}

// PickWeighted selects a prompt with weight 1 + (difficulty-1)*factor.
func (g *Generator) PickWeighted(prompts []model.Prompt, lastID string, factor float64) (model.Prompt, bool) {
	if len(prompts) == 0 {
		return model.Prompt{}, false
	}
	weights := make([]float64, len(prompts))
	total := 0.0
	for i, p := range prompts {
		if p.ID == lastID && len(prompts) > 1 {
			continue
		}
		w := 1.0 + float64(max(p.Difficulty-1, 0))*factor
		weights[i] = w
		total += w
	}

	r := g.rnd.Float64() * total
	acc := 0.0
	idx := -1
	for i, w := range weights {
		if w == 0 {
			continue
		}
		idx = i
		acc += w
		if r < acc {
			break
		}
	}
	return prompts[idx], true
}

// Shuffle returns p with its choices reordered and the answer index remapped.
func (g *Generator) Shuffle(p model.Prompt) model.Prompt {
	order := g.rnd.Perm(len(p.Choices))
	choices := make([]string, len(p.Choices))
	answer := p.Answer
	for to, from := range order {
		choices[to] = p.Choices[from]
		if from == p.Answer {
			answer = to
		}
	}
	p.Choices = choices
	p.Answer = answer
	return p
}

// Source draws shuffled prompts from a deck for the round store.
type Source struct {
	mu   sync.Mutex
	gen  *Generator
	deck *deck.Deck
	last string
}

// NewSource returns a Source over d.
func NewSource(d *deck.Deck, g *Generator) *Source {
	if g == nil {
		g = New()
	}
	return &Source{gen: g, deck: d}
}

// Next picks a prompt allowed at level, never repeating the previous one when the
// pool has alternatives.
func (s *Source) Next(level model.Difficulty) (model.Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deck == nil {
		return model.Prompt{}, false
	}
	pool := s.deck.Filter(deck.ForDifficulty(level))
	factor := 0.0
	if level == model.DifficultyHard {
		factor = HardWeight
	}
	p, ok := s.gen.PickWeighted(pool, s.last, factor)
	if !ok {
		return model.Prompt{}, false
	}
	s.last = p.ID
	return s.gen.Shuffle(p), true
}
