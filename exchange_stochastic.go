package wordclass

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"
)

// randomPolicy decides, per word, whether to skip the greedy search and move
// the word to a uniformly drawn cluster instead.
type randomPolicy struct {
	rng *rand.Rand
	// level is the percentage of decisions made at random, in [0, 100].
	level float64
}

// draw reports a random destination when the coin flip falls below the
// randomness level. A nil policy never draws.
func (p *randomPolicy) draw(numClusters int) (int, bool) {
	if p == nil {
		return 0, false
	}
	if p.rng.Float64()*100 < p.level {
		return p.rng.Intn(numClusters), true
	}
	return 0, false
}

// StochasticExchange is Exchange with a tunable share of random moves.
//
// The AMI threshold does not gate convergence: every pass counts as improving,
// so a run stops only on a pass without moves or when the iteration budget is
// spent. A random draw of the word's own cluster counts as a move without
// changing any state.
type StochasticExchange struct {
	*Exchange
}

// NewStochasticExchange creates the stochastic engine. cfg.Randomness is the
// initial percentage of random moves and cfg.Seed seeds the generator.
func NewStochasticExchange(c *Corpus, cfg Config) (*StochasticExchange, error) {
	ex, err := NewExchange(c, cfg)
	if err != nil {
		return nil, err
	}
	ex.name = "StochasticExchange"
	ex.log = ex.cfg.Logger.With(zap.String("algorithm", "stochastic_exchange"))
	ex.stochastic = &randomPolicy{
		rng:   rand.New(rand.NewSource(ex.cfg.Seed)),
		level: ex.cfg.Randomness,
	}
	return &StochasticExchange{Exchange: ex}, nil
}

// Randomness returns the percentage of decisions made at random.
func (s *StochasticExchange) Randomness() float64 {
	return s.stochastic.level
}

// SetRandomness sets the percentage of decisions made at random. It may be
// changed between iterations.
func (s *StochasticExchange) SetRandomness(percentage float64) error {
	if percentage < 0 || percentage > 100 {
		return fmt.Errorf("wordclass: randomness must be in [0, 100], got %g: %w", percentage, ErrInvalidParameter)
	}
	s.stochastic.level = percentage
	return nil
}
