package game

import (
	"github.com/jswales/capstead/pkg/game/constants"
	"github.com/jswales/capstead/pkg/game/types"
)

// yieldByLevel maps a property's improvement level to its per-turn yield.
var yieldByLevel = [...]int{1, 1, 2, 4}

// computeYield returns the base yield for an improvement level. Levels
// outside the table clamp to its ends.
func computeYield(level int) int {
	if level < 0 {
		return yieldByLevel[0]
	}
	if level >= len(yieldByLevel) {
		return yieldByLevel[len(yieldByLevel)-1]
	}
	return yieldByLevel[level]
}

// runProduction credits the turn player with each owned property's yield.
// Intelligence gives each property a chance of one bonus unit. The
// commodity produced is drawn from the fixed pool at random.
func (s *Session) runProduction(p *Player) {
	owned := s.board.PropertiesOwnedBy(p.ID)
	for _, f := range owned {
		yield := computeYield(f.Level)
		if s.rng.Float64() < constants.IntelligenceYieldBonus*float64(p.Stats.Intelligence) {
			yield++
		}
		r := types.AllResources[s.rng.Intn(len(types.AllResources))]
		p.AddResource(r, yield)
		s.logf("%s produces %d %s from %s.", p.Name, yield, r, f.Name)
	}
	if len(owned) > 0 {
		s.emitStats(p)
	}
}
