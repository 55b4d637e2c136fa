package game

import (
	"math/rand"

	"github.com/jswales/capstead/pkg/game/constants"
)

// Dice rolls the pair of movement dice.
type Dice struct {
	rng *rand.Rand
}

// NewDice creates dice backed by the given source.
func NewDice(rng *rand.Rand) *Dice {
	return &Dice{rng: rng}
}

// Roll returns the two die faces. Doubles are detected by comparing them.
func (d *Dice) Roll() (int, int) {
	return d.rng.Intn(constants.DieSides) + 1, d.rng.Intn(constants.DieSides) + 1
}
