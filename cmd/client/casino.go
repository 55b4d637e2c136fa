package main

import (
	"fmt"
	"math/rand"

	"github.com/jswales/capstead/pkg/game/types"
)

// casinoVisit accumulates the outcome of one trip to the casino. The
// server only sees the final deltas.
type casinoVisit struct {
	config types.CasinoConfig
	rng    *rand.Rand
	deltas map[types.Currency]int
	games  int
}

func newCasinoVisit(config types.CasinoConfig, rng *rand.Rand) *casinoVisit {
	return &casinoVisit{
		config: config,
		rng:    rng,
		deltas: make(map[types.Currency]int),
	}
}

func (v *casinoVisit) stakeCurrency(table string) (types.Currency, error) {
	switch table {
	case "coinflip":
		return v.config.CoinflipCurrency, nil
	case "blackjack":
		return v.config.BlackjackCurrency, nil
	case "baccarat":
		return v.config.BaccaratCurrency, nil
	case "dice":
		return v.config.DiceCurrency, nil
	default:
		return "", fmt.Errorf("no table called %q", table)
	}
}

// play runs one round at a table and returns a line describing the
// outcome.
func (v *casinoVisit) play(table string, stake int) (string, error) {
	if stake <= 0 {
		return "", fmt.Errorf("stake must be positive")
	}
	currency, err := v.stakeCurrency(table)
	if err != nil {
		return "", err
	}

	var delta int
	var outcome string
	switch table {
	case "coinflip":
		delta, outcome = v.playCoinflip(stake)
	case "blackjack":
		delta, outcome = v.playBlackjack(stake)
	case "baccarat":
		delta, outcome = v.playBaccarat(stake)
	case "dice":
		delta, outcome = v.playDice(stake)
	}

	v.deltas[currency] += delta
	v.games++
	return fmt.Sprintf("%s: %s (%+d %s)", table, outcome, delta, currency), nil
}

func (v *casinoVisit) result() types.CasinoResult {
	return types.CasinoResult{
		Deltas:      v.deltas,
		GamesPlayed: v.games,
	}
}

func (v *casinoVisit) playCoinflip(stake int) (int, string) {
	if v.rng.Intn(2) == 0 {
		return stake, "heads, you win"
	}
	return -stake, "tails, you lose"
}

func (v *casinoVisit) playDice(stake int) (int, string) {
	yours := v.rng.Intn(6) + v.rng.Intn(6) + 2
	house := v.rng.Intn(6) + v.rng.Intn(6) + 2
	switch {
	case yours > house:
		return stake, fmt.Sprintf("you roll %d against %d", yours, house)
	case yours < house:
		return -stake, fmt.Sprintf("you roll %d against %d", yours, house)
	default:
		return 0, fmt.Sprintf("both roll %d, push", yours)
	}
}

// playBlackjack deals simplified hands with no splits or doubles. Both
// sides draw to 17.
func (v *casinoVisit) playBlackjack(stake int) (int, string) {
	yours := v.drawHand()
	house := v.drawHand()
	switch {
	case yours > 21:
		return -stake, fmt.Sprintf("you bust with %d", yours)
	case house > 21:
		return stake, fmt.Sprintf("the house busts with %d", house)
	case yours > house:
		return stake, fmt.Sprintf("%d beats %d", yours, house)
	case yours < house:
		return -stake, fmt.Sprintf("%d loses to %d", yours, house)
	default:
		return 0, fmt.Sprintf("both stand on %d, push", yours)
	}
}

func (v *casinoVisit) drawHand() int {
	total := 0
	for total < 17 {
		total += v.rng.Intn(10) + 2
	}
	return total
}

// playBaccarat compares two-card totals modulo ten.
func (v *casinoVisit) playBaccarat(stake int) (int, string) {
	yours := (v.rng.Intn(10) + v.rng.Intn(10)) % 10
	house := (v.rng.Intn(10) + v.rng.Intn(10)) % 10
	switch {
	case yours > house:
		return stake, fmt.Sprintf("player %d beats banker %d", yours, house)
	case yours < house:
		return -stake, fmt.Sprintf("player %d loses to banker %d", yours, house)
	default:
		return 0, fmt.Sprintf("both show %d, push", yours)
	}
}
