package game

import (
	"math/rand"

	"github.com/jswales/capstead/pkg/game/types"
	"github.com/jswales/capstead/pkg/messages"
)

// newCasinoConfig deals each casino table a random stake currency.
func newCasinoConfig(rng *rand.Rand) types.CasinoConfig {
	currencies := []types.Currency{types.CurrencyCaps}
	for _, r := range types.AllResources {
		currencies = append(currencies, types.Currency(r))
	}
	pick := func() types.Currency {
		return currencies[rng.Intn(len(currencies))]
	}
	return types.CasinoConfig{
		CoinflipCurrency:  pick(),
		BlackjackCurrency: pick(),
		BaccaratCurrency:  pick(),
		DiceCurrency:      pick(),
	}
}

// HandleCasinoRequest sends the table configuration to the current
// player so the client can run the mini-games.
func (s *Session) HandleCasinoRequest(playerID string) {
	p, ok := s.requireTurn(playerID)
	if !ok {
		return
	}
	s.emit(p.ID, messages.MessageTypeServerCasinoConfig, s.casinoConfig)
}

// HandleCasinoResult applies the deltas a client reports after its
// casino visit. Commodity holdings floor at zero; the caps balance may
// go negative and triggers the usual liquidation.
func (s *Session) HandleCasinoResult(playerID string, result types.CasinoResult) {
	if s.state != SessionStatePlayerTurn {
		return
	}
	p := s.playerByID(playerID)
	if p == nil || !p.Active {
		return
	}
	for currency, delta := range result.Deltas {
		if currency == types.CurrencyCaps {
			p.AddCaps(delta)
			continue
		}
		r := types.Resource(currency)
		if !types.IsValidResource(r) {
			continue
		}
		p.Resources[r] += delta
		if p.Resources[r] < 0 {
			p.Resources[r] = 0
		}
	}
	if result.GamesPlayed > 0 {
		s.logf("%s finishes gambling after %d games.", p.Name, result.GamesPlayed)
	} else {
		s.logf("%s leaves the casino no richer or poorer.", p.Name)
	}
	s.emitStats(p)
	s.checkBankruptcies()
	if s.checkGameOver() {
		return
	}
	// A loss can bankrupt the turn holder outside the normal end of
	// turn; move on so the eliminated player does not hold the turn.
	if !s.Current().Active {
		s.advanceTurn()
	}
}
