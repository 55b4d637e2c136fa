package types

// PlayerSnapshot is the persisted and wire representation of a player.
type PlayerSnapshot struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Seat           int              `json:"seat"`
	Caps           int              `json:"caps"`
	Position       int              `json:"position"`
	Resources      map[Resource]int `json:"resources"`
	Stats          SpecialStats     `json:"stats"`
	Active         bool             `json:"active"`
	InJail         bool             `json:"inJail"`
	JailTurns      int              `json:"jailTurns"`
	HasReleaseCard bool             `json:"hasReleaseCard"`
}

// FieldSnapshot captures the mutable state of a board field.
type FieldSnapshot struct {
	Position  int    `json:"position"`
	OwnerID   string `json:"ownerId,omitempty"`
	Level     int    `json:"level"`
	Mortgaged bool   `json:"mortgaged"`
}

// Currency names what a casino table pays out in, either the caps balance
// or one of the commodities.
type Currency string

// CurrencyCaps is the caps balance as a casino currency.
const CurrencyCaps Currency = "caps"

// CasinoConfig assigns each casino table its stake currency. The host only
// stores and forwards it; the mini-games run client-side.
type CasinoConfig struct {
	CoinflipCurrency  Currency `json:"coinflipCurrency"`
	BlackjackCurrency Currency `json:"blackjackCurrency"`
	BaccaratCurrency  Currency `json:"baccaratCurrency"`
	DiceCurrency      Currency `json:"diceCurrency"`
}

// CasinoResult is the net delta a client reports after a casino visit.
type CasinoResult struct {
	Deltas      map[Currency]int `json:"deltas"`
	GamesPlayed int              `json:"gamesPlayed"`
}

// SessionSnapshot is a full checkpoint of a running session.
type SessionSnapshot struct {
	Players      []PlayerSnapshot `json:"players"`
	Fields       []FieldSnapshot  `json:"fields"`
	CurrentTurn  int              `json:"currentTurn"`
	CasinoConfig CasinoConfig     `json:"casinoConfig"`
}
