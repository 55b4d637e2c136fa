package game

import (
	"github.com/google/uuid"
	"github.com/jswales/capstead/pkg/game/constants"
	"github.com/jswales/capstead/pkg/game/types"
)

// Player is a seat in the session. Caps may go negative transiently;
// liquidation runs before the turn ends.
type Player struct {
	ID             string
	Name           string
	Seat           int
	Caps           int
	Position       int
	Resources      map[types.Resource]int
	Stats          types.SpecialStats
	Active         bool
	InJail         bool
	JailTurns      int
	HasReleaseCard bool
}

// NewPlayer creates a player with the starting balance and baseline stats.
func NewPlayer(seat int, name string) *Player {
	return &Player{
		ID:        uuid.NewString(),
		Name:      name,
		Seat:      seat,
		Caps:      constants.StartingCaps,
		Resources: make(map[types.Resource]int),
		Stats:     types.DefaultStats(),
		Active:    true,
	}
}

// AddCaps credits the player's balance.
func (p *Player) AddCaps(amount int) {
	p.Caps += amount
}

// PayCaps debits the player's balance. The balance may go negative.
func (p *Player) PayCaps(amount int) {
	p.Caps -= amount
}

// Resource returns the player's holding of one commodity.
func (p *Player) Resource(r types.Resource) int {
	return p.Resources[r]
}

// AddResource credits a commodity holding.
func (p *Player) AddResource(r types.Resource, amount int) {
	p.Resources[r] += amount
}

// PayResource debits a commodity holding, flooring at zero.
func (p *Player) PayResource(r types.Resource, amount int) {
	p.Resources[r] -= amount
	if p.Resources[r] < 0 {
		p.Resources[r] = 0
	}
}

// Snapshot captures the player for persistence and the wire.
func (p *Player) Snapshot() types.PlayerSnapshot {
	resources := make(map[types.Resource]int, len(p.Resources))
	for r, n := range p.Resources {
		resources[r] = n
	}
	return types.PlayerSnapshot{
		ID:             p.ID,
		Name:           p.Name,
		Seat:           p.Seat,
		Caps:           p.Caps,
		Position:       p.Position,
		Resources:      resources,
		Stats:          p.Stats,
		Active:         p.Active,
		InJail:         p.InJail,
		JailTurns:      p.JailTurns,
		HasReleaseCard: p.HasReleaseCard,
	}
}

// PlayerFromSnapshot rebuilds a player from a checkpoint.
func PlayerFromSnapshot(s types.PlayerSnapshot) *Player {
	resources := make(map[types.Resource]int, len(s.Resources))
	for r, n := range s.Resources {
		resources[r] = n
	}
	return &Player{
		ID:             s.ID,
		Name:           s.Name,
		Seat:           s.Seat,
		Caps:           s.Caps,
		Position:       s.Position,
		Resources:      resources,
		Stats:          s.Stats,
		Active:         s.Active,
		InJail:         s.InJail,
		JailTurns:      s.JailTurns,
		HasReleaseCard: s.HasReleaseCard,
	}
}
