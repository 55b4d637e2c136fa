package game

import (
	"math/rand"

	"github.com/jswales/capstead/pkg/game/constants"
	"github.com/jswales/capstead/pkg/game/types"
)

// CardKind distinguishes cards that are discarded after use from cards
// the drawing player keeps.
type CardKind int

const (
	CardStandard CardKind = iota
	CardKeepable
)

// Card is one event card. apply returns true when the turn is over after
// the effect resolves.
type Card struct {
	Text  string
	Kind  CardKind
	apply func(s *Session, p *Player) bool
}

// EventDeck holds the draw and discard piles.
type EventDeck struct {
	draw    []*Card
	discard []*Card
	rng     *rand.Rand
}

// NewEventDeck builds and shuffles the standard deck.
func NewEventDeck(rng *rand.Rand) *EventDeck {
	d := &EventDeck{
		draw: standardCards(),
		rng:  rng,
	}
	d.shuffle()
	return d
}

func (d *EventDeck) shuffle() {
	d.rng.Shuffle(len(d.draw), func(i, j int) {
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	})
}

// Draw removes and returns the top card, reshuffling the discard pile
// into the draw pile when it runs out. Returns nil if both piles are empty.
func (d *EventDeck) Draw() *Card {
	if len(d.draw) == 0 {
		d.draw = d.discard
		d.discard = nil
		d.shuffle()
	}
	if len(d.draw) == 0 {
		return nil
	}
	card := d.draw[0]
	d.draw = d.draw[1:]
	return card
}

// Discard places a used card on the discard pile.
func (d *EventDeck) Discard(card *Card) {
	d.discard = append(d.discard, card)
}

// Remaining returns the number of cards left in the draw pile.
func (d *EventDeck) Remaining() int {
	return len(d.draw)
}

func standardCards() []*Card {
	return []*Card{
		{
			Text: "You find a pre-war stash! Gain 100 caps.",
			apply: func(s *Session, p *Player) bool {
				p.AddCaps(100)
				return true
			},
		},
		{
			Text: "A brahmin caravan pays you for protection. Collect 50 caps.",
			apply: func(s *Session, p *Player) bool {
				p.AddCaps(50)
				return true
			},
		},
		{
			Text: "You win the settlement lottery! Collect 200 caps.",
			apply: func(s *Session, p *Player) bool {
				p.AddCaps(200)
				return true
			},
		},
		{
			Text: "A deathclaw raids your supplies. Lose 150 caps.",
			apply: func(s *Session, p *Player) bool {
				p.PayCaps(150)
				return true
			},
		},
		{
			Text: "You're bitten by a radroach. Pay 25 caps for a stimpak.",
			apply: func(s *Session, p *Player) bool {
				p.PayCaps(25)
				return true
			},
		},
		{
			Text: "Advance to the vault entrance and collect the pass reward.",
			apply: func(s *Session, p *Player) bool {
				start := s.board.StartPosition()
				s.creditPassReward(p)
				s.placeToken(p, start)
				return s.land(p)
			},
		},
		{
			Text: "Caught by the militia! Go directly to the holding cells.",
			apply: func(s *Session, p *Player) bool {
				s.sendToJail(p)
				return true
			},
		},
		{
			Text: "A friendly caravan takes you to Market Square.",
			apply: func(s *Session, p *Player) bool {
				return s.cardAdvanceTo(p, 16)
			},
		},
		{
			Text: "You find an old map. Advance to Breaker Court.",
			apply: func(s *Session, p *Player) bool {
				return s.cardAdvanceTo(p, 11)
			},
		},
		{
			Text: "A radstorm pushes you back 3 spaces.",
			apply: func(s *Session, p *Player) bool {
				to, _ := s.board.Advance(p.Position, -3)
				s.placeToken(p, to)
				return s.land(p)
			},
		},
		{
			Text: "It's your birthday! Collect 25 caps from each survivor.",
			apply: func(s *Session, p *Player) bool {
				for _, other := range s.players {
					if other != p && other.Active {
						other.PayCaps(25)
						p.AddCaps(25)
					}
				}
				return true
			},
		},
		{
			Text: "You host a party at the lounge. Pay 50 caps to each survivor.",
			apply: func(s *Session, p *Player) bool {
				for _, other := range s.players {
					if other != p && other.Active {
						p.PayCaps(50)
						other.AddCaps(50)
					}
				}
				return true
			},
		},
		{
			Text: "Your settlements need repairs. Pay 25 caps per property you own.",
			apply: func(s *Session, p *Player) bool {
				owned := s.board.PropertiesOwnedBy(p.ID)
				cost := len(owned) * 25
				if cost > 0 {
					s.logf("%s owns %d properties. Repairs cost %d caps.", p.Name, len(owned), cost)
					p.PayCaps(cost)
				}
				return true
			},
		},
		{
			Text: "Your fortresses are attacked! Pay 100 caps per fully upgraded property.",
			apply: func(s *Session, p *Player) bool {
				cost := 0
				for _, f := range s.board.PropertiesOwnedBy(p.ID) {
					if f.Level == constants.MaxImprovementLevel {
						cost += 100
					}
				}
				if cost > 0 {
					s.logf("%s pays %d caps to repel the attack.", p.Name, cost)
					p.PayCaps(cost)
				}
				return true
			},
		},
		{
			Text: "You find a 'Get Out of the Cells' holotape. Keep this card.",
			Kind: CardKeepable,
			apply: func(s *Session, p *Player) bool {
				p.HasReleaseCard = true
				return true
			},
		},
		{
			Text: "You find a hidden cache of scrap metal. Gain 2 scrap.",
			apply: func(s *Session, p *Player) bool {
				p.AddResource(types.ResourceScrap, 2)
				return true
			},
		},
		{
			Text: "You secure a water purifier. Gain 2 water.",
			apply: func(s *Session, p *Player) bool {
				p.AddResource(types.ResourceWater, 2)
				return true
			},
		},
	}
}
