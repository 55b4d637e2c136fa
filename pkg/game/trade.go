package game

import (
	"fmt"
	"strings"

	"github.com/jswales/capstead/pkg/board"
	"github.com/jswales/capstead/pkg/game/types"
	"github.com/jswales/capstead/pkg/messages"
)

// TradeState tracks a negotiation through its phases.
type TradeState string

const (
	TradeStateRequested      TradeState = "requested"
	TradeStateBuildingOffers TradeState = "building_offers"
	TradeStateProposed       TradeState = "proposed"
)

// TradeSession is a single negotiation between two players. At most one
// exists per session.
type TradeSession struct {
	InitiatorID    string
	PartnerID      string
	State          TradeState
	InitiatorOffer messages.TradeOffer
	PartnerOffer   messages.TradeOffer
	accepts        map[string]bool
}

func (s *Session) clearTrade() {
	s.trade = nil
}

// HandleTradeRequest starts a negotiation for the current player.
func (s *Session) HandleTradeRequest(playerID string) {
	p, ok := s.requireTurn(playerID)
	if !ok {
		return
	}
	if s.trade != nil {
		s.noticeTo(p, "A trade is already in progress.")
		return
	}
	var partners []string
	for _, other := range s.players {
		if other != p && other.Active {
			partners = append(partners, other.Name)
		}
	}
	if len(partners) == 0 {
		s.noticeTo(p, "There is nobody left to trade with.")
		return
	}
	s.trade = &TradeSession{
		InitiatorID: p.ID,
		State:       TradeStateRequested,
		accepts:     make(map[string]bool),
	}
	s.askChoice(p, messages.DecisionKindTradePartner, "Choose a trading partner.", partners, func(choice string) {
		s.resolveTradePartner(p, choice)
	})
}

func (s *Session) resolveTradePartner(p *Player, name string) {
	if s.trade == nil || s.trade.InitiatorID != p.ID {
		return
	}
	partner := s.playerByName(name)
	if partner == nil || !partner.Active || partner == p {
		s.noticeTo(p, "That survivor is not available to trade.")
		s.clearTrade()
		return
	}
	s.trade.PartnerID = partner.ID
	s.trade.State = TradeStateBuildingOffers
	s.logf("%s proposes a trade with %s.", p.Name, partner.Name)
	s.askOffer(p, fmt.Sprintf("Build your offer for %s.", partner.Name), func(offer messages.TradeOffer) {
		s.resolveInitiatorOffer(p, partner, offer)
	})
}

func (s *Session) resolveInitiatorOffer(p, partner *Player, offer messages.TradeOffer) {
	if s.trade == nil || s.trade.InitiatorID != p.ID {
		return
	}
	if reason := s.validateOffer(p, offer); reason != "" {
		s.noticeTo(p, fmt.Sprintf("Invalid offer: %s.", reason))
		s.logf("The trade between %s and %s falls through.", p.Name, partner.Name)
		s.clearTrade()
		return
	}
	s.trade.InitiatorOffer = offer
	s.askOffer(partner, fmt.Sprintf("%s offers: %s. Build your counter-offer.", p.Name, s.describeOffer(offer)), func(counter messages.TradeOffer) {
		s.resolvePartnerOffer(p, partner, counter)
	})
}

func (s *Session) resolvePartnerOffer(p, partner *Player, offer messages.TradeOffer) {
	if s.trade == nil || s.trade.PartnerID != partner.ID {
		return
	}
	if reason := s.validateOffer(partner, offer); reason != "" {
		s.noticeTo(partner, fmt.Sprintf("Invalid offer: %s.", reason))
		s.logf("The trade between %s and %s falls through.", p.Name, partner.Name)
		s.clearTrade()
		return
	}
	s.trade.PartnerOffer = offer
	s.trade.State = TradeStateProposed
	summary := fmt.Sprintf("%s gives %s; %s gives %s. Accept?",
		p.Name, s.describeOffer(s.trade.InitiatorOffer),
		partner.Name, s.describeOffer(offer))
	s.askBool(p, messages.DecisionKindTradeAccept, summary, func(yes bool) {
		s.resolveTradeAccept(p, yes)
	})
	s.askBool(partner, messages.DecisionKindTradeAccept, summary, func(yes bool) {
		s.resolveTradeAccept(partner, yes)
	})
}

func (s *Session) resolveTradeAccept(p *Player, yes bool) {
	t := s.trade
	if t == nil || t.State != TradeStateProposed {
		return
	}
	t.accepts[p.ID] = yes
	if len(t.accepts) < 2 {
		return
	}
	initiator := s.playerByID(t.InitiatorID)
	partner := s.playerByID(t.PartnerID)
	defer s.clearTrade()
	if initiator == nil || partner == nil {
		return
	}
	if !t.accepts[t.InitiatorID] || !t.accepts[t.PartnerID] {
		s.logf("The trade between %s and %s is declined.", initiator.Name, partner.Name)
		return
	}
	s.executeTrade(initiator, partner, t.InitiatorOffer, t.PartnerOffer)
}

// executeTrade re-validates both sides against live state and then
// applies both transfers. Any failure aborts the whole trade.
func (s *Session) executeTrade(initiator, partner *Player, give, receive messages.TradeOffer) {
	if reason := s.validateOffer(initiator, give); reason != "" {
		s.logf("The trade falls through: %s can no longer deliver (%s).", initiator.Name, reason)
		return
	}
	if reason := s.validateOffer(partner, receive); reason != "" {
		s.logf("The trade falls through: %s can no longer deliver (%s).", partner.Name, reason)
		return
	}
	s.applyOffer(initiator, partner, give)
	s.applyOffer(partner, initiator, receive)
	s.logf("%s and %s complete their trade.", initiator.Name, partner.Name)
	s.emitStats(initiator)
	s.emitStats(partner)
}

// validateOffer checks that the player can deliver every part of an
// offer right now.
func (s *Session) validateOffer(p *Player, offer messages.TradeOffer) string {
	if offer.Caps < 0 {
		return "caps cannot be negative"
	}
	if offer.Caps > p.Caps {
		return fmt.Sprintf("%s has only %d caps", p.Name, p.Caps)
	}
	for r, amount := range offer.Resources {
		if !types.IsValidResource(r) {
			return fmt.Sprintf("unknown resource %q", r)
		}
		if amount < 0 {
			return "resource amounts cannot be negative"
		}
		if amount > p.Resource(r) {
			return fmt.Sprintf("%s has only %d %s", p.Name, p.Resource(r), r)
		}
	}
	for _, pos := range offer.Properties {
		if pos < 0 || pos >= s.board.Size() {
			return fmt.Sprintf("no field at position %d", pos)
		}
		f := s.board.FieldAt(pos)
		if f.Type != board.FieldProperty || f.OwnerID != p.ID {
			return fmt.Sprintf("%s does not own %s", p.Name, f.Name)
		}
		if f.Level > 0 {
			return fmt.Sprintf("%s is improved and cannot be traded", f.Name)
		}
		if f.Mortgaged {
			return fmt.Sprintf("%s is mortgaged and cannot be traded", f.Name)
		}
	}
	return ""
}

func (s *Session) applyOffer(from, to *Player, offer messages.TradeOffer) {
	if offer.Caps > 0 {
		from.PayCaps(offer.Caps)
		to.AddCaps(offer.Caps)
	}
	for r, amount := range offer.Resources {
		if amount > 0 {
			from.PayResource(r, amount)
			to.AddResource(r, amount)
		}
	}
	for _, pos := range offer.Properties {
		f := s.board.FieldAt(pos)
		f.OwnerID = to.ID
		s.emitOwner(f)
	}
}

func (s *Session) describeOffer(offer messages.TradeOffer) string {
	var parts []string
	if offer.Caps > 0 {
		parts = append(parts, fmt.Sprintf("%d caps", offer.Caps))
	}
	for _, r := range types.AllResources {
		if amount := offer.Resources[r]; amount > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", amount, r))
		}
	}
	for _, pos := range offer.Properties {
		if pos >= 0 && pos < s.board.Size() {
			parts = append(parts, s.board.FieldAt(pos).Name)
		}
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}
