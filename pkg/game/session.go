package game

import (
	"fmt"
	"math/rand"

	"github.com/jswales/capstead/pkg/board"
	"github.com/jswales/capstead/pkg/game/constants"
	"github.com/jswales/capstead/pkg/game/types"
	"github.com/jswales/capstead/pkg/messages"
)

// SessionState is the lifecycle phase of a session.
type SessionState string

const (
	SessionStateInitializing SessionState = "initializing"
	SessionStatePlayerTurn   SessionState = "player_turn"
	SessionStateGameOver     SessionState = "game_over"
)

const (
	jailOptionPayFine = "Pay the 50 cap fine"
	jailOptionUseCard = "Use your release holotape"
	jailOptionRoll    = "Roll for doubles"
)

// Session is the authoritative game state and turn machine. It is not
// safe for concurrent use; the GameManager serializes access.
type Session struct {
	board         *board.Board
	players       []*Player
	deck          *EventDeck
	dice          *Dice
	rng           *rand.Rand
	state         SessionState
	currentTurn   int
	originalCount int
	jailPos       int
	casinoConfig  types.CasinoConfig
	trade         *TradeSession

	pendingBool   map[string]map[string]func(bool)
	pendingChoice map[string]map[string]func(string)
	pendingOffer  map[string]func(messages.TradeOffer)

	out []Outbound
}

// NewSession creates an empty session on the given board. Players join
// with AddPlayer before Start.
func NewSession(b *board.Board, rng *rand.Rand) *Session {
	return &Session{
		board:         b,
		deck:          NewEventDeck(rng),
		dice:          NewDice(rng),
		rng:           rng,
		state:         SessionStateInitializing,
		jailPos:       findJailPosition(b),
		casinoConfig:  newCasinoConfig(rng),
		pendingBool:   make(map[string]map[string]func(bool)),
		pendingChoice: make(map[string]map[string]func(string)),
		pendingOffer:  make(map[string]func(messages.TradeOffer)),
	}
}

// findJailPosition returns the destination of the board's go-to-field
// special, or -1 when the board has no holding cells.
func findJailPosition(b *board.Board) int {
	for _, f := range b.Fields() {
		if f.Type == board.FieldSpecial && f.Effect == board.EffectGoToField {
			return f.EffectValue
		}
	}
	return -1
}

// AddPlayer seats a new player. Only valid while the session is
// initializing and there are seats left.
func (s *Session) AddPlayer(name string) (*Player, error) {
	if s.state != SessionStateInitializing {
		return nil, fmt.Errorf("session has already started")
	}
	if len(s.players) >= constants.MaxPlayers {
		return nil, fmt.Errorf("session is full")
	}
	p := NewPlayer(len(s.players), name)
	p.Position = s.board.StartPosition()
	s.players = append(s.players, p)
	return p, nil
}

// Start begins play with the seated players.
func (s *Session) Start() error {
	if s.state != SessionStateInitializing {
		return fmt.Errorf("session has already started")
	}
	if len(s.players) < constants.MinPlayers {
		return fmt.Errorf("need at least %d players, have %d", constants.MinPlayers, len(s.players))
	}
	s.originalCount = len(s.players)
	s.state = SessionStatePlayerTurn
	s.currentTurn = 0
	s.logf("The session begins with %d survivors. Good luck out there.", len(s.players))
	s.beginTurn(false)
	return nil
}

// Resume re-announces the current turn after a restore, skipping the
// production phase that already ran before the checkpoint.
func (s *Session) Resume() {
	if s.state != SessionStatePlayerTurn {
		return
	}
	s.beginTurn(true)
}

// State returns the session lifecycle phase.
func (s *Session) State() SessionState {
	return s.state
}

// Players returns the seated players in seat order.
func (s *Session) Players() []*Player {
	return s.players
}

// Board returns the session's board.
func (s *Session) Board() *board.Board {
	return s.board
}

// Current returns the player whose turn it is, or nil before Start.
func (s *Session) Current() *Player {
	if s.state == SessionStateInitializing || len(s.players) == 0 {
		return nil
	}
	return s.players[s.currentTurn]
}

// CasinoConfig returns the session's casino table configuration.
func (s *Session) CasinoConfig() types.CasinoConfig {
	return s.casinoConfig
}

func (s *Session) playerByID(id string) *Player {
	for _, p := range s.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Session) playerByName(name string) *Player {
	for _, p := range s.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Snapshot captures the full session for persistence.
func (s *Session) Snapshot() types.SessionSnapshot {
	players := make([]types.PlayerSnapshot, len(s.players))
	for i, p := range s.players {
		players[i] = p.Snapshot()
	}
	return types.SessionSnapshot{
		Players:      players,
		Fields:       s.board.Snapshot(),
		CurrentTurn:  s.currentTurn,
		CasinoConfig: s.casinoConfig,
	}
}

// RestoreSession rebuilds a session from a checkpoint on the given board.
func RestoreSession(b *board.Board, snap types.SessionSnapshot, rng *rand.Rand) (*Session, error) {
	if len(snap.Players) < constants.MinPlayers {
		return nil, fmt.Errorf("snapshot has %d players, need at least %d", len(snap.Players), constants.MinPlayers)
	}
	if snap.CurrentTurn < 0 || snap.CurrentTurn >= len(snap.Players) {
		return nil, fmt.Errorf("snapshot turn index %d out of range", snap.CurrentTurn)
	}
	if err := b.Restore(snap.Fields); err != nil {
		return nil, fmt.Errorf("failed to restore board: %v", err)
	}
	s := NewSession(b, rng)
	for _, ps := range snap.Players {
		s.players = append(s.players, PlayerFromSnapshot(ps))
	}
	s.originalCount = len(s.players)
	s.currentTurn = snap.CurrentTurn
	s.casinoConfig = snap.CasinoConfig
	s.state = SessionStatePlayerTurn
	active := 0
	for _, p := range s.players {
		if p.Active {
			active++
		}
	}
	if active <= 1 {
		s.state = SessionStateGameOver
	}
	return s, nil
}

// --- turn machine ---

func (s *Session) beginTurn(resumed bool) {
	p := s.Current()
	s.broadcast(messages.MessageTypeServerTurnChange, messages.TurnChange{
		PlayerID: p.ID,
		Seat:     p.Seat,
		Name:     p.Name,
	})
	s.updateControls()
	s.logf("It is %s's turn.", p.Name)
	if !resumed {
		s.runProduction(p)
	}
	if p.InJail {
		s.beginJailTurn(p)
	}
}

func (s *Session) beginJailTurn(p *Player) {
	p.JailTurns++
	if p.JailTurns > constants.MaxJailTurns {
		s.logf("%s has been held for %d turns and must pay the %d cap fine.", p.Name, constants.MaxJailTurns, constants.JailFine)
		p.PayCaps(constants.JailFine)
		s.releaseFromJail(p)
		s.emitStats(p)
		return
	}
	s.promptJailChoice(p)
}

// promptJailChoice asks without advancing the jail counter, so a bad
// response can be re-prompted safely.
func (s *Session) promptJailChoice(p *Player) {
	options := []string{jailOptionPayFine}
	if p.HasReleaseCard {
		options = append(options, jailOptionUseCard)
	}
	options = append(options, jailOptionRoll)
	s.askChoice(p, messages.DecisionKindJailAction, "You are in the holding cells. What do you do?", options, func(choice string) {
		s.resolveJailChoice(p, choice)
	})
}

func (s *Session) resolveJailChoice(p *Player, choice string) {
	switch choice {
	case jailOptionPayFine:
		p.PayCaps(constants.JailFine)
		s.logf("%s pays the %d cap fine and walks free.", p.Name, constants.JailFine)
		s.releaseFromJail(p)
		s.emitStats(p)
	case jailOptionUseCard:
		if !p.HasReleaseCard {
			s.noticeTo(p, "You don't have a release holotape.")
			s.promptJailChoice(p)
			return
		}
		p.HasReleaseCard = false
		s.logf("%s plays a release holotape and walks free.", p.Name)
		s.releaseFromJail(p)
		s.emitStats(p)
	case jailOptionRoll:
		d1, d2 := s.dice.Roll()
		s.logf("%s rolls %d and %d.", p.Name, d1, d2)
		s.applyJailRoll(p, d1, d2)
	default:
		s.noticeTo(p, "Unknown choice.")
		s.promptJailChoice(p)
	}
}

func (s *Session) applyJailRoll(p *Player, d1, d2 int) {
	if d1 == d2 {
		s.logf("Doubles! %s breaks out of the holding cells.", p.Name)
		s.releaseFromJail(p)
		s.emitStats(p)
		s.moveAndLand(p, d1+d2)
		return
	}
	s.logf("No luck. %s remains in the cells.", p.Name)
	s.endTurn()
}

func (s *Session) releaseFromJail(p *Player) {
	p.InJail = false
	p.JailTurns = 0
}

func (s *Session) sendToJail(p *Player) {
	if s.jailPos < 0 {
		return
	}
	s.placeToken(p, s.jailPos)
	p.InJail = true
	s.noticeTo(p, "You are thrown into the holding cells!")
}

// HandleRollRequest resolves the current player's movement roll.
func (s *Session) HandleRollRequest(playerID string) {
	p, ok := s.requireTurn(playerID)
	if !ok {
		return
	}
	if p.InJail {
		s.noticeTo(p, "You must deal with the holding cells first.")
		return
	}
	d1, d2 := s.dice.Roll()
	s.logf("%s rolls %d and %d.", p.Name, d1, d2)
	s.applyRoll(p, d1, d2)
}

func (s *Session) applyRoll(p *Player, d1, d2 int) {
	if p.InJail {
		s.applyJailRoll(p, d1, d2)
		return
	}
	s.moveAndLand(p, d1+d2)
}

func (s *Session) moveAndLand(p *Player, steps int) {
	to, passed := s.board.Advance(p.Position, steps)
	if passed {
		s.creditPassReward(p)
	}
	s.placeToken(p, to)
	s.logf("%s lands on %s.", p.Name, s.board.FieldAt(to).Name)
	if s.land(p) {
		s.endTurn()
	}
}

// land resolves the field under the player's token. It returns true when
// the turn is over, false when the machine is suspended on a decision.
func (s *Session) land(p *Player) bool {
	f := s.board.FieldAt(p.Position)
	switch f.Type {
	case board.FieldStart:
		s.logf("%s is back at %s. Home sweet vault.", p.Name, f.Name)
		return true
	case board.FieldResource:
		p.AddResource(f.Resource, f.Amount)
		s.logf("%s scavenges %s and finds %d %s.", p.Name, f.Name, f.Amount, f.Resource)
		s.emitStats(p)
		return true
	case board.FieldSpecial:
		return s.landSpecial(p, f)
	case board.FieldProperty:
		return s.landProperty(p, f)
	}
	return true
}

func (s *Session) landSpecial(p *Player, f *board.Field) bool {
	switch f.Effect {
	case board.EffectGainCaps:
		p.AddCaps(f.EffectValue)
		s.logf("Luck is in! %s finds %d caps at %s.", p.Name, f.EffectValue, f.Name)
		s.emitStats(p)
		return true
	case board.EffectLoseCaps:
		p.PayCaps(f.EffectValue)
		s.logf("Bad luck. %s loses %d caps at %s.", p.Name, f.EffectValue, f.Name)
		s.emitStats(p)
		return true
	case board.EffectGoToField:
		target := f.EffectValue
		if target < 0 || target >= s.board.Size() {
			return true
		}
		s.logf("%s is sent to %s!", p.Name, s.board.FieldAt(target).Name)
		if target == s.jailPos {
			s.sendToJail(p)
			return true
		}
		s.placeToken(p, target)
		return s.land(p)
	case board.EffectDrawEvent:
		return s.drawEvent(p)
	default:
		if f.Position == s.jailPos {
			s.logf("%s is just visiting the holding cells.", p.Name)
		} else {
			s.logf("%s rests for a moment. Nothing happens.", p.Name)
		}
		return true
	}
}

func (s *Session) drawEvent(p *Player) bool {
	card := s.deck.Draw()
	if card == nil {
		return true
	}
	s.logf("%s draws an event card...", p.Name)
	s.logf("EVENT: %s", card.Text)
	turnOver := card.apply(s, p)
	if card.Kind == CardStandard {
		s.deck.Discard(card)
	} else {
		s.logf("%s keeps this card.", p.Name)
	}
	for _, other := range s.players {
		if other.Active {
			s.emitStats(other)
		}
	}
	return turnOver
}

func (s *Session) cardAdvanceTo(p *Player, target int) bool {
	n := s.board.Size()
	if target < 0 || target >= n {
		return true
	}
	steps := ((target-p.Position)%n + n) % n
	to, passed := s.board.Advance(p.Position, steps)
	if passed {
		s.creditPassReward(p)
	}
	s.placeToken(p, to)
	return s.land(p)
}

func (s *Session) landProperty(p *Player, f *board.Field) bool {
	if !f.Owned() {
		s.askBool(p, messages.DecisionKindBuyProperty,
			fmt.Sprintf("%s is unclaimed. Buy it for %d caps?", f.Name, f.Cost),
			func(yes bool) {
				s.resolveBuy(p, f, yes)
				s.endTurn()
			})
		return false
	}
	if f.OwnerID == p.ID {
		s.logf("%s visits their own holding at %s.", p.Name, f.Name)
		return true
	}
	owner := s.playerByID(f.OwnerID)
	if owner == nil {
		return true
	}
	if f.Mortgaged {
		s.logf("%s is mortgaged. No rent is due.", f.Name)
		return true
	}
	rent := f.Rent(p.Stats.Charisma)
	if rent == 0 {
		s.logf("%s talks their way out of paying rent at %s.", p.Name, f.Name)
		return true
	}
	p.PayCaps(rent)
	owner.AddCaps(rent)
	s.logf("%s pays %d caps rent to %s for %s.", p.Name, rent, owner.Name, f.Name)
	s.emitStats(p)
	s.emitStats(owner)
	return true
}

func (s *Session) resolveBuy(p *Player, f *board.Field, yes bool) {
	if f.Owned() {
		return
	}
	if !yes {
		s.logf("%s passes on %s.", p.Name, f.Name)
		return
	}
	if p.Caps < f.Cost {
		s.noticeTo(p, fmt.Sprintf("You can't afford %s.", f.Name))
		return
	}
	p.PayCaps(f.Cost)
	f.OwnerID = p.ID
	s.logf("%s buys %s for %d caps.", p.Name, f.Name, f.Cost)
	s.emitOwner(f)
	s.emitStats(p)
}

func (s *Session) endTurn() {
	s.checkBankruptcies()
	if s.checkGameOver() {
		return
	}
	s.advanceTurn()
}

func (s *Session) advanceTurn() {
	n := len(s.players)
	for i := 0; i < n; i++ {
		s.currentTurn = (s.currentTurn + 1) % n
		if s.players[s.currentTurn].Active {
			s.beginTurn(false)
			return
		}
	}
}

func (s *Session) checkBankruptcies() {
	for _, p := range s.players {
		if p.Active && p.Caps < 0 {
			s.liquidate(p)
		}
	}
}

func (s *Session) liquidate(p *Player) {
	s.logf("%s is bankrupt and out of the game!", p.Name)
	for _, f := range s.board.PropertiesOwnedBy(p.ID) {
		f.OwnerID = ""
		f.Mortgaged = false
		s.emitOwner(f)
	}
	p.Active = false
	s.releaseFromJail(p)
	s.broadcast(messages.MessageTypeServerTokenRemove, messages.TokenRemove{PlayerID: p.ID})
	s.emitStats(p)
	s.clearPending(p.ID)
	if s.trade != nil && (s.trade.InitiatorID == p.ID || s.trade.PartnerID == p.ID) {
		s.logf("The trade is cancelled.")
		s.clearTrade()
	}
}

func (s *Session) checkGameOver() bool {
	if s.state != SessionStatePlayerTurn || s.originalCount < constants.MinPlayers {
		return false
	}
	var survivor *Player
	active := 0
	for _, p := range s.players {
		if p.Active {
			survivor = p
			active++
		}
	}
	if active > 1 {
		return false
	}
	s.state = SessionStateGameOver
	if active == 1 {
		s.logf("%s is the last survivor standing and wins the wasteland!", survivor.Name)
		s.broadcast(messages.MessageTypeServerGameOver, messages.GameOver{
			WinnerID:   survivor.ID,
			WinnerName: survivor.Name,
		})
	} else {
		s.logf("No survivors remain. The wasteland wins.")
		s.broadcast(messages.MessageTypeServerGameOver, messages.GameOver{Draw: true})
	}
	return true
}

// --- improvements and mortgages ---

// HandleImproveRequest starts the improvement flow for the current player.
func (s *Session) HandleImproveRequest(playerID string) {
	p, ok := s.requireTurn(playerID)
	if !ok {
		return
	}
	var options []string
	for _, f := range s.board.PropertiesOwnedBy(p.ID) {
		if ok, _ := s.canImprove(p, f); ok {
			options = append(options, f.Name)
		}
	}
	if len(options) == 0 {
		s.noticeTo(p, "You have no properties that can be improved right now.")
		return
	}
	s.askChoice(p, messages.DecisionKindImproveSelection, "Choose a property to improve.", options, func(choice string) {
		s.resolveImprove(p, choice)
	})
}

// canImprove checks the improvement gate in order and reports the first
// failure.
func (s *Session) canImprove(p *Player, f *board.Field) (bool, string) {
	if f.OwnerID != p.ID {
		return false, "you do not own this property"
	}
	if !f.Improvable() {
		return false, "this property cannot be improved"
	}
	if !s.board.GroupOwnedBy(f.Group, p.ID) {
		return false, "you must own the whole group first"
	}
	if f.Level >= constants.MaxImprovementLevel {
		return false, "it is already fully improved"
	}
	if p.Caps < f.ImprovementCost {
		return false, fmt.Sprintf("you need %d caps", f.ImprovementCost)
	}
	if p.Resource(types.ResourceScrap) < f.ImproveScrapCost() {
		return false, fmt.Sprintf("you need %d scrap", f.ImproveScrapCost())
	}
	return true, ""
}

func (s *Session) resolveImprove(p *Player, name string) {
	var field *board.Field
	for _, f := range s.board.PropertiesOwnedBy(p.ID) {
		if f.Name == name {
			field = f
			break
		}
	}
	if field == nil {
		s.noticeTo(p, "You no longer own that property.")
		return
	}
	if ok, reason := s.canImprove(p, field); !ok {
		s.noticeTo(p, fmt.Sprintf("Cannot improve %s: %s.", field.Name, reason))
		return
	}
	p.PayCaps(field.ImprovementCost)
	p.PayResource(types.ResourceScrap, field.ImproveScrapCost())
	field.Level++
	s.logf("%s improves %s to level %d.", p.Name, field.Name, field.Level)
	s.emitOwner(field)
	s.emitStats(p)
}

// HandleMortgageRequest toggles the mortgage on a property the player
// owns. Unlike turn actions this is allowed at any point during play.
func (s *Session) HandleMortgageRequest(playerID string, position int) {
	if s.state != SessionStatePlayerTurn {
		return
	}
	p := s.playerByID(playerID)
	if p == nil || !p.Active {
		return
	}
	if position < 0 || position >= s.board.Size() {
		return
	}
	f := s.board.FieldAt(position)
	if f.Type != board.FieldProperty || f.OwnerID != p.ID {
		s.noticeTo(p, "You don't own that property.")
		return
	}
	if f.Mortgaged {
		cost := f.UnmortgageCost()
		if p.Caps < cost {
			s.noticeTo(p, fmt.Sprintf("Redeeming %s costs %d caps.", f.Name, cost))
			return
		}
		p.PayCaps(cost)
		f.Mortgaged = false
		s.logf("%s redeems the mortgage on %s for %d caps.", p.Name, f.Name, cost)
	} else {
		value := f.MortgageValue()
		p.AddCaps(value)
		f.Mortgaged = true
		s.logf("%s mortgages %s for %d caps.", p.Name, f.Name, value)
	}
	s.emitOwner(f)
	s.emitStats(p)
}

// --- decision plumbing ---

func (s *Session) askBool(p *Player, kind, text string, resume func(bool)) {
	if s.pendingBool[p.ID] == nil {
		s.pendingBool[p.ID] = make(map[string]func(bool))
	}
	s.pendingBool[p.ID][kind] = resume
	s.emit(p.ID, messages.MessageTypeServerBoolPrompt, messages.BoolPrompt{Kind: kind, Text: text})
}

func (s *Session) askChoice(p *Player, kind, text string, options []string, resume func(string)) {
	if s.pendingChoice[p.ID] == nil {
		s.pendingChoice[p.ID] = make(map[string]func(string))
	}
	s.pendingChoice[p.ID][kind] = resume
	s.emit(p.ID, messages.MessageTypeServerChoicePrompt, messages.ChoicePrompt{Kind: kind, Text: text, Options: options})
}

func (s *Session) askOffer(p *Player, text string, resume func(messages.TradeOffer)) {
	s.pendingOffer[p.ID] = resume
	s.emit(p.ID, messages.MessageTypeServerOfferPrompt, messages.OfferPrompt{Text: text})
}

// HandleBoolResponse resumes a suspended yes/no decision. Responses with
// no matching prompt are discarded.
func (s *Session) HandleBoolResponse(playerID, kind string, value bool) {
	kinds := s.pendingBool[playerID]
	resume, ok := kinds[kind]
	if !ok {
		return
	}
	delete(kinds, kind)
	resume(value)
}

// HandleChoiceResponse resumes a suspended selection decision.
func (s *Session) HandleChoiceResponse(playerID, kind, choice string) {
	kinds := s.pendingChoice[playerID]
	resume, ok := kinds[kind]
	if !ok {
		return
	}
	delete(kinds, kind)
	resume(choice)
}

// HandleOfferResponse resumes a suspended trade offer decision.
func (s *Session) HandleOfferResponse(playerID string, offer messages.TradeOffer) {
	resume, ok := s.pendingOffer[playerID]
	if !ok {
		return
	}
	delete(s.pendingOffer, playerID)
	resume(offer)
}

func (s *Session) clearPending(playerID string) {
	delete(s.pendingBool, playerID)
	delete(s.pendingChoice, playerID)
	delete(s.pendingOffer, playerID)
}

func (s *Session) awaitingDecision(playerID string) bool {
	return len(s.pendingBool[playerID]) > 0 ||
		len(s.pendingChoice[playerID]) > 0 ||
		s.pendingOffer[playerID] != nil
}

// requireTurn checks that the request comes from the current player with
// no decision outstanding.
func (s *Session) requireTurn(playerID string) (*Player, bool) {
	p := s.playerByID(playerID)
	if p == nil || !p.Active {
		return nil, false
	}
	if s.state != SessionStatePlayerTurn {
		s.noticeTo(p, "The session is not running.")
		return nil, false
	}
	if s.Current().ID != playerID {
		s.noticeTo(p, "It's not your turn.")
		s.logf("%s tried to act out of turn.", p.Name)
		return nil, false
	}
	if s.awaitingDecision(playerID) {
		s.noticeTo(p, "Answer the pending prompt first.")
		return nil, false
	}
	return p, true
}

// --- emit helpers ---

func (s *Session) logf(format string, args ...interface{}) {
	s.broadcast(messages.MessageTypeServerLog, messages.ServerLog{Text: fmt.Sprintf(format, args...)})
}

func (s *Session) noticeTo(p *Player, text string) {
	s.emit(p.ID, messages.MessageTypeServerNotice, messages.ServerNotice{Text: text})
}

func (s *Session) emitStats(p *Player) {
	s.broadcast(messages.MessageTypeServerPlayerStats, p.Snapshot())
}

func (s *Session) emitOwner(f *board.Field) {
	ownerName := ""
	if owner := s.playerByID(f.OwnerID); owner != nil {
		ownerName = owner.Name
	}
	s.broadcast(messages.MessageTypeServerOwnerChange, messages.OwnerChange{
		Position:  f.Position,
		OwnerID:   f.OwnerID,
		OwnerName: ownerName,
		Level:     f.Level,
		Mortgaged: f.Mortgaged,
	})
}

func (s *Session) placeToken(p *Player, pos int) {
	p.Position = pos
	s.broadcast(messages.MessageTypeServerTokenMove, messages.TokenMove{PlayerID: p.ID, Position: pos})
}

func (s *Session) creditPassReward(p *Player) {
	start := s.board.FieldAt(s.board.StartPosition())
	if start.PassReward <= 0 {
		return
	}
	p.AddCaps(start.PassReward)
	s.logf("%s passes %s and collects %d caps.", p.Name, start.Name, start.PassReward)
	s.emitStats(p)
}

func (s *Session) updateControls() {
	current := s.Current()
	for _, p := range s.players {
		enabled := p == current && p.Active
		s.emit(p.ID, messages.MessageTypeServerControls, messages.Controls{
			RollEnabled:    enabled,
			ImproveEnabled: enabled,
			TradeEnabled:   enabled,
		})
	}
}

// EmitJoinState sends a newly attached client everything it needs to
// render the session: its seat, the full board, every player and the
// current turn.
func (s *Session) EmitJoinState(p *Player) {
	s.emit(p.ID, messages.MessageTypeServerBoardSync, s.Snapshot())
	for _, other := range s.players {
		if !other.Active {
			continue
		}
		s.emit(p.ID, messages.MessageTypeServerTokenAdd, messages.TokenAdd{
			PlayerID: other.ID,
			Name:     other.Name,
			Position: other.Position,
		})
		s.emit(p.ID, messages.MessageTypeServerPlayerStats, other.Snapshot())
	}
	for _, f := range s.board.Fields() {
		if f.Type == board.FieldProperty && f.Owned() {
			ownerName := ""
			if owner := s.playerByID(f.OwnerID); owner != nil {
				ownerName = owner.Name
			}
			s.emit(p.ID, messages.MessageTypeServerOwnerChange, messages.OwnerChange{
				Position:  f.Position,
				OwnerID:   f.OwnerID,
				OwnerName: ownerName,
				Level:     f.Level,
				Mortgaged: f.Mortgaged,
			})
		}
	}
	if current := s.Current(); current != nil {
		s.emit(p.ID, messages.MessageTypeServerTurnChange, messages.TurnChange{
			PlayerID: current.ID,
			Seat:     current.Seat,
			Name:     current.Name,
		})
	}
}
