package game

import (
	"math/rand"
	"testing"

	"github.com/jswales/capstead/pkg/board"
	"github.com/jswales/capstead/pkg/game/types"
	"github.com/jswales/capstead/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, names ...string) *Session {
	t.Helper()
	s := NewSession(board.Default(), rand.New(rand.NewSource(1)))
	for _, name := range names {
		_, err := s.AddPlayer(name)
		require.NoError(t, err)
	}
	require.NoError(t, s.Start())
	s.DrainOutbound()
	return s
}

func outboundOfType(outs []Outbound, msgType string) []Outbound {
	var matched []Outbound
	for _, out := range outs {
		if out.Type == msgType {
			matched = append(matched, out)
		}
	}
	return matched
}

func TestSession_StartRequiresTwoPlayers(t *testing.T) {
	s := NewSession(board.Default(), rand.New(rand.NewSource(1)))
	_, err := s.AddPlayer("alice")
	require.NoError(t, err)
	require.Error(t, s.Start())

	_, err = s.AddPlayer("bob")
	require.NoError(t, err)
	require.NoError(t, s.Start())
	assert.Equal(t, SessionStatePlayerTurn, s.State())
	require.Error(t, s.Start())
}

func TestSession_SeatLimit(t *testing.T) {
	s := NewSession(board.Default(), rand.New(rand.NewSource(1)))
	for _, name := range []string{"a", "b", "c", "d"} {
		_, err := s.AddPlayer(name)
		require.NoError(t, err)
	}
	_, err := s.AddPlayer("e")
	require.Error(t, err)
}

func TestSession_DeclinePurchaseLeavesBalance(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]

	s.moveAndLand(alice, 1)
	require.True(t, s.awaitingDecision(alice.ID))

	s.HandleBoolResponse(alice.ID, messages.DecisionKindBuyProperty, false)
	assert.Equal(t, 500, alice.Caps)
	assert.False(t, s.board.FieldAt(1).Owned())
	assert.Equal(t, "bob", s.Current().Name)
}

func TestSession_BuyProperty(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]

	s.moveAndLand(alice, 1)
	s.HandleBoolResponse(alice.ID, messages.DecisionKindBuyProperty, true)

	assert.Equal(t, 440, alice.Caps)
	assert.Equal(t, alice.ID, s.board.FieldAt(1).OwnerID)
	assert.Equal(t, "bob", s.Current().Name)
}

func TestSession_BuyPropertyInsufficientCaps(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]
	alice.Caps = 10

	s.moveAndLand(alice, 1)
	s.HandleBoolResponse(alice.ID, messages.DecisionKindBuyProperty, true)

	assert.Equal(t, 10, alice.Caps)
	assert.False(t, s.board.FieldAt(1).Owned())
}

func TestSession_RentWithCharismaDiscount(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice, bob := s.players[0], s.players[1]
	f := s.board.FieldAt(1)
	f.OwnerID = bob.ID
	f.Level = 1
	alice.Stats.Charisma = 10

	s.moveAndLand(alice, 1)

	assert.Equal(t, 485, alice.Caps)
	assert.Equal(t, 515, bob.Caps)
}

func TestSession_NoRentOnMortgagedProperty(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice, bob := s.players[0], s.players[1]
	f := s.board.FieldAt(1)
	f.OwnerID = bob.ID
	f.Mortgaged = true

	s.moveAndLand(alice, 1)

	assert.Equal(t, 500, alice.Caps)
	assert.Equal(t, 500, bob.Caps)
}

func TestSession_PassStartReward(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]
	alice.Position = 39

	s.moveAndLand(alice, 2)

	assert.Equal(t, 1, alice.Position)
	assert.Equal(t, 700, alice.Caps)
}

func TestSession_NoRewardLandingExactlyOnStart(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]
	alice.Position = 34

	s.moveAndLand(alice, 6)

	assert.Equal(t, 0, alice.Position)
	assert.Equal(t, 500, alice.Caps)
	assert.Equal(t, "bob", s.Current().Name)
}

func TestSession_CardAdvanceRewardWithOffsetStart(t *testing.T) {
	b, err := board.New([]*board.Field{
		{Position: 0, Name: "camp", Type: board.FieldSpecial, Effect: board.EffectNothing},
		{Position: 1, Name: "ridge", Type: board.FieldSpecial, Effect: board.EffectNothing},
		{Position: 2, Name: "gate", Type: board.FieldStart, PassReward: 100},
		{Position: 3, Name: "flats", Type: board.FieldSpecial, Effect: board.EffectNothing},
		{Position: 4, Name: "dunes", Type: board.FieldSpecial, Effect: board.EffectNothing},
	})
	require.NoError(t, err)
	s := NewSession(b, rand.New(rand.NewSource(1)))
	for _, name := range []string{"alice", "bob"} {
		_, err := s.AddPlayer(name)
		require.NoError(t, err)
	}
	require.NoError(t, s.Start())
	alice := s.players[0]

	// 3 -> 4 -> 0 -> 1 wraps the index but never crosses the gate
	alice.Position = 3
	s.cardAdvanceTo(alice, 1)
	assert.Equal(t, 1, alice.Position)
	assert.Equal(t, 500, alice.Caps)

	// 0 -> 1 -> 2 -> 3 crosses the gate without wrapping
	alice.Position = 0
	s.cardAdvanceTo(alice, 3)
	assert.Equal(t, 3, alice.Position)
	assert.Equal(t, 600, alice.Caps)
}

func TestSession_GoToFieldResolvesDestination(t *testing.T) {
	b, err := board.New([]*board.Field{
		{Position: 0, Name: "gate", Type: board.FieldStart},
		{Position: 1, Name: "ambush", Type: board.FieldSpecial, Effect: board.EffectGoToField, EffectValue: 2},
		{Position: 2, Name: "cells", Type: board.FieldSpecial, Effect: board.EffectNothing},
		{Position: 3, Name: "spring", Type: board.FieldResource, Resource: types.ResourceWater, Amount: 2},
		{Position: 4, Name: "tunnel", Type: board.FieldSpecial, Effect: board.EffectGoToField, EffectValue: 3},
	})
	require.NoError(t, err)
	s := NewSession(b, rand.New(rand.NewSource(1)))
	for _, name := range []string{"alice", "bob"} {
		_, err := s.AddPlayer(name)
		require.NoError(t, err)
	}
	require.NoError(t, s.Start())
	alice := s.players[0]

	alice.Position = 4
	turnOver := s.land(alice)

	assert.True(t, turnOver)
	assert.Equal(t, 3, alice.Position)
	assert.Equal(t, 2, alice.Resource(types.ResourceWater))
	assert.False(t, alice.InJail)
}

func TestSession_RaiderAmbushSendsToHoldingCells(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]
	alice.Position = 29

	s.moveAndLand(alice, 1)

	assert.Equal(t, 10, alice.Position)
	assert.True(t, alice.InJail)
	assert.Equal(t, "bob", s.Current().Name)
}

func TestSession_JailForcedFineDrainsToZero(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]
	alice.Caps = 50
	alice.InJail = true
	alice.JailTurns = 3

	s.beginJailTurn(alice)

	assert.Equal(t, 0, alice.Caps)
	assert.False(t, alice.InJail)
	assert.Equal(t, 0, alice.JailTurns)
}

func TestSession_JailPayFine(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]
	alice.InJail = true

	s.beginJailTurn(alice)
	require.True(t, s.awaitingDecision(alice.ID))

	s.HandleChoiceResponse(alice.ID, messages.DecisionKindJailAction, jailOptionPayFine)
	assert.Equal(t, 450, alice.Caps)
	assert.False(t, alice.InJail)
}

func TestSession_JailReleaseCard(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]
	alice.InJail = true
	alice.HasReleaseCard = true

	s.beginJailTurn(alice)
	s.HandleChoiceResponse(alice.ID, messages.DecisionKindJailAction, jailOptionUseCard)

	assert.Equal(t, 500, alice.Caps)
	assert.False(t, alice.InJail)
	assert.False(t, alice.HasReleaseCard)
}

func TestSession_JailRollDoublesFreesAndMoves(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]
	alice.Position = 10
	alice.InJail = true

	s.applyJailRoll(alice, 2, 2)

	assert.False(t, alice.InJail)
	assert.Equal(t, 14, alice.Position)
	assert.True(t, s.awaitingDecision(alice.ID))
}

func TestSession_JailRollNoDoublesEndsTurn(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]
	alice.Position = 10
	alice.InJail = true

	s.applyJailRoll(alice, 2, 3)

	assert.True(t, alice.InJail)
	assert.Equal(t, 10, alice.Position)
	assert.Equal(t, "bob", s.Current().Name)
}

func TestSession_TurnGuard(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	bob := s.players[1]

	s.HandleRollRequest(bob.ID)

	assert.Equal(t, "alice", s.Current().Name)
	assert.Equal(t, 0, bob.Position)
	notices := outboundOfType(s.DrainOutbound(), messages.MessageTypeServerNotice)
	require.Len(t, notices, 1)
	assert.Equal(t, bob.ID, notices[0].TargetID)
}

func TestSession_StrayResponsesDiscarded(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]

	s.HandleBoolResponse(alice.ID, messages.DecisionKindBuyProperty, true)
	s.HandleChoiceResponse(alice.ID, messages.DecisionKindJailAction, jailOptionPayFine)
	s.HandleOfferResponse(alice.ID, messages.TradeOffer{Caps: 100})

	assert.Equal(t, 500, alice.Caps)
	assert.Equal(t, "alice", s.Current().Name)
	assert.Empty(t, s.DrainOutbound())
}

func TestSession_DuplicateResponseIgnored(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]

	s.moveAndLand(alice, 1)
	s.HandleBoolResponse(alice.ID, messages.DecisionKindBuyProperty, true)
	s.HandleBoolResponse(alice.ID, messages.DecisionKindBuyProperty, true)

	assert.Equal(t, 440, alice.Caps)
}

func TestSession_ImprovementGate(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice, bob := s.players[0], s.players[1]
	f1, f3 := s.board.FieldAt(1), s.board.FieldAt(3)

	tests := []struct {
		name       string
		setup      func()
		wantOK     bool
		wantReason string
	}{
		{
			name:       "not owned",
			setup:      func() {},
			wantOK:     false,
			wantReason: "do not own",
		},
		{
			name: "group incomplete",
			setup: func() {
				f1.OwnerID = alice.ID
				f3.OwnerID = bob.ID
			},
			wantOK:     false,
			wantReason: "whole group",
		},
		{
			name: "insufficient scrap",
			setup: func() {
				f3.OwnerID = alice.ID
				alice.Resources[types.ResourceScrap] = 1
			},
			wantOK:     false,
			wantReason: "scrap",
		},
		{
			name: "insufficient caps",
			setup: func() {
				alice.Resources[types.ResourceScrap] = 2
				alice.Caps = 10
			},
			wantOK:     false,
			wantReason: "caps",
		},
		{
			name: "all conditions met",
			setup: func() {
				alice.Caps = 500
			},
			wantOK: true,
		},
		{
			name: "fully improved",
			setup: func() {
				f1.Level = 3
			},
			wantOK:     false,
			wantReason: "fully improved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			ok, reason := s.canImprove(alice, f1)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantReason != "" {
				assert.Contains(t, reason, tt.wantReason)
			}
		})
	}
}

func TestSession_UtilityNotImprovable(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]
	f12, f28 := s.board.FieldAt(12), s.board.FieldAt(28)
	f12.OwnerID = alice.ID
	f28.OwnerID = alice.ID

	ok, reason := s.canImprove(alice, f12)
	assert.False(t, ok)
	assert.Contains(t, reason, "cannot be improved")
}

func TestSession_ResolveImprove(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]
	f1, f3 := s.board.FieldAt(1), s.board.FieldAt(3)
	f1.OwnerID = alice.ID
	f3.OwnerID = alice.ID
	alice.Resources[types.ResourceScrap] = 2

	s.resolveImprove(alice, f1.Name)

	assert.Equal(t, 1, f1.Level)
	assert.Equal(t, 450, alice.Caps)
	assert.Equal(t, 0, alice.Resource(types.ResourceScrap))
}

func TestSession_MortgageToggle(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]
	f := s.board.FieldAt(1)
	f.OwnerID = alice.ID

	s.HandleMortgageRequest(alice.ID, 1)
	assert.True(t, f.Mortgaged)
	assert.Equal(t, 530, alice.Caps)

	s.HandleMortgageRequest(alice.ID, 1)
	assert.False(t, f.Mortgaged)
	assert.Equal(t, 497, alice.Caps)
}

func TestSession_MortgageNotOwned(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]

	s.HandleMortgageRequest(alice.ID, 1)

	assert.False(t, s.board.FieldAt(1).Mortgaged)
	assert.Equal(t, 500, alice.Caps)
}

func TestSession_BankruptcyLiquidation(t *testing.T) {
	s := newTestSession(t, "alice", "bob", "carol")
	alice := s.players[0]
	f := s.board.FieldAt(1)
	f.OwnerID = alice.ID
	f.Mortgaged = true
	f.Level = 2
	alice.Caps = -10

	s.endTurn()

	assert.False(t, alice.Active)
	assert.False(t, f.Owned())
	assert.False(t, f.Mortgaged)
	assert.Equal(t, 2, f.Level)
	assert.Equal(t, SessionStatePlayerTurn, s.State())
	assert.Equal(t, "bob", s.Current().Name)
}

func TestSession_SoleSurvivorWins(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]
	alice.Caps = -10

	s.endTurn()

	assert.Equal(t, SessionStateGameOver, s.State())
	over := outboundOfType(s.DrainOutbound(), messages.MessageTypeServerGameOver)
	require.Len(t, over, 1)
	payload := over[0].Payload.(messages.GameOver)
	assert.Equal(t, "bob", payload.WinnerName)
	assert.False(t, payload.Draw)
}

func TestSession_InactivePlayersSkipped(t *testing.T) {
	s := newTestSession(t, "alice", "bob", "carol")
	s.players[1].Active = false

	s.endTurn()

	assert.Equal(t, "carol", s.Current().Name)
}

func TestSession_SnapshotRestore(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]
	alice.Caps = 312
	alice.Position = 14
	alice.Resources[types.ResourceWater] = 5
	f := s.board.FieldAt(1)
	f.OwnerID = alice.ID
	f.Level = 2

	snap := s.Snapshot()

	restored, err := RestoreSession(board.Default(), snap, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	assert.Equal(t, SessionStatePlayerTurn, restored.State())
	assert.Equal(t, "alice", restored.Current().Name)

	ralice := restored.players[0]
	assert.Equal(t, 312, ralice.Caps)
	assert.Equal(t, 14, ralice.Position)
	assert.Equal(t, 5, ralice.Resource(types.ResourceWater))
	rf := restored.board.FieldAt(1)
	assert.Equal(t, ralice.ID, rf.OwnerID)
	assert.Equal(t, 2, rf.Level)
}

func TestRestoreSession_BadSnapshots(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := RestoreSession(board.Default(), types.SessionSnapshot{}, rng)
	require.Error(t, err)

	snap := types.SessionSnapshot{
		Players:     []types.PlayerSnapshot{{ID: "a"}, {ID: "b"}},
		CurrentTurn: 5,
	}
	_, err = RestoreSession(board.Default(), snap, rng)
	require.Error(t, err)
}

func TestSession_CasinoResultAppliesDeltas(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]
	alice.Resources[types.ResourceWater] = 2

	s.HandleCasinoResult(alice.ID, types.CasinoResult{
		Deltas: map[types.Currency]int{
			types.CurrencyCaps:                  -100,
			types.Currency(types.ResourceWater): -5,
			types.Currency(types.ResourceFood):  3,
		},
		GamesPlayed: 4,
	})

	assert.Equal(t, 400, alice.Caps)
	assert.Equal(t, 0, alice.Resource(types.ResourceWater))
	assert.Equal(t, 3, alice.Resource(types.ResourceFood))
}

func TestSession_CasinoLossCanBankrupt(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]

	s.HandleCasinoResult(alice.ID, types.CasinoResult{
		Deltas:      map[types.Currency]int{types.CurrencyCaps: -600},
		GamesPlayed: 1,
	})

	assert.False(t, alice.Active)
	assert.Equal(t, SessionStateGameOver, s.State())
}

func TestSession_CasinoBankruptcyPassesTurn(t *testing.T) {
	s := newTestSession(t, "alice", "bob", "carol")
	alice := s.players[0]

	s.HandleCasinoResult(alice.ID, types.CasinoResult{
		Deltas:      map[types.Currency]int{types.CurrencyCaps: -600},
		GamesPlayed: 1,
	})

	assert.False(t, alice.Active)
	assert.Equal(t, SessionStatePlayerTurn, s.State())
	assert.Equal(t, "bob", s.Current().Name)

	s.DrainOutbound()
	pos := alice.Position
	s.HandleRollRequest(alice.ID)
	assert.Equal(t, pos, alice.Position)
	assert.Equal(t, "bob", s.Current().Name)
}

func TestComputeYield(t *testing.T) {
	assert.Equal(t, 1, computeYield(0))
	assert.Equal(t, 1, computeYield(1))
	assert.Equal(t, 2, computeYield(2))
	assert.Equal(t, 4, computeYield(3))
	assert.Equal(t, 4, computeYield(7))
}

func TestSession_ProductionWithoutBonus(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	alice := s.players[0]
	alice.Stats.Intelligence = 0
	s.board.FieldAt(1).OwnerID = alice.ID
	s.board.FieldAt(1).Level = 2

	s.runProduction(alice)

	total := 0
	for _, r := range types.AllResources {
		total += alice.Resource(r)
	}
	assert.Equal(t, 2, total)
}
