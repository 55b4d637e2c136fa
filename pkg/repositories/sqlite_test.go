package repositories

import (
	"context"
	"testing"

	gametypes "github.com/jswales/capstead/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRepository_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSQLiteRepository(ctx, ":memory:")
	require.NoError(t, err)
	defer repo.Close(ctx)

	_, _, err = repo.LoadLatestSnapshot(ctx)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	first := gametypes.SessionSnapshot{
		Players: []gametypes.PlayerSnapshot{
			{ID: "p1", Name: "alice", Caps: 312, Position: 14},
			{ID: "p2", Name: "bob", Caps: 500},
		},
		Fields: []gametypes.FieldSnapshot{
			{Position: 1, OwnerID: "p1", Level: 2},
		},
		CurrentTurn: 1,
	}
	require.NoError(t, repo.SaveSnapshot(ctx, 1000, first))

	second := first
	second.CurrentTurn = 0
	require.NoError(t, repo.SaveSnapshot(ctx, 2000, second))

	got, timestamp, err := repo.LoadLatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), timestamp)
	assert.Equal(t, 0, got.CurrentTurn)
	require.Len(t, got.Players, 2)
	assert.Equal(t, "alice", got.Players[0].Name)
	assert.Equal(t, 312, got.Players[0].Caps)
	require.Len(t, got.Fields, 1)
	assert.Equal(t, "p1", got.Fields[0].OwnerID)
}
