package repositories

import (
	"context"

	gametypes "github.com/jswales/capstead/pkg/game/types"
)

type Repository interface {
	Close(ctx context.Context) error
	SaveSnapshot(ctx context.Context, timestamp int64, snapshot gametypes.SessionSnapshot) error
	// LoadLatestSnapshot returns the most recent checkpoint and its
	// timestamp. Returns ErrNotFound when no checkpoint exists.
	LoadLatestSnapshot(ctx context.Context) (gametypes.SessionSnapshot, int64, error)
}
