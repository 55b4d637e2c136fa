package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	gametypes "github.com/jswales/capstead/pkg/game/types"
	"github.com/jackc/pgx/v5"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	id BIGSERIAL PRIMARY KEY,
	created_at BIGINT NOT NULL,
	snapshot JSONB NOT NULL
);
`

type PostgresRepository struct {
	conn *pgx.Conn
}

// NewPostgresRepository creates a new PostgresRepository.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string) (Repository, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to create schema: %v", err)
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveSnapshot(ctx context.Context, timestamp int64, snapshot gametypes.SessionSnapshot) error {
	b, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %v", err)
	}

	q := `
	INSERT INTO checkpoints (created_at, snapshot) VALUES ($1, $2);
	`
	if _, err := r.conn.Exec(ctx, q, timestamp, b); err != nil {
		return fmt.Errorf("failed to insert checkpoint: %v", err)
	}

	return nil
}

func (r *PostgresRepository) LoadLatestSnapshot(ctx context.Context) (gametypes.SessionSnapshot, int64, error) {
	q := `
	SELECT created_at, snapshot FROM checkpoints ORDER BY id DESC LIMIT 1;
	`
	var timestamp int64
	var b []byte
	if err := r.conn.QueryRow(ctx, q).Scan(&timestamp, &b); err != nil {
		if err == pgx.ErrNoRows {
			return gametypes.SessionSnapshot{}, 0, &ErrNotFound{}
		}
		return gametypes.SessionSnapshot{}, 0, fmt.Errorf("failed to scan checkpoint: %v", err)
	}

	var snapshot gametypes.SessionSnapshot
	if err := json.Unmarshal(b, &snapshot); err != nil {
		return gametypes.SessionSnapshot{}, 0, fmt.Errorf("failed to unmarshal snapshot: %v", err)
	}

	return snapshot, timestamp, nil
}
