package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	gametypes "github.com/jswales/capstead/pkg/game/types"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at INTEGER NOT NULL,
	snapshot BLOB NOT NULL
);
`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %v", err)
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, timestamp int64, snapshot gametypes.SessionSnapshot) error {
	b, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %v", err)
	}

	q := `
	INSERT INTO checkpoints (created_at, snapshot)
	VALUES (?, ?);
	`
	if _, err := r.db.ExecContext(ctx, q, timestamp, b); err != nil {
		return fmt.Errorf("failed to insert checkpoint: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) LoadLatestSnapshot(ctx context.Context) (gametypes.SessionSnapshot, int64, error) {
	q := `
	SELECT created_at, snapshot FROM checkpoints ORDER BY id DESC LIMIT 1;
	`
	var timestamp int64
	var b []byte
	if err := r.db.QueryRowContext(ctx, q).Scan(&timestamp, &b); err != nil {
		if err == sql.ErrNoRows {
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
