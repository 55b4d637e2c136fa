package models

// Checkpoint is one stored session snapshot.
type Checkpoint struct {
	ID        int64  `json:"id"`
	CreatedAt int64  `json:"created_at"`
	Snapshot  []byte `json:"snapshot"`
}
