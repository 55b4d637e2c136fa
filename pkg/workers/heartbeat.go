package workers

import (
	"context"
	"time"
)

// Syncer pushes a full board snapshot to every client.
type Syncer interface {
	BroadcastBoardSync()
}

type HeartbeatWorker struct {
	syncer   Syncer
	interval time.Duration
}

type NewHeartbeatWorkerOptions struct {
	Syncer   Syncer
	Interval time.Duration
}

// NewHeartbeatWorker creates a new HeartbeatWorker.
// The worker periodically rebroadcasts the board state so clients that
// missed incremental updates converge again.
func NewHeartbeatWorker(opts NewHeartbeatWorkerOptions) *HeartbeatWorker {
	return &HeartbeatWorker{
		syncer:   opts.Syncer,
		interval: opts.Interval,
	}
}

func (w *HeartbeatWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.syncer.BroadcastBoardSync()
		}
	}
}
