package workers

import (
	"context"
	"time"

	gametypes "github.com/jswales/capstead/pkg/game/types"
	"github.com/jswales/capstead/pkg/log"
	"github.com/jswales/capstead/pkg/repositories"
)

// SnapshotSource is the slice of the game loop the save worker needs.
type SnapshotSource interface {
	SessionSnapshot() gametypes.SessionSnapshot
	SessionStarted() bool
}

type SaveSessionWorker struct {
	repository repositories.Repository
	source     SnapshotSource
	saveChan   <-chan struct{}
	interval   time.Duration
}

type NewSaveSessionWorkerOptions struct {
	Repository repositories.Repository
	Source     SnapshotSource
	// SaveChan triggers an immediate checkpoint, e.g. from the API.
	SaveChan <-chan struct{}
	Interval time.Duration
}

// NewSaveSessionWorker creates a new SaveSessionWorker.
// The worker checkpoints the session to the repository on an interval
// and on demand.
func NewSaveSessionWorker(opts NewSaveSessionWorkerOptions) *SaveSessionWorker {
	return &SaveSessionWorker{
		repository: opts.Repository,
		source:     opts.Source,
		saveChan:   opts.SaveChan,
		interval:   opts.Interval,
	}
}

func (w *SaveSessionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.saveChan:
			w.save(ctx)
		case <-ticker.C:
			w.save(ctx)
		}
	}
}

func (w *SaveSessionWorker) save(ctx context.Context) {
	if !w.source.SessionStarted() {
		log.Trace("Session not started, skipping checkpoint")
		return
	}
	snapshot := w.source.SessionSnapshot()
	if err := w.repository.SaveSnapshot(ctx, time.Now().UnixMilli(), snapshot); err != nil {
		log.Error("Failed to save checkpoint: %v", err)
		return
	}
	log.Debug("Saved checkpoint with %d players", len(snapshot.Players))
}
