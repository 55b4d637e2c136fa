package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	gametypes "github.com/jswales/capstead/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	mu        sync.Mutex
	saved     []gametypes.SessionSnapshot
	saveErr   error
	lastStamp int64
}

func (f *fakeRepository) Close(ctx context.Context) error { return nil }

func (f *fakeRepository) SaveSnapshot(ctx context.Context, timestamp int64, snapshot gametypes.SessionSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.lastStamp = timestamp
	f.saved = append(f.saved, snapshot)
	return nil
}

func (f *fakeRepository) LoadLatestSnapshot(ctx context.Context) (gametypes.SessionSnapshot, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return gametypes.SessionSnapshot{}, 0, errors.New("not found")
	}
	return f.saved[len(f.saved)-1], f.lastStamp, nil
}

func (f *fakeRepository) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type fakeSource struct {
	started  bool
	snapshot gametypes.SessionSnapshot
}

func (f *fakeSource) SessionSnapshot() gametypes.SessionSnapshot { return f.snapshot }
func (f *fakeSource) SessionStarted() bool                       { return f.started }

func TestSaveSessionWorker_SkipsBeforeStart(t *testing.T) {
	repo := &fakeRepository{}
	w := NewSaveSessionWorker(NewSaveSessionWorkerOptions{
		Repository: repo,
		Source:     &fakeSource{started: false},
		Interval:   time.Hour,
	})

	w.save(context.Background())

	assert.Empty(t, repo.saved)
}

func TestSaveSessionWorker_SavesWhenStarted(t *testing.T) {
	repo := &fakeRepository{}
	source := &fakeSource{
		started: true,
		snapshot: gametypes.SessionSnapshot{
			Players: []gametypes.PlayerSnapshot{{ID: "p1", Name: "alice"}},
		},
	}
	w := NewSaveSessionWorker(NewSaveSessionWorkerOptions{
		Repository: repo,
		Source:     source,
		Interval:   time.Hour,
	})

	w.save(context.Background())

	require.Len(t, repo.saved, 1)
	assert.Equal(t, "alice", repo.saved[0].Players[0].Name)
	assert.NotZero(t, repo.lastStamp)
}

func TestSaveSessionWorker_SaveChanTriggersCheckpoint(t *testing.T) {
	repo := &fakeRepository{}
	saveChan := make(chan struct{}, 1)
	w := NewSaveSessionWorker(NewSaveSessionWorkerOptions{
		Repository: repo,
		Source:     &fakeSource{started: true},
		SaveChan:   saveChan,
		Interval:   time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	saveChan <- struct{}{}
	require.Eventually(t, func() bool {
		return repo.savedCount() == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
