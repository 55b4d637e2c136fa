package workers

import (
	"github.com/jswales/capstead/pkg/game"
	"github.com/jswales/capstead/pkg/log"
	"github.com/jswales/capstead/pkg/network"
	"github.com/jswales/capstead/pkg/queue"
)

type ClientEventWorker struct {
	clientManager        *network.ClientManager
	connectionEventQueue queue.Queue
}

type NewClientEventWorkerOptions struct {
	ClientManager        *network.ClientManager
	ConnectionEventQueue queue.Queue
}

// NewClientEventWorker creates a new ClientEventWorker.
// The worker translates client connect and disconnect events into
// connection events for the game loop to process.
func NewClientEventWorker(opts NewClientEventWorkerOptions) *ClientEventWorker {
	return &ClientEventWorker{
		clientManager:        opts.ClientManager,
		connectionEventQueue: opts.ConnectionEventQueue,
	}
}

func (w *ClientEventWorker) Start() {
	for event := range w.clientManager.GetClientEventChan() {
		var eventType game.ConnectionEventType
		switch event.Type {
		case network.ClientEventTypeConnect:
			eventType = game.ConnectionEventTypeConnect
		case network.ClientEventTypeDisconnect:
			eventType = game.ConnectionEventTypeDisconnect
		default:
			log.Error("Unknown client event type: %v", event.Type)
			continue
		}
		if err := w.connectionEventQueue.Enqueue(game.ConnectionEvent{
			ClientID: event.ClientID,
			Type:     eventType,
		}); err != nil {
			log.Error("Failed to enqueue connection event: %v", err)
		}
	}
}
