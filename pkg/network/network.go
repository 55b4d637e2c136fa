package network

import (
	"context"

	"github.com/jswales/capstead/pkg/messages"
	"github.com/jswales/capstead/pkg/queue"
)

// NetworkManager owns the listeners and the client registry. It
// satisfies the sender interface the game loop flushes outbound
// messages through.
type NetworkManager struct {
	ClientManager *ClientManager
	MessageQueue  queue.Queue
	TCPServer     *TCPServer
	WSServer      *WSServer
	Announcer     *Announcer
}

// NewNetworkManagerOptions contains options for creating a new NetworkManager.
type NewNetworkManagerOptions struct {
	ClientManager *ClientManager
	MessageQueue  queue.Queue
	TCPPort       int
	WSPort        int
	WSServerTLS   *TLSConfig
	// SessionName enables LAN discovery announcements when non-empty.
	SessionName   string
	DiscoveryPort int
}

// NewNetworkManager creates a new NetworkManager.
func NewNetworkManager(options NewNetworkManagerOptions) *NetworkManager {
	n := &NetworkManager{
		ClientManager: options.ClientManager,
		MessageQueue:  options.MessageQueue,
		TCPServer: NewTCPServer(NewTCPServerOptions{
			ClientManager: options.ClientManager,
			MessageQueue:  options.MessageQueue,
			Port:          options.TCPPort,
		}),
		WSServer: NewWSServer(NewWSServerOptions{
			ClientManager: options.ClientManager,
			MessageQueue:  options.MessageQueue,
			Port:          options.WSPort,
			TLS:           options.WSServerTLS,
		}),
	}
	if options.SessionName != "" {
		n.Announcer = NewAnnouncer(NewAnnouncerOptions{
			SessionName: options.SessionName,
			TCPPort:     options.TCPPort,
			Port:        options.DiscoveryPort,
		})
	}
	return n
}

// Start starts the listeners and, when configured, the announcer.
func (n *NetworkManager) Start(ctx context.Context) {
	go n.TCPServer.Start(ctx)
	go n.WSServer.Start(ctx)
	if n.Announcer != nil {
		go n.Announcer.Start(ctx)
	}
}

// SendToClient delivers a message to one client.
func (n *NetworkManager) SendToClient(clientID uint32, msg *messages.Message) error {
	return n.ClientManager.SendToClient(clientID, msg)
}

// Broadcast delivers a message to every connected client.
func (n *NetworkManager) Broadcast(msg *messages.Message) {
	n.ClientManager.Broadcast(msg)
}
