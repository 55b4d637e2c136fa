package network

import (
	"fmt"
	"math/rand"
	"net"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/jswales/capstead/pkg/log"
	"github.com/jswales/capstead/pkg/messages"
)

const (
	// ClientIDMaxRetries represents the maximum number of retries when generating a unique ID
	ClientIDMaxRetries = 1024
	// ClientEventChannelSize represents the size of the client event channel
	ClientEventChannelSize = 1024
	// ClientSendChannelSize represents the size of each client's outbound channel
	ClientSendChannelSize = 256
)

// Client represents a connected client. Exactly one of TCPConn and
// WSConn is set.
type Client struct {
	ID      uint32
	TCPConn net.Conn
	WSConn  *websocket.Conn

	sendCh    chan *messages.Message
	done      chan struct{}
	closeOnce sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.TCPConn != nil {
			c.TCPConn.Close()
		}
		if c.WSConn != nil {
			c.WSConn.Close()
		}
	})
}

// writePump serializes all writes to the connection so messages keep
// their order.
func (c *Client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.sendCh:
			var err error
			if c.TCPConn != nil {
				err = WriteMessageToTCP(c.TCPConn, msg)
			} else {
				err = WriteMessageToWS(c.WSConn, msg)
			}
			if err != nil {
				log.Error("Failed to write %s to client %d: %v", msg.Type, c.ID, err)
			}
		}
	}
}

// ClientEvent represents an event that happened to a client
type ClientEvent struct {
	ClientID uint32
	Type     ClientEventType
}

// ClientEventType represents the type of a client event
type ClientEventType int

const (
	ClientEventTypeConnect ClientEventType = iota
	ClientEventTypeDisconnect
)

// ClientManager manages connected clients
type ClientManager struct {
	clients         map[uint32]*Client
	clientsLock     sync.RWMutex
	clientEventChan chan ClientEvent
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:         make(map[uint32]*Client),
		clientEventChan: make(chan ClientEvent, ClientEventChannelSize),
	}
}

// GetClientEventChan returns a one-way channel for receiving client events
func (cm *ClientManager) GetClientEventChan() <-chan ClientEvent {
	return cm.clientEventChan
}

// ConnectClient adds a new client to the manager, starts its write pump
// and returns its ID.
func (cm *ClientManager) ConnectClient(tcpConn net.Conn, wsConn *websocket.Conn) (uint32, error) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	clientID, err := cm.generateUniqueID(ClientIDMaxRetries)
	if err != nil {
		return 0, fmt.Errorf("failed to generate a unique ID: %v", err)
	}
	client := &Client{
		ID:      clientID,
		TCPConn: tcpConn,
		WSConn:  wsConn,
		sendCh:  make(chan *messages.Message, ClientSendChannelSize),
		done:    make(chan struct{}),
	}
	cm.clients[clientID] = client
	go client.writePump()

	cm.clientEventChan <- ClientEvent{
		ClientID: clientID,
		Type:     ClientEventTypeConnect,
	}

	return clientID, nil
}

// DisconnectClient removes a client from the manager
func (cm *ClientManager) DisconnectClient(clientID uint32) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	client, ok := cm.clients[clientID]
	if !ok {
		return
	}
	client.close()
	delete(cm.clients, clientID)

	cm.clientEventChan <- ClientEvent{
		ClientID: clientID,
		Type:     ClientEventTypeDisconnect,
	}
}

// GetClientIDByTCPConn returns the ID of a client by its TCP connection.
// Returns 0 if the client is not found
func (cm *ClientManager) GetClientIDByTCPConn(conn net.Conn) uint32 {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	for _, client := range cm.clients {
		if client.TCPConn == conn {
			return client.ID
		}
	}
	return 0
}

// GetClientIDByWSConn returns the ID of a client by its WebSocket
// connection. Returns 0 if the client is not found
func (cm *ClientManager) GetClientIDByWSConn(conn *websocket.Conn) uint32 {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	for _, client := range cm.clients {
		if client.WSConn == conn {
			return client.ID
		}
	}
	return 0
}

func (cm *ClientManager) Exists(clientID uint32) bool {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	_, ok := cm.clients[clientID]
	return ok
}

// SendToClient queues a message for one client. A full queue counts as
// a delivery failure rather than blocking the caller.
func (cm *ClientManager) SendToClient(clientID uint32, msg *messages.Message) error {
	cm.clientsLock.RLock()
	client, ok := cm.clients[clientID]
	cm.clientsLock.RUnlock()
	if !ok {
		return fmt.Errorf("client %d is not connected", clientID)
	}
	select {
	case client.sendCh <- msg:
		return nil
	default:
		return fmt.Errorf("send queue for client %d is full", clientID)
	}
}

// Broadcast queues a message for every connected client.
func (cm *ClientManager) Broadcast(msg *messages.Message) {
	cm.clientsLock.RLock()
	ids := make([]uint32, 0, len(cm.clients))
	for id := range cm.clients {
		ids = append(ids, id)
	}
	cm.clientsLock.RUnlock()

	for _, id := range ids {
		if err := cm.SendToClient(id, msg); err != nil {
			log.Error("Failed to broadcast %s: %v", msg.Type, err)
		}
	}
}

// generateUniqueID generates a unique client ID with a maximum number of retries
// it reads from the clients, so it needs to be locked before calling
func (cm *ClientManager) generateUniqueID(maxRetries int) (uint32, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		id := rand.Uint32()
		if id == 0 {
			continue
		}
		if _, ok := cm.clients[id]; !ok {
			return id, nil
		}
	}

	return 0, fmt.Errorf("failed to generate a unique ID after %d attempts", maxRetries)
}
