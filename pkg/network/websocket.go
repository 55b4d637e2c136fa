package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/jswales/capstead/pkg/log"
	"github.com/jswales/capstead/pkg/messages"
	"github.com/jswales/capstead/pkg/queue"
)

// WSServer accepts WebSocket client connections as an alternative to
// raw TCP. Messages travel as binary frames.
type WSServer struct {
	ClientManager *ClientManager
	MessageQueue  queue.Queue
	Port          int
	TLS           *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// NewWSServerOptions contains options for creating a new WSServer.
type NewWSServerOptions struct {
	ClientManager *ClientManager
	MessageQueue  queue.Queue
	Port          int
	TLS           *TLSConfig
}

// NewWSServer creates a new WebSocket server.
func NewWSServer(options NewWSServerOptions) *WSServer {
	return &WSServer{
		ClientManager: options.ClientManager,
		MessageQueue:  options.MessageQueue,
		Port:          options.Port,
		TLS:           options.TLS,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Start starts the WebSocket server.
func (s *WSServer) Start(ctx context.Context) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("Failed to upgrade to WebSocket: %v", err)
			return
		}
		go s.handleWSConnection(conn)
	})

	addr := fmt.Sprintf(":%d", s.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	var listenAndServe func() error
	if s.TLS != nil {
		log.Info("WebSocket server listening on %s with TLS", addr)
		listenAndServe = func() error {
			return server.ListenAndServeTLS(s.TLS.CertFile, s.TLS.KeyFile)
		}
	} else {
		log.Info("WebSocket server listening on %s", addr)
		listenAndServe = server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("WebSocket server closed")
			return
		}
		log.Error("WebSocket server error: %v", err)
	}
}

// handleWSConnection registers the connection and pumps its messages
// into the queue with the assigned client ID stamped on.
func (s *WSServer) handleWSConnection(conn *websocket.Conn) {
	clientID, err := s.ClientManager.ConnectClient(nil, conn)
	if err != nil {
		log.Error("Failed to connect client: %v", err)
		conn.Close()
		return
	}
	log.Debug("New WebSocket connection from %s as client %d", conn.RemoteAddr().String(), clientID)

	defer s.ClientManager.DisconnectClient(clientID)

	for {
		message, err := ReadMessageFromWS(conn)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error("Error reading WebSocket message from client %d: %v", clientID, err)
			}
			log.Debug("Connection closed for client %d", clientID)
			return
		}

		message.ClientID = clientID
		if err := s.MessageQueue.Enqueue(message); err != nil {
			log.Error("Failed to enqueue message: %v", err)
		}
	}
}

// WriteMessageToWS writes a Message to a WebSocket connection
func WriteMessageToWS(conn *websocket.Conn, msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}

// ReadMessageFromWS reads a Message from a WebSocket connection
func ReadMessageFromWS(conn *websocket.Conn) (*messages.Message, error) {
	_, message, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	msg, err := messages.DeserializeMessage(message)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return msg, nil
}
