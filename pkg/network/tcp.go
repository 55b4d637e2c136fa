package network

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/jswales/capstead/pkg/log"
	"github.com/jswales/capstead/pkg/messages"
	"github.com/jswales/capstead/pkg/queue"
)

// TCPServer accepts reliable client connections. Frames are
// length-prefixed with a 4 byte big-endian header.
type TCPServer struct {
	ClientManager *ClientManager
	MessageQueue  queue.Queue
	Port          int
}

// NewTCPServerOptions contains options for creating a new TCPServer.
type NewTCPServerOptions struct {
	ClientManager *ClientManager
	MessageQueue  queue.Queue
	Port          int
}

// NewTCPServer creates a new TCP server.
func NewTCPServer(options NewTCPServerOptions) *TCPServer {
	return &TCPServer{
		ClientManager: options.ClientManager,
		MessageQueue:  options.MessageQueue,
		Port:          options.Port,
	}
}

// Start starts the TCP server.
func (s *TCPServer) Start(ctx context.Context) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", fmt.Sprintf(":%d", s.Port))
	if err != nil {
		log.Error("Failed to resolve TCP address: %v", err)
		return
	}

	tcpListener, err := net.ListenTCP("tcp", tcpAddr)
	if err != nil {
		log.Error("Failed to listen on TCP address: %v", err)
		return
	}
	defer tcpListener.Close()

	log.Info("TCP server listening on %s", tcpAddr.String())

	go func() {
		<-ctx.Done()
		tcpListener.Close()
	}()

	for {
		conn, err := tcpListener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("Failed to accept TCP connection: %v", err)
			continue
		}

		go s.handleTCPConnection(conn)
	}
}

// handleTCPConnection registers the connection and pumps its messages
// into the queue with the assigned client ID stamped on.
func (s *TCPServer) handleTCPConnection(conn net.Conn) {
	clientID, err := s.ClientManager.ConnectClient(conn, nil)
	if err != nil {
		log.Error("Failed to connect client: %v", err)
		conn.Close()
		return
	}
	log.Debug("New TCP connection from %s as client %d", conn.RemoteAddr().String(), clientID)

	defer s.ClientManager.DisconnectClient(clientID)

	for {
		message, err := ReadMessageFromTCP(conn)
		if err != nil {
			var closed *ErrConnectionClosed
			if errors.As(err, &closed) {
				log.Debug("Connection closed for client %d", clientID)
				return
			}
			log.Error("Error reading TCP message from client %d: %v", clientID, err)
			return
		}

		message.ClientID = clientID
		if err := s.MessageQueue.Enqueue(message); err != nil {
			log.Error("Failed to enqueue message: %v", err)
		}
	}
}

// WriteMessageToTCP writes a Message to a TCP connection
func WriteMessageToTCP(conn net.Conn, msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(b)))
	if _, err := conn.Write(header); err != nil {
		return fmt.Errorf("failed to write frame header to TCP connection: %v", err)
	}
	if _, err := conn.Write(b); err != nil {
		return fmt.Errorf("failed to write message to TCP connection: %v", err)
	}

	return nil
}

// ErrConnectionClosed is returned when the TCP connection is closed
type ErrConnectionClosed struct{}

func (e *ErrConnectionClosed) Error() string {
	return "connection closed"
}

// ReadMessageFromTCP reads a Message from a TCP connection
func ReadMessageFromTCP(conn net.Conn) (*messages.Message, error) {
	header := make([]byte, 4)
	if _, err := io.ReadFull(conn, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &ErrConnectionClosed{}
		}
		return nil, fmt.Errorf("failed to read frame header from TCP connection: %v", err)
	}

	size := binary.BigEndian.Uint32(header)
	if size == 0 || size > messages.MessageBufferSize {
		return nil, fmt.Errorf("invalid frame size %d", size)
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(conn, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &ErrConnectionClosed{}
		}
		return nil, fmt.Errorf("failed to read message from TCP connection: %v", err)
	}

	msg, err := messages.DeserializeMessage(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return msg, nil
}
