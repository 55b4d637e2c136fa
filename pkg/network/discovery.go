package network

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/jswales/capstead/pkg/log"
)

const (
	// DiscoveryPort is the fixed UDP port announcements go out on.
	DiscoveryPort = 12346
	// DiscoveryPrefix marks an announcement datagram.
	DiscoveryPrefix = "CAPSTEAD_HOST"
	// DiscoveryInterval is the time between announcements.
	DiscoveryInterval = 2 * time.Second
)

// Announcer broadcasts the session name and TCP port on the LAN so
// clients can find the host without typing an address.
type Announcer struct {
	SessionName string
	TCPPort     int
	Port        int
}

// NewAnnouncerOptions contains options for creating a new Announcer.
type NewAnnouncerOptions struct {
	SessionName string
	TCPPort     int
	Port        int
}

// NewAnnouncer creates a new Announcer.
func NewAnnouncer(options NewAnnouncerOptions) *Announcer {
	port := options.Port
	if port == 0 {
		port = DiscoveryPort
	}
	return &Announcer{
		SessionName: options.SessionName,
		TCPPort:     options.TCPPort,
		Port:        port,
	}
}

// Start broadcasts announcements until the context is cancelled.
func (a *Announcer) Start(ctx context.Context) {
	addr := &net.UDPAddr{IP: net.IPv4bcast, Port: a.Port}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		log.Error("Failed to open discovery socket: %v", err)
		return
	}
	defer conn.Close()

	log.Info("Announcing session %q on UDP port %d", a.SessionName, a.Port)

	payload := []byte(FormatAnnouncement(a.SessionName, a.TCPPort))
	ticker := time.NewTicker(DiscoveryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := conn.Write(payload); err != nil {
				log.Debug("Failed to send announcement: %v", err)
			}
		}
	}
}

// FormatAnnouncement builds the datagram payload.
func FormatAnnouncement(sessionName string, tcpPort int) string {
	return fmt.Sprintf("%s:%s:%d", DiscoveryPrefix, sessionName, tcpPort)
}

// ParseAnnouncement extracts the session name and TCP port from a
// datagram payload. The name itself may contain colons.
func ParseAnnouncement(payload string) (string, int, error) {
	if !strings.HasPrefix(payload, DiscoveryPrefix+":") {
		return "", 0, fmt.Errorf("not an announcement: %q", payload)
	}
	rest := strings.TrimPrefix(payload, DiscoveryPrefix+":")
	i := strings.LastIndex(rest, ":")
	if i < 0 {
		return "", 0, fmt.Errorf("malformed announcement: %q", payload)
	}
	port, err := strconv.Atoi(rest[i+1:])
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("bad port in announcement: %q", payload)
	}
	return rest[:i], port, nil
}

// DiscoveredHost is one announcement heard on the LAN.
type DiscoveredHost struct {
	SessionName string
	Addr        string
}

// ListenForHosts waits up to the given timeout for one announcement and
// returns the host it describes.
func ListenForHosts(ctx context.Context, port int, timeout time.Duration) (*DiscoveredHost, error) {
	if port == 0 {
		port = DiscoveryPort
	}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, fmt.Errorf("failed to listen for announcements: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to set read deadline: %v", err)
	}

	buf := make([]byte, 512)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			return nil, fmt.Errorf("no announcement heard: %v", err)
		}
		name, tcpPort, err := ParseAnnouncement(string(buf[:n]))
		if err != nil {
			log.Trace("Ignoring datagram from %s: %v", addr.String(), err)
			continue
		}
		return &DiscoveredHost{
			SessionName: name,
			Addr:        net.JoinHostPort(addr.IP.String(), strconv.Itoa(tcpPort)),
		}, nil
	}
}
