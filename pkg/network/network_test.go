package network

import (
	"net"
	"testing"

	"github.com/jswales/capstead/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTCPFrameRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	want, err := messages.New(7, messages.MessageTypeClientChat, messages.ChatMessage{Text: "hello"})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		errCh <- WriteMessageToTCP(client, want)
	}()

	got, err := ReadMessageFromTCP(server)
	require.NoError(t, err)
	require.NoError(t, <-errCh)

	assert.Equal(t, want.ClientID, got.ClientID)
	assert.Equal(t, want.Type, got.Type)
	var chat messages.ChatMessage
	require.NoError(t, got.Unmarshal(&chat))
	assert.Equal(t, "hello", chat.Text)
}

func TestReadMessageFromTCP_ClosedConnection(t *testing.T) {
	client, server := net.Pipe()
	client.Close()

	_, err := ReadMessageFromTCP(server)
	require.Error(t, err)
	var closed *ErrConnectionClosed
	assert.ErrorAs(t, err, &closed)
}

func TestClientManager_ConnectDisconnect(t *testing.T) {
	cm := NewClientManager()
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	clientID, err := cm.ConnectClient(server, nil)
	require.NoError(t, err)
	require.NotZero(t, clientID)
	assert.True(t, cm.Exists(clientID))
	assert.Equal(t, clientID, cm.GetClientIDByTCPConn(server))

	event := <-cm.GetClientEventChan()
	assert.Equal(t, ClientEventTypeConnect, event.Type)
	assert.Equal(t, clientID, event.ClientID)

	cm.DisconnectClient(clientID)
	assert.False(t, cm.Exists(clientID))

	event = <-cm.GetClientEventChan()
	assert.Equal(t, ClientEventTypeDisconnect, event.Type)
}

func TestClientManager_SendToClient(t *testing.T) {
	cm := NewClientManager()
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	clientID, err := cm.ConnectClient(server, nil)
	require.NoError(t, err)
	<-cm.GetClientEventChan()

	msg, err := messages.New(0, messages.MessageTypeServerNotice, messages.ServerNotice{Text: "welcome"})
	require.NoError(t, err)
	require.NoError(t, cm.SendToClient(clientID, msg))

	got, err := ReadMessageFromTCP(client)
	require.NoError(t, err)
	assert.Equal(t, messages.MessageTypeServerNotice, got.Type)
}

func TestClientManager_SendToClientUnknown(t *testing.T) {
	cm := NewClientManager()

	msg, err := messages.New(0, messages.MessageTypeServerNotice, nil)
	require.NoError(t, err)
	assert.Error(t, cm.SendToClient(42, msg))
}

func TestAnnouncementRoundTrip(t *testing.T) {
	payload := FormatAnnouncement("overseer's game", 9001)
	name, port, err := ParseAnnouncement(payload)
	require.NoError(t, err)
	assert.Equal(t, "overseer's game", name)
	assert.Equal(t, 9001, port)
}

func TestParseAnnouncement_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"wrong prefix", "OTHER_HOST:game:9001"},
		{"missing port", "CAPSTEAD_HOST:game"},
		{"bad port", "CAPSTEAD_HOST:game:banana"},
		{"port out of range", "CAPSTEAD_HOST:game:70000"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseAnnouncement(tt.payload)
			assert.Error(t, err)
		})
	}
}

func TestAnnouncementNameWithColon(t *testing.T) {
	name, port, err := ParseAnnouncement("CAPSTEAD_HOST:vault:13:9001")
	require.NoError(t, err)
	assert.Equal(t, "vault:13", name)
	assert.Equal(t, 9001, port)
}
