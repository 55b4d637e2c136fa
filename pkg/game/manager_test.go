package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/jswales/capstead/pkg/board"
	"github.com/jswales/capstead/pkg/messages"
	"github.com/jswales/capstead/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent      map[uint32][]*messages.Message
	broadcast []*messages.Message
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(map[uint32][]*messages.Message)}
}

func (f *fakeSender) SendToClient(clientID uint32, msg *messages.Message) error {
	f.sent[clientID] = append(f.sent[clientID], msg)
	return nil
}

func (f *fakeSender) Broadcast(msg *messages.Message) {
	f.broadcast = append(f.broadcast, msg)
}

func (f *fakeSender) sentOfType(clientID uint32, msgType string) []*messages.Message {
	var matched []*messages.Message
	for _, msg := range f.sent[clientID] {
		if msg.Type == msgType {
			matched = append(matched, msg)
		}
	}
	return matched
}

type managerHarness struct {
	gm        *GameManager
	sender    *fakeSender
	msgQueue  queue.Queue
	connQueue queue.Queue
}

func newManagerHarness(t *testing.T, autoStart int, resume bool, session *Session) *managerHarness {
	t.Helper()
	if session == nil {
		session = NewSession(board.Default(), rand.New(rand.NewSource(1)))
	}
	h := &managerHarness{
		sender:    newFakeSender(),
		msgQueue:  queue.NewInMemoryQueue(64),
		connQueue: queue.NewInMemoryQueue(64),
	}
	h.gm = NewGameManager(NewGameManagerOptions{
		ClientSender:         h.sender,
		ClientMessageQueue:   h.msgQueue,
		ConnectionEventQueue: h.connQueue,
		Session:              session,
		LoopInterval:         time.Millisecond,
		AutoStart:            autoStart,
		ResumeOnAttach:       resume,
	})
	return h
}

func (h *managerHarness) hello(t *testing.T, clientID uint32, name string) {
	t.Helper()
	msg, err := messages.New(clientID, messages.MessageTypeClientHello, messages.ClientHello{Name: name})
	require.NoError(t, err)
	require.NoError(t, h.msgQueue.Enqueue(msg))
	h.gm.tick()
}

func (h *managerHarness) send(t *testing.T, clientID uint32, msgType string, payload interface{}) {
	t.Helper()
	msg, err := messages.New(clientID, msgType, payload)
	require.NoError(t, err)
	require.NoError(t, h.msgQueue.Enqueue(msg))
	h.gm.tick()
}

func TestGameManager_HelloSeatsPlayer(t *testing.T) {
	h := newManagerHarness(t, 0, false, nil)

	h.hello(t, 1, "alice")

	seats := h.sender.sentOfType(1, messages.MessageTypeServerSeat)
	require.Len(t, seats, 1)
	var seat messages.SeatAssignment
	require.NoError(t, seats[0].Unmarshal(&seat))
	assert.Equal(t, uint32(1), seat.ClientID)
	assert.Equal(t, 0, seat.Seat)
	assert.True(t, seat.Host)
	assert.False(t, h.gm.SessionStarted())
}

func TestGameManager_DuplicateHelloIgnored(t *testing.T) {
	h := newManagerHarness(t, 0, false, nil)

	h.hello(t, 1, "alice")
	h.hello(t, 1, "alice-again")

	assert.Len(t, h.gm.Summary().Players, 1)
}

func TestGameManager_AutoStart(t *testing.T) {
	h := newManagerHarness(t, 2, false, nil)

	h.hello(t, 1, "alice")
	assert.False(t, h.gm.SessionStarted())

	h.hello(t, 2, "bob")
	assert.True(t, h.gm.SessionStarted())

	summary := h.gm.Summary()
	assert.Equal(t, string(SessionStatePlayerTurn), summary.State)
	assert.Equal(t, "alice", summary.CurrentTurn)
}

func TestGameManager_RejectsFifthClient(t *testing.T) {
	h := newManagerHarness(t, 0, false, nil)

	for id := uint32(1); id <= 4; id++ {
		h.hello(t, id, "player")
	}
	h.hello(t, 5, "late")

	notices := h.sender.sentOfType(5, messages.MessageTypeServerNotice)
	require.Len(t, notices, 1)
	assert.Empty(t, h.sender.sentOfType(5, messages.MessageTypeServerSeat))
}

func TestGameManager_MessageWithoutSeatDropped(t *testing.T) {
	h := newManagerHarness(t, 2, false, nil)
	h.hello(t, 1, "alice")
	h.hello(t, 2, "bob")

	h.send(t, 9, messages.MessageTypeClientRoll, nil)

	assert.Equal(t, "alice", h.gm.Summary().CurrentTurn)
}

func TestGameManager_ChatRoundTrip(t *testing.T) {
	h := newManagerHarness(t, 2, false, nil)
	h.hello(t, 1, "alice")
	h.hello(t, 2, "bob")
	h.sender.broadcast = nil

	h.send(t, 2, messages.MessageTypeClientChat, messages.ChatMessage{Text: "anyone alive out there?"})

	var chat *messages.Message
	for _, msg := range h.sender.broadcast {
		if msg.Type == messages.MessageTypeServerChat {
			chat = msg
		}
	}
	require.NotNil(t, chat)
	var payload messages.ServerChat
	require.NoError(t, chat.Unmarshal(&payload))
	assert.Equal(t, "bob", payload.From)
	assert.Equal(t, "anyone alive out there?", payload.Text)
}

func TestGameManager_DisconnectKeepsSeat(t *testing.T) {
	h := newManagerHarness(t, 2, false, nil)
	h.hello(t, 1, "alice")
	h.hello(t, 2, "bob")

	require.NoError(t, h.connQueue.Enqueue(ConnectionEvent{ClientID: 2, Type: ConnectionEventTypeDisconnect}))
	h.gm.tick()

	assert.Len(t, h.gm.Summary().Players, 2)

	// A new client takes over the vacant seat.
	h.hello(t, 3, "bob")
	seats := h.sender.sentOfType(3, messages.MessageTypeServerSeat)
	require.Len(t, seats, 1)
	var seat messages.SeatAssignment
	require.NoError(t, seats[0].Unmarshal(&seat))
	assert.Equal(t, 1, seat.Seat)
	assert.Equal(t, "bob", seat.Name)
}

func TestGameManager_ResumeOnAttach(t *testing.T) {
	base := newTestSession(t, "alice", "bob")
	snap := base.Snapshot()
	restored, err := RestoreSession(board.Default(), snap, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	h := newManagerHarness(t, 0, true, restored)

	// Seats are reattached in seat order, so the first client takes the
	// current player's seat and play resumes.
	h.hello(t, 1, "alice")

	var resumed bool
	for _, msg := range h.sender.broadcast {
		if msg.Type == messages.MessageTypeServerTurnChange {
			resumed = true
		}
	}
	assert.True(t, resumed)
}

func TestGameManager_OutboundForDetachedPlayerDropped(t *testing.T) {
	h := newManagerHarness(t, 2, false, nil)
	h.hello(t, 1, "alice")
	h.hello(t, 2, "bob")

	require.NoError(t, h.connQueue.Enqueue(ConnectionEvent{ClientID: 1, Type: ConnectionEventTypeDisconnect}))
	h.gm.tick()
	h.sender.sent = map[uint32][]*messages.Message{}

	// A roll request from the detached seat's old client is dropped, and
	// nothing is delivered to the stale client ID.
	h.send(t, 1, messages.MessageTypeClientRoll, nil)
	assert.Empty(t, h.sender.sent[1])
}

func TestGameManager_SessionSnapshotRoundTrip(t *testing.T) {
	h := newManagerHarness(t, 2, false, nil)
	h.hello(t, 1, "alice")
	h.hello(t, 2, "bob")

	snap := h.gm.SessionSnapshot()
	require.Len(t, snap.Players, 2)
	assert.Equal(t, "alice", snap.Players[0].Name)
	assert.Equal(t, 0, snap.CurrentTurn)
}

func TestGameManager_BroadcastBoardSync(t *testing.T) {
	h := newManagerHarness(t, 2, false, nil)
	h.hello(t, 1, "alice")
	h.hello(t, 2, "bob")
	h.sender.broadcast = nil

	h.gm.BroadcastBoardSync()

	var found bool
	for _, msg := range h.sender.broadcast {
		if msg.Type == messages.MessageTypeServerBoardSync {
			found = true
		}
	}
	assert.True(t, found)
}
