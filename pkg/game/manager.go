package game

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jswales/capstead/pkg/game/types"
	"github.com/jswales/capstead/pkg/log"
	"github.com/jswales/capstead/pkg/messages"
	"github.com/jswales/capstead/pkg/queue"
)

// ClientSender delivers messages to connected clients.
type ClientSender interface {
	SendToClient(clientID uint32, msg *messages.Message) error
	Broadcast(msg *messages.Message)
}

// ConnectionEventType represents the type of a connection event.
type ConnectionEventType int

const (
	ConnectionEventTypeConnect ConnectionEventType = iota
	ConnectionEventTypeDisconnect
)

// ConnectionEvent notes a client channel attaching or detaching.
type ConnectionEvent struct {
	ClientID uint32
	Type     ConnectionEventType
}

// GameManager drains the inbound queues on a fixed interval and is the
// only writer of session state. Cross-cutting readers (heartbeat, save
// worker, API) take the same lock through the exported methods.
type GameManager struct {
	clientSender         ClientSender
	clientMessageQueue   queue.Queue
	connectionEventQueue queue.Queue
	session              *Session
	loopInterval         time.Duration
	autoStart            int
	resumePending        bool

	mu             sync.Mutex
	clientToPlayer map[uint32]string
	playerToClient map[string]uint32
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	ClientSender         ClientSender
	ClientMessageQueue   queue.Queue
	ConnectionEventQueue queue.Queue
	Session              *Session
	LoopInterval         time.Duration
	// AutoStart begins play once this many players are seated.
	// Zero means the host starts manually with /start.
	AutoStart int
	// ResumeOnAttach resumes a restored session once the current
	// player's seat is reoccupied.
	ResumeOnAttach bool
}

// NewGameManager creates a new GameManager.
func NewGameManager(options NewGameManagerOptions) *GameManager {
	return &GameManager{
		clientSender:         options.ClientSender,
		clientMessageQueue:   options.ClientMessageQueue,
		connectionEventQueue: options.ConnectionEventQueue,
		session:              options.Session,
		loopInterval:         options.LoopInterval,
		autoStart:            options.AutoStart,
		resumePending:        options.ResumeOnAttach,
		clientToPlayer:       make(map[uint32]string),
		playerToClient:       make(map[string]uint32),
	}
}

// Start runs the manager loop until the context is cancelled.
func (gm *GameManager) Start(ctx context.Context) {
	ticker := time.NewTicker(gm.loopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.tick()
		}
	}
}

func (gm *GameManager) tick() {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.processConnectionEvents()
	gm.processClientMessages()
	gm.flushOutbound()
}

// SessionSnapshot captures the session for persistence.
func (gm *GameManager) SessionSnapshot() types.SessionSnapshot {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.session.Snapshot()
}

// SessionStarted reports whether play has begun.
func (gm *GameManager) SessionStarted() bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.session.State() != SessionStateInitializing
}

// SessionSummary describes the session for the status API.
type SessionSummary struct {
	State       string   `json:"state"`
	Players     []string `json:"players"`
	CurrentTurn string   `json:"currentTurn,omitempty"`
}

// Summary returns a read-only view of the session for the status API.
func (gm *GameManager) Summary() SessionSummary {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	summary := SessionSummary{State: string(gm.session.State())}
	for _, p := range gm.session.Players() {
		summary.Players = append(summary.Players, p.Name)
	}
	if current := gm.session.Current(); current != nil {
		summary.CurrentTurn = current.Name
	}
	return summary
}

// BroadcastBoardSync pushes a full board snapshot to every connected
// client. The heartbeat worker calls this on its interval.
func (gm *GameManager) BroadcastBoardSync() {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.session.broadcast(messages.MessageTypeServerBoardSync, gm.session.Snapshot())
	gm.flushOutbound()
}

func (gm *GameManager) processConnectionEvents() {
	for _, item := range gm.connectionEventQueue.DrainAll() {
		event, ok := item.(ConnectionEvent)
		if !ok {
			log.Error("Failed to cast connection event %T", item)
			continue
		}
		switch event.Type {
		case ConnectionEventTypeConnect:
			log.Debug("Client %d connected, awaiting hello", event.ClientID)
		case ConnectionEventTypeDisconnect:
			gm.detachClient(event.ClientID)
		}
	}
}

// detachClient clears the channel handle but keeps the seat so the
// player can reconnect.
func (gm *GameManager) detachClient(clientID uint32) {
	playerID, ok := gm.clientToPlayer[clientID]
	if !ok {
		return
	}
	delete(gm.clientToPlayer, clientID)
	delete(gm.playerToClient, playerID)
	if p := gm.session.playerByID(playerID); p != nil {
		gm.session.logf("%s has lost contact. The seat stays open.", p.Name)
	}
}

func (gm *GameManager) processClientMessages() {
	for _, item := range gm.clientMessageQueue.DrainAll() {
		message, ok := item.(*messages.Message)
		if !ok {
			log.Error("Failed to cast message %T", item)
			continue
		}
		gm.processClientMessage(message)
	}
}

func (gm *GameManager) processClientMessage(message *messages.Message) {
	if message.Type == messages.MessageTypeClientHello {
		hello := &messages.ClientHello{}
		if err := json.Unmarshal(message.Payload, hello); err != nil {
			log.Error("Failed to unmarshal hello from client %d: %v", message.ClientID, err)
			return
		}
		gm.handleHello(message.ClientID, hello.Name)
		return
	}

	playerID, ok := gm.clientToPlayer[message.ClientID]
	if !ok {
		log.Warn("Message %s from client %d with no seat, dropping", message.Type, message.ClientID)
		return
	}

	switch message.Type {
	case messages.MessageTypeClientRoll:
		gm.session.HandleRollRequest(playerID)
	case messages.MessageTypeClientImprove:
		gm.session.HandleImproveRequest(playerID)
	case messages.MessageTypeClientTrade:
		gm.session.HandleTradeRequest(playerID)
	case messages.MessageTypeClientCasino:
		gm.session.HandleCasinoRequest(playerID)
	case messages.MessageTypeClientMortgage:
		req := &messages.MortgageRequest{}
		if err := json.Unmarshal(message.Payload, req); err != nil {
			log.Error("Failed to unmarshal mortgage request: %v", err)
			return
		}
		gm.session.HandleMortgageRequest(playerID, req.Position)
	case messages.MessageTypeClientChat:
		chat := &messages.ChatMessage{}
		if err := json.Unmarshal(message.Payload, chat); err != nil {
			log.Error("Failed to unmarshal chat message: %v", err)
			return
		}
		gm.session.HandleChat(playerID, chat.Text)
	case messages.MessageTypeClientCasinoResult:
		result := types.CasinoResult{}
		if err := json.Unmarshal(message.Payload, &result); err != nil {
			log.Error("Failed to unmarshal casino result: %v", err)
			return
		}
		gm.session.HandleCasinoResult(playerID, result)
	case messages.MessageTypeClientBoolResponse:
		resp := &messages.BoolResponse{}
		if err := json.Unmarshal(message.Payload, resp); err != nil {
			log.Error("Failed to unmarshal bool response: %v", err)
			return
		}
		gm.session.HandleBoolResponse(playerID, resp.Kind, resp.Value)
	case messages.MessageTypeClientChoiceResponse:
		resp := &messages.ChoiceResponse{}
		if err := json.Unmarshal(message.Payload, resp); err != nil {
			log.Error("Failed to unmarshal choice response: %v", err)
			return
		}
		gm.session.HandleChoiceResponse(playerID, resp.Kind, resp.Choice)
	case messages.MessageTypeClientOfferResponse:
		resp := &messages.OfferResponse{}
		if err := json.Unmarshal(message.Payload, resp); err != nil {
			log.Error("Failed to unmarshal offer response: %v", err)
			return
		}
		gm.session.HandleOfferResponse(playerID, resp.Offer)
	default:
		log.Warn("Received unexpected message type from client: %s", message.Type)
	}
}

// handleHello seats a new player or reattaches a client to a vacant
// seat of a running session.
func (gm *GameManager) handleHello(clientID uint32, name string) {
	if _, ok := gm.clientToPlayer[clientID]; ok {
		log.Warn("Client %d sent hello twice, ignoring", clientID)
		return
	}

	if gm.session.State() == SessionStateInitializing {
		p, err := gm.session.AddPlayer(name)
		if err != nil {
			gm.rejectClient(clientID, err.Error())
			return
		}
		gm.attach(clientID, p)
		gm.session.logf("%s joins the session.", p.Name)
		if gm.autoStart > 0 && len(gm.session.Players()) >= gm.autoStart {
			if err := gm.session.Start(); err != nil {
				log.Error("Failed to auto-start session: %v", err)
			}
		}
		return
	}

	p := gm.vacantSeat()
	if p == nil {
		gm.rejectClient(clientID, "The session is full.")
		return
	}
	gm.attach(clientID, p)
	gm.session.logf("%s is back in contact.", p.Name)
	if gm.resumePending && gm.session.Current() == p {
		gm.resumePending = false
		gm.session.Resume()
	}
}

// vacantSeat returns the first active player with no attached client.
func (gm *GameManager) vacantSeat() *Player {
	for _, p := range gm.session.Players() {
		if !p.Active {
			continue
		}
		if _, attached := gm.playerToClient[p.ID]; !attached {
			return p
		}
	}
	return nil
}

func (gm *GameManager) attach(clientID uint32, p *Player) {
	gm.clientToPlayer[clientID] = p.ID
	gm.playerToClient[p.ID] = clientID
	gm.session.emit(p.ID, messages.MessageTypeServerSeat, messages.SeatAssignment{
		ClientID: clientID,
		PlayerID: p.ID,
		Seat:     p.Seat,
		Name:     p.Name,
		Host:     p.Seat == 0,
	})
	gm.session.EmitJoinState(p)
}

func (gm *GameManager) rejectClient(clientID uint32, reason string) {
	msg, err := messages.New(0, messages.MessageTypeServerNotice, messages.ServerNotice{Text: reason})
	if err != nil {
		log.Error("Failed to build rejection notice: %v", err)
		return
	}
	if err := gm.clientSender.SendToClient(clientID, msg); err != nil {
		log.Error("Failed to send rejection notice to client %d: %v", clientID, err)
	}
}

func (gm *GameManager) flushOutbound() {
	for _, out := range gm.session.DrainOutbound() {
		msg, err := messages.New(0, out.Type, out.Payload)
		if err != nil {
			log.Error("Failed to build %s message: %v", out.Type, err)
			continue
		}
		if out.TargetID == "" {
			gm.clientSender.Broadcast(msg)
			continue
		}
		clientID, ok := gm.playerToClient[out.TargetID]
		if !ok {
			log.Trace("Dropping %s for detached player %s", out.Type, out.TargetID)
			continue
		}
		if err := gm.clientSender.SendToClient(clientID, msg); err != nil {
			log.Error("Failed to send %s to client %d: %v", out.Type, clientID, err)
		}
	}
}
