package messages

import (
	"encoding/json"

	"github.com/jswales/capstead/pkg/game/types"
)

const (
	// MessageBufferSize represents the maximum size of a message
	MessageBufferSize = 4096
)

// Message types sent by clients
const (
	MessageTypeClientHello          = "hello"
	MessageTypeClientRoll           = "req_roll"
	MessageTypeClientImprove        = "req_improve"
	MessageTypeClientTrade          = "req_trade"
	MessageTypeClientMortgage       = "req_mortgage"
	MessageTypeClientChat           = "chat"
	MessageTypeClientCasino         = "req_casino"
	MessageTypeClientCasinoResult   = "casino_result"
	MessageTypeClientBoolResponse   = "resp_bool"
	MessageTypeClientChoiceResponse = "resp_choice"
	MessageTypeClientOfferResponse  = "resp_offer"
)

// Message types sent by the server
const (
	MessageTypeServerLog          = "log"
	MessageTypeServerChat         = "server_chat"
	MessageTypeServerNotice       = "notice"
	MessageTypeServerPlayerStats  = "player_stats"
	MessageTypeServerTokenMove    = "token_move"
	MessageTypeServerTokenAdd     = "token_add"
	MessageTypeServerTokenRemove  = "token_remove"
	MessageTypeServerOwnerChange  = "owner_change"
	MessageTypeServerTurnChange   = "turn_change"
	MessageTypeServerControls     = "controls"
	MessageTypeServerBoardSync    = "board_sync"
	MessageTypeServerSeat         = "seat"
	MessageTypeServerGameOver     = "game_over"
	MessageTypeServerCasinoConfig = "casino_config"
	MessageTypeServerBoolPrompt   = "prompt_bool"
	MessageTypeServerChoicePrompt = "prompt_choice"
	MessageTypeServerOfferPrompt  = "prompt_offer"
)

// Decision kinds correlate a prompt with its response.
const (
	DecisionKindBuyProperty      = "buy_property"
	DecisionKindJailAction       = "jail_action"
	DecisionKindImproveSelection = "improve_selection"
	DecisionKindTradePartner     = "trade_partner"
	DecisionKindTradeAccept      = "trade_accept"
)

// Message represents a generic message for serialization/deserialization
type Message struct {
	ClientID uint32          `json:"clientID"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
}

// New builds a message, marshaling the payload to JSON. A nil payload
// leaves the payload field empty.
func New(clientID uint32, msgType string, payload interface{}) (*Message, error) {
	m := &Message{
		ClientID: clientID,
		Type:     msgType,
	}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		m.Payload = b
	}
	return m, nil
}

// Unmarshal decodes the message payload into v.
func (m *Message) Unmarshal(v interface{}) error {
	return json.Unmarshal(m.Payload, v)
}

// ClientHello introduces a client by display name.
type ClientHello struct {
	Name string `json:"name"`
}

// MortgageRequest toggles the mortgage on an owned property.
type MortgageRequest struct {
	Position int `json:"position"`
}

// ChatMessage is free text from a client, possibly a slash command.
type ChatMessage struct {
	Text string `json:"text"`
}

// BoolResponse answers a yes/no prompt.
type BoolResponse struct {
	Kind  string `json:"kind"`
	Value bool   `json:"value"`
}

// ChoiceResponse answers a selection prompt with one of its options.
type ChoiceResponse struct {
	Kind   string `json:"kind"`
	Choice string `json:"choice"`
}

// TradeOffer is one side of a trade as it crosses the wire. Properties
// are referenced by board position.
type TradeOffer struct {
	Caps       int                    `json:"caps"`
	Resources  map[types.Resource]int `json:"resources,omitempty"`
	Properties []int                  `json:"properties,omitempty"`
}

// OfferResponse answers an offer prompt with the sender's side of a trade.
type OfferResponse struct {
	Offer TradeOffer `json:"offer"`
}

// ServerLog is a line for the client's game log.
type ServerLog struct {
	Text string `json:"text"`
}

// ServerChat is a chat line relayed to clients.
type ServerChat struct {
	From    string `json:"from"`
	Text    string `json:"text"`
	Private bool   `json:"private,omitempty"`
	Action  bool   `json:"action,omitempty"`
}

// ServerNotice is a prominent notification for one client.
type ServerNotice struct {
	Text string `json:"text"`
}

// TokenMove repositions a player's token.
type TokenMove struct {
	PlayerID string `json:"playerId"`
	Position int    `json:"position"`
}

// TokenAdd introduces a player's token to the board view.
type TokenAdd struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// TokenRemove retires a player's token.
type TokenRemove struct {
	PlayerID string `json:"playerId"`
}

// OwnerChange updates the displayed owner of a property.
type OwnerChange struct {
	Position  int    `json:"position"`
	OwnerID   string `json:"ownerId"`
	OwnerName string `json:"ownerName"`
	Level     int    `json:"level"`
	Mortgaged bool   `json:"mortgaged"`
}

// TurnChange announces whose turn it is.
type TurnChange struct {
	PlayerID string `json:"playerId"`
	Seat     int    `json:"seat"`
	Name     string `json:"name"`
}

// Controls tells a client which turn actions to enable.
type Controls struct {
	RollEnabled    bool `json:"rollEnabled"`
	ImproveEnabled bool `json:"improveEnabled"`
	TradeEnabled   bool `json:"tradeEnabled"`
}

// SeatAssignment tells a connecting client which seat it holds and the
// client ID to stamp on subsequent messages.
type SeatAssignment struct {
	ClientID uint32 `json:"clientID"`
	PlayerID string `json:"playerId"`
	Seat     int    `json:"seat"`
	Name     string `json:"name"`
	Host     bool   `json:"host"`
}

// GameOver announces the end of the session.
type GameOver struct {
	WinnerID   string `json:"winnerId,omitempty"`
	WinnerName string `json:"winnerName,omitempty"`
	Draw       bool   `json:"draw,omitempty"`
}

// BoolPrompt asks a client a yes/no question.
type BoolPrompt struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// ChoicePrompt asks a client to pick one of the options.
type ChoicePrompt struct {
	Kind    string   `json:"kind"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// OfferPrompt asks a client to build its side of a trade.
type OfferPrompt struct {
	Text string `json:"text"`
}
