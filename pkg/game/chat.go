package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jswales/capstead/pkg/board"
	"github.com/jswales/capstead/pkg/game/types"
	"github.com/jswales/capstead/pkg/messages"
)

const helpText = "Commands: /roll, /casino, /w <name> <message>, /me <action>, /help" +
	" | Host only: /start, /setcaps, /addcaps, /setres, /setowner, /teleport"

// HandleChat relays a chat line or dispatches it as a slash command.
// The host (seat 0) additionally gets the admin override commands.
func (s *Session) HandleChat(playerID, text string) {
	p := s.playerByID(playerID)
	if p == nil {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if !strings.HasPrefix(text, "/") {
		s.broadcast(messages.MessageTypeServerChat, messages.ServerChat{From: p.Name, Text: text})
		return
	}
	fields := strings.Fields(text)
	switch strings.ToLower(fields[0]) {
	case "/help":
		s.systemChat(p, helpText)
	case "/start":
		if !s.requireHost(p) {
			return
		}
		if err := s.Start(); err != nil {
			s.systemChat(p, fmt.Sprintf("Cannot start: %v.", err))
		}
	case "/roll":
		s.HandleRollRequest(p.ID)
	case "/casino":
		s.HandleCasinoRequest(p.ID)
	case "/me":
		if len(fields) < 2 {
			s.systemChat(p, "Usage: /me <action>")
			return
		}
		s.broadcast(messages.MessageTypeServerChat, messages.ServerChat{
			From:   p.Name,
			Text:   strings.TrimSpace(strings.TrimPrefix(text, fields[0])),
			Action: true,
		})
	case "/w", "/msg":
		s.whisper(p, fields)
	case "/setcaps":
		s.adminSetCaps(p, fields, false)
	case "/addcaps":
		s.adminSetCaps(p, fields, true)
	case "/setres":
		s.adminSetResource(p, fields)
	case "/setowner":
		s.adminSetOwner(p, fields)
	case "/teleport":
		s.adminTeleport(p, fields)
	default:
		s.systemChat(p, fmt.Sprintf("Unknown command %s. Try /help.", fields[0]))
	}
}

func (s *Session) systemChat(p *Player, text string) {
	s.emit(p.ID, messages.MessageTypeServerChat, messages.ServerChat{
		From:    "System",
		Text:    text,
		Private: true,
	})
}

func (s *Session) whisper(p *Player, fields []string) {
	if len(fields) < 3 {
		s.systemChat(p, "Usage: /w <name> <message>")
		return
	}
	target := s.playerByName(fields[1])
	if target == nil {
		s.systemChat(p, fmt.Sprintf("No survivor named %s.", fields[1]))
		return
	}
	body := strings.Join(fields[2:], " ")
	s.emit(target.ID, messages.MessageTypeServerChat, messages.ServerChat{From: p.Name, Text: body, Private: true})
	s.systemChat(p, fmt.Sprintf("To %s: %s", target.Name, body))
}

func (s *Session) requireHost(p *Player) bool {
	if p.Seat != 0 {
		s.systemChat(p, "That command is host only.")
		return false
	}
	return true
}

func (s *Session) adminSetCaps(p *Player, fields []string, add bool) {
	if !s.requireHost(p) {
		return
	}
	if len(fields) != 3 {
		s.systemChat(p, fmt.Sprintf("Usage: %s <name> <amount>", fields[0]))
		return
	}
	target := s.playerByName(fields[1])
	if target == nil {
		s.systemChat(p, fmt.Sprintf("No survivor named %s.", fields[1]))
		return
	}
	amount, err := strconv.Atoi(fields[2])
	if err != nil {
		s.systemChat(p, fmt.Sprintf("Bad amount %q.", fields[2]))
		return
	}
	if add {
		target.AddCaps(amount)
	} else {
		target.Caps = amount
	}
	s.logf("The host adjusts %s's caps to %d.", target.Name, target.Caps)
	s.emitStats(target)
}

func (s *Session) adminSetResource(p *Player, fields []string) {
	if !s.requireHost(p) {
		return
	}
	if len(fields) != 4 {
		s.systemChat(p, "Usage: /setres <name> <resource> <amount>")
		return
	}
	target := s.playerByName(fields[1])
	if target == nil {
		s.systemChat(p, fmt.Sprintf("No survivor named %s.", fields[1]))
		return
	}
	r := types.Resource(strings.ToLower(fields[2]))
	if !types.IsValidResource(r) {
		s.systemChat(p, fmt.Sprintf("Unknown resource %q.", fields[2]))
		return
	}
	amount, err := strconv.Atoi(fields[3])
	if err != nil || amount < 0 {
		s.systemChat(p, fmt.Sprintf("Bad amount %q.", fields[3]))
		return
	}
	target.Resources[r] = amount
	s.logf("The host sets %s's %s to %d.", target.Name, r, amount)
	s.emitStats(target)
}

// adminSetOwner reassigns or clears a property. Clearing also resets the
// improvement level and mortgage; this is the only path that resets a
// level outside liquidation.
func (s *Session) adminSetOwner(p *Player, fields []string) {
	if !s.requireHost(p) {
		return
	}
	if len(fields) != 3 {
		s.systemChat(p, "Usage: /setowner <position> <name|none>")
		return
	}
	pos, err := strconv.Atoi(fields[1])
	if err != nil || pos < 0 || pos >= s.board.Size() {
		s.systemChat(p, fmt.Sprintf("Bad position %q.", fields[1]))
		return
	}
	f := s.board.FieldAt(pos)
	if f.Type != board.FieldProperty {
		s.systemChat(p, fmt.Sprintf("%s is not a property.", f.Name))
		return
	}
	if strings.EqualFold(fields[2], "none") {
		f.OwnerID = ""
		f.Level = 0
		f.Mortgaged = false
		s.logf("The host releases %s back to the wasteland.", f.Name)
	} else {
		target := s.playerByName(fields[2])
		if target == nil {
			s.systemChat(p, fmt.Sprintf("No survivor named %s.", fields[2]))
			return
		}
		f.OwnerID = target.ID
		s.logf("The host grants %s to %s.", f.Name, target.Name)
	}
	s.emitOwner(f)
}

func (s *Session) adminTeleport(p *Player, fields []string) {
	if !s.requireHost(p) {
		return
	}
	if len(fields) != 3 {
		s.systemChat(p, "Usage: /teleport <name> <position>")
		return
	}
	target := s.playerByName(fields[1])
	if target == nil {
		s.systemChat(p, fmt.Sprintf("No survivor named %s.", fields[1]))
		return
	}
	pos, err := strconv.Atoi(fields[2])
	if err != nil || pos < 0 || pos >= s.board.Size() {
		s.systemChat(p, fmt.Sprintf("Bad position %q.", fields[2]))
		return
	}
	s.placeToken(target, pos)
	s.logf("The host teleports %s to %s.", target.Name, s.board.FieldAt(pos).Name)
}
