package game

// Outbound is a message the session wants delivered to clients. An empty
// TargetID means broadcast to every connected channel.
type Outbound struct {
	TargetID string
	Type     string
	Payload  interface{}
}

func (s *Session) emit(targetID, msgType string, payload interface{}) {
	s.out = append(s.out, Outbound{TargetID: targetID, Type: msgType, Payload: payload})
}

func (s *Session) broadcast(msgType string, payload interface{}) {
	s.emit("", msgType, payload)
}

// DrainOutbound returns and clears the buffered outbound messages.
func (s *Session) DrainOutbound() []Outbound {
	out := s.out
	s.out = nil
	return out
}
