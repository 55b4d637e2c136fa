package board

import (
	"fmt"

	"github.com/jswales/capstead/pkg/game/types"
)

// Board holds the fields of a session in position order.
type Board struct {
	fields   []*Field
	startPos int
}

// New validates the field list and returns a board. Positions must be
// dense from 0 to len-1 and exactly one field must be the start.
func New(fields []*Field) (*Board, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("board has no fields")
	}
	byPos := make([]*Field, len(fields))
	startPos := -1
	for _, f := range fields {
		if f.Position < 0 || f.Position >= len(fields) {
			return nil, fmt.Errorf("field %q has position %d outside 0..%d", f.Name, f.Position, len(fields)-1)
		}
		if byPos[f.Position] != nil {
			return nil, fmt.Errorf("duplicate field position %d", f.Position)
		}
		byPos[f.Position] = f
		if f.Type == FieldStart {
			if startPos >= 0 {
				return nil, fmt.Errorf("multiple start fields at positions %d and %d", startPos, f.Position)
			}
			startPos = f.Position
		}
	}
	if startPos < 0 {
		return nil, fmt.Errorf("board has no start field")
	}
	return &Board{fields: byPos, startPos: startPos}, nil
}

// Size returns the number of fields.
func (b *Board) Size() int {
	return len(b.fields)
}

// StartPosition returns the position of the start field.
func (b *Board) StartPosition() int {
	return b.startPos
}

// FieldAt returns the field at the given position.
func (b *Board) FieldAt(pos int) *Field {
	return b.fields[pos]
}

// Fields returns the fields in position order.
func (b *Board) Fields() []*Field {
	return b.fields
}

// Advance moves steps squares from a position, wrapping around the board.
// passedStart is true only when the start field is strictly passed; landing
// exactly on it does not count, and backward movement never passes.
func (b *Board) Advance(from, steps int) (to int, passedStart bool) {
	n := len(b.fields)
	to = ((from+steps)%n + n) % n
	if steps <= 0 {
		return to, false
	}
	for i := 1; i < steps; i++ {
		if (from+i)%n == b.startPos {
			passedStart = true
		}
	}
	return to, passedStart
}

// PropertiesOwnedBy returns every property field owned by the player.
func (b *Board) PropertiesOwnedBy(ownerID string) []*Field {
	var owned []*Field
	for _, f := range b.fields {
		if f.Type == FieldProperty && f.OwnerID == ownerID {
			owned = append(owned, f)
		}
	}
	return owned
}

// GroupFields returns every property field in the named group.
func (b *Board) GroupFields(group string) []*Field {
	var fields []*Field
	for _, f := range b.fields {
		if f.Type == FieldProperty && f.Group == group {
			fields = append(fields, f)
		}
	}
	return fields
}

// GroupOwnedBy returns true if the player owns every property in the group.
func (b *Board) GroupOwnedBy(group, ownerID string) bool {
	fields := b.GroupFields(group)
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if f.OwnerID != ownerID {
			return false
		}
	}
	return true
}

// Snapshot captures the mutable state of every field.
func (b *Board) Snapshot() []types.FieldSnapshot {
	snaps := make([]types.FieldSnapshot, len(b.fields))
	for i, f := range b.fields {
		snaps[i] = types.FieldSnapshot{
			Position:  f.Position,
			OwnerID:   f.OwnerID,
			Level:     f.Level,
			Mortgaged: f.Mortgaged,
		}
	}
	return snaps
}

// Restore applies previously captured field state. Snapshots for positions
// outside the board are rejected.
func (b *Board) Restore(snaps []types.FieldSnapshot) error {
	for _, s := range snaps {
		if s.Position < 0 || s.Position >= len(b.fields) {
			return fmt.Errorf("snapshot position %d outside board", s.Position)
		}
		f := b.fields[s.Position]
		f.OwnerID = s.OwnerID
		f.Level = s.Level
		f.Mortgaged = s.Mortgaged
	}
	return nil
}
