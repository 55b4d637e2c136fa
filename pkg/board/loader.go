package board

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jswales/capstead/pkg/game/types"
)

//go:embed layout.json
var defaultLayout []byte

type fieldDef struct {
	Position    int       `json:"position"`
	Type        FieldType `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`

	PassReward int `json:"passReward"`

	PurchaseCost    int    `json:"purchaseCost"`
	RentCosts       []int  `json:"rentCosts"`
	ImprovementCost int    `json:"improvementCost"`
	GroupID         string `json:"groupId"`

	ResourceType   types.Resource `json:"resourceType"`
	ProductionRate int            `json:"productionRate"`

	Effect      SpecialEffect `json:"effect"`
	EffectValue int           `json:"effectValue"`
}

type layoutDef struct {
	BoardName string     `json:"boardName"`
	Fields    []fieldDef `json:"fields"`
}

// Load parses a board layout from JSON and validates it.
func Load(r io.Reader) (*Board, error) {
	var layout layoutDef
	if err := json.NewDecoder(r).Decode(&layout); err != nil {
		return nil, fmt.Errorf("failed to decode board layout: %v", err)
	}
	fields := make([]*Field, 0, len(layout.Fields))
	for _, def := range layout.Fields {
		f, err := def.toField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return New(fields)
}

// LoadFile loads a board layout from a file on disk.
func LoadFile(path string) (*Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open board layout: %v", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the built-in board layout.
func Default() *Board {
	b, err := Load(bytes.NewReader(defaultLayout))
	if err != nil {
		panic(fmt.Sprintf("built-in board layout is invalid: %v", err))
	}
	return b
}

func (def fieldDef) toField() (*Field, error) {
	f := &Field{
		Position:    def.Position,
		Name:        def.Name,
		Description: def.Description,
		Type:        def.Type,
	}
	switch def.Type {
	case FieldStart:
		f.PassReward = def.PassReward
	case FieldProperty:
		if def.PurchaseCost <= 0 {
			return nil, fmt.Errorf("property %q has no purchase cost", def.Name)
		}
		if len(def.RentCosts) == 0 {
			return nil, fmt.Errorf("property %q has no rent schedule", def.Name)
		}
		f.Cost = def.PurchaseCost
		f.Rents = def.RentCosts
		f.ImprovementCost = def.ImprovementCost
		f.Group = def.GroupID
	case FieldResource:
		if !types.IsValidResource(def.ResourceType) {
			return nil, fmt.Errorf("resource field %q has unknown resource %q", def.Name, def.ResourceType)
		}
		f.Resource = def.ResourceType
		f.Amount = def.ProductionRate
	case FieldSpecial:
		switch def.Effect {
		case EffectGainCaps, EffectLoseCaps, EffectGoToField, EffectDrawEvent, EffectNothing:
		default:
			return nil, fmt.Errorf("special field %q has unknown effect %q", def.Name, def.Effect)
		}
		f.Effect = def.Effect
		f.EffectValue = def.EffectValue
	default:
		return nil, fmt.Errorf("field %q has unknown type %q", def.Name, def.Type)
	}
	return f, nil
}
