package board

import (
	"github.com/jswales/capstead/pkg/game/constants"
	"github.com/jswales/capstead/pkg/game/types"
)

// FieldType discriminates the board field variants.
type FieldType string

const (
	FieldStart    FieldType = "start"
	FieldProperty FieldType = "property"
	FieldResource FieldType = "resource"
	FieldSpecial  FieldType = "special"
)

// SpecialEffect is what a special field does on landing.
type SpecialEffect string

const (
	EffectGainCaps  SpecialEffect = "gain_caps"
	EffectLoseCaps  SpecialEffect = "lose_caps"
	EffectGoToField SpecialEffect = "go_to_field"
	EffectDrawEvent SpecialEffect = "draw_event"
	EffectNothing   SpecialEffect = "nothing"
)

// GroupUtility marks a property group whose members cannot be improved.
const GroupUtility = "utility"

// Field is one square of the board. Variant-specific attributes are only
// meaningful for the matching Type; OwnerID, Level and Mortgaged are the
// mutable state of a property.
type Field struct {
	Position    int
	Name        string
	Description string
	Type        FieldType

	// property
	Group           string
	Cost            int
	Rents           []int
	ImprovementCost int
	OwnerID         string
	Level           int
	Mortgaged       bool

	// resource
	Resource types.Resource
	Amount   int

	// start
	PassReward int

	// special
	Effect      SpecialEffect
	EffectValue int
}

// Owned returns true if the property has an owner.
func (f *Field) Owned() bool {
	return f.OwnerID != ""
}

// Improvable returns true if the field belongs to a group whose members
// can be developed. Utility and ungrouped properties cannot.
func (f *Field) Improvable() bool {
	return f.Type == FieldProperty && f.Group != "" && f.Group != GroupUtility
}

// Rent returns the rent owed by a visitor with the given charisma score.
// Mortgaged properties collect nothing. The charisma discount truncates
// toward zero and never pushes rent below zero.
func (f *Field) Rent(charisma int) int {
	if f.Type != FieldProperty || f.Mortgaged || len(f.Rents) == 0 {
		return 0
	}
	level := f.Level
	if level >= len(f.Rents) {
		level = len(f.Rents) - 1
	}
	base := f.Rents[level]
	discount := int(float64(base) * constants.CharismaRentDiscount * float64(charisma))
	rent := base - discount
	if rent < 0 {
		return 0
	}
	return rent
}

// MortgageValue is the amount paid out when the property is mortgaged.
func (f *Field) MortgageValue() int {
	return f.Cost / 2
}

// UnmortgageCost is the mortgage principal plus interest, rounded up.
// Integer math avoids float rounding pushing the cost up a cap.
func (f *Field) UnmortgageCost() int {
	half := f.Cost / 2
	return half + (half*constants.UnmortgageInterestPct+99)/100
}

// ImproveScrapCost is the scrap required to raise the property to the
// next level.
func (f *Field) ImproveScrapCost() int {
	return constants.ScrapPerLevel * (f.Level + 1)
}
