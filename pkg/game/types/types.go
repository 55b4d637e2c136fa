package types

// Resource is a tradeable commodity kind. Caps are the currency and are
// tracked separately on the player.
type Resource string

const (
	ResourceWater Resource = "water"
	ResourcePower Resource = "power"
	ResourceFood  Resource = "food"
	ResourceScrap Resource = "scrap"
)

// AllResources lists every commodity kind in a stable order.
var AllResources = []Resource{ResourceWater, ResourcePower, ResourceFood, ResourceScrap}

// IsValidResource returns true if r names a known commodity.
func IsValidResource(r Resource) bool {
	for _, known := range AllResources {
		if r == known {
			return true
		}
	}
	return false
}

// SpecialStats holds a player's seven attribute scores.
type SpecialStats struct {
	Strength     int `json:"strength"`
	Perception   int `json:"perception"`
	Endurance    int `json:"endurance"`
	Charisma     int `json:"charisma"`
	Intelligence int `json:"intelligence"`
	Agility      int `json:"agility"`
	Luck         int `json:"luck"`
}

// DefaultStats returns the baseline attribute spread for a new player.
func DefaultStats() SpecialStats {
	return SpecialStats{
		Strength:     5,
		Perception:   5,
		Endurance:    5,
		Charisma:     5,
		Intelligence: 5,
		Agility:      5,
		Luck:         5,
	}
}
