package constants

const (

	// StartingCaps is each player's starting balance
	StartingCaps int = 500
	// MaxPlayers is the seat limit for a session
	MaxPlayers int = 4
	// MinPlayers is the minimum number of seats to start a session
	MinPlayers int = 2

	// JailFine is the fee to leave holding
	JailFine int = 50
	// MaxJailTurns is the number of turns a player may wait before the fine is forced
	MaxJailTurns int = 3

	// MaxImprovementLevel is the highest improvement level a property can reach
	MaxImprovementLevel int = 3
	// ScrapPerLevel scales the scrap cost of an improvement with the target level
	ScrapPerLevel int = 2

	// CharismaRentDiscount is the per-point rent discount rate
	CharismaRentDiscount float64 = 0.025
	// IntelligenceYieldBonus is the per-point chance of one bonus production unit
	IntelligenceYieldBonus float64 = 0.05

	// UnmortgageInterestPct is the interest rate charged on mortgage redemption
	UnmortgageInterestPct int = 10

	// DieSides is the number of faces on each movement die
	DieSides int = 6
)
