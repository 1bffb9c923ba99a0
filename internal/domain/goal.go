package domain

import "github.com/google/uuid"

// SavingsGoal is the single active savings goal for one identity.
// CurrentSaved stays within [0, TargetAmount]; the goal tracker clamps on
// every mutation.
type SavingsGoal struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	TargetAmount float64 `json:"targetAmount"` // > 0
	CurrentSaved float64 `json:"currentSaved"`
}

// NewGoalID mints an opaque goal identifier.
func NewGoalID() string {
	return uuid.NewString()
}

// Remaining is the amount still needed to reach the target.
func (g SavingsGoal) Remaining() float64 {
	r := g.TargetAmount - g.CurrentSaved
	if r < 0 {
		return 0
	}
	return r
}
