// Package advisor is the advisory collaborator boundary: runway projection,
// peer benchmarking, goal strategy, buddy feedback and savings tips. All of
// it is non-authoritative. A failed or malformed call degrades to a fixed
// fallback and never touches ledger state.
package advisor

import (
	"context"

	"github.com/d4-dhiraj/SpendWise-AI/internal/analytics"
	"github.com/d4-dhiraj/SpendWise-AI/internal/domain"
)

// RunwayAnalysis projects when the balance hits zero at the current burn.
type RunwayAnalysis struct {
	ZeroDate       string  `json:"zeroDate"`
	DaysRemaining  int     `json:"daysRemaining"`
	BurnRatePerDay float64 `json:"burnRatePerDay"`
	WarningLevel   int     `json:"warningLevel"` // 1-10
	Advice         string  `json:"advice"`
}

// ComparisonData benchmarks one category against an average peer.
type ComparisonData struct {
	Category   domain.Category `json:"category"`
	UserAmount float64         `json:"userAmount"`
	PeerAmount float64         `json:"peerAmount"`
	Insight    string          `json:"insight"`
}

// GoalStrategy is a skip-this-item plan toward the active savings goal.
type GoalStrategy struct {
	ItemToSkip     string  `json:"itemToSkip"`
	AvgCostPerItem float64 `json:"avgCostPerItem"`
	SkipsRequired  int     `json:"skipsRequired"`
	Encouragement  string  `json:"encouragement"`
}

// Advisor is the advisory collaborator contract. Methods return fallback
// values instead of errors; advisory data is never required for correctness.
type Advisor interface {
	Runway(ctx context.Context, req analytics.RunwayRequest) RunwayAnalysis
	PeerComparison(ctx context.Context, req analytics.PeerRequest) []ComparisonData
	GoalStrategy(ctx context.Context, req analytics.GoalStrategyRequest) GoalStrategy
	BuddyFeedback(ctx context.Context, stats analytics.BuddyStats) string
	SavingsTip(ctx context.Context, recent []domain.Transaction) string
}

// Fixed fallbacks used when the collaborator fails or returns garbage.
var (
	fallbackRunway = RunwayAnalysis{Advice: "Calculation failed"}

	fallbackStrategy = GoalStrategy{
		ItemToSkip:    "discretionary items",
		Encouragement: "Every little bit counts!",
	}
)

const (
	fallbackBuddy = "I'm keeping an eye on your expenses."
	fallbackTip   = "Consider tracking every penny."
)
