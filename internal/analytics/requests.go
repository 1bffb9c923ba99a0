package analytics

import (
	"time"

	"github.com/d4-dhiraj/SpendWise-AI/internal/domain"
)

// Request payloads handed to the advisory collaborator. The engine builds
// them locally and deterministically; only the collaborator's answers are
// non-deterministic.

// HistoryEntry is the reduced transaction view sent with runway requests.
type HistoryEntry struct {
	Date     time.Time              `json:"date"`
	Amount   float64                `json:"amount"`
	Category domain.Category        `json:"category"`
	Type     domain.TransactionType `json:"type"`
}

// RunwayRequest asks for a burn-rate/zero-balance projection.
type RunwayRequest struct {
	History []HistoryEntry `json:"history"`
	Balance float64        `json:"balance"`
}

// BuildRunwayRequest reduces the snapshot to the fields the projection needs.
func BuildRunwayRequest(txs []domain.Transaction, balance float64) RunwayRequest {
	history := make([]HistoryEntry, 0, len(txs))
	for _, tx := range txs {
		history = append(history, HistoryEntry{
			Date:     tx.Date,
			Amount:   tx.Amount,
			Category: tx.Category,
			Type:     tx.Type,
		})
	}
	return RunwayRequest{History: history, Balance: balance}
}

// CategorySpend is one category's debit total, for peer benchmarking.
type CategorySpend struct {
	Category domain.Category `json:"category"`
	Amount   float64         `json:"amount"`
}

// PeerRequest asks for average-peer benchmarks against the user's spending.
type PeerRequest struct {
	Spending []CategorySpend `json:"spending"`
}

// BuildPeerRequest lists per-category debit totals in display order.
func BuildPeerRequest(txs []domain.Transaction) PeerRequest {
	totals := CategoryTotals(txs)
	spending := make([]CategorySpend, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		spending = append(spending, CategorySpend{Category: c, Amount: totals[c]})
	}
	return PeerRequest{Spending: spending}
}

// GoalStrategyRequest asks for a skip-this-item plan toward a savings goal.
// Remaining is computed locally as target minus saved; the collaborator never
// sees raw goal state.
type GoalStrategyRequest struct {
	GoalTitle string         `json:"goalTitle"`
	Remaining float64        `json:"remaining"`
	Recent    []HistoryEntry `json:"recent"` // most recent debits
}

// maxStrategyHistory bounds how much spending history a strategy request
// carries.
const maxStrategyHistory = 10

// BuildGoalStrategyRequest pairs the remaining amount with recent debits.
func BuildGoalStrategyRequest(txs []domain.Transaction, goal domain.SavingsGoal) GoalStrategyRequest {
	recent := make([]HistoryEntry, 0, maxStrategyHistory)
	for _, tx := range txs {
		if tx.Type != domain.Debit {
			continue
		}
		recent = append(recent, HistoryEntry{
			Date:     tx.Date,
			Amount:   tx.Amount,
			Category: tx.Category,
			Type:     tx.Type,
		})
		if len(recent) == maxStrategyHistory {
			break
		}
	}
	return GoalStrategyRequest{
		GoalTitle: goal.Title,
		Remaining: goal.Remaining(),
		Recent:    recent,
	}
}

// BuddyStats parametrizes the feedback request for the dashboard companion.
type BuddyStats struct {
	FunTotal   float64 `json:"funTotal"`
	TotalSpent float64 `json:"totalSpent"`
	Streak     int     `json:"streak"`
}

// BuildBuddyStats combines the weekly window with the streak.
func BuildBuddyStats(txs []domain.Transaction, now time.Time) BuddyStats {
	week := WeeklyFun(txs, now)
	return BuddyStats{
		FunTotal:   week.FunTotal,
		TotalSpent: week.TotalSpent,
		Streak:     Streak(txs, now),
	}
}
