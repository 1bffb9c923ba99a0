// Package analytics computes derived metrics from a ledger snapshot. Every
// function here is pure: data in, data out, recomputed on each read.
package analytics

import (
	"math"
	"time"

	"github.com/d4-dhiraj/SpendWise-AI/internal/domain"
)

// Summary is the headline income/expense view of a snapshot.
type Summary struct {
	Spent     float64 `json:"spent"`     // sum of debit amounts
	Income    float64 `json:"income"`    // sum of credit amounts
	AvgTicket float64 `json:"avgTicket"` // spent / debit count, 0 when no debits
}

// Summarize computes totals over the whole snapshot.
func Summarize(txs []domain.Transaction) Summary {
	var s Summary
	var debits int
	for _, tx := range txs {
		if tx.Type == domain.Debit {
			s.Spent += tx.Amount
			debits++
		} else {
			s.Income += tx.Amount
		}
	}
	if debits > 0 {
		s.AvgTicket = s.Spent / float64(debits)
	}
	return s
}

// CategoryTotals sums debit amounts per category. Credits never count toward
// spending totals, whatever category they carry. Every category appears in
// the result, zero-valued when unused.
func CategoryTotals(txs []domain.Transaction) map[domain.Category]float64 {
	totals := make(map[domain.Category]float64, len(domain.Categories()))
	for _, c := range domain.Categories() {
		totals[c] = 0
	}
	for _, tx := range txs {
		if tx.Type == domain.Debit {
			totals[tx.Category] += tx.Amount
		}
	}
	return totals
}

// Streak is the number of whole days since the most recently inserted
// transaction, midnight to midnight. It measures recency of any transaction,
// not absence of spending. 0 for an empty ledger.
func Streak(txs []domain.Transaction, now time.Time) int {
	if len(txs) == 0 {
		return 0
	}
	last := midnight(txs[0].Date)
	today := midnight(now)
	days := math.Floor(today.Sub(last).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeeklyFunStats is spending inside the trailing 7-day window, used to
// parametrize advisory feedback.
type WeeklyFunStats struct {
	FunTotal   float64 `json:"funTotal"`   // debit amounts in the Fun category
	TotalSpent float64 `json:"totalSpent"` // all debit amounts in the window
}

// WeeklyFun computes the fun-vs-total debit split over transactions dated
// within the last 7 days.
func WeeklyFun(txs []domain.Transaction, now time.Time) WeeklyFunStats {
	cutoff := now.AddDate(0, 0, -7)
	var s WeeklyFunStats
	for _, tx := range txs {
		if tx.Type != domain.Debit || !tx.Date.After(cutoff) {
			continue
		}
		s.TotalSpent += tx.Amount
		if tx.Category == domain.CategoryFun {
			s.FunTotal += tx.Amount
		}
	}
	return s
}
