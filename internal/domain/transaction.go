package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType states whether a transaction increases or decreases the
// account balance. The sign lives here, never in the amount.
type TransactionType string

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// ParseTransactionType maps free-form input onto a valid type. Anything that
// is not exactly "credit" is treated as a debit.
func ParseTransactionType(s string) TransactionType {
	if s == string(Credit) {
		return Credit
	}
	return Debit
}

// Location is an optional geographic coordinate attached to a transaction
// when the caller happens to know it. Absence never blocks creation.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// Transaction is one ledger entry. Immutable once created; the ledger only
// ever appends or removes whole transactions, it never edits one.
type Transaction struct {
	ID       string          `json:"id"`
	Amount   float64         `json:"amount"` // always >= 0
	Merchant string          `json:"merchant"`
	Category Category        `json:"category"`
	Type     TransactionType `json:"type"`
	Date     time.Time       `json:"date"`   // record creation time
	Origin   string          `json:"origin"` // provenance note, e.g. "from SMS"
	Location *Location       `json:"location,omitempty"`
}

// NewTransactionID mints an opaque transaction identifier.
func NewTransactionID() string {
	return uuid.NewString()
}
