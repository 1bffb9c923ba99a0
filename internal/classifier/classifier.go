// Package classifier turns free-text bank alerts and receipt images into
// structured transaction fragments via Gemini. The model's output is
// best-effort and possibly wrong; it is defaulted field by field, never
// validated against ground truth.
package classifier

import (
	"context"

	"github.com/d4-dhiraj/SpendWise-AI/internal/domain"
)

// Result is the transaction fragment a classification produces. The caller
// attaches id, date, origin and (when known) location before appending it to
// the ledger.
type Result struct {
	Amount   float64                `json:"amount"`
	Merchant string                 `json:"merchant"`
	Category domain.Category        `json:"category"`
	Type     domain.TransactionType `json:"type"`
}

// Classifier is the classification collaborator contract.
// This interface enables mocking in handler tests.
type Classifier interface {
	// ClassifyMessage extracts transaction fields from a free-text message.
	ClassifyMessage(ctx context.Context, text string) (Result, error)

	// ClassifyReceipt extracts transaction fields from a receipt image.
	ClassifyReceipt(ctx context.Context, image []byte, mimeType string) (Result, error)
}
