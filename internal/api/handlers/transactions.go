package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/d4-dhiraj/SpendWise-AI/internal/analytics"
	"github.com/d4-dhiraj/SpendWise-AI/internal/api/middleware"
	"github.com/d4-dhiraj/SpendWise-AI/internal/auth"
	"github.com/d4-dhiraj/SpendWise-AI/internal/classifier"
	"github.com/d4-dhiraj/SpendWise-AI/internal/domain"
	"github.com/d4-dhiraj/SpendWise-AI/internal/session"
)

// requireIdentity pulls the authenticated identity out of the request
// context. The auth middleware guarantees it is there for protected routes;
// the guard covers misrouted handlers.
func requireIdentity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Authentication required")
	}
	return ident, ok
}

// TransactionsHandler handles ledger endpoints: listing, manual entry,
// removal, classification, balance and the analytics summary.
type TransactionsHandler struct {
	sessions   *session.Manager
	classifier classifier.Classifier
	log        zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(sessions *session.Manager, c classifier.Classifier, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		sessions:   sessions,
		classifier: c,
		log:        log,
	}
}

// ListTransactions handles GET /api/transactions
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	txs, balance := h.sessions.Get(r.Context(), ident.ID).Ledger.Snapshot()

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
		"balance":      balance,
	})
}

// CreateTransaction handles POST /api/transactions
// Manual entry. A well-formed request with unusable values (empty merchant,
// non-positive amount) is ignored rather than rejected.
func (h *TransactionsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount   float64          `json:"amount"`
		Merchant string           `json:"merchant"`
		Category string           `json:"category"`
		Type     string           `json:"type"`
		Date     string           `json:"date"`
		Location *domain.Location `json:"location"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Merchant = strings.TrimSpace(req.Merchant)
	if req.Merchant == "" || req.Amount == 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	date := time.Now()
	if req.Date != "" {
		if parsed, err := time.Parse(time.RFC3339, req.Date); err == nil {
			date = parsed
		}
	}

	tx := domain.Transaction{
		ID:       domain.NewTransactionID(),
		Amount:   math.Abs(req.Amount),
		Merchant: req.Merchant,
		Category: domain.ParseCategory(req.Category),
		Type:     domain.ParseTransactionType(req.Type),
		Date:     date,
		Origin:   "Manual entry",
		Location: req.Location,
	}

	h.sessions.Get(r.Context(), ident.ID).Ledger.Append(r.Context(), tx)

	middleware.WriteJSON(w, http.StatusCreated, tx)
}

// DeleteTransaction handles DELETE /api/transactions/{id}
// Removal is idempotent: deleting an unknown id succeeds without effect.
func (h *TransactionsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request, txID string) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	h.sessions.Get(r.Context(), ident.ID).Ledger.Remove(r.Context(), txID)

	w.WriteHeader(http.StatusNoContent)
}

// ClassifyMessage handles POST /api/classify
func (h *TransactionsHandler) ClassifyMessage(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req struct {
		Message  string           `json:"message"`
		Location *domain.Location `json:"location"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	result, err := h.classifier.ClassifyMessage(r.Context(), req.Message)
	if err != nil {
		h.log.Error().Err(err).Msg("Message classification failed")
		middleware.WriteError(w, http.StatusBadGateway, "Classification unavailable")
		return
	}

	tx := domain.Transaction{
		ID:       domain.NewTransactionID(),
		Amount:   result.Amount,
		Merchant: result.Merchant,
		Category: result.Category,
		Type:     result.Type,
		Date:     time.Now(),
		Origin:   fmt.Sprintf("SMS: %s...", truncate(req.Message, 50)),
		Location: req.Location,
	}

	h.sessions.Get(r.Context(), ident.ID).Ledger.Append(r.Context(), tx)

	middleware.WriteJSON(w, http.StatusCreated, tx)
}

// ScanReceipt handles POST /api/receipts
func (h *TransactionsHandler) ScanReceipt(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req struct {
		Image    string           `json:"image"` // base64
		MimeType string           `json:"mime_type"`
		Filename string           `json:"filename"`
		Location *domain.Location `json:"location"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil || len(image) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "image must be base64-encoded")
		return
	}

	if req.MimeType == "" {
		req.MimeType = "image/jpeg"
	}
	if req.Filename == "" {
		req.Filename = "receipt"
	}

	result, err := h.classifier.ClassifyReceipt(r.Context(), image, req.MimeType)
	if err != nil {
		h.log.Error().Err(err).Msg("Receipt classification failed")
		middleware.WriteError(w, http.StatusBadGateway, "Classification unavailable")
		return
	}

	tx := domain.Transaction{
		ID:       domain.NewTransactionID(),
		Amount:   result.Amount,
		Merchant: result.Merchant,
		Category: result.Category,
		Type:     result.Type,
		Date:     time.Now(),
		Origin:   "Scanned: " + req.Filename,
		Location: req.Location,
	}

	h.sessions.Get(r.Context(), ident.ID).Ledger.Append(r.Context(), tx)

	middleware.WriteJSON(w, http.StatusCreated, tx)
}

// GetBalance handles GET /api/balance
func (h *TransactionsHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]float64{
		"balance": h.sessions.Get(r.Context(), ident.ID).Ledger.Balance(),
	})
}

// SetBalance handles PUT /api/balance
func (h *TransactionsHandler) SetBalance(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req struct {
		Balance float64 `json:"balance"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if math.IsNaN(req.Balance) || math.IsInf(req.Balance, 0) {
		middleware.WriteError(w, http.StatusBadRequest, "balance must be a finite number")
		return
	}

	l := h.sessions.Get(r.Context(), ident.ID).Ledger
	l.SetBalance(r.Context(), req.Balance)

	middleware.WriteJSON(w, http.StatusOK, map[string]float64{
		"balance": l.Balance(),
	})
}

// GetSummary handles GET /api/summary
func (h *TransactionsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	txs, balance := h.sessions.Get(r.Context(), ident.ID).Ledger.Snapshot()
	now := time.Now()

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"balance":         balance,
		"summary":         analytics.Summarize(txs),
		"category_totals": analytics.CategoryTotals(txs),
		"streak_days":     analytics.Streak(txs, now),
		"weekly_fun":      analytics.WeeklyFun(txs, now),
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
