package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/d4-dhiraj/SpendWise-AI/internal/api/middleware"
	"github.com/d4-dhiraj/SpendWise-AI/internal/session"
	"github.com/d4-dhiraj/SpendWise-AI/internal/store"
)

// GoalsHandler handles savings goal endpoints.
type GoalsHandler struct {
	sessions *session.Manager
	slot     store.BroadcastSlot
	log      zerolog.Logger
}

// NewGoalsHandler creates a new goals handler.
func NewGoalsHandler(sessions *session.Manager, slot store.BroadcastSlot, log zerolog.Logger) *GoalsHandler {
	return &GoalsHandler{
		sessions: sessions,
		slot:     slot,
		log:      log,
	}
}

// goalState is the response shape for every goal endpoint: the caller always
// gets back the current goal (or null) plus whether a shared goal exists.
func (h *GoalsHandler) goalState(w http.ResponseWriter, r *http.Request, identity string, status int) {
	goal, ok := h.sessions.Get(r.Context(), identity).Goals.Goal()

	shared := false
	if data, err := h.slot.Fetch(r.Context()); err == nil && len(data) > 0 {
		shared = true
	}

	resp := map[string]interface{}{
		"goal":             nil,
		"shared_available": shared,
	}
	if ok {
		resp["goal"] = goal
	}

	middleware.WriteJSON(w, status, resp)
}

// GetGoal handles GET /api/goal
func (h *GoalsHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	h.goalState(w, r, ident.ID, http.StatusOK)
}

// CreateGoal handles POST /api/goal
// Creation is ignored when a goal is already active or the input is unusable.
func (h *GoalsHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req struct {
		Title  string  `json:"title"`
		Target float64 `json:"target"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.sessions.Get(r.Context(), ident.ID).Goals.Create(r.Context(), req.Title, req.Target)

	h.goalState(w, r, ident.ID, http.StatusOK)
}

// DeleteGoal handles DELETE /api/goal
// The contribution transactions stay in the ledger; only the goal goes.
func (h *GoalsHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	h.sessions.Get(r.Context(), ident.ID).Goals.Delete(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

// Contribute handles POST /api/goal/contribute
func (h *GoalsHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.sessions.Get(r.Context(), ident.ID).Goals.Contribute(r.Context(), req.Amount)

	h.goalState(w, r, ident.ID, http.StatusOK)
}

// Withdraw handles POST /api/goal/withdraw
func (h *GoalsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.sessions.Get(r.Context(), ident.ID).Goals.Withdraw(r.Context(), req.Amount)

	h.goalState(w, r, ident.ID, http.StatusOK)
}

// PublishGoal handles POST /api/goal/publish
func (h *GoalsHandler) PublishGoal(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	h.sessions.Get(r.Context(), ident.ID).Goals.Publish(r.Context())

	h.goalState(w, r, ident.ID, http.StatusOK)
}

// ImportGoal handles POST /api/goal/import
func (h *GoalsHandler) ImportGoal(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	imported := h.sessions.Get(r.Context(), ident.ID).Goals.Import(r.Context())
	if !imported {
		h.log.Debug().Str("identity", ident.ID).Msg("Goal import skipped")
	}

	h.goalState(w, r, ident.ID, http.StatusOK)
}
