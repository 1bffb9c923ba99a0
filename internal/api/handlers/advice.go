package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/d4-dhiraj/SpendWise-AI/internal/analytics"
	"github.com/d4-dhiraj/SpendWise-AI/internal/api/middleware"
	"github.com/d4-dhiraj/SpendWise-AI/internal/jobs"
	"github.com/d4-dhiraj/SpendWise-AI/internal/session"
)

// AdviceHandler enqueues advisory jobs and serves their status. The request
// payload is snapshotted at enqueue time so later ledger mutations cannot
// leak into an in-flight call.
type AdviceHandler struct {
	sessions  *session.Manager
	publisher jobs.Publisher
	store     jobs.JobStore
	log       zerolog.Logger
}

// NewAdviceHandler creates a new advice handler.
func NewAdviceHandler(sessions *session.Manager, publisher jobs.Publisher, store jobs.JobStore, log zerolog.Logger) *AdviceHandler {
	return &AdviceHandler{
		sessions:  sessions,
		publisher: publisher,
		store:     store,
		log:       log,
	}
}

// RequestAdvice handles POST /api/advice
func (h *AdviceHandler) RequestAdvice(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req struct {
		Kind string `json:"kind"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess := h.sessions.Get(r.Context(), ident.ID)
	txs, balance := sess.Ledger.Snapshot()

	job := &jobs.AdviceJob{
		Identity: ident.ID,
		Kind:     jobs.AdviceKind(req.Kind),
	}

	var payload interface{}
	switch job.Kind {
	case jobs.KindRunway:
		payload = analytics.BuildRunwayRequest(txs, balance)

	case jobs.KindPeerCompare:
		payload = analytics.BuildPeerRequest(txs)

	case jobs.KindGoalStrategy:
		goal, ok := sess.Goals.Goal()
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, "No active savings goal")
			return
		}
		job.GoalID = goal.ID
		payload = analytics.BuildGoalStrategyRequest(txs, goal)

	case jobs.KindBuddyFeedback:
		payload = analytics.BuildBuddyStats(txs, time.Now())

	case jobs.KindSavingsTip:
		payload = txs

	default:
		middleware.WriteError(w, http.StatusBadRequest, "Unknown advice kind")
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to encode advice request")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue advice job")
		return
	}
	job.Request = raw

	if err := h.publisher.PublishAdvice(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue advice job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue advice job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("kind", string(job.Kind)).Msg("Advice job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// GetAdvice handles GET /api/advice/{id}
func (h *AdviceHandler) GetAdvice(w http.ResponseWriter, r *http.Request, jobID string) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil || job.Identity != ident.ID {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListAdvice handles GET /api/advice
func (h *AdviceHandler) ListAdvice(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := jobs.JobFilter{
		Identity: ident.ID,
		Kind:     jobs.AdviceKind(query.Get("kind")),
		Status:   jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list advice jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list advice jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
