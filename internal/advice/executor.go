// Package advice executes queued advisory jobs against the advisor
// collaborator. Each job carries the request snapshot built at enqueue time;
// the executor's only job-time check is whether the result is still worth
// keeping.
package advice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/d4-dhiraj/SpendWise-AI/internal/advisor"
	"github.com/d4-dhiraj/SpendWise-AI/internal/analytics"
	"github.com/d4-dhiraj/SpendWise-AI/internal/domain"
	"github.com/d4-dhiraj/SpendWise-AI/internal/jobs"
	"github.com/d4-dhiraj/SpendWise-AI/internal/session"
)

// NewExecutor returns a job handler that dispatches advice jobs to the
// advisor. Goal-strategy results are discarded when the goal they were
// computed for is no longer the active one.
func NewExecutor(adv advisor.Advisor, sessions *session.Manager, log zerolog.Logger) jobs.Handler {
	return func(ctx context.Context, job *jobs.AdviceJob) error {
		var result interface{}

		switch job.Kind {
		case jobs.KindRunway:
			var req analytics.RunwayRequest
			if err := json.Unmarshal(job.Request, &req); err != nil {
				return fmt.Errorf("decoding runway request: %w", err)
			}
			result = adv.Runway(ctx, req)

		case jobs.KindPeerCompare:
			var req analytics.PeerRequest
			if err := json.Unmarshal(job.Request, &req); err != nil {
				return fmt.Errorf("decoding peer request: %w", err)
			}
			result = adv.PeerComparison(ctx, req)

		case jobs.KindGoalStrategy:
			var req analytics.GoalStrategyRequest
			if err := json.Unmarshal(job.Request, &req); err != nil {
				return fmt.Errorf("decoding goal strategy request: %w", err)
			}
			strategy := adv.GoalStrategy(ctx, req)

			// The goal may have been deleted or replaced while the call was in
			// flight. A stale plan must not surface.
			goal, ok := sessions.Get(ctx, job.Identity).Goals.Goal()
			if !ok || goal.ID != job.GoalID {
				log.Info().
					Str("job_id", job.JobID).
					Str("goal_id", job.GoalID).
					Msg("goal changed while strategy was in flight, discarding result")
				job.Status = jobs.JobStatusDiscarded
				return nil
			}
			result = strategy

		case jobs.KindBuddyFeedback:
			var stats analytics.BuddyStats
			if err := json.Unmarshal(job.Request, &stats); err != nil {
				return fmt.Errorf("decoding buddy stats: %w", err)
			}
			result = map[string]string{"message": adv.BuddyFeedback(ctx, stats)}

		case jobs.KindSavingsTip:
			var recent []domain.Transaction
			if err := json.Unmarshal(job.Request, &recent); err != nil {
				return fmt.Errorf("decoding recent transactions: %w", err)
			}
			result = map[string]string{"tip": adv.SavingsTip(ctx, recent)}

		default:
			return fmt.Errorf("unknown advice kind: %s", job.Kind)
		}

		raw, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encoding advice result: %w", err)
		}
		job.Result = raw
		return nil
	}
}
