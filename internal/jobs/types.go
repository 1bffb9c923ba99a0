// Package jobs models asynchronous advisory work. Advisory calls are slow,
// unreliable and never required for ledger consistency, so they run off the
// request path: a mutation enqueues a job and the UI polls for the result.
package jobs

import (
	"context"
	"encoding/json"
	"time"
)

// AdviceKind represents the type of advisory call to be executed.
type AdviceKind string

const (
	KindRunway        AdviceKind = "runway"
	KindPeerCompare   AdviceKind = "peer_comparison"
	KindGoalStrategy  AdviceKind = "goal_strategy"
	KindBuddyFeedback AdviceKind = "buddy_feedback"
	KindSavingsTip    AdviceKind = "savings_tip"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed.
	JobStatusFailed JobStatus = "failed"
	// JobStatusRetrying indicates the job failed and is being retried.
	JobStatusRetrying JobStatus = "retrying"
	// JobStatusDiscarded indicates the job completed against state that had
	// already changed, so its result was dropped rather than applied.
	JobStatusDiscarded JobStatus = "discarded"
)

// AdviceJob represents one advisory call for one identity.
type AdviceJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// Identity is the user the advice is for.
	Identity string `json:"identity"`

	// Kind is the advisory call to make.
	Kind AdviceKind `json:"kind"`

	// Request is the ledger-derived payload built at enqueue time. The job
	// deliberately carries a snapshot: later mutations must not leak into an
	// in-flight call.
	Request json.RawMessage `json:"request,omitempty"`

	// GoalID pins goal-strategy jobs to the goal they were computed for, so
	// a completion can be discarded when the goal has since been deleted.
	GoalID string `json:"goal_id,omitempty"`

	// Result is the collaborator's answer, set on completion.
	Result json.RawMessage `json:"result,omitempty"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// RetryCount is the number of times this job has been retried.
	RetryCount int `json:"retry_count"`

	// MaxRetries is the maximum number of retries allowed.
	MaxRetries int `json:"max_retries"`
}

// Publisher defines the interface for publishing advice jobs to a queue.
type Publisher interface {
	// PublishAdvice publishes an advisory job.
	PublishAdvice(ctx context.Context, job *AdviceJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs from the queue.
	// The handler function is called for each job received.
	Start(ctx context.Context, handler Handler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// Handler is a function that processes one advice job. It should return an
// error if the job failed and should be retried.
type Handler func(ctx context.Context, job *AdviceJob) error

// JobStore defines the interface for storing and retrieving job status,
// which is what the polling endpoint reads.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *AdviceJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*AdviceJob, error)

	// ListJobs retrieves jobs with optional filtering.
	ListJobs(ctx context.Context, filter JobFilter) ([]*AdviceJob, error)
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// Identity filters jobs by owner.
	Identity string

	// Kind filters jobs by advisory kind.
	Kind AdviceKind

	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int
}
