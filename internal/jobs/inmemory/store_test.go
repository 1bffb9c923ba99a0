package inmemory

import (
	"context"
	"testing"

	"github.com/d4-dhiraj/SpendWise-AI/internal/jobs"
)

func TestSaveAndGetJob(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	job := &jobs.AdviceJob{JobID: "job-1", Identity: "user-1", Kind: jobs.KindRunway, Status: jobs.JobStatusPending}
	if err := s.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	got, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.Identity != "user-1" || got.Kind != jobs.KindRunway {
		t.Errorf("Unexpected job: %+v", got)
	}
}

func TestSaveJobRequiresID(t *testing.T) {
	if err := NewStore().SaveJob(context.Background(), &jobs.AdviceJob{}); err == nil {
		t.Error("Expected error for job without id")
	}
}

func TestGetJobNotFound(t *testing.T) {
	if _, err := NewStore().GetJob(context.Background(), "missing"); err == nil {
		t.Error("Expected error for unknown job id")
	}
}

func TestGetJobReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	s.SaveJob(ctx, &jobs.AdviceJob{JobID: "job-1", Status: jobs.JobStatusPending})

	got, _ := s.GetJob(ctx, "job-1")
	got.Status = jobs.JobStatusCompleted

	again, _ := s.GetJob(ctx, "job-1")
	if again.Status != jobs.JobStatusPending {
		t.Error("Stored job was mutated through a returned copy")
	}
}

func TestListJobsFiltering(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	s.SaveJob(ctx, &jobs.AdviceJob{JobID: "a", Identity: "user-1", Kind: jobs.KindRunway, Status: jobs.JobStatusCompleted})
	s.SaveJob(ctx, &jobs.AdviceJob{JobID: "b", Identity: "user-1", Kind: jobs.KindSavingsTip, Status: jobs.JobStatusPending})
	s.SaveJob(ctx, &jobs.AdviceJob{JobID: "c", Identity: "user-2", Kind: jobs.KindRunway, Status: jobs.JobStatusPending})

	got, err := s.ListJobs(ctx, jobs.JobFilter{Identity: "user-1"})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListJobs by identity returned %d jobs, want 2", len(got))
	}

	got, _ = s.ListJobs(ctx, jobs.JobFilter{Kind: jobs.KindRunway})
	if len(got) != 2 {
		t.Errorf("ListJobs by kind returned %d jobs, want 2", len(got))
	}

	got, _ = s.ListJobs(ctx, jobs.JobFilter{Identity: "user-1", Status: jobs.JobStatusPending})
	if len(got) != 1 || got[0].JobID != "b" {
		t.Errorf("Combined filter returned %+v", got)
	}

	got, _ = s.ListJobs(ctx, jobs.JobFilter{Limit: 1})
	if len(got) != 1 {
		t.Errorf("Limit 1 returned %d jobs", len(got))
	}
}
