package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmaxwell/rasterfx/internal/domain"
)

func TestMemoryJobStoreLifecycle(t *testing.T) {
	s := NewMemoryJobStore()
	ctx := context.Background()

	job := domain.Job{
		ID:         "job-1",
		Status:     domain.JobStatusCreated,
		SourceType: domain.SourceTypeLocalFile,
		Effect:     "blur",
		ObjectKey:  "input.png",
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Create(ctx, job); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, ok, err := s.Get(ctx, "job-1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Effect != "blur" {
		t.Fatalf("expected effect blur, got %s", got.Effect)
	}

	updated, err := s.UpdateStatus(ctx, "job-1", domain.JobStatusQueued)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.JobStatusQueued {
		t.Fatalf("expected queued, got %s", updated.Status)
	}

	if _, _, err := s.Get(ctx, "missing"); err != nil {
		t.Fatalf("get missing should not error: %v", err)
	}
	if _, err := s.UpdateStatus(ctx, "missing", domain.JobStatusFailed); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestMemoryJobStoreUsageLogs(t *testing.T) {
	s := NewMemoryJobStore()
	ctx := context.Background()

	if err := s.CreateUsageLog(ctx, domain.UsageLog{JobID: "job-1", Effect: "invert", PixelsProcessed: 64}); err != nil {
		t.Fatalf("create usage log: %v", err)
	}

	logs := s.UsageLogs()
	if len(logs) != 1 {
		t.Fatalf("expected one usage log, got %d", len(logs))
	}
	if logs[0].PixelsProcessed != 64 {
		t.Fatalf("expected 64 pixels, got %d", logs[0].PixelsProcessed)
	}

	// The returned slice is a copy.
	logs[0].JobID = "mutated"
	if s.UsageLogs()[0].JobID != "job-1" {
		t.Fatal("usage log snapshot must not expose internal state")
	}
}
