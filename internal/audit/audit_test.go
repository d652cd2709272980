package audit

import (
	"context"
	"testing"

	"github.com/frotaops-platform/api/internal/docstore"
)

func TestRecorderRunLifecycle(t *testing.T) {
	store := docstore.NewMemory()
	recorder := NewRecorder(store, "companies/acme")
	ctx := context.Background()

	runID, err := recorder.StartRun(ctx, []string{"cars.csv", "drivers.csv"}, "req-1")
	if err != nil {
		t.Fatalf("start run: %v", err)
	}

	fields, err := recorder.FindRun(ctx, runID)
	if err != nil {
		t.Fatalf("find run: %v", err)
	}
	if fields == nil || fields["status"] != "running" {
		t.Fatalf("expected a running run, got %v", fields)
	}

	if err := recorder.CompleteRun(ctx, runID, "completed", map[string]any{"cars": 2}); err != nil {
		t.Fatalf("complete run: %v", err)
	}

	fields, err = recorder.FindRun(ctx, runID)
	if err != nil {
		t.Fatalf("find run: %v", err)
	}
	if fields["status"] != "completed" {
		t.Fatalf("expected completed, got %v", fields["status"])
	}
	if fields["completedAt"] == "" {
		t.Fatal("expected completedAt to be set")
	}
}

func TestRecorderFindRunMissing(t *testing.T) {
	recorder := NewRecorder(docstore.NewMemory(), "companies/acme")
	fields, err := recorder.FindRun(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("find run: %v", err)
	}
	if fields != nil {
		t.Fatalf("expected nil for a missing run, got %v", fields)
	}
}
