package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/frotaops-platform/api/internal/docstore"
)

// Recorder persists import-run entries in the tenant's importRuns
// collection, so the back office can show what was imported, when, and with
// what outcome.
type Recorder struct {
	store    docstore.Store
	basePath string
	now      func() time.Time
}

func NewRecorder(store docstore.Store, basePath string) *Recorder {
	return &Recorder{store: store, basePath: basePath, now: time.Now}
}

// StartRun creates the run document before any row is processed.
func (r *Recorder) StartRun(ctx context.Context, filenames []string, requestID string) (string, error) {
	names := make([]any, 0, len(filenames))
	for _, n := range filenames {
		names = append(names, n)
	}
	id, err := r.store.Create(ctx, docstore.Join(r.basePath, "importRuns"), map[string]any{
		"status":    "running",
		"filenames": names,
		"requestId": requestID,
		"startedAt": r.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("create import run: %w", err)
	}
	return id, nil
}

// CompleteRun attaches the final report and status to the run document.
func (r *Recorder) CompleteRun(ctx context.Context, runID, status string, report any) error {
	err := r.store.Update(ctx, docstore.Join(r.basePath, "importRuns", runID), map[string]any{
		"status":      status,
		"report":      report,
		"completedAt": r.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("complete import run: %w", err)
	}
	return nil
}

// FindRun loads one run document by id.
func (r *Recorder) FindRun(ctx context.Context, runID string) (map[string]any, error) {
	docs, err := r.store.ListAll(ctx, docstore.Join(r.basePath, "importRuns"))
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	for _, doc := range docs {
		if doc.ID == runID {
			return doc.Fields, nil
		}
	}
	return nil, nil
}
