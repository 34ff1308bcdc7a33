package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestRegistry(t *testing.T) *Registry {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "catalog_registry_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	registry, err := OpenRegistry(filepath.Join(tempDir, "nested", "ingests.db"))
	if err != nil {
		t.Fatalf("OpenRegistry failed: %v", err)
	}
	t.Cleanup(func() { registry.Close() })

	return registry
}

func TestRegistry_RecordAndListRuns(t *testing.T) {
	registry := openTestRegistry(t)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	runs := []IngestRun{
		{ID: "run-1", Source: "booklet_a.pdf", CSVPath: "booklet_a.csv", Projects: 12, Status: StatusOK, CreatedAt: base},
		{ID: "run-2", Source: "booklet_b.pdf", CSVPath: "booklet_b.csv", Projects: 0, Status: StatusFailed, CreatedAt: base.Add(time.Hour)},
		{ID: "run-3", Source: "booklet_c.pdf", CSVPath: "booklet_c.csv", Projects: 7, Status: StatusOK, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, run := range runs {
		if err := registry.RecordRun(run); err != nil {
			t.Fatalf("RecordRun(%s) failed: %v", run.ID, err)
		}
	}

	got, err := registry.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 runs but got %d", len(got))
	}

	// Newest first
	if got[0].ID != "run-3" || got[1].ID != "run-2" || got[2].ID != "run-1" {
		t.Errorf("unexpected order: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
	if !got[0].CreatedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("timestamp did not round trip: %v", got[0].CreatedAt)
	}
	if got[1].Status != StatusFailed {
		t.Errorf("expected status %q but got %q", StatusFailed, got[1].Status)
	}
}

func TestRegistry_ListRunsLimit(t *testing.T) {
	registry := openTestRegistry(t)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := IngestRun{
			ID:        string(rune('a' + i)),
			Source:    "booklet.pdf",
			CSVPath:   "booklet.csv",
			Projects:  i,
			Status:    StatusOK,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := registry.RecordRun(run); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	got, err := registry.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 runs but got %d", len(got))
	}
}

func TestRegistry_RecordRunFillsCreatedAt(t *testing.T) {
	registry := openTestRegistry(t)

	if err := registry.RecordRun(IngestRun{ID: "run-x", Source: "s", CSVPath: "c", Status: StatusOK}); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	got, err := registry.ListRuns(1)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 run but got %d", len(got))
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be filled")
	}
}

func TestRegistry_RecordRunRejectsEmptyID(t *testing.T) {
	registry := openTestRegistry(t)

	if err := registry.RecordRun(IngestRun{Source: "s"}); err == nil {
		t.Error("expected error for empty run ID")
	}
}

func TestOpenRegistry_EmptyPath(t *testing.T) {
	if _, err := OpenRegistry(""); err == nil {
		t.Error("expected error for empty path")
	}
}
