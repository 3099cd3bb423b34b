package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRecord(hostname, runID string, collectedAt time.Time) *ReportRecord {
	return &ReportRecord{
		Hostname:     hostname,
		Domain:       "corp.example.com",
		RunID:        runID,
		CollectedAt:  collectedAt,
		SuccessCount: 7,
		FailCount:    1,
		ReportJSON:   `{"runId":"` + runID + `","results":{}}`,
	}
}

func TestInsertAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	collectedAt := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	id, storedAt, err := s.Insert(ctx, sampleRecord("ws-042", "run-1", collectedAt))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == 0 || storedAt.IsZero() {
		t.Fatalf("insert returned id=%d storedAt=%s", id, storedAt)
	}

	rec, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Hostname != "ws-042" || rec.RunID != "run-1" || rec.Domain != "corp.example.com" {
		t.Fatalf("record mismatch: %+v", rec)
	}
	if !rec.CollectedAt.Equal(collectedAt) {
		t.Fatalf("collected_at = %s, want %s", rec.CollectedAt, collectedAt)
	}
	if rec.SuccessCount != 7 || rec.FailCount != 1 {
		t.Fatalf("counters lost: %+v", rec)
	}
	if rec.ReportJSON == "" {
		t.Fatal("report body missing")
	}
}

func TestGetLatestByHostname(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	for i, runID := range []string{"run-old", "run-mid", "run-new"} {
		if _, _, err := s.Insert(ctx, sampleRecord("ws-042", runID, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("insert %s: %v", runID, err)
		}
	}

	rec, err := s.GetLatestByHostname(ctx, "ws-042")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if rec.RunID != "run-new" {
		t.Fatalf("latest run = %s", rec.RunID)
	}
}

func TestListFiltersAndPaging(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		host := "ws-a"
		if i%2 == 1 {
			host = "ws-b"
		}
		if _, _, err := s.Insert(ctx, sampleRecord(host, "run", base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	records, total, err := s.List(ctx, ListFilter{Hostname: "ws-a"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(records) != 3 {
		t.Fatalf("ws-a: total=%d len=%d", total, len(records))
	}
	for _, rec := range records {
		if rec.ReportJSON != "" {
			t.Fatal("list rows must omit the report body")
		}
	}

	records, total, err = s.List(ctx, ListFilter{PageSize: 2, Page: 2})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if total != 5 || len(records) != 2 {
		t.Fatalf("page 2: total=%d len=%d", total, len(records))
	}

	after := base.Add(90 * time.Minute)
	records, _, err = s.List(ctx, ListFilter{CollectedAfter: &after})
	if err != nil {
		t.Fatalf("list after: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("after filter: len=%d", len(records))
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, _, err := s.Insert(ctx, sampleRecord("ws-042", "run-1", time.Now().UTC()))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected ErrNoRows after delete, got %v", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected ErrNoRows for missing record, got %v", err)
	}
}

func TestPurge(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	old := time.Now().UTC().Add(-90 * 24 * time.Hour)
	recent := time.Now().UTC().Add(-time.Hour)
	if _, _, err := s.Insert(ctx, sampleRecord("ws-042", "run-old", old)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, _, err := s.Insert(ctx, sampleRecord("ws-042", "run-new", recent)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	n, err := s.Purge(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("purged %d rows, want 1", n)
	}

	_, total, err := s.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 {
		t.Fatalf("total after purge = %d", total)
	}
}
