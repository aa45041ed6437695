package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/lib/pq"
)

func TestUploadRunRow_ToDomain(t *testing.T) {
	started := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)

	row := uploadRunRow{
		ID:        7,
		SessionID: "s1",
		Files:     pq.StringArray{"a.csv", "b.xlsx"},
		Status:    "completed",
		TotalRows: 12,
		StartedAt: started,
		CompletedAt: sql.NullTime{
			Time:  started.Add(time.Second),
			Valid: true,
		},
	}

	run := row.toDomain()
	if run.Status != domain.RunStatusCompleted || len(run.Files) != 2 || run.TotalRows != 12 {
		t.Errorf("Unexpected run: %+v", run)
	}
	if run.CompletedAt == nil || !run.CompletedAt.Equal(started.Add(time.Second)) {
		t.Errorf("Expected completed_at to be set, got %v", run.CompletedAt)
	}
	if run.Warnings == nil {
		t.Error("Expected empty warnings slice, not nil")
	}

	row.CompletedAt = sql.NullTime{}
	if row.toDomain().CompletedAt != nil {
		t.Error("Expected nil completed_at for NULL column")
	}
}
