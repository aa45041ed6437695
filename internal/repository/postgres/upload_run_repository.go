package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/andresuchdata/scmdash/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type uploadRunRepository struct {
	db *DB
}

func NewUploadRunRepository(db *DB) repository.UploadRunRepository {
	return &uploadRunRepository{db: db}
}

// uploadRunRow is the column layout of upload_runs.
type uploadRunRow struct {
	ID           int64          `db:"id"`
	SessionID    string         `db:"session_id"`
	Files        pq.StringArray `db:"files"`
	Status       string         `db:"status"`
	TotalRows    int            `db:"total_rows"`
	Warnings     pq.StringArray `db:"warnings"`
	StartedAt    time.Time      `db:"started_at"`
	CompletedAt  sql.NullTime   `db:"completed_at"`
	ErrorMessage string         `db:"error_message"`
}

func (r uploadRunRow) toDomain() domain.UploadRun {
	run := domain.UploadRun{
		ID:           r.ID,
		SessionID:    r.SessionID,
		Files:        []string(r.Files),
		Status:       domain.UploadRunStatus(r.Status),
		TotalRows:    r.TotalRows,
		Warnings:     []string(r.Warnings),
		StartedAt:    r.StartedAt,
		ErrorMessage: r.ErrorMessage,
	}
	if r.CompletedAt.Valid {
		t := r.CompletedAt.Time
		run.CompletedAt = &t
	}
	if run.Files == nil {
		run.Files = []string{}
	}
	if run.Warnings == nil {
		run.Warnings = []string{}
	}
	return run
}

func (r *uploadRunRepository) CreateRun(ctx context.Context, run *domain.UploadRun) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO upload_runs (
				session_id, files, status, total_rows, warnings, started_at, error_message
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		err := tx.QueryRowContext(ctx, query,
			run.SessionID,
			pq.StringArray(run.Files),
			string(run.Status),
			run.TotalRows,
			pq.StringArray(run.Warnings),
			run.StartedAt,
			run.ErrorMessage,
		).Scan(&run.ID)
		if err != nil {
			return fmt.Errorf("failed to insert upload run: %w", err)
		}
		return nil
	})
}

func (r *uploadRunRepository) UpdateRun(ctx context.Context, run *domain.UploadRun) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE upload_runs
			SET status = $1, total_rows = $2, warnings = $3,
			    completed_at = $4, error_message = $5
			WHERE id = $6
		`
		_, err := tx.ExecContext(ctx, query,
			string(run.Status),
			run.TotalRows,
			pq.StringArray(run.Warnings),
			run.CompletedAt,
			run.ErrorMessage,
			run.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update upload run %d: %w", run.ID, err)
		}
		return nil
	})
}

func (r *uploadRunRepository) ListRuns(ctx context.Context, sessionID string, limit int) ([]domain.UploadRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, session_id, files, status, total_rows, warnings,
		       started_at, completed_at, error_message
		FROM upload_runs
		WHERE session_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`

	var rows []uploadRunRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, sessionID, limit); err != nil {
		return nil, fmt.Errorf("failed to list upload runs: %w", err)
	}

	runs := make([]domain.UploadRun, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, row.toDomain())
	}
	return runs, nil
}
