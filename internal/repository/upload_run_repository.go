package repository

import (
	"context"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
)

// UploadRunRepository records upload metadata. Snapshot rows are never stored.
type UploadRunRepository interface {
	CreateRun(ctx context.Context, run *domain.UploadRun) error
	UpdateRun(ctx context.Context, run *domain.UploadRun) error
	ListRuns(ctx context.Context, sessionID string, limit int) ([]domain.UploadRun, error)
}

type noopUploadRunRepository struct{}

// NewNoopUploadRunRepository is used when no database is configured.
func NewNoopUploadRunRepository() UploadRunRepository {
	return &noopUploadRunRepository{}
}

func (n *noopUploadRunRepository) CreateRun(ctx context.Context, run *domain.UploadRun) error {
	return nil
}

func (n *noopUploadRunRepository) UpdateRun(ctx context.Context, run *domain.UploadRun) error {
	return nil
}

func (n *noopUploadRunRepository) ListRuns(ctx context.Context, sessionID string, limit int) ([]domain.UploadRun, error) {
	return []domain.UploadRun{}, nil
}
