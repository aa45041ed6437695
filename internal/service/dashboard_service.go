package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/andresuchdata/scmdash/backend-go/internal/analytics"
	"github.com/andresuchdata/scmdash/backend-go/internal/cache"
	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/andresuchdata/scmdash/backend-go/internal/pipeline"
	"github.com/andresuchdata/scmdash/backend-go/internal/pipeline/inventory"
	"github.com/andresuchdata/scmdash/backend-go/internal/repository"
	"github.com/andresuchdata/scmdash/backend-go/internal/snapshot"
	"github.com/andresuchdata/scmdash/backend-go/internal/storage"
	"github.com/rs/zerolog/log"
)

// ErrStorageDisabled is returned by storage imports when no bucket is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

// Options wires the optional collaborators of a DashboardService. Nil fields
// fall back to no-op implementations.
type Options struct {
	Cache         cache.SummaryCache
	Runs          repository.UploadRunRepository
	Objects       storage.ObjectStorage
	ArchivePrefix string
	Pipeline      pipeline.Config
}

type DashboardService struct {
	store         *snapshot.Store
	orchestrator  *pipeline.Orchestrator
	aggregator    *analytics.Aggregator
	cache         cache.SummaryCache
	runs          repository.UploadRunRepository
	objects       storage.ObjectStorage
	archivePrefix string
	now           func() time.Time
}

func NewDashboardService(store *snapshot.Store, opts Options) *DashboardService {
	if opts.Cache == nil {
		opts.Cache = cache.NewNoopSummaryCache()
	}
	if opts.Runs == nil {
		opts.Runs = repository.NewNoopUploadRunRepository()
	}
	if opts.Pipeline.Now == nil {
		opts.Pipeline.Now = time.Now
	}
	return &DashboardService{
		store:         store,
		orchestrator:  pipeline.NewOrchestrator(opts.Pipeline),
		aggregator:    analytics.NewAggregator(),
		cache:         opts.Cache,
		runs:          opts.Runs,
		objects:       opts.Objects,
		archivePrefix: opts.ArchivePrefix,
		now:           opts.Pipeline.Now,
	}
}

// CreateSession registers a new, empty session.
func (s *DashboardService) CreateSession() string {
	return s.store.Create()
}

// Upload runs the pipeline over files and, on success, replaces the session's
// snapshot set. A failed upload leaves the previous set in place. Caching,
// archiving and run bookkeeping are best effort.
func (s *DashboardService) Upload(ctx context.Context, sessionID string, files []domain.UploadedFile) (*domain.UploadResult, error) {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Filename
	}

	run := &domain.UploadRun{
		SessionID: sessionID,
		Files:     names,
		Status:    domain.RunStatusProcessing,
		Warnings:  []string{},
		StartedAt: s.now(),
	}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("dashboard: record upload run failed")
	}

	result, err := s.orchestrator.Run(ctx, files)
	if err != nil {
		s.finishRun(ctx, run, domain.RunStatusFailed, 0, nil, err)
		return nil, err
	}

	generation := s.store.Replace(sessionID, result.Set)

	if err := s.cache.InvalidateSession(ctx, sessionID); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("dashboard: cache invalidate failed")
	}
	s.archive(ctx, sessionID, files)
	s.finishRun(ctx, run, domain.RunStatusCompleted, result.Rows, result.Warnings, nil)

	log.Info().
		Str("session", sessionID).
		Uint64("generation", generation).
		Int("files", len(files)).
		Int("rows", result.Rows).
		Int("warnings", len(result.Warnings)).
		Msg("dashboard: snapshot set replaced")

	warnings := result.Warnings
	if warnings == nil {
		warnings = []domain.Warning{}
	}
	return &domain.UploadResult{
		SessionID:  sessionID,
		Generation: generation,
		Files:      result.Filenames(),
		Rows:       result.Rows,
		Dates:      result.Set.DateStrings(),
		Warnings:   warnings,
	}, nil
}

func (s *DashboardService) archive(ctx context.Context, sessionID string, files []domain.UploadedFile) {
	if s.objects == nil {
		return
	}
	at := s.now()
	for _, f := range files {
		key := storage.ArchiveKey(s.archivePrefix, sessionID, at, f.Filename)
		if err := s.objects.UploadObject(ctx, key, f.Content); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("dashboard: archive upload failed")
		}
	}
}

func (s *DashboardService) finishRun(ctx context.Context, run *domain.UploadRun, status domain.UploadRunStatus, rows int, warnings []domain.Warning, cause error) {
	now := s.now()
	run.Status = status
	run.TotalRows = rows
	run.CompletedAt = &now
	for _, w := range warnings {
		run.Warnings = append(run.Warnings, w.Message)
	}
	if cause != nil {
		run.ErrorMessage = cause.Error()
	}
	if err := s.runs.UpdateRun(ctx, run); err != nil {
		log.Warn().Err(err).Str("session", run.SessionID).Msg("dashboard: update upload run failed")
	}
}

func (s *DashboardService) snapshotSet(sessionID string) (*snapshot.Set, uint64, error) {
	set, generation, ok := s.store.Get(sessionID)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return set, generation, nil
}

// Summary returns every dashboard table for the session, cached per
// snapshot generation and filter.
func (s *DashboardService) Summary(ctx context.Context, sessionID string, filter domain.Filter) (*domain.AggregateSummary, error) {
	set, generation, err := s.snapshotSet(sessionID)
	if err != nil {
		return nil, err
	}

	if summary, ok, err := s.cache.GetSummary(ctx, sessionID, generation, filter); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get summary failed")
	}

	summary := s.aggregator.Summarize(set, filter)

	if err := s.cache.SetSummary(ctx, sessionID, generation, filter, summary); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache set summary failed")
	}

	return summary, nil
}

// Dates lists the snapshot dates of the session, oldest first.
func (s *DashboardService) Dates(ctx context.Context, sessionID string) ([]string, error) {
	set, _, err := s.snapshotSet(sessionID)
	if err != nil {
		return nil, err
	}
	return set.DateStrings(), nil
}

// Compare diffs two snapshot dates given as YYYY-MM-DD.
func (s *DashboardService) Compare(ctx context.Context, sessionID, from, to string, filter domain.Filter) (*domain.Comparison, error) {
	set, _, err := s.snapshotSet(sessionID)
	if err != nil {
		return nil, err
	}

	fromDate, err := ParseDate(from)
	if err != nil {
		return nil, err
	}
	toDate, err := ParseDate(to)
	if err != nil {
		return nil, err
	}

	return analytics.Compare(set, fromDate, toDate, filter)
}

func (s *DashboardService) Item(ctx context.Context, sessionID, item string, filter domain.Filter) (*domain.ItemDetail, error) {
	set, _, err := s.snapshotSet(sessionID)
	if err != nil {
		return nil, err
	}
	return analytics.ItemDetail(set, item, filter)
}

func (s *DashboardService) Classification(ctx context.Context, sessionID string, filter domain.Filter) (*domain.Classification, error) {
	set, _, err := s.snapshotSet(sessionID)
	if err != nil {
		return nil, err
	}
	return analytics.Classify(set, filter), nil
}

func (s *DashboardService) Adhoc(ctx context.Context, sessionID string, filter domain.Filter) ([]domain.AdhocPoint, error) {
	set, _, err := s.snapshotSet(sessionID)
	if err != nil {
		return nil, err
	}
	return analytics.Adhoc(set, filter), nil
}

func (s *DashboardService) Rows(ctx context.Context, sessionID string, filter domain.Filter, page, pageSize int) (*domain.RowsPage, error) {
	set, _, err := s.snapshotSet(sessionID)
	if err != nil {
		return nil, err
	}
	return analytics.Rows(set, filter, page, pageSize), nil
}

// Runs returns the most recent upload runs of the session.
func (s *DashboardService) Runs(ctx context.Context, sessionID string, limit int) ([]domain.UploadRun, error) {
	return s.runs.ListRuns(ctx, sessionID, limit)
}

// ImportFromStorage loads every supported snapshot file under prefix into
// the session, as a single upload.
func (s *DashboardService) ImportFromStorage(ctx context.Context, sessionID, prefix string) (*domain.UploadResult, error) {
	if s.objects == nil {
		return nil, ErrStorageDisabled
	}

	objects, err := s.objects.ListObjects(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}

	var files []domain.UploadedFile
	for _, obj := range objects {
		if strings.HasSuffix(obj.Key, "/") || inventory.Validate(obj.Key) != nil {
			continue
		}
		data, err := s.objects.GetObject(ctx, obj.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", obj.Key, err)
		}
		files = append(files, domain.UploadedFile{Filename: path.Base(obj.Key), Content: data})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no snapshot files under %q", domain.ErrInvalidInput, prefix)
	}

	return s.Upload(ctx, sessionID, files)
}

// EvictIdle drops sessions not updated within ttl.
func (s *DashboardService) EvictIdle(ttl time.Duration) int {
	n := s.store.Evict(s.now().Add(-ttl))
	if n > 0 {
		log.Info().Int("sessions", n).Msg("dashboard: evicted idle sessions")
	}
	return n
}

// ParseDate parses a YYYY-MM-DD query value; failures are user-input errors.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(domain.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", domain.ErrInvalidInput, raw)
	}
	return d, nil
}
