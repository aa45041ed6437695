package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/andresuchdata/scmdash/backend-go/internal/pipeline/inventory"
	"github.com/andresuchdata/scmdash/backend-go/internal/snapshot"
	"github.com/andresuchdata/scmdash/backend-go/pkg/logger"
)

// Orchestrator runs read → normalize → derive over all files of one upload
// and groups the result into a snapshot set.
type Orchestrator struct {
	cfg        Config
	normalizer *inventory.Normalizer
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(cfg Config) *Orchestrator {
	if cfg.InputDateFormat == "" {
		cfg.InputDateFormat = "20060102"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Orchestrator{
		cfg:        cfg,
		normalizer: inventory.NewNormalizer(),
	}
}

// Run processes files in order. Any unreadable file or missing identity
// column fails the whole upload; no partial set is returned.
func (o *Orchestrator) Run(ctx context.Context, files []domain.UploadedFile) (*Result, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files in upload", domain.ErrInvalidInput)
	}

	result := &Result{Files: make([]FileReport, 0, len(files))}
	var records []domain.InventoryRecord

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		date := o.snapshotDate(f)
		table, err := inventory.ReadTable(f.Filename, bytes.NewReader(f.Content))
		if err != nil {
			return nil, err
		}

		batch, err := o.normalizer.Normalize(table, date)
		if err != nil {
			return nil, err
		}

		logger.Log.Debug().
			Str("file", f.Filename).
			Str("date", batch.Date.Format(domain.DateLayout)).
			Int("rows", len(batch.Records)).
			Int("warnings", len(batch.Warnings)).
			Msg("normalized snapshot file")

		records = append(records, batch.Records...)
		result.Warnings = append(result.Warnings, batch.Warnings...)
		result.Files = append(result.Files, FileReport{
			Filename: f.Filename,
			Date:     batch.Date,
			RowDates: rowDates(batch.Records),
			Rows:     len(batch.Records),
			Warnings: batch.Warnings,
		})
	}

	result.Set = snapshot.NewSet(records)
	result.Rows = len(records)
	return result, nil
}

// rowDates returns the distinct record dates, oldest first.
func rowDates(records []domain.InventoryRecord) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for i := range records {
		d := records[i].Date.Format(domain.DateLayout)
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

func (o *Orchestrator) snapshotDate(f domain.UploadedFile) time.Time {
	if f.Date != nil {
		return domain.CalendarDay(*f.Date)
	}
	if d, err := o.GetSnapshotDate(f.Filename); err == nil {
		return d
	}
	return domain.CalendarDay(o.cfg.Now())
}

// GetSnapshotDate extracts the snapshot date from the filename prefix.
func (o *Orchestrator) GetSnapshotDate(filename string) (time.Time, error) {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	layout := o.cfg.InputDateFormat
	if len(base) < len(layout) {
		return time.Time{}, fmt.Errorf("filename %s does not contain date with layout %s", filename, layout)
	}

	d, err := time.Parse(layout, base[:len(layout)])
	if err != nil {
		return time.Time{}, err
	}
	return domain.CalendarDay(d), nil
}
