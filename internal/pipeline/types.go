package pipeline

import (
	"time"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/andresuchdata/scmdash/backend-go/internal/snapshot"
)

// FileReport describes how one uploaded file was loaded. Date is the
// file-level snapshot date; RowDates lists the dates its rows landed on,
// which differ from Date when the file carries a per-row date column.
type FileReport struct {
	Filename string           `json:"filename"`
	Date     time.Time        `json:"date"`
	RowDates []string         `json:"row_dates"`
	Rows     int              `json:"rows"`
	Warnings []domain.Warning `json:"warnings,omitempty"`
}

// Result is the outcome of running the pipeline over every file of an upload.
type Result struct {
	Set      *snapshot.Set
	Files    []FileReport
	Rows     int
	Warnings []domain.Warning
}

// Filenames lists the loaded files in upload order.
func (r *Result) Filenames() []string {
	names := make([]string, len(r.Files))
	for i, f := range r.Files {
		names[i] = f.Filename
	}
	return names
}

// Config holds the knobs of an Orchestrator.
type Config struct {
	// InputDateFormat is the layout of the date prefix in snapshot filenames.
	InputDateFormat string
	// Now supplies the fallback snapshot date.
	Now func() time.Time
}

// DefaultConfig returns the filename layout used by inventory exports.
func DefaultConfig() Config {
	return Config{
		InputDateFormat: "20060102",
		Now:             time.Now,
	}
}
