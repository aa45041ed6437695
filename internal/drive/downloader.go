package drive

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Downloader pulls the snapshot files of a Drive folder into memory.
type Downloader struct {
	source      Source
	concurrency int
}

// NewDownloader creates a Downloader fetching up to concurrency files at once.
func NewDownloader(source Source, concurrency int) *Downloader {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Downloader{source: source, concurrency: concurrency}
}

// Snapshot is the downloaded content of a folder plus a fingerprint of the
// listing it came from.
type Snapshot struct {
	Files       []domain.UploadedFile
	Fingerprint string
}

// Wanted reports whether f is a file the pipeline can read. Native sheets
// are exported as XLSX.
func Wanted(f *File) bool {
	if f.IsSpreadsheet() {
		return true
	}
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// FetchFolder downloads every CSV, XLSX and Google Sheet of folderID. Files
// keep listing order; a single failed download fails the fetch.
func (d *Downloader) FetchFolder(ctx context.Context, folderID string) (*Snapshot, error) {
	listing, err := d.source.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	var wanted []*File
	for _, f := range listing {
		if Wanted(f) {
			wanted = append(wanted, f)
		}
	}

	files := make([]domain.UploadedFile, len(wanted))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for i, f := range wanted {
		g.Go(func() error {
			var buf bytes.Buffer
			if err := d.source.DownloadFile(gctx, f, &buf); err != nil {
				return fmt.Errorf("failed to download %s: %w", f.Name, err)
			}
			name := f.Name
			if f.IsSpreadsheet() && !strings.EqualFold(filepath.Ext(name), ".xlsx") {
				name += ".xlsx"
			}
			files[i] = domain.UploadedFile{Filename: name, Content: buf.Bytes()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Snapshot{Files: files, Fingerprint: fingerprint(wanted)}, nil
}

func fingerprint(files []*File) string {
	parts := make([]string, len(files))
	for i, f := range files {
		parts[i] = f.ID + "@" + f.ModifiedTime
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}
