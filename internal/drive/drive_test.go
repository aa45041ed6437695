package drive

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
)

type fakeSource struct {
	mu        sync.Mutex
	files     []*File
	content   map[string]string
	failID    string
	downloads int
}

func (f *fakeSource) ListFiles(ctx context.Context, folderID string) ([]*File, error) {
	return f.files, nil
}

func (f *fakeSource) DownloadFile(ctx context.Context, file *File, w io.Writer) error {
	f.mu.Lock()
	f.downloads++
	f.mu.Unlock()
	if file.ID == f.failID {
		return errors.New("quota exceeded")
	}
	_, err := io.WriteString(w, f.content[file.ID])
	return err
}

type fakeUploader struct {
	calls [][]domain.UploadedFile
}

func (u *fakeUploader) Upload(ctx context.Context, sessionID string, files []domain.UploadedFile) (*domain.UploadResult, error) {
	u.calls = append(u.calls, files)
	return &domain.UploadResult{SessionID: sessionID, Rows: len(files)}, nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		files: []*File{
			{ID: "1", Name: "20240101_stock.csv", ModifiedTime: "t1"},
			{ID: "2", Name: "readme.txt", ModifiedTime: "t1"},
			{ID: "3", Name: "20240201_stock", MimeType: spreadsheetMimeType, ModifiedTime: "t1"},
			{ID: "4", Name: "20240301_stock.XLSX", ModifiedTime: "t1"},
		},
		content: map[string]string{"1": "a", "3": "b", "4": "c"},
	}
}

func TestDownloader_FetchFolder(t *testing.T) {
	src := newFakeSource()
	snap, err := NewDownloader(src, 2).FetchFolder(context.Background(), "folder")
	if err != nil {
		t.Fatalf("FetchFolder failed: %v", err)
	}

	want := []string{"20240101_stock.csv", "20240201_stock.xlsx", "20240301_stock.XLSX"}
	if len(snap.Files) != len(want) {
		t.Fatalf("Expected %d files, got %d", len(want), len(snap.Files))
	}
	for i, name := range want {
		if snap.Files[i].Filename != name {
			t.Errorf("Expected %s at %d, got %s", name, i, snap.Files[i].Filename)
		}
	}
	if string(snap.Files[1].Content) != "b" {
		t.Errorf("Expected exported sheet content, got %q", snap.Files[1].Content)
	}
	if src.downloads != 3 {
		t.Errorf("Expected 3 downloads, got %d", src.downloads)
	}
}

func TestDownloader_FailureFailsFetch(t *testing.T) {
	src := newFakeSource()
	src.failID = "4"

	if _, err := NewDownloader(src, 4).FetchFolder(context.Background(), "folder"); err == nil || !strings.Contains(err.Error(), "20240301_stock.XLSX") {
		t.Fatalf("Expected download error naming the file, got %v", err)
	}
}

func TestSyncer_SkipsUnchangedFolder(t *testing.T) {
	src := newFakeSource()
	up := &fakeUploader{}
	s := NewSyncer(NewDownloader(src, 1), up, "folder", "drive")
	ctx := context.Background()

	if _, changed, err := s.Sync(ctx, false); err != nil || !changed {
		t.Fatalf("Expected first sync to upload, got %v %v", changed, err)
	}
	if _, changed, err := s.Sync(ctx, false); err != nil || changed {
		t.Fatalf("Expected unchanged folder to be skipped, got %v %v", changed, err)
	}
	if _, changed, err := s.Sync(ctx, true); err != nil || !changed {
		t.Fatalf("Expected forced sync to upload, got %v %v", changed, err)
	}

	src.files[0].ModifiedTime = "t2"
	if _, changed, _ := s.Sync(ctx, false); !changed {
		t.Error("Expected modified folder to upload")
	}
	if len(up.calls) != 3 {
		t.Errorf("Expected 3 uploads, got %d", len(up.calls))
	}
}

func TestSyncer_EmptyFolder(t *testing.T) {
	src := &fakeSource{files: []*File{{ID: "9", Name: "notes.pdf"}}}
	s := NewSyncer(NewDownloader(src, 1), &fakeUploader{}, "folder", "drive")

	_, _, err := s.Sync(context.Background(), true)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestFingerprint_OrderIndependent(t *testing.T) {
	a := []*File{{ID: "1", ModifiedTime: "x"}, {ID: "2", ModifiedTime: "y"}}
	b := []*File{a[1], a[0]}
	if fingerprint(a) != fingerprint(b) {
		t.Errorf("Expected equal fingerprints, got %s and %s", fingerprint(a), fingerprint(b))
	}
}
