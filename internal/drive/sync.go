package drive

import (
	"context"
	"fmt"
	"sync"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// Uploader loads files into a dashboard session.
type Uploader interface {
	Upload(ctx context.Context, sessionID string, files []domain.UploadedFile) (*domain.UploadResult, error)
}

// Syncer mirrors a Drive folder into one dashboard session. The folder is
// re-uploaded only when its listing changed since the last successful sync.
type Syncer struct {
	downloader *Downloader
	uploader   Uploader
	folderID   string
	sessionID  string

	mu   sync.Mutex
	last string
}

func NewSyncer(downloader *Downloader, uploader Uploader, folderID, sessionID string) *Syncer {
	return &Syncer{
		downloader: downloader,
		uploader:   uploader,
		folderID:   folderID,
		sessionID:  sessionID,
	}
}

// SessionID is the session the folder is mirrored into.
func (s *Syncer) SessionID() string {
	return s.sessionID
}

// Sync downloads the folder and uploads it when it changed, or always with
// force. It reports whether an upload happened.
func (s *Syncer) Sync(ctx context.Context, force bool) (*domain.UploadResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.downloader.FetchFolder(ctx, s.folderID)
	if err != nil {
		return nil, false, fmt.Errorf("drive fetch failed: %w", err)
	}
	if !force && snap.Fingerprint == s.last {
		log.Debug().Str("folder", s.folderID).Msg("drive: folder unchanged, skipping sync")
		return nil, false, nil
	}
	if len(snap.Files) == 0 {
		return nil, false, fmt.Errorf("%w: drive folder %s has no snapshot files", domain.ErrInvalidInput, s.folderID)
	}

	result, err := s.uploader.Upload(ctx, s.sessionID, snap.Files)
	if err != nil {
		return nil, false, err
	}
	s.last = snap.Fingerprint

	log.Info().
		Str("folder", s.folderID).
		Str("session", s.sessionID).
		Int("files", len(snap.Files)).
		Int("rows", result.Rows).
		Msg("drive: folder synced")
	return result, true, nil
}
