package storage

import (
	"context"
	"path"
	"time"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations the dashboard needs:
// archiving raw uploads and importing snapshot files back from a prefix.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
}

// ArchiveKey is the object key of one raw uploaded file:
// <prefix>/<session>/<YYYYMMDDTHHMMSSZ>/<filename>.
func ArchiveKey(prefix, sessionID string, at time.Time, filename string) string {
	return path.Join(prefix, sessionID, at.UTC().Format("20060102T150405Z"), path.Base(filename))
}
