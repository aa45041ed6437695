package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/scmdash/backend-go/internal/analytics"
	"github.com/andresuchdata/scmdash/backend-go/internal/pipeline/inventory"
	"github.com/andresuchdata/scmdash/backend-go/internal/storage"
	"github.com/urfave/cli/v2"
)

type objectDownloader struct {
	client storage.ObjectStorage
	dir    string
}

func newObjectDownloader(c *cli.Context) (*objectDownloader, error) {
	client, err := storage.NewMinioClient(c.Context, storage.MinioConfig{
		Endpoint:  c.String("storage-endpoint"),
		AccessKey: c.String("storage-access-key"),
		SecretKey: c.String("storage-secret-key"),
		Bucket:    c.String("storage-bucket"),
		UseSSL:    c.Bool("storage-use-ssl"),
	})
	if err != nil {
		return nil, err
	}

	dir := c.String("download-dir")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure download dir %s: %w", dir, err)
	}
	return &objectDownloader{client: client, dir: dir}, nil
}

// download fetches every readable snapshot object under prefix and returns
// the local paths in key order.
func (d *objectDownloader) download(ctx context.Context, prefix string) ([]string, error) {
	objects, err := d.client.ListObjects(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}

	var paths []string
	for _, obj := range objects {
		if strings.HasSuffix(obj.Key, "/") || inventory.Validate(obj.Key) != nil {
			continue
		}
		dest := filepath.Join(d.dir, path.Base(obj.Key))
		if err := d.client.DownloadObject(ctx, obj.Key, dest); err != nil {
			return nil, fmt.Errorf("failed to download %s: %w", obj.Key, err)
		}
		paths = append(paths, dest)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no snapshot files under %q", prefix)
	}
	return paths, nil
}

func runPull(c *cli.Context) error {
	downloader, err := newObjectDownloader(c)
	if err != nil {
		return err
	}
	paths, err := downloader.download(c.Context, c.String("prefix"))
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(c.App.ErrWriter, "pulled %s\n", p)
	}

	files, err := readFiles(paths, "")
	if err != nil {
		return err
	}
	result, err := runPipeline(c, files)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, analytics.NewAggregator().Summarize(result.Set, parseFilter(c)), c.Bool("pretty"))
}
