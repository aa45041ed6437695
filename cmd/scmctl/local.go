package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/scmdash/backend-go/internal/analytics"
	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/andresuchdata/scmdash/backend-go/internal/pipeline"
	"github.com/andresuchdata/scmdash/backend-go/internal/service"
	"github.com/urfave/cli/v2"
)

func parseFilter(c *cli.Context) domain.Filter {
	return domain.Filter{
		ItemFamily: strings.TrimSpace(c.String("item-family")),
		Warehouse:  strings.TrimSpace(c.String("warehouse")),
		Supplier:   strings.TrimSpace(c.String("supplier")),
	}
}

// readFiles loads paths from disk, applying the --date override when set.
func readFiles(paths []string, rawDate string) ([]domain.UploadedFile, error) {
	files := make([]domain.UploadedFile, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, domain.UploadedFile{Filename: filepath.Base(p), Content: content})
	}

	if rawDate != "" {
		date, err := service.ParseDate(rawDate)
		if err != nil {
			return nil, err
		}
		for i := range files {
			files[i].Date = &date
		}
	}
	return files, nil
}

func runPipeline(c *cli.Context, files []domain.UploadedFile) (*pipeline.Result, error) {
	result, err := pipeline.NewOrchestrator(pipeline.DefaultConfig()).Run(c.Context, files)
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(c.App.ErrWriter, "warning: %s\n", w.Message)
	}
	return result, nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func runSummarize(c *cli.Context) error {
	files, err := readFiles(c.StringSlice("file"), c.String("date"))
	if err != nil {
		return err
	}
	result, err := runPipeline(c, files)
	if err != nil {
		return err
	}

	summary := analytics.NewAggregator().Summarize(result.Set, parseFilter(c))
	return writeJSON(c.App.Writer, summary, c.Bool("pretty"))
}

func runCompare(c *cli.Context) error {
	from, err := service.ParseDate(c.String("from"))
	if err != nil {
		return err
	}
	to, err := service.ParseDate(c.String("to"))
	if err != nil {
		return err
	}

	files, err := readFiles(c.StringSlice("file"), "")
	if err != nil {
		return err
	}
	result, err := runPipeline(c, files)
	if err != nil {
		return err
	}

	comparison, err := analytics.Compare(result.Set, from, to, parseFilter(c))
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, comparison, c.Bool("pretty"))
}
