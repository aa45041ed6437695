package main

import (
	"os"

	"github.com/andresuchdata/scmdash/backend-go/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "item-family", Usage: "Only include this product type"},
		&cli.StringFlag{Name: "warehouse", Usage: "Only include this location"},
		&cli.StringFlag{Name: "supplier", Usage: "Only include this supplier"},
	}
}

func fileFlag() *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "Snapshot file (CSV or XLSX); repeat for several dates",
		Required: true,
	}
}

func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "storage-endpoint", EnvVars: []string{"STORAGE_ENDPOINT"}, Required: true},
		&cli.StringFlag{Name: "storage-access-key", EnvVars: []string{"STORAGE_ACCESS_KEY"}},
		&cli.StringFlag{Name: "storage-secret-key", EnvVars: []string{"STORAGE_SECRET_KEY"}},
		&cli.StringFlag{Name: "storage-bucket", EnvVars: []string{"STORAGE_BUCKET"}, Value: "scmdash"},
		&cli.BoolFlag{Name: "storage-use-ssl", EnvVars: []string{"STORAGE_USE_SSL"}},
		&cli.StringFlag{Name: "download-dir", Usage: "Where pulled objects are written", Value: "./data/tmp/pull"},
	}
}

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "scmctl",
		Usage: "Compute inventory dashboard views from snapshot files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}},
		},
		Before: func(c *cli.Context) error {
			logger.Configure("console", c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "summarize",
				Usage: "Print the aggregate summary of one or more snapshot files",
				Flags: append([]cli.Flag{
					fileFlag(),
					&cli.StringFlag{Name: "date", Usage: "Snapshot date (YYYY-MM-DD) applied to every file"},
					&cli.BoolFlag{Name: "pretty", Usage: "Indent JSON output"},
				}, filterFlags()...),
				Action: runSummarize,
			},
			{
				Name:  "compare",
				Usage: "Compare two snapshot dates position by position",
				Flags: append([]cli.Flag{
					fileFlag(),
					&cli.StringFlag{Name: "from", Required: true, Usage: "Earlier date (YYYY-MM-DD)"},
					&cli.StringFlag{Name: "to", Required: true, Usage: "Later date (YYYY-MM-DD)"},
					&cli.BoolFlag{Name: "pretty", Usage: "Indent JSON output"},
				}, filterFlags()...),
				Action: runCompare,
			},
			{
				Name:  "upload",
				Usage: "Upload snapshot files to a running dashboard server",
				Flags: []cli.Flag{
					fileFlag(),
					&cli.StringFlag{Name: "server", Value: "http://localhost:8080", EnvVars: []string{"SCMDASH_SERVER"}},
					&cli.StringFlag{Name: "session", Usage: "Existing session id; a new session is created when empty"},
					&cli.StringFlag{Name: "date", Usage: "Snapshot date (YYYY-MM-DD) applied to every file"},
				},
				Action: runUpload,
			},
			{
				Name:  "pull",
				Usage: "Download snapshot files from object storage and summarize them",
				Flags: append(append([]cli.Flag{
					&cli.StringFlag{Name: "prefix", Required: true, Usage: "Object key prefix to pull"},
					&cli.BoolFlag{Name: "pretty", Usage: "Indent JSON output"},
				}, storageFlags()...), filterFlags()...),
				Action: runPull,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("scmctl failed")
	}
}
