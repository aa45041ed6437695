package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/go-resty/resty/v2"
	"github.com/urfave/cli/v2"
)

type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

type uploadClient struct {
	http *resty.Client
}

func newUploadClient(server string) *uploadClient {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(server, "/") + "/api/v1").
		SetHeader("Accept", "application/json").
		SetTimeout(2 * time.Minute)
	return &uploadClient{http: client}
}

func (u *uploadClient) createSession(c *cli.Context) (string, error) {
	var created struct {
		SessionID string `json:"session_id"`
	}
	var failure apiError
	resp, err := u.http.R().
		SetContext(c.Context).
		SetResult(&created).
		SetError(&failure).
		Post("/sessions")
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("create session: %s: %s", resp.Status(), failure.Error)
	}
	return created.SessionID, nil
}

func (u *uploadClient) upload(c *cli.Context, session string, paths []string, date string) (*domain.UploadResult, error) {
	req := u.http.R().SetContext(c.Context)
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", p, err)
		}
		defer f.Close()
		req.SetFileReader("files", filepath.Base(p), f)
	}
	if date != "" {
		req.SetFormData(map[string]string{"date": date})
	}

	result := new(domain.UploadResult)
	var failure apiError
	resp, err := req.
		SetResult(result).
		SetError(&failure).
		Post("/sessions/" + session + "/snapshots")
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("upload rejected (%s): %s: %s", resp.Status(), failure.Error, failure.Details)
	}
	return result, nil
}

func runUpload(c *cli.Context) error {
	client := newUploadClient(c.String("server"))

	session := c.String("session")
	if session == "" {
		id, err := client.createSession(c)
		if err != nil {
			return err
		}
		session = id
	}

	result, err := client.upload(c, session, c.StringSlice("file"), c.String("date"))
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, result, true)
}
