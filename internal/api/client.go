// Package api is a minimal REST client to the document QA pipeline service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"ragconsole/internal/domain"
)

// Client talks to the pipeline service over its HTTP contract.
// Deadlines are the caller's responsibility via ctx.
type Client struct {
	baseURL string
	client  *http.Client
}

type Config struct {
	BaseURL string
}

func New(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{},
	}
}

// AvailableOptions fetches the providers, models and embedders the service
// can be configured with.
func (c *Client) AvailableOptions(ctx context.Context) (domain.AvailableOptions, error) {
	var opts domain.AvailableOptions
	if err := c.getJSON(ctx, "/available-options", &opts); err != nil {
		return domain.AvailableOptions{}, err
	}
	return opts, nil
}

// UploadDocuments sends the given local files as a multipart form with a
// repeated "files" field.
func (c *Client) UploadDocuments(ctx context.Context, paths []string) (domain.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return domain.UploadResult{}, err
		}
		part, err := mw.CreateFormFile("files", filepath.Base(p))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		f.Close()
		if err != nil {
			return domain.UploadResult{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return domain.UploadResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-documents", &buf)
	if err != nil {
		return domain.UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.client.Do(req)
	if err != nil {
		return domain.UploadResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return domain.UploadResult{}, decodeError(resp)
	}
	var out struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	if out.Message == "" {
		out.Message = fmt.Sprintf("Uploaded %d file(s)", len(paths))
	}
	return domain.UploadResult{Message: out.Message}, nil
}

// ConfigurePipeline submits the pipeline configuration.
func (c *Client) ConfigurePipeline(ctx context.Context, cfg domain.PipelineConfig) error {
	return c.postJSON(ctx, "/configure-pipeline", cfg, nil)
}

// InitializePipeline triggers the server-side index build. Potentially
// long-running; callers should use a generous deadline.
func (c *Client) InitializePipeline(ctx context.Context) error {
	return c.postJSON(ctx, "/initialize-pipeline", nil, nil)
}

// Chat asks a question against the initialized pipeline.
func (c *Client) Chat(ctx context.Context, question string) (domain.ChatAnswer, error) {
	body := map[string]string{"question": question}
	var resp struct {
		Response string          `json:"response"`
		Sources  []domain.Source `json:"sources"`
	}
	if err := c.postJSON(ctx, "/chat", body, &resp); err != nil {
		return domain.ChatAnswer{}, err
	}
	return domain.ChatAnswer{Response: resp.Response, Sources: resp.Sources}, nil
}

// Status reads the current pipeline status.
func (c *Client) Status(ctx context.Context) (domain.PipelineStatus, error) {
	var st domain.PipelineStatus
	if err := c.getJSON(ctx, "/status", &st); err != nil {
		return domain.PipelineStatus{}, err
	}
	return st, nil
}

// Reset returns the remote pipeline to its initial state.
func (c *Client) Reset(ctx context.Context) error {
	return c.postJSON(ctx, "/reset", nil, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
