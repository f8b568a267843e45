package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragconsole/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL})
}

func TestAvailableOptions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/available-options", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"providers": {"ollama": ["gemma2:2b", "mistral:7b"], "groq": ["gemma2-9b-it"]},
			"embedders": ["all-MiniLM-L6-v2", "all-mpnet-base-v2"],
			"chunking_strategies": ["fixed", "semantic", "recursive"],
			"chunk_size_range": {"min": 100, "max": 2000, "default": 800}
		}`))
	})

	opts, err := c.AvailableOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gemma2:2b", "mistral:7b"}, opts.Providers["ollama"])
	assert.Equal(t, []string{"all-MiniLM-L6-v2", "all-mpnet-base-v2"}, opts.Embedders)
	assert.Equal(t, []string{"fixed", "semantic", "recursive"}, opts.ChunkingStrategies)
	require.NotNil(t, opts.ChunkSizeRange)
	assert.Equal(t, 800, opts.ChunkSizeRange.Default)
}

func TestConfigurePipelineBody(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/configure-pipeline", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})

	err := c.ConfigurePipeline(context.Background(), domain.PipelineConfig{
		Provider:         "openai",
		Model:            "gpt-4",
		Embedder:         "all-MiniLM-L6-v2",
		ChunkingStrategy: "fixed",
		ChunkSize:        800,
		ChunkOverlap:     100,
	})
	require.NoError(t, err)

	assert.Equal(t, "openai", got["provider"])
	assert.Equal(t, "gpt-4", got["model"])
	assert.Equal(t, "all-MiniLM-L6-v2", got["embedder"])
	assert.Equal(t, "fixed", got["chunking_strategy"])
	assert.Equal(t, float64(800), got["chunk_size"])
	assert.Equal(t, float64(100), got["chunk_overlap"])
}

func TestChatParsesSources(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "What is in the report?", body["question"])
		_, _ = w.Write([]byte(`{
			"response": "The report covers Q1 earnings.",
			"sources": [{"filename": "report.pdf"}]
		}`))
	})

	answer, err := c.Chat(context.Background(), "What is in the report?")
	require.NoError(t, err)
	assert.Equal(t, "The report covers Q1 earnings.", answer.Response)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "report.pdf", answer.Sources[0].Filename)
}

func TestChatWithoutSources(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response": "No idea."}`))
	})

	answer, err := c.Chat(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "No idea.", answer.Response)
	assert.Empty(t, answer.Sources)
}

func TestUploadDocumentsMultipart(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "report.pdf")
	second := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(first, []byte("pdf-bytes"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("# notes"), 0o644))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload-documents", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["files"]
		require.Len(t, files, 2)
		assert.Equal(t, "report.pdf", files[0].Filename)
		assert.Equal(t, "notes.md", files[1].Filename)

		f, err := files[1].Open()
		require.NoError(t, err)
		defer f.Close()
		buf := make([]byte, 16)
		n, _ := f.Read(buf)
		assert.Equal(t, "# notes", string(buf[:n]))

		_, _ = w.Write([]byte(`{"status":"success","message":"Processed 2 files"}`))
	})

	res, err := c.UploadDocuments(context.Background(), []string{first, second})
	require.NoError(t, err)
	assert.Equal(t, "Processed 2 files", res.Message)
}

func TestStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/status", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"files_processed": 3,
			"configuration": {"provider": "ollama", "model": "gemma2:2b"},
			"ready_for_chat": true
		}`))
	})

	st, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.FilesProcessed)
	assert.True(t, st.ReadyForChat)
	assert.Equal(t, "ollama", st.Configuration["provider"])
}

func TestInitializeAndReset(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})

	require.NoError(t, c.InitializePipeline(context.Background()))
	require.NoError(t, c.Reset(context.Background()))
	assert.Equal(t, []string{"/initialize-pipeline", "/reset"}, paths)
}

func TestErrorDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Pipeline not configured"}`))
	})

	err := c.InitializePipeline(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Pipeline not configured", err.Error())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestErrorDetailFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"non-json body", "internal server error"},
		{"json without detail", `{"error": "boom"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(tt.body))
			})

			err := c.InitializePipeline(context.Background())
			require.Error(t, err)
			assert.Equal(t, "request failed: Internal Server Error", err.Error())
		})
	}
}

func TestUploadErrorDetail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0o644))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "No files were successfully processed"}`))
	})

	_, err := c.UploadDocuments(context.Background(), []string{path})
	require.Error(t, err)
	assert.Equal(t, "No files were successfully processed", err.Error())
}
