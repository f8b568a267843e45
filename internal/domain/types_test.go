package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() PipelineConfig {
	return PipelineConfig{
		Provider:         "openai",
		Model:            "gpt-4",
		Embedder:         "all-MiniLM-L6-v2",
		ChunkingStrategy: "fixed",
		ChunkSize:        800,
		ChunkOverlap:     100,
	}
}

func TestPipelineConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PipelineConfig)
		wantErr bool
	}{
		{"valid", func(c *PipelineConfig) {}, false},
		{"missing provider", func(c *PipelineConfig) { c.Provider = "" }, true},
		{"missing model", func(c *PipelineConfig) { c.Model = "" }, true},
		{"missing embedder", func(c *PipelineConfig) { c.Embedder = "" }, true},
		{"missing strategy", func(c *PipelineConfig) { c.ChunkingStrategy = "" }, true},
		{"chunk size below range", func(c *PipelineConfig) { c.ChunkSize = 99 }, true},
		{"chunk size at lower bound", func(c *PipelineConfig) { c.ChunkSize = 100; c.ChunkOverlap = 0 }, false},
		{"chunk size above range", func(c *PipelineConfig) { c.ChunkSize = 2001 }, true},
		{"chunk size at upper bound", func(c *PipelineConfig) { c.ChunkSize = 2000 }, false},
		{"overlap above range", func(c *PipelineConfig) { c.ChunkOverlap = 501 }, true},
		{"overlap zero", func(c *PipelineConfig) { c.ChunkOverlap = 0 }, false},
		{"overlap equal to size rejected", func(c *PipelineConfig) { c.ChunkSize = 400; c.ChunkOverlap = 400 }, true},
		{"overlap above size rejected", func(c *PipelineConfig) { c.ChunkSize = 200; c.ChunkOverlap = 300 }, true},
		{"overlap just below size", func(c *PipelineConfig) { c.ChunkSize = 200; c.ChunkOverlap = 199 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
