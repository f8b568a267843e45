package domain

import (
	"context"

	"github.com/go-playground/validator/v10"
)

// AvailableOptions lists what the pipeline service can be configured with.
// Fetched once at startup and read-only afterwards.
type AvailableOptions struct {
	Providers          map[string][]string `json:"providers"`
	Embedders          []string            `json:"embedders"`
	ChunkingStrategies []string            `json:"chunking_strategies,omitempty"`
	ChunkSizeRange     *IntRange           `json:"chunk_size_range,omitempty"`
	ChunkOverlapRange  *IntRange           `json:"chunk_overlap_range,omitempty"`
	DefaultSettings    *DefaultSettings    `json:"default_settings,omitempty"`
}

// IntRange is an inclusive numeric bound advertised by the server.
type IntRange struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// DefaultSettings is the server's preferred provider/model pairing.
type DefaultSettings struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// PipelineConfig is the configuration submitted in the Configure stage.
// Immutable after a successful submission until the next reset.
type PipelineConfig struct {
	Provider         string `json:"provider" validate:"required"`
	Model            string `json:"model" validate:"required"`
	Embedder         string `json:"embedder" validate:"required"`
	ChunkingStrategy string `json:"chunking_strategy" validate:"required"`
	ChunkSize        int    `json:"chunk_size" validate:"min=100,max=2000"`
	ChunkOverlap     int    `json:"chunk_overlap" validate:"min=0,max=500,ltfield=ChunkSize"`
}

// Defaults used when the server does not advertise its own.
const (
	DefaultChunkingStrategy = "fixed"
	DefaultChunkSize        = 800
	DefaultChunkOverlap     = 100

	// Server-side cap on question length, enforced before submission.
	MaxQuestionLen = 1000
)

var validate = validator.New()

// Validate checks the config before any network call. Overlap must stay
// below the chunk size, the server does not enforce this.
func (c PipelineConfig) Validate() error {
	return validate.Struct(c)
}

// PipelineStatus is the server's view of the pipeline. Polled on demand,
// never owned by the console.
type PipelineStatus struct {
	FilesProcessed int            `json:"files_processed"`
	Configuration  map[string]any `json:"configuration"`
	ReadyForChat   bool           `json:"ready_for_chat"`
}

// Role identifies who produced a transcript entry.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Source is a document citation attached to an answer.
type Source struct {
	Filename string `json:"filename"`
}

// ChatTurn is one entry in the append-only chat transcript.
type ChatTurn struct {
	Role    Role
	Text    string
	Sources []Source
}

// ChatAnswer is a successful chat round-trip result.
type ChatAnswer struct {
	Response string
	Sources  []Source
}

// UploadResult reports the outcome of a document upload.
type UploadResult struct {
	Message string
}

// PipelineClient is the console-facing port to the remote pipeline service.
type PipelineClient interface {
	AvailableOptions(ctx context.Context) (AvailableOptions, error)
	UploadDocuments(ctx context.Context, paths []string) (UploadResult, error)
	ConfigurePipeline(ctx context.Context, cfg PipelineConfig) error
	InitializePipeline(ctx context.Context) error
	Chat(ctx context.Context, question string) (ChatAnswer, error)
	Status(ctx context.Context) (PipelineStatus, error)
	Reset(ctx context.Context) error
}
