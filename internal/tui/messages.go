package tui

import (
	"ragconsole/internal/domain"
)

// optionsMsg carries the load-time /available-options result.
type optionsMsg struct {
	opts domain.AvailableOptions
	err  error
}

// uploadResultMsg is sent when a document upload round-trip finishes.
type uploadResultMsg struct {
	res domain.UploadResult
	err error
}

// configureResultMsg is sent when a configure round-trip finishes.
type configureResultMsg struct {
	cfg domain.PipelineConfig
	err error
}

// initializeResultMsg is sent when the index build request finishes.
type initializeResultMsg struct {
	err error
}

// chatResultMsg is sent when a chat round-trip finishes.
type chatResultMsg struct {
	answer domain.ChatAnswer
	err    error
}

// statusResultMsg carries a /status poll result.
type statusResultMsg struct {
	status domain.PipelineStatus
	err    error
}

// resetResultMsg is sent when the server-side reset finishes.
type resetResultMsg struct {
	err error
}
