package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"ragconsole/internal/domain"
)

// Each command issues exactly one request under a bounded deadline and
// reports back as a message. A request that outlives its deadline fails
// like any transport error and the action becomes retryable.

func (m Model) fetchOptionsCmd() tea.Cmd {
	client, log, timeout := m.client, m.log, m.reqTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		opts, err := client.AvailableOptions(ctx)
		if err != nil {
			log.Warn("options fetch failed", zap.Error(err))
		}
		return optionsMsg{opts: opts, err: err}
	}
}

func (m Model) uploadCmd(paths []string) tea.Cmd {
	client, log, timeout := m.client, m.log, m.reqTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := client.UploadDocuments(ctx, paths)
		if err != nil {
			log.Warn("upload failed", zap.Int("files", len(paths)), zap.Error(err))
		} else {
			log.Info("upload succeeded", zap.Int("files", len(paths)))
		}
		return uploadResultMsg{res: res, err: err}
	}
}

func (m Model) configureCmd(cfg domain.PipelineConfig) tea.Cmd {
	client, log, timeout := m.client, m.log, m.reqTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := client.ConfigurePipeline(ctx, cfg)
		if err != nil {
			log.Warn("configure failed", zap.String("provider", cfg.Provider), zap.Error(err))
		} else {
			log.Info("pipeline configured",
				zap.String("provider", cfg.Provider), zap.String("model", cfg.Model))
		}
		return configureResultMsg{cfg: cfg, err: err}
	}
}

func (m Model) initializeCmd() tea.Cmd {
	client, log, timeout := m.client, m.log, m.buildTimeout
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := client.InitializePipeline(ctx)
		if err != nil {
			log.Warn("initialize failed", zap.Error(err))
		} else {
			log.Info("pipeline initialized", zap.Duration("took", time.Since(start)))
		}
		return initializeResultMsg{err: err}
	}
}

func (m Model) chatCmd(question string) tea.Cmd {
	client, log, timeout := m.client, m.log, m.buildTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		answer, err := client.Chat(ctx, question)
		if err != nil {
			log.Warn("chat failed", zap.Error(err))
		}
		return chatResultMsg{answer: answer, err: err}
	}
}

func (m Model) statusCmd() tea.Cmd {
	client, timeout := m.client, m.reqTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		st, err := client.Status(ctx)
		return statusResultMsg{status: st, err: err}
	}
}

func (m Model) resetCmd() tea.Cmd {
	client, log, timeout := m.client, m.log, m.reqTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := client.Reset(ctx)
		if err != nil {
			log.Warn("reset failed", zap.Error(err))
		} else {
			log.Info("pipeline reset")
		}
		return resetResultMsg{err: err}
	}
}
