package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ragconsole/internal/api"
	"ragconsole/internal/config"
	"ragconsole/internal/logger"
	"ragconsole/internal/tui"
)

var (
	cfgPath   string
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "ragconsole",
	Short: "Terminal console for a document QA pipeline service",
	Long: `ragconsole drives a remote retrieval-augmented-generation pipeline
through its four dependent stages: upload documents, configure the
pipeline, build the retrieval index, then chat against it.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is $HOME/.config/ragconsole/config.yaml)")
	rootCmd.Flags().StringVarP(&serverURL, "server", "s", "", "pipeline service base URL (overrides config)")
}

func run(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}

	zlog := logger.New(cfg.Log.File)
	defer func() { _ = zlog.Sync() }()

	client := api.New(api.Config{BaseURL: cfg.Server.URL})
	m := tui.New(tui.Options{
		Client:           client,
		Logger:           zlog,
		RequestTimeout:   cfg.RequestTimeout(),
		BuildTimeout:     cfg.BuildTimeout(),
		ChunkingStrategy: cfg.Defaults.ChunkingStrategy,
		ChunkSize:        cfg.Defaults.ChunkSize,
		ChunkOverlap:     cfg.Defaults.ChunkOverlap,
	})

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("console exited: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
