package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/sparktown/sparkdown/internal/config"
	"github.com/sparktown/sparkdown/internal/service"
	"github.com/sparktown/sparkdown/internal/store"
	"github.com/sparktown/sparkdown/internal/ui"
)

//go:embed config.yaml
var defaultConfigData []byte

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("sparkdown %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	dbPath, err := store.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving data directory: %v\n", err)
		os.Exit(1)
	}
	dataDir := filepath.Dir(dbPath)

	cfg, err := config.Load(filepath.Join(dataDir, "config.yaml"), defaultConfigData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.DBPath != "" {
		dbPath = cfg.DBPath
	}

	logPath := cfg.LogFilePath
	if logPath == "" {
		logPath = filepath.Join(dataDir, "sparkdown.log")
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	level := zerolog.InfoLevel
	if cfg.IsDebug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(logFile).Level(level).With().Timestamp().Logger()

	// Initialize the record store
	st, err := store.Open(dbPath, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	svc := service.New(st, log)

	// Create and run the application
	app := ui.NewApp(svc, log, cfg.AutosaveDelay)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}
