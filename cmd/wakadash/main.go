// Package main is the entry point for the WakaDash TUI application.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"wakadash/internal/app"
	"wakadash/internal/config"
	"wakadash/internal/logger"
	"wakadash/internal/services"
	"wakadash/internal/ui/tabs/dashboard"
	"wakadash/internal/ui/tabs/history"
	"wakadash/internal/ui/tabs/info"
	"wakadash/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Logging goes to a file so it never corrupts the alternate screen.
	if logPath := os.Getenv("WAKADASH_LOG"); logPath != "" {
		closeLog, logErr := logger.UseFile(logPath)
		if logErr != nil {
			return fmt.Errorf("failed to open log file: %w", logErr)
		}
		defer func() { _ = closeLog() }()
	}

	// 2. Initialize the service manager. This starts the background
	// refresh loop and the profiles file watcher.
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 3. Create the root Bubble Tea model
	model := app.NewModel(svcManager)

	// 4. Initialize tabs with shared state and services
	state := model.GetState()
	tabs := []app.Tab{
		dashboard.New(state),             // Tab 0: per-profile coding stats
		history.New(state, svcManager),   // Tab 1: recorded local history
		info.New(state, cfg, svcManager), // Tab 2: configuration and diagnostics
	}
	model.SetTabs(tabs)

	// 5. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`WakaDash - Multi-profile WakaTime stats monitor

Usage:
  wakadash [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-3             Switch between tabs (Dashboard, History, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  t               Toggle history time range
  d               Run a diagnostic fetch (Info tab)
  r               Refresh data
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  WAKATIME_API_KEY        API key used for the default user's profiles
  WAKATIME_USERNAME       Default user; seeds a profile when none are tracked
  WAKATIME_API_URL        Override the API base URL
  WAKATIME_RANGE          Default stats range (default: last_7_days)
  ACTUAL_TOTAL_HOURS      Calibrate language splits against a known total
  OVERRIDE_TOTAL_HOURS    Replace the reported total outright
  DATABASE_PATH           SQLite database path
  PROFILES_PATH           Profiles JSON file path
  REFRESH_INTERVAL        Stats polling interval (default: 15m)
  DAILY_GOAL_MINUTES      Daily coding goal shown on the dashboard
  WAKADASH_LOG            Write debug logs to this file

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/wakadash/.env
  - ~/.wakatime/.env`)
}
