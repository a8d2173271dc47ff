package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dkellner/heapkit/cmd/heapexplorer/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Parse flags first (before positional args)
	args := os.Args[1:]
	debugMode := false

	// Extract --debug/-d flag
	filteredArgs := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "--debug" || arg == "-d" {
			debugMode = true
		} else {
			filteredArgs = append(filteredArgs, arg)
		}
	}

	// Initialize logger (must be before any logging calls)
	if err := logger.Init(logger.Options{
		Enabled: debugMode,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}

	if len(filteredArgs) < 1 {
		printUsage()
		os.Exit(1)
	}

	if filteredArgs[0] == "--help" || filteredArgs[0] == "-h" {
		printHelp()
		os.Exit(0)
	}

	if filteredArgs[0] == "--version" || filteredArgs[0] == "-v" {
		fmt.Printf("heapexplorer %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		os.Exit(0)
	}

	tracePath := filteredArgs[0]
	logger.Info("starting heapexplorer", "path", tracePath, "debug", debugMode)

	// Check if file exists
	if _, err := os.Stat(tracePath); err != nil {
		logger.Error("trace file not found", "path", tracePath, "error", err)
		fmt.Fprintf(os.Stderr, "Error: trace file not found: %s\n", tracePath)
		os.Exit(1)
	}

	m, err := NewModel(tracePath)
	if err != nil {
		logger.Error("failed to load trace", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	// Clean up resources
	if model, ok := finalModel.(Model); ok {
		if err := model.Close(); err != nil {
			logger.Warn("error closing resources", "error", err)
		}
	}

	logger.Info("heapexplorer exited normally")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: heapexplorer [options] <trace-file>\n")
	fmt.Fprintf(os.Stderr, "Try 'heapexplorer --help' for more information.\n")
}

func printHelp() {
	fmt.Println("heapexplorer - Interactive TUI for stepping through allocation traces")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  heapexplorer [options] <trace-file>")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Replays an allocation trace one operation at a time against a fresh")
	fmt.Println("  heap and visualizes the block map as it evolves.")
	fmt.Println()
	fmt.Println("  Features:")
	fmt.Println("    - Step forward and backward through the trace")
	fmt.Println("    - Live block map (address, size, allocated/free)")
	fmt.Println("    - Allocator statistics and utilization")
	fmt.Println("    - On-demand heap consistency check")
	fmt.Println()
	fmt.Println("  Navigation:")
	fmt.Println("    →/l, Space  Execute next operation")
	fmt.Println("    ←/h         Step back one operation")
	fmt.Println("    ↑/k, ↓/j    Scroll the block map")
	fmt.Println("    g / G       Jump to start / end of the trace")
	fmt.Println("    c           Run a heap consistency check")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -d, --debug    Enable debug logging to ~/.heapexplorer/logs/")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  -v, --version  Show version information")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  heapexplorer churn.rep")
	fmt.Println()
	fmt.Println("For non-interactive replays, use the 'heapctl' command instead.")
}
