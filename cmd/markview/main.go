package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"markview/internal/config"
	"markview/internal/discovery"
	"markview/internal/eventbus"
	"markview/internal/ui"
	"markview/internal/watcher"
)

func main() {
	// Parse command line arguments
	var targetDir string
	flag.StringVar(&targetDir, "dir", "", "Directory to scan for markdown documents")
	flag.StringVar(&targetDir, "d", "", "Directory to scan for markdown documents (shorthand)")
	flag.Parse()

	// If no directory specified, check for remaining args
	if targetDir == "" && flag.NArg() > 0 {
		targetDir = flag.Arg(0)
	}

	// If still no directory, use current directory
	if targetDir == "" {
		var err error
		targetDir, err = os.Getwd()
		if err != nil {
			fmt.Printf("Error getting current directory: %v\n", err)
			os.Exit(1)
		}
	}

	// Resolve to absolute path
	absDir, err := filepath.Abs(targetDir)
	if err != nil {
		fmt.Printf("Error resolving path: %v\n", err)
		os.Exit(1)
	}

	// Set up logging
	logFile, err := os.OpenFile("markview.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	// Load configuration
	configSvc := config.NewServiceWithBus(bus)
	cfg, err := configSvc.Load()
	if err != nil {
		log.Printf("Error loading config: %v", err)
		cfg = config.DefaultConfig()
	}
	cfg.BaseDir = absDir

	// Initialize services
	discoverySvc := discovery.NewService(bus, cfg.IncludePatterns, cfg.UISettings.ShowHidden)
	watchSvc := watcher.NewService(bus, time.Duration(cfg.DebounceMS)*time.Millisecond)
	defer watchSvc.Stop()

	// Forward bus events to the UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			// Channel full, drop event
			log.Println("Event channel full, dropping event")
		}
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventScanStarted,
		eventbus.EventFilesDiscoveredBatch,
		eventbus.EventScanCompleted,
		eventbus.EventFileChanged,
		eventbus.EventFileRemoved,
		eventbus.EventWatchError,
		eventbus.EventError,
	} {
		bus.Subscribe(t, forward)
	}

	// Create UI model and program
	uiModel := ui.NewModel(bus, cfg, absDir, eventChan, watchSvc)
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithMouseCellMotion())
	uiModel.SetProgram(p)

	// Kick off the initial scan
	if err := discoverySvc.StartScan(ctx, absDir); err != nil {
		log.Printf("Initial scan failed to start: %v", err)
	}

	// Stop the program when the context is cancelled
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	discoverySvc.StopScan()

	// Persist configuration for the next run
	if err := configSvc.Save(cfg); err != nil {
		log.Printf("Error saving config: %v", err)
	}
}
