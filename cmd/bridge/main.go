package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tillbridge/tillbridge/internal/bridge"
	"github.com/tillbridge/tillbridge/internal/command"
	"github.com/tillbridge/tillbridge/internal/config"
	"github.com/tillbridge/tillbridge/internal/escpos"
	"github.com/tillbridge/tillbridge/internal/payment"
	"github.com/tillbridge/tillbridge/internal/printer"
	"github.com/tillbridge/tillbridge/internal/tui"
	"github.com/tillbridge/tillbridge/internal/update"
)

// Version is set during build via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Printer stack
	transport := printer.NewRFCOMMTransport()
	conn := printer.NewManager(transport)
	formatter := escpos.NewFormatter(cfg.HasPaperCutter())
	pipeline := printer.NewPipeline(conn, formatter)
	defer pipeline.Stop()
	defer conn.Disconnect()

	// Payments
	provider := payment.NewHTTPProvider(cfg.PaymentChargeURL())
	payments := payment.NewManager(provider)

	// Operator console
	executor := command.NewExecutor(conn, pipeline, cfg)
	console := tui.NewApp(conn, executor, cfg)
	log.SetOutput(io.MultiWriter(os.Stderr, console.LogWriter()))

	// Reconnect to the saved printer without blocking startup
	if savedAddr, savedName := cfg.SavedPrinter(); savedAddr != "" {
		go func() {
			if err := conn.Connect(savedAddr); err != nil {
				log.Printf("Saved printer %s unavailable: %v", savedName, err)
				return
			}
			log.Printf("🖨️  Reconnected to %s", savedName)
		}()
	}

	// Update check, once at startup
	if feedURL := cfg.UpdateFeedURL(); feedURL != "" {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			checker := update.NewChecker(feedURL, Version)
			release, err := checker.Check(ctx)
			if err != nil {
				log.Printf("Update check failed: %v", err)
				return
			}
			if release != nil {
				log.Printf("⬆️  Update available: %s", release.Version)
			}
		}()
	}

	// Bridge API server
	server := bridge.NewServer(conn, pipeline, payments, cfg)
	serverErrChan := make(chan error, 1)
	go func() {
		console.AddLog(fmt.Sprintf("🚀 Bridge API on %s", cfg.ListenAddr()), "info")
		if err := server.Run(cfg.ListenAddr()); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	tuiDone := make(chan struct{})
	go func() {
		if err := console.Run(); err != nil {
			log.Printf("Console error: %v", err)
		}
		close(tuiDone)
	}()

	select {
	case err := <-serverErrChan:
		console.Stop()
		log.Fatalf("Server error: %v", err)
	case <-sigChan:
		console.Stop()
	case <-tuiDone:
	}

	pipeline.Stop()
	conn.Disconnect()
}

// getConfigPath places the settings file next to the executable when
// that directory is writable, falling back to the working directory
// and then the user config directory
func getConfigPath() string {
	const name = "tillbridge.yaml"

	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		testFile := filepath.Join(exeDir, ".tillbridge-write-test")
		if f, err := os.Create(testFile); err == nil {
			f.Close()
			os.Remove(testFile)
			return filepath.Join(exeDir, name)
		}
	}

	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, name)
	}

	if home := os.Getenv("HOME"); home != "" {
		dir := filepath.Join(home, ".config", "tillbridge")
		os.MkdirAll(dir, 0o755)
		return filepath.Join(dir, name)
	}

	return name
}
