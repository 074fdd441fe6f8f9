/*
Copyright © 2025 DerithAI
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/DerithAI/WOLF-AI/internal/howl"
	"github.com/DerithAI/WOLF-AI/internal/hunt"
	"github.com/DerithAI/WOLF-AI/internal/logger"
)

var (
	daemonInterval time.Duration
	daemonGrace    time.Duration
)

// daemonCmd represents the daemon command
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the hunt daemon in the foreground",
	Long: `Run the background hunt processor. Every tick it picks the highest
priority pending hunt (oldest first within a priority) and runs it
through retries to a terminal state.

Stop with Ctrl+C. An in-flight hunt gets a bounded grace period to
finish before the daemon gives up waiting.

Examples:
  wolfai daemon                    # Tick at the configured interval
  wolfai daemon --interval 500ms   # Tick faster
  wolfai daemon --grace 30s        # Wait longer on shutdown`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.Flags().DurationVar(&daemonInterval, "interval", 0, "Scheduler pass interval (default from config)")
	daemonCmd.Flags().DurationVar(&daemonGrace, "grace", 0, "Shutdown grace period for an in-flight hunt (default from config)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	config := GetConfig()

	logger.SetBasePath(config.Den.LogsDir)
	logger.SetVersion(version)
	logger.SetCommand("daemon")
	defer logger.HandlePanic()

	bridge, err := GetBridge()
	if err != nil {
		return err
	}
	p, err := GetPack(bridge)
	if err != nil {
		return err
	}
	huntStore, err := GetStore(p)
	if err != nil {
		return fmt.Errorf("failed to get store: %w", err)
	}
	defer func() { _ = huntStore.Close() }()

	interval := config.Daemon.Interval()
	if daemonInterval > 0 {
		interval = daemonInterval
	}
	grace := config.Daemon.Grace()
	if daemonGrace > 0 {
		grace = daemonGrace
	}

	exec := hunt.NewExecutor(huntStore, bridge)
	d := hunt.NewDaemon(huntStore, exec, interval, grace)

	// Print banner
	fmt.Println()
	fmt.Println("🐺 WOLF-AI Daemon Starting...")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("📁 Den: %s\n", config.Den.RootDir)
	fmt.Printf("⏱️  Interval: %s | Grace: %s\n", interval, grace)
	fmt.Println()

	d.Start()
	_, _ = bridge.Send(howl.Howl{
		From:      "system",
		To:        "pack",
		Message:   "Hunt daemon started. The pack is hunting.",
		Frequency: howl.FreqHigh,
	})

	fmt.Println("✅ The pack is hunting! Press Ctrl+C to stop")
	fmt.Println()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	fmt.Printf("\n\n⏹️  Received %v, shutting down...\n", sig)

	clean := d.Stop()
	_, _ = bridge.Send(howl.Howl{
		From:      "system",
		To:        "pack",
		Message:   "Hunt daemon shutting down.",
		Frequency: howl.FreqMedium,
	})

	if clean {
		fmt.Println("✅ Daemon stopped")
	} else {
		fmt.Println("⚠️  Grace period expired, a hunt is still in flight")
	}
	return nil
}
