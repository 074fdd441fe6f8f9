/*
Copyright © 2025 DerithAI
*/
package cmd

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DerithAI/WOLF-AI/internal/logger"
	"github.com/DerithAI/WOLF-AI/internal/server"
)

var (
	serveHost string
	servePort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pack command center API",
	Long: `Run the HTTP API for the pack: hunt queueing and inspection, pack
status and the howl bridge. Every request must carry the API key in
the X-API-Key header.

Hunts queued over the API are picked up by a separately running
'wolfai daemon' watching the same den.

Examples:
  wolfai serve
  wolfai serve -p 9000
  WOLF_API_KEY=... wolfai serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "Bind address (default from config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "API port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := GetConfig()

	logger.SetBasePath(config.Den.LogsDir)
	logger.SetVersion(version)
	logger.SetCommand("serve")
	defer logger.HandlePanic()

	host := config.API.Host
	if serveHost != "" {
		host = serveHost
	}
	port := config.API.Port
	if servePort > 0 {
		port = servePort
	}

	// Generate a key when none is configured, and show it once so it
	// can be saved. Requests without it get a 401.
	apiKey := config.API.Key
	if apiKey == "" {
		var err error
		apiKey, err = generateAPIKey()
		if err != nil {
			return fmt.Errorf("failed to generate API key: %w", err)
		}
		fmt.Printf("\n%s\n", strings.Repeat("=", 60))
		fmt.Println("[!] GENERATED API KEY (save this to .env):")
		fmt.Printf("    WOLF_API_KEY=%s\n", apiKey)
		fmt.Printf("%s\n\n", strings.Repeat("=", 60))
	}

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

	runner := newRunner(huntStore, bridge)

	srv, err := server.New(server.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		Debug:  viper.GetBool("verbose"),
	}, huntStore, bridge, p, runner)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	fmt.Println(`
    ╔═══════════════════════════════════════════════════════════╗
    ║                                                           ║
    ║   🐺 WOLF-AI Command Center                               ║
    ║   ═══════════════════════════════════════                 ║
    ║                                                           ║
    ╚═══════════════════════════════════════════════════════════╝`)
	fmt.Printf("[*] Starting API server on %s...\n", srv.Addr())

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		fmt.Printf("\n\n⏹️  Received %v, shutting down...\n", sig)
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	if err := srv.Stop(); err != nil {
		fmt.Printf("   ⚠️  Server shutdown error: %v\n", err)
	}
	fmt.Println("✅ Command center stopped")
	return nil
}

// generateAPIKey returns a 32-byte random key, URL-safe base64 encoded.
func generateAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
