package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/photo-shortcode/internal/config"
	"github.com/kozaktomas/photo-shortcode/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the companion service for the browser extension",
	Long: `Start the photo-shortcode HTTP service.
The browser extension attaches album pages, relays context menu clicks and
receives clipboard text and toasts over a per-tab event stream.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (default WEB_PORT or 8765)")
	serveCmd.Flags().String("host", "", "Host to bind to (default WEB_HOST or 127.0.0.1)")
	serveCmd.Flags().Bool("no-host-clipboard", false, "Only deliver copied text to the extension")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if port := mustGetInt(cmd, "port"); port != 0 {
		cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Web.Host = host
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openSettingsStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	fmt.Printf("Using %s settings backend\n", cfg.Settings.Backend)

	notifier, err := newNotifier(cfg, os.Stdout)
	if err != nil {
		return err
	}

	host := hostClipboard()
	if mustGetBool(cmd, "no-host-clipboard") {
		host = nil
	}
	if host == nil {
		fmt.Println("Host clipboard disabled, copied text goes to the extension only")
	}

	server := web.NewServer(cfg, store, host, notifier)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting photo-shortcode on http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
