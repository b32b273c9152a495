package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/petitionmap/internal/db"
	"github.com/ziadkadry99/petitionmap/internal/server"
	"github.com/ziadkadry99/petitionmap/internal/snapshot"
)

var (
	servePort    int
	serveRefresh time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive petition map over HTTP",
	Long: `Starts the HTTP server with the petition map page, SVG and JSON endpoints,
and a websocket that notifies browsers when petition data is refreshed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		if cmd.Flags().Changed("refresh") {
			cfg.Refresh.Enabled = serveRefresh > 0
			cfg.Refresh.Interval = serveRefresh
		}

		var history *snapshot.History
		if cfg.History.Enabled {
			database, err := db.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("opening history database: %w", err)
			}
			defer database.Close()
			history = snapshot.NewHistory(database)
		}

		store := newStore(cfg)
		srv := server.New(server.Config{
			Port:            cfg.Server.Port,
			AllowAll:        cfg.Server.AllowAllOrigins,
			DefaultPetition: cfg.DefaultPetition,
			Viewport:        viewport(cfg),
			Ranking:         rankingOptions(cfg),
		}, store, history)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Warm the default petition so the first page view is fast. A failure
		// here is not fatal; the page shows the error until the fetch succeeds.
		if _, err := store.Load(ctx, cfg.DefaultPetition); err != nil {
			slog.Warn("initial petition load failed", "petition", cfg.DefaultPetition, "error", err)
		}

		if cfg.Refresh.Enabled {
			go server.NewRefresher(store, cfg.Refresh.Interval).Run(ctx)
		}

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "petitionmap server %s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Geometry: %s\n", cfg.GeometryPath)
		fmt.Fprintf(os.Stderr, "  Default petition: %s\n", cfg.DefaultPetition)
		if cfg.Refresh.Enabled {
			fmt.Fprintf(os.Stderr, "  Refresh: every %s\n", cfg.Refresh.Interval)
		}
		if history != nil {
			fmt.Fprintf(os.Stderr, "  History: %s\n", cfg.History.Path)
		}

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides server.port)")
	serveCmd.Flags().DurationVar(&serveRefresh, "refresh", 0, "Refresh interval, 0 disables (overrides refresh.interval)")
	rootCmd.AddCommand(serveCmd)
}
