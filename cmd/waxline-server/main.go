// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/soramae/waxline/internal/api/rest"
	"github.com/soramae/waxline/internal/api/ws"
	"github.com/soramae/waxline/internal/app/broadcast"
	"github.com/soramae/waxline/internal/app/connection"
	"github.com/soramae/waxline/internal/app/mutation"
	"github.com/soramae/waxline/internal/app/store"
	"github.com/soramae/waxline/internal/infra/catalog"
	"github.com/soramae/waxline/internal/infra/config"
	"github.com/soramae/waxline/internal/infra/logger"
	"github.com/soramae/waxline/internal/infra/persist"
	"github.com/soramae/waxline/internal/infra/sqlite"
)

var (
	app        = kingpin.New("waxline-server", "waxline collaborative playlist server")
	configPath = app.Flag("config", "Path to config file").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
)

func init() {
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{Output: "stdout", Level: "info"}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		zlog.Info().Msgf("Loading config from %s", *configPath)
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}
	if *logfile == "" && !*verbose && cfg.Log.Level != "" {
		loggerConfig.Level = cfg.Log.Level
		loggerConfig.Output = cfg.Log.Output
		if err := logger.Init(loggerConfig); err != nil {
			zlog.Fatal().Msgf("Failed to reinitialize logger: %v", err)
		}
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx := context.Background()

	sqliteCfg, err := cfg.SQLite()
	if err != nil {
		return fmt.Errorf("invalid storage config: %w", err)
	}

	db, err := sqlite.Open(sqliteCfg.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := sqlite.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	library := catalog.New(db)
	if err := library.EnsureSeed(ctx); err != nil {
		return fmt.Errorf("failed to seed track library: %w", err)
	}

	items := persist.New(db)
	seed, err := items.LoadItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load playlist: %w", err)
	}
	zlog.Info().Msgf("Loaded %d playlist items from %s", len(seed), sqliteCfg.Path)

	broadcaster := broadcast.New()
	defer broadcaster.Close()

	conns := connection.NewManager(
		cfg.WebSocket.ProbeInterval(),
		cfg.WebSocket.HeartbeatInterval(),
		broadcaster,
		func(id string) { broadcaster.Unsubscribe(id) },
	)
	conns.Start()
	defer conns.Stop()

	playlistStore := store.New(items, seed)
	mutations := mutation.NewService(playlistStore, library, broadcaster)

	wsHandler := ws.NewHandler(broadcaster, conns, cfg.WebSocket)
	api := rest.NewServer(mutations, library, wsHandler)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.Router(),
	}

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}
