package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	spot "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/flowtag/flowtag/internal/analyzer"
	"github.com/flowtag/flowtag/internal/cache"
	"github.com/flowtag/flowtag/internal/config"
	"github.com/flowtag/flowtag/internal/corrections"
	"github.com/flowtag/flowtag/internal/database"
	"github.com/flowtag/flowtag/internal/logging"
	"github.com/flowtag/flowtag/internal/rules"
	"github.com/flowtag/flowtag/internal/source"
	"github.com/flowtag/flowtag/internal/source/discogs"
	"github.com/flowtag/flowtag/internal/source/gemini"
	"github.com/flowtag/flowtag/internal/source/spotify"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `flowtag - DJ track metadata analyzer

Usage:
  flowtag analyze [-workers N] [-json] [-verbose] <files or dirs...>
  flowtag correct -artist A -title T [fields...]
  flowtag suggest -genre G -energy N
  flowtag cache stats
  flowtag cache clear [service]
  flowtag stats
  flowtag version
`)
}

// app bundles the long-lived services the subcommands share.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	logManager *logging.Manager
	db         *sql.DB
}

func run(cmd string, args []string) error {
	if cmd == "version" {
		fmt.Println("flowtag " + version)
		return nil
	}

	// Credentials commonly live in a .env next to the binary.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("FT_CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logManager, logger := logging.NewManager(logging.Config{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.Logging.Path,
	})
	defer logManager.Close() //nolint:errcheck
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger, logManager: logManager}

	switch cmd {
	case "analyze":
		return a.runAnalyze(args)
	case "correct":
		return a.runCorrect(args)
	case "suggest":
		return a.runSuggest(args)
	case "cache":
		return a.runCache(args)
	case "stats":
		return a.runStats(args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// openDB opens the cache database and applies migrations.
func (a *app) openDB() error {
	db, err := database.Open(a.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close() //nolint:errcheck
		return fmt.Errorf("running migrations: %w", err)
	}
	a.db = db
	return nil
}

func (a *app) closeDB() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("closing database", slog.String("error", err.Error()))
	}
}

// buildOrchestrator wires the connector registry and stores into an
// analysis orchestrator. Sources without credentials are skipped with
// a warning; the pipeline degrades rather than failing.
func (a *app) buildOrchestrator(ctx context.Context) (*analyzer.Orchestrator, error) {
	if err := a.openDB(); err != nil {
		return nil, err
	}

	cacheStore := cache.NewStore(a.db, a.logger)
	corrStore := corrections.NewStore(a.cfg.Corrections.Path, a.logger)

	limiters := source.NewRateLimiterMap()
	registry := source.NewRegistry()

	if id, secret := a.cfg.Sources.SpotifyClientID, a.cfg.Sources.SpotifyClientSecret; id != "" && secret != "" {
		creds := &clientcredentials.Config{
			ClientID:     id,
			ClientSecret: secret,
			TokenURL:     spotifyauth.TokenURL,
		}
		client := spot.New(creds.Client(ctx))
		registry.Register(spotify.New(client, limiters, a.logger))
	} else {
		a.logger.Warn("spotify credentials missing, source disabled")
	}

	if token := a.cfg.Sources.DiscogsToken; token != "" {
		registry.Register(discogs.New(token, limiters, a.logger))
	} else {
		a.logger.Warn("discogs token missing, source disabled")
	}

	if key := a.cfg.Sources.GeminiAPIKey; key != "" {
		registry.Register(gemini.New(key, limiters, a.logger))
	} else {
		a.logger.Warn("gemini api key missing, source disabled")
	}

	timeout := time.Duration(a.cfg.Analysis.SourceTimeout) * time.Second
	orch := analyzer.New(registry, corrStore, cacheStore, rules.NewEngine(), a.logger,
		analyzer.WithSourceTimeout(timeout))
	return orch, nil
}
