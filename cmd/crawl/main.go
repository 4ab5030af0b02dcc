package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blackmichael/redproxy/internal/domain"
	"github.com/blackmichael/redproxy/internal/reddit"
	"github.com/blackmichael/redproxy/internal/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		listing    string
		sort       string
		window     string
		pages      int
		dbPath     string
		upstream   string
		userAgent  string
		frontend   string
		quarantine bool
		reset      bool
		verbose    bool
	)

	flag.StringVar(&listing, "listing", "", "Listing to crawl (e.g. /r/golang or /user/someone/submitted)")
	flag.StringVar(&sort, "sort", "new", "Listing sort order (hot, new, top, rising, controversial)")
	flag.StringVar(&window, "t", "", "Time range for top and controversial listings")
	flag.IntVar(&pages, "pages", 10, "Maximum pages to fetch (0 for no limit)")
	flag.StringVar(&dbPath, "db", envOrDefault("DATABASE_PATH", "redproxy.db"), "SQLite database holding crawl cursors")
	flag.StringVar(&upstream, "upstream", envOrDefault("REDPROXY_UPSTREAM_URL", reddit.DefaultBaseURL), "Upstream API root")
	flag.StringVar(&userAgent, "user-agent", envOrDefault("REDPROXY_USER_AGENT", ""), "User agent sent upstream")
	flag.StringVar(&frontend, "removed-frontend", envOrDefault("REDPROXY_PUSHSHIFT_FRONTEND", domain.DefaultRemovedFrontend), "Mirror linked from removed posts")
	flag.BoolVar(&quarantine, "quarantine", false, "Opt into quarantined and gated communities")
	flag.BoolVar(&reset, "reset", false, "Forget the saved cursor and start from the first page")
	flag.BoolVar(&verbose, "v", false, "Log debug output")
	flag.Parse()

	if listing == "" {
		return fmt.Errorf("--listing is required")
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	// stdout carries the posts, so logs go to stderr
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	repo, err := sqlite.NewRepository(dbPath)
	if err != nil {
		return fmt.Errorf("create repository: %w", err)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := domain.ListingParams{Sort: sort, T: window}.Path(listing)
	if reset {
		if err := repo.DeleteCursor(ctx, path); err != nil {
			return fmt.Errorf("reset cursor: %w", err)
		}
	}

	client := reddit.NewClient(upstream, userAgent, 30*time.Second)
	service := domain.NewListingService(client, repo, logger, domain.ServiceConfig{
		Parse: domain.ParseOptions{RemovedFrontend: frontend},
	})

	enc := json.NewEncoder(os.Stdout)
	total := 0
	fetched, err := service.Crawl(ctx, path, quarantine, pages, func(posts []domain.Post) error {
		for _, p := range posts {
			if err := enc.Encode(p); err != nil {
				return fmt.Errorf("write post: %w", err)
			}
		}
		total += len(posts)
		return nil
	})
	if err != nil {
		return fmt.Errorf("crawl %s: %w", path, err)
	}

	logger.Info("crawl finished", "listing", path, "pages", fetched, "posts", total)
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
