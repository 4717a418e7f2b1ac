package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/flowtag/flowtag/internal/cache"
	"github.com/flowtag/flowtag/internal/corrections"
)

// runCache handles "cache stats" and "cache clear [service]".
func (a *app) runCache(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("cache: expected 'stats' or 'clear'")
	}

	if err := a.openDB(); err != nil {
		return err
	}
	defer a.closeDB()

	store := cache.NewStore(a.db, a.logger)
	ctx := context.Background()

	switch args[0] {
	case "stats":
		stats, err := store.Stats(ctx)
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}
		if len(stats) == 0 {
			fmt.Println("cache is empty")
			return nil
		}

		services := make([]string, 0, len(stats))
		for s := range stats {
			services = append(services, s)
		}
		sort.Strings(services)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tENTRIES\tBYTES")
		for _, s := range services {
			fmt.Fprintf(w, "%s\t%d\t%d\n", s, stats[s].Entries, stats[s].Bytes)
		}
		return w.Flush()

	case "clear":
		service := ""
		if len(args) > 1 {
			service = args[1]
		}
		if err := store.Clear(ctx, service); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		if service == "" {
			fmt.Println("cache cleared")
		} else {
			fmt.Printf("cache cleared for service %s\n", service)
		}
		return nil

	default:
		return fmt.Errorf("cache: unknown subcommand %q", args[0])
	}
}

// runStats prints the correction-store summary.
func (a *app) runStats(_ []string) error {
	store := corrections.NewStore(a.cfg.Corrections.Path, a.logger)
	stats := store.Statistics()

	fmt.Printf("corrections: %d (%d verified)\n", stats.Total, stats.Verified)
	fmt.Printf("known artists: %d\n", stats.KnownArtists)
	if stats.TopGenre != "" {
		fmt.Printf("top genre: %s\n", stats.TopGenre)
	}
	if len(stats.Genres) > 0 {
		genres := make([]string, 0, len(stats.Genres))
		for g := range stats.Genres {
			genres = append(genres, g)
		}
		sort.Strings(genres)
		for _, g := range genres {
			fmt.Printf("  %-20s %d\n", g, stats.Genres[g])
		}
	}
	return nil
}
