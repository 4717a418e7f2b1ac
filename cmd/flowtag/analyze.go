package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/flowtag/flowtag/internal/tags"
	"github.com/flowtag/flowtag/internal/trackfile"
)

// runAnalyze is the batch entry point: collect hints from the
// arguments, run the pool, print results.
func (a *app) runAnalyze(args []string) error {
	flags := flag.NewFlagSet("analyze", flag.ExitOnError)
	workers := flags.Int("workers", a.cfg.Analysis.Workers, "concurrent analysis workers")
	asJSON := flags.Bool("json", false, "print results as JSON")
	verbose := flags.Bool("verbose", false, "enable debug logging")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return fmt.Errorf("analyze: no files given")
	}
	if *verbose {
		a.logManager.SetLevel("debug")
	}

	hints, err := collectHints(flags.Args())
	if err != nil {
		return err
	}
	if len(hints) == 0 {
		return fmt.Errorf("analyze: no audio files found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch, err := a.buildOrchestrator(ctx)
	if err != nil {
		return err
	}
	defer a.closeDB()

	results := orch.AnalyzeBatch(ctx, hints, *workers)

	if *asJSON {
		return printJSON(results)
	}
	printText(results)

	stats := orch.Stats()
	a.logger.Info("batch finished",
		slog.Int64("analyzed", stats.Analyzed),
		slog.Int64("cache_hits", stats.CacheHits),
		slog.Int64("correction_hits", stats.CorrectionHits),
		slog.Int64("fallbacks", stats.Fallbacks),
		slog.Int64("source_errors", stats.SourceErrors))
	return nil
}

// collectHints expands the arguments into track hints. Directories are
// walked for audio files; a non-file argument is treated as a literal
// "Artist - Title" string.
func collectHints(args []string) ([]tags.TrackHint, error) {
	var hints []tags.TrackHint
	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			walked, err := walkAudioFiles(arg)
			if err != nil {
				return nil, err
			}
			hints = append(hints, walked...)
		case err == nil:
			hint, err := trackfile.ReadHint(arg)
			if err != nil {
				return nil, err
			}
			hints = append(hints, hint)
		default:
			hints = append(hints, literalHint(arg))
		}
	}
	return hints, nil
}

func walkAudioFiles(root string) ([]tags.TrackHint, error) {
	var hints []tags.TrackHint
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !trackfile.IsAudioFile(path) {
			return nil
		}
		hint, err := trackfile.ReadHint(path)
		if err != nil {
			// A broken file should not sink the batch.
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			return nil
		}
		hints = append(hints, hint)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return hints, nil
}

func literalHint(arg string) tags.TrackHint {
	if artist, title, found := strings.Cut(arg, " - "); found {
		return tags.TrackHint{
			Artist: strings.TrimSpace(artist),
			Title:  strings.TrimSpace(title),
		}
	}
	return tags.TrackHint{Title: strings.TrimSpace(arg)}
}
