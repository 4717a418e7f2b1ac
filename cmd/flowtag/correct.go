package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/flowtag/flowtag/internal/corrections"
)

// runCorrect records a user-verified analysis for one track. The next
// analyze of the same pair returns it verbatim.
func (a *app) runCorrect(args []string) error {
	flags := flag.NewFlagSet("correct", flag.ExitOnError)
	artist := flags.String("artist", "", "track artist (required)")
	title := flags.String("title", "", "track title (required)")
	genre := flags.String("genre", "", "corrected genre")
	contexts := flags.String("contexts", "", "comma-separated contexts")
	moments := flags.String("moments", "", "comma-separated moments")
	styles := flags.String("styles", "", "comma-separated styles")
	bpm := flags.String("bpm", "", "corrected BPM")
	key := flags.String("key", "", "corrected key (Camelot)")
	energy := flags.Int("energy", 0, "corrected energy (1-10)")
	year := flags.String("year", "", "corrected year")
	album := flags.String("album", "", "corrected album")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *artist == "" || *title == "" {
		return fmt.Errorf("correct: -artist and -title are required")
	}
	if *energy < 0 || *energy > 10 {
		return fmt.Errorf("correct: energy must be 1-10")
	}

	store := corrections.NewStore(a.cfg.Corrections.Path, a.logger)
	rec := corrections.Record{
		Artist:   *artist,
		Title:    *title,
		Genre:    *genre,
		Contexts: splitList(*contexts),
		Moments:  splitList(*moments),
		Styles:   splitList(*styles),
		BPM:      *bpm,
		Key:      *key,
		Energy:   *energy,
		Year:     *year,
		Album:    *album,
	}
	if err := store.Save(*artist, *title, rec); err != nil {
		return fmt.Errorf("saving correction: %w", err)
	}

	fmt.Printf("correction saved for %s - %s\n", *artist, *title)
	return nil
}

// runSuggest prints verified corrections similar to a genre/energy
// pair, for pre-filling a correction.
func (a *app) runSuggest(args []string) error {
	flags := flag.NewFlagSet("suggest", flag.ExitOnError)
	genre := flags.String("genre", "", "genre to match (required)")
	energy := flags.Int("energy", 5, "energy to match (1-10)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *genre == "" {
		return fmt.Errorf("suggest: -genre is required")
	}

	store := corrections.NewStore(a.cfg.Corrections.Path, a.logger)
	similar := store.GetSimilar(*genre, *energy)
	if len(similar) == 0 {
		fmt.Println("no similar corrections")
		return nil
	}
	for _, rec := range similar {
		fmt.Printf("%s - %s  genre=%s energy=%d contexts=%s\n",
			rec.Artist, rec.Title, rec.Genre, rec.Energy,
			strings.Join(rec.Contexts, ","))
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
