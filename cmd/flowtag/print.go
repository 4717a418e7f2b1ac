package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/flowtag/flowtag/internal/analyzer"
)

func printJSON(results []analyzer.BatchResult) error {
	type entry struct {
		Artist string `json:"artist"`
		Title  string `json:"title"`
		*jsonAnalysis
		Skipped bool `json:"skipped,omitempty"`
	}
	out := make([]entry, 0, len(results))
	for _, r := range results {
		e := entry{Artist: r.Hint.Artist, Title: r.Hint.Title}
		if r.Analysis == nil {
			e.Skipped = true
		} else {
			e.jsonAnalysis = &jsonAnalysis{
				Album:      r.Analysis.Album,
				Year:       r.Analysis.Year,
				Genre:      r.Analysis.Genre,
				Key:        r.Analysis.Key,
				BPM:        r.Analysis.BPM,
				Energy:     r.Analysis.Energy,
				Comment:    r.Analysis.Comment(),
				Grouping:   r.Analysis.GroupingField(),
				Label:      r.Analysis.Label,
				Confidence: r.Analysis.Confidence,
				Source:     r.Analysis.Source,
			}
			e.Artist = r.Analysis.Artist
			e.Title = r.Analysis.Title
		}
		out = append(out, e)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// jsonAnalysis is the flat external form, tag fields pre-rendered in
// their writing notation.
type jsonAnalysis struct {
	Album      string  `json:"album,omitempty"`
	Year       string  `json:"year,omitempty"`
	Genre      string  `json:"genre,omitempty"`
	Key        string  `json:"key,omitempty"`
	BPM        string  `json:"bpm,omitempty"`
	Energy     int     `json:"energy"`
	Comment    string  `json:"comment"`
	Grouping   string  `json:"grouping"`
	Label      string  `json:"label,omitempty"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

func printText(results []analyzer.BatchResult) {
	for _, r := range results {
		if r.Analysis == nil {
			fmt.Printf("-- %s - %s: skipped (cancelled)\n", r.Hint.Artist, r.Hint.Title)
			continue
		}
		an := r.Analysis
		fmt.Printf("%s - %s\n", an.Artist, an.Title)
		if an.Genre != "" {
			fmt.Printf("  genre:      %s\n", an.Genre)
		}
		if an.Year != "" {
			fmt.Printf("  year:       %s\n", an.Year)
		}
		if an.BPM != "" || an.Key != "" {
			fmt.Printf("  bpm/key:    %s %s\n", an.BPM, an.Key)
		}
		fmt.Printf("  energy:     %d/10\n", an.Energy)
		fmt.Printf("  comment:    %s\n", an.Comment())
		fmt.Printf("  grouping:   %s\n", an.GroupingField())
		if an.Label != "" {
			fmt.Printf("  label:      %s\n", an.Label)
		}
		fmt.Printf("  confidence: %.2f (%s)\n", an.Confidence, an.Source)
	}
}
