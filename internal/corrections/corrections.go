// Package corrections persists user-verified metadata records and the
// static known-artist table. Corrections override automated analysis
// for one specific (artist, title) pair and feed the learning loop.
package corrections

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/flowtag/flowtag/internal/genre"
	"github.com/flowtag/flowtag/internal/tags"
)

// Record is one user-verified correction, keyed by the normalized
// "artist::title" pair.
type Record struct {
	Artist          string    `json:"artist"`
	Title           string    `json:"title"`
	Genre           string    `json:"genre,omitempty"`
	Contexts        []string  `json:"contexts,omitempty"`
	Moments         []string  `json:"moments,omitempty"`
	Styles          []string  `json:"styles,omitempty"`
	BPM             string    `json:"bpm,omitempty"`
	Key             string    `json:"key,omitempty"`
	Energy          int       `json:"energy,omitempty"`
	Year            string    `json:"year,omitempty"`
	Album           string    `json:"album,omitempty"`
	Verified        bool      `json:"verified"`
	CorrectionCount int       `json:"correction_count"`
	LastUpdated     time.Time `json:"last_updated"`
}

// ArtistInfo is a static known-artist entry: the artist's dominant
// genre and country of origin.
type ArtistInfo struct {
	Genre   string `json:"genre"`
	Country string `json:"country"`
}

// Store holds corrections in memory backed by a single JSON file.
// Reads are lock-free for the static tables and share a RWMutex for
// the record map; writes are serialized and flushed with an atomic
// temp-file rename so a failed write never corrupts the backing file.
type Store struct {
	path    string
	logger  *slog.Logger
	aliases genre.Aliases
	artists map[string]ArtistInfo

	mu      sync.RWMutex
	records map[string]*Record
}

// Stats summarizes the store contents.
type Stats struct {
	Total        int            `json:"total_corrections"`
	Verified     int            `json:"verified"`
	Genres       map[string]int `json:"genres"`
	KnownArtists int            `json:"known_artists"`
	TopGenre     string         `json:"top_genre,omitempty"`
}

// NewStore loads (or initializes) a correction store at path. A missing
// or corrupt file degrades to an empty in-memory store rather than
// failing: losing learned corrections must never block an analysis.
func NewStore(path string, logger *slog.Logger) *Store {
	s := &Store{
		path:    path,
		logger:  logger.With(slog.String("component", "corrections")),
		aliases: genre.DefaultAliases(),
		artists: knownArtists(),
		records: make(map[string]*Record),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("reading corrections file", slog.String("error", err.Error()))
		}
		return s
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		s.logger.Warn("corrupt corrections file, starting empty",
			slog.String("path", path),
			slog.String("error", err.Error()))
		s.records = make(map[string]*Record)
	}
	return s
}

// Get returns the correction for the exact normalized (artist, title)
// key, or nil when none exists. No fuzzy matching.
func (s *Store) Get(artist, title string) *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec := s.records[tags.NormalizeKey(artist, title)]
	if rec == nil {
		return nil
	}
	clone := *rec
	return &clone
}

// Save upserts a correction. The record is marked verified, stamped,
// and its correction count incremented (starting at 1 for a new key).
func (s *Store) Save(artist, title string, rec Record) error {
	key := tags.NormalizeKey(artist, title)

	s.mu.Lock()
	count := 1
	if prev, ok := s.records[key]; ok {
		count = prev.CorrectionCount + 1
	}
	rec.Artist = artist
	rec.Title = title
	rec.Verified = true
	rec.CorrectionCount = count
	rec.LastUpdated = time.Now().UTC()
	s.records[key] = &rec
	err := s.flushLocked()
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("saving correction %q: %w", key, err)
	}
	s.logger.Info("correction saved",
		slog.String("key", key),
		slog.Int("count", count))
	return nil
}

// GetSimilar returns up to five verified records whose normalized genre
// matches exactly and whose energy is within 2 of the given value.
// Used as a soft fallback signal when the pair itself has no correction.
func (s *Store) GetSimilar(g string, energy int) []*Record {
	want := s.aliases.Normalize(g)

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var similar []*Record
	for _, k := range keys {
		rec := s.records[k]
		if !rec.Verified || s.aliases.Normalize(rec.Genre) != want {
			continue
		}
		delta := rec.Energy - energy
		if delta < 0 {
			delta = -delta
		}
		if delta > 2 {
			continue
		}
		clone := *rec
		similar = append(similar, &clone)
		if len(similar) == 5 {
			break
		}
	}
	return similar
}

// NormalizeGenre maps a genre through the alias table.
func (s *Store) NormalizeGenre(g string) string {
	return s.aliases.Normalize(g)
}

// remixMarkers are the title substrings that identify a derivative
// version of another track.
var remixMarkers = []string{
	"remix", "edit", "bootleg", "rework", "vip",
	"extended", "radio edit", "club mix", "dub mix",
	"instrumental", "acapella", "mashup",
}

// LookupRemixOriginal resolves a remix/edit title to the correction
// stored for its base track: the title is cut at the first remix
// marker and the remainder looked up under the same artist. Returns
// nil when the title carries no marker or the base track has no
// correction.
func (s *Store) LookupRemixOriginal(artist, title string) *Record {
	lower := strings.ToLower(title)
	for _, marker := range remixMarkers {
		idx := strings.Index(lower, marker)
		if idx <= 0 {
			continue
		}
		base := strings.TrimSpace(title[:idx])
		if base == "" {
			continue
		}
		// Get normalizes the key, so trailing brackets and dashes in
		// the cut title collapse away.
		if rec := s.Get(artist, base); rec != nil {
			return rec
		}
	}
	return nil
}

// LookupArtist returns the static known-artist entry for the artist,
// or nil when unknown. Matching is exact on the lowercased name.
func (s *Store) LookupArtist(artist string) *ArtistInfo {
	info, ok := s.artists[strings.ToLower(strings.TrimSpace(artist))]
	if !ok {
		return nil
	}
	clone := info
	return &clone
}

// Statistics reports counts over the stored corrections.
func (s *Store) Statistics() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Total:        len(s.records),
		Genres:       make(map[string]int),
		KnownArtists: len(s.artists),
	}
	for _, rec := range s.records {
		if rec.Verified {
			st.Verified++
		}
		g := rec.Genre
		if g == "" {
			g = "Unknown"
		}
		st.Genres[g]++
	}
	best := 0
	for g, n := range st.Genres {
		if n > best || (n == best && g < st.TopGenre) {
			best = n
			st.TopGenre = g
		}
	}
	return st
}

// flushLocked writes the full record map to disk. Caller holds mu.
func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
