// Package tags defines the shared data model for DJ track analysis:
// the immutable input hint, per-source candidate metadata, and the
// final fused record with its bounded tag sets.
package tags

import (
	"strings"
)

// TrackHint is the immutable input to an analysis, extracted upstream
// from file tags or the filename. Any field may be empty.
type TrackHint struct {
	Artist  string `json:"artist"`
	Title   string `json:"title"`
	Album   string `json:"album,omitempty"`
	Year    string `json:"year,omitempty"`
	Genre   string `json:"genre,omitempty"`
	BPM     string `json:"bpm,omitempty"`
	Key     string `json:"key,omitempty"`
	Artwork []byte `json:"artwork,omitempty"`
}

// CandidateMetadata is one source's view of a track. Absent fields stay
// at their zero value; numeric audio features use pointers so a source
// can distinguish "not reported" from zero.
type CandidateMetadata struct {
	Source   string `json:"source"`
	Artist   string `json:"artist,omitempty"`
	Title    string `json:"title,omitempty"`
	Album    string `json:"album,omitempty"`
	Year     string `json:"year,omitempty"`
	Genre    string `json:"genre,omitempty"`
	BPM      string `json:"bpm,omitempty"`
	Key      string `json:"key,omitempty"`
	Subgenre string `json:"subgenre,omitempty"`

	Contexts []string `json:"contexts,omitempty"`
	Moments  []string `json:"moments,omitempty"`
	Styles   []string `json:"styles,omitempty"`

	// Audio features, 0..1 except Tempo (BPM) and Popularity (0..100).
	Energy       *float64 `json:"energy,omitempty"`
	Danceability *float64 `json:"danceability,omitempty"`
	Valence      *float64 `json:"valence,omitempty"`
	Tempo        *float64 `json:"tempo,omitempty"`
	Popularity   *int     `json:"popularity,omitempty"`

	// Raw key index (0-11) and mode (0 minor, 1 major) as reported by
	// the primary catalog, converted to Camelot notation during fusion.
	KeyIndex *int `json:"key_index,omitempty"`
	Mode     *int `json:"mode,omitempty"`

	// EnergyLevel is a source-supplied 1-10 rating (AI connector).
	EnergyLevel *int `json:"energy_level,omitempty"`

	SampleInfo string `json:"sample_info,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Label      string `json:"label,omitempty"`

	// SourceID is the source's native identifier for the matched record.
	SourceID string `json:"source_id,omitempty"`

	Artwork    []byte `json:"artwork,omitempty"`
	ArtworkURL string `json:"artwork_url,omitempty"`
}

// Empty reports whether the candidate carries no usable data at all.
func (c *CandidateMetadata) Empty() bool {
	if c == nil {
		return true
	}
	return c.Artist == "" && c.Title == "" && c.Album == "" && c.Year == "" &&
		c.Genre == "" && c.BPM == "" && c.Key == "" && c.Subgenre == "" &&
		c.Label == "" &&
		len(c.Contexts) == 0 && len(c.Moments) == 0 && len(c.Styles) == 0 &&
		c.Energy == nil && c.Danceability == nil && c.Valence == nil &&
		c.Tempo == nil && c.Popularity == nil && c.KeyIndex == nil &&
		c.EnergyLevel == nil && len(c.Artwork) == 0 && c.ArtworkURL == ""
}

// TagPair is one context/moment combination. The paired form is the
// in-memory representation; string encoding happens only at the
// tag-writing boundary via String.
type TagPair struct {
	Context string `json:"context"`
	Moment  string `json:"moment"`
}

// String renders the pair in the external comment-tag notation.
func (p TagPair) String() string {
	return "#[" + p.Context + "] #[" + p.Moment + "]"
}

// FinalAnalysis is the fused, confidence-scored result of one analysis.
type FinalAnalysis struct {
	Artist      string    `json:"artist"`
	Title       string    `json:"title"`
	Album       string    `json:"album,omitempty"`
	Year        string    `json:"year,omitempty"`
	Genre       string    `json:"genre,omitempty"`
	Key         string    `json:"key,omitempty"`
	BPM         string    `json:"bpm,omitempty"`
	Energy      int       `json:"energy"`
	CommentTags []TagPair `json:"comment_tags"`
	Grouping    []string  `json:"grouping_tags"`
	Label       string    `json:"label,omitempty"`
	Artwork     []byte    `json:"artwork,omitempty"`
	Confidence  float64   `json:"confidence_score"`
	Source      string    `json:"source"`
}

// Comment renders the comment tags in the external notation, space-joined.
func (a *FinalAnalysis) Comment() string {
	parts := make([]string, len(a.CommentTags))
	for i, p := range a.CommentTags {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

// GroupingField renders the grouping tags as "#Style" tokens, space-joined.
func (a *FinalAnalysis) GroupingField() string {
	parts := make([]string, len(a.Grouping))
	for i, s := range a.Grouping {
		parts[i] = "#" + s
	}
	return strings.Join(parts, " ")
}

// Provenance values recorded in FinalAnalysis.Source.
const (
	SourceCorrections = "corrections"
	SourceCache       = "cache"
	SourceFusion      = "fusion"
	SourceFallback    = "fallback"
)

// Pre-combination caps on the assembled tag sets.
const (
	MaxContexts = 5
	MaxMoments  = 3
	MaxStyles   = 6

	MaxCommentTags  = 10
	MaxGroupingTags = 6
)

var keyPunct = strings.NewReplacer(
	"(", " ", ")", " ", "[", " ", "]", " ",
	"-", " ", "_", " ", ".", " ", ",", " ",
)

// NormalizeKey derives the correction-store key for an (artist, title)
// pair: lowercase, bracket/punctuation characters replaced by spaces,
// whitespace collapsed, joined with "::". It is a pure function, so
// repeated saves of the same pair always collide into one record.
func NormalizeKey(artist, title string) string {
	return normalizePart(artist) + "::" + normalizePart(title)
}

func normalizePart(s string) string {
	s = keyPunct.Replace(strings.ToLower(strings.TrimSpace(s)))
	return strings.Join(strings.Fields(s), " ")
}

// Dedup returns values with case-insensitive duplicates removed,
// preserving first-seen order.
func Dedup(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		k := strings.ToLower(v)
		if v == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}

// Cap truncates values to at most n entries.
func Cap(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
