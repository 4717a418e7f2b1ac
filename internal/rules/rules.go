// Package rules implements the deterministic heuristics that turn raw
// audio and genre signals into bounded context/moment/style sets, the
// confidence score formula, and the offline fallback generator.
package rules

import (
	"strconv"
	"strings"
	"time"

	"github.com/flowtag/flowtag/internal/genre"
	"github.com/flowtag/flowtag/internal/tags"
)

// currentYear is swappable so age-based rules stay testable.
var currentYear = func() int { return time.Now().Year() }

// Signals are the raw per-track inputs the rule table evaluates.
// Pointer fields are nil when no source reported them.
type Signals struct {
	Genre        string
	Year         string
	EnergyLevel  int // 1-10, 0 when unknown
	Popularity   *int
	Energy       *float64 // 0..1
	Danceability *float64
	Valence      *float64
	Tempo        *float64 // BPM
}

// Assembly accumulates tag candidates while the rule table runs.
// Callers seed it with source-supplied tags; rules only append.
type Assembly struct {
	Contexts []string
	Moments  []string
	Styles   []string
}

func (a *Assembly) addContext(values ...string) { a.Contexts = append(a.Contexts, values...) }
func (a *Assembly) addMoment(values ...string)  { a.Moments = append(a.Moments, values...) }
func (a *Assembly) addStyle(values ...string)   { a.Styles = append(a.Styles, values...) }

// Rule is one independently testable heuristic: a predicate over the
// signals and an effect on the assembly. Rules never remove tags and
// never short-circuit; the whole table always runs in order.
type Rule struct {
	Name  string
	When  func(Signals) bool
	Apply func(*Assembly, Signals)
}

// numRange is a half-open [Lo, Hi) numeric bucket.
type numRange struct {
	Lo, Hi float64
}

func (r numRange) contains(v float64) bool { return v >= r.Lo && v < r.Hi }

// bpmContexts maps tempo buckets to suggested contexts. Overlapping
// buckets all contribute.
var bpmContexts = []struct {
	Range    numRange
	Contexts []string
}{
	{numRange{60, 90}, []string{"Restaurant", "CocktailChic"}},
	{numRange{90, 110}, []string{"Bar", "Brunch"}},
	{numRange{110, 128}, []string{"Anniversaire", "Mariage"}},
	{numRange{128, 140}, []string{"Club", "Festival"}},
	{numRange{140, 180}, []string{"Club", "Festival"}},
}

// energyMoments maps the 1-10 energy rating to set moments.
var energyMoments = []struct {
	Range   numRange
	Moments []string
}{
	{numRange{1, 4}, []string{"Closing"}},
	{numRange{4, 7}, []string{"Warmup"}},
	{numRange{7, 11}, []string{"Peaktime"}},
}

// genreStyles maps genre substrings to style tags, checked in order.
var genreStyles = []struct {
	Match  []string
	Styles []string
}{
	{[]string{"reggaeton", "latin", "salsa", "bachata"}, []string{"Latino"}},
	{[]string{"hip-hop", "hip hop", "rap", "trap"}, []string{"HipHop"}},
	{[]string{"house"}, []string{"House"}},
	{[]string{"disco"}, []string{"Disco"}},
	{[]string{"funk"}, []string{"Funky"}},
}

// Engine evaluates the rule table and owns the static reference tables.
// Construct once and share; it is immutable after creation.
type Engine struct {
	aliases  genre.Aliases
	keywords []genre.KeywordRule
	rules    []Rule
}

// NewEngine builds an engine with the default tables.
func NewEngine() *Engine {
	return &Engine{
		aliases:  genre.DefaultAliases(),
		keywords: genre.DefaultKeywordRules(),
		rules:    defaultRules(),
	}
}

// NormalizeGenre maps g through the alias table. Idempotent.
func (e *Engine) NormalizeGenre(g string) string {
	return e.aliases.Normalize(g)
}

// DetectGenre guesses a genre from artist/title text, or "".
func (e *Engine) DetectGenre(artist, title string) string {
	return genre.DetectFromText(e.keywords, artist, title)
}

// Reduce runs the full rule table over the seeded assembly, then
// deduplicates and caps each set. It never fails; missing signals just
// mean fewer rules fire.
func (e *Engine) Reduce(asm Assembly, sig Signals) Assembly {
	for _, r := range e.rules {
		if r.When(sig) {
			r.Apply(&asm, sig)
		}
	}

	asm.Contexts = tags.Cap(tags.Dedup(asm.Contexts), tags.MaxContexts)
	asm.Moments = tags.Cap(tags.Dedup(asm.Moments), tags.MaxMoments)
	asm.Styles = tags.Cap(tags.Dedup(asm.Styles), tags.MaxStyles)

	if len(asm.Contexts) == 0 {
		asm.Contexts = []string{"Bar", "Club"}
	}
	if len(asm.Moments) == 0 {
		asm.Moments = []string{"Warmup"}
	}
	if len(asm.Styles) == 0 {
		asm.Styles = []string{"Commercial"}
	}
	return asm
}

// Rules returns the rule table, for inspection and per-rule tests.
func (e *Engine) Rules() []Rule { return e.rules }

func defaultRules() []Rule {
	return []Rule{
		{
			Name: "energy-bucket-moments",
			When: func(s Signals) bool { return s.EnergyLevel > 0 },
			Apply: func(a *Assembly, s Signals) {
				for _, b := range energyMoments {
					if b.Range.contains(float64(s.EnergyLevel)) {
						a.addMoment(b.Moments...)
					}
				}
			},
		},
		{
			Name: "bpm-bucket-contexts",
			When: func(s Signals) bool { return s.Tempo != nil },
			Apply: func(a *Assembly, s Signals) {
				for _, b := range bpmContexts {
					if b.Range.contains(*s.Tempo) {
						a.addContext(b.Contexts...)
					}
				}
			},
		},
		{
			Name: "genre-styles",
			When: func(s Signals) bool { return s.Genre != "" },
			Apply: func(a *Assembly, s Signals) {
				g := strings.ToLower(s.Genre)
				for _, b := range genreStyles {
					for _, m := range b.Match {
						if strings.Contains(g, m) {
							a.addStyle(b.Styles...)
							break
						}
					}
				}
			},
		},
		{
			Name: "popular-wedding",
			When: func(s Signals) bool { return s.Popularity != nil && *s.Popularity > 70 },
			Apply: func(a *Assembly, s Signals) {
				a.addContext("Mariage")
				if *s.Popularity > 80 {
					a.addContext("CorporateEvent")
				}
			},
		},
		{
			Name: "danceable-pool-party",
			When: func(s Signals) bool {
				return s.Danceability != nil && s.Energy != nil &&
					*s.Danceability > 0.75 && *s.Energy > 0.6
			},
			Apply: func(a *Assembly, s Signals) { a.addContext("PoolParty") },
		},
		{
			Name: "energetic-popular-generaliste",
			When: func(s Signals) bool {
				return s.Energy != nil && s.Popularity != nil &&
					*s.Energy > 0.7 && *s.Popularity > 65
			},
			Apply: func(a *Assembly, s Signals) { a.addContext("Generaliste") },
		},
		{
			Name: "low-energy-lounge",
			When: func(s Signals) bool {
				return s.Energy != nil && s.Tempo != nil &&
					*s.Energy < 0.5 && *s.Tempo < 110
			},
			Apply: func(a *Assembly, s Signals) { a.addContext("CocktailChic", "Restaurant") },
		},
		{
			Name: "high-energy-peaktime",
			When: func(s Signals) bool {
				if s.Energy == nil {
					return false
				}
				if *s.Energy > 0.8 {
					return true
				}
				return s.Tempo != nil && *s.Energy > 0.7 && *s.Tempo > 128
			},
			Apply: func(a *Assembly, s Signals) { a.addMoment("Peaktime") },
		},
		{
			Name: "calm-warmup",
			When: func(s Signals) bool {
				return (s.Energy != nil && *s.Energy < 0.6) ||
					(s.Tempo != nil && *s.Tempo < 115)
			},
			Apply: func(a *Assembly, s Signals) { a.addMoment("Warmup") },
		},
		{
			Name:  "melancholic-closing",
			When:  func(s Signals) bool { return s.Valence != nil && *s.Valence < 0.4 },
			Apply: func(a *Assembly, s Signals) { a.addMoment("Closing") },
		},
		{
			Name: "aged-classics",
			When: func(s Signals) bool {
				yr := parseYear(s.Year)
				return yr > 0 && yr < currentYear()-5 &&
					s.Popularity != nil && *s.Popularity > 60
			},
			Apply: func(a *Assembly, s Signals) {
				a.addStyle("Classics")
				if parseYear(s.Year) < currentYear()-10 {
					a.addContext("Mariage")
				}
			},
		},
		{
			Name: "banger",
			When: func(s Signals) bool {
				return s.Energy != nil && s.Popularity != nil &&
					*s.Energy > 0.85 && *s.Popularity > 70
			},
			Apply: func(a *Assembly, s Signals) { a.addStyle("Banger") },
		},
		{
			Name: "ladies",
			When: func(s Signals) bool {
				return s.Valence != nil && s.Danceability != nil && s.Popularity != nil &&
					*s.Valence > 0.7 && *s.Danceability > 0.7 && *s.Popularity > 65
			},
			Apply: func(a *Assembly, s Signals) { a.addStyle("Ladies") },
		},
		{
			Name: "vocal-genres",
			When: func(s Signals) bool {
				switch s.Genre {
				case "Pop", "R&B", "Soul":
					return true
				}
				return false
			},
			Apply: func(a *Assembly, s Signals) { a.addStyle("Vocal") },
		},
		{
			Name: "club-tempo-depth",
			When: func(s Signals) bool {
				return s.Tempo != nil && s.Energy != nil &&
					*s.Tempo >= 118 && *s.Tempo <= 128
			},
			Apply: func(a *Assembly, s Signals) {
				if *s.Energy < 0.7 {
					a.addStyle("Deep")
				} else if *s.Energy > 0.8 {
					a.addStyle("Tech")
				}
			},
		},
	}
}

func parseYear(s string) int {
	if len(s) > 4 {
		s = s[:4]
	}
	yr, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return yr
}
