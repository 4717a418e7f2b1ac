package rules

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/flowtag/flowtag/internal/tags"
)

// FallbackConfidence is the fixed score of an analysis produced with
// no source data at all.
const FallbackConfidence = 0.3

// bpmRanges are genre-keyed inclusive BPM bounds for offline guesses.
// Keys are substrings matched against the lowercased genre; order
// matters, first match wins.
var bpmRanges = []struct {
	Match  string
	Lo, Hi int
}{
	{"house", 120, 130},
	{"techno", 125, 135},
	{"hip", 80, 100},
	{"trap", 140, 160},
	{"drum", 170, 180},
	{"reggaeton", 90, 105},
	{"latin", 100, 130},
}

const (
	defaultBPMLo = 100
	defaultBPMHi = 140
)

// fallbackPools are the small genre-indexed tag pools for the offline
// path.
var fallbackContexts = []string{
	"Bar", "Club", "Mariage", "CorporateEvent", "Restaurant",
	"Generaliste", "CocktailChic", "PoolParty",
}

var fallbackMoments = []string{"Warmup", "Peaktime", "Closing"}

var fallbackStyles = []string{
	"Commercial", "House", "Funky", "Classics", "Ladies",
	"Banger", "Progressive", "Deep", "Tech", "Vocal",
	"Latino", "HipHop", "Minimal", "Disco",
}

// Fallback is an offline analysis guess: bounded random values drawn
// from genre-indexed pools.
type Fallback struct {
	Genre    string
	BPM      string
	Key      string
	Energy   int
	Contexts []string
	Moments  []string
	Styles   []string
}

// FallbackAnalysis produces the offline guess for a track with no
// source data. Genre comes from the hint, keyword detection, or the
// "Electronic" default; bpm/key/energy are drawn from genre-indexed
// bounded ranges using the injected random source. Deliberately
// non-deterministic, but bounded so tests can assert ranges.
func (e *Engine) FallbackAnalysis(hint tags.TrackHint, rng *rand.Rand) Fallback {
	g := hint.Genre
	if g == "" {
		g = e.DetectGenre(hint.Artist, hint.Title)
	}
	if g == "" {
		g = "Electronic"
	}
	g = e.NormalizeGenre(g)
	gl := strings.ToLower(g)

	fb := Fallback{Genre: g}

	switch {
	case strings.Contains(gl, "reggaeton"), strings.Contains(gl, "latin"):
		fb.Contexts = []string{"Bar", "Club", "PoolParty"}
		fb.Moments = []string{"Warmup", "Peaktime"}
		fb.Styles = []string{"Latino", "Commercial", "Banger"}
		fb.Energy = 7 + rng.Intn(3)
	case strings.Contains(gl, "house"):
		fb.Contexts = []string{"Club", "Bar"}
		fb.Moments = []string{"Warmup", "Peaktime"}
		fb.Styles = []string{"House", "Commercial"}
		fb.Energy = 6 + rng.Intn(3)
	case strings.Contains(gl, "hip"), strings.Contains(gl, "rap"):
		fb.Contexts = []string{"Bar", "Club"}
		fb.Moments = []string{"Warmup", "Peaktime"}
		fb.Styles = []string{"HipHop", "Commercial"}
		fb.Energy = 6 + rng.Intn(3)
	default:
		fb.Contexts = sample(rng, fallbackContexts, 3)
		fb.Moments = sample(rng, fallbackMoments, 2)
		fb.Styles = sample(rng, fallbackStyles, 3)
		fb.Energy = 5 + rng.Intn(4)
	}

	if (strings.Contains(gl, "reggaeton") || strings.Contains(gl, "latin") ||
		strings.Contains(gl, "salsa")) && !contains(fb.Styles, "Latino") {
		fb.Styles = append(fb.Styles, "Latino")
	}

	fb.BPM = hint.BPM
	if fb.BPM == "" {
		lo, hi := defaultBPMLo, defaultBPMHi
		for _, r := range bpmRanges {
			if strings.Contains(gl, r.Match) {
				lo, hi = r.Lo, r.Hi
				break
			}
		}
		fb.BPM = strconv.Itoa(lo + rng.Intn(hi-lo+1))
	}

	fb.Key = hint.Key
	if fb.Key == "" {
		fb.Key = camelotKeys[rng.Intn(len(camelotKeys))]
	}

	return fb
}

// sample draws k distinct elements from pool in random order.
func sample(rng *rand.Rand, pool []string, k int) []string {
	if k > len(pool) {
		k = len(pool)
	}
	idx := rng.Perm(len(pool))[:k]
	out := make([]string, k)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
