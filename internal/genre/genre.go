// Package genre holds the static genre reference tables: alias
// normalization, keyword-based detection, and genre-to-context hints.
// Tables are built once and passed by value; there is no mutable
// package state beyond the immutable defaults.
package genre

import "strings"

// Aliases maps lowercase genre spellings to their canonical form.
// Lookups are exact and case-insensitive; unmapped genres pass through.
type Aliases map[string]string

// DefaultAliases returns the built-in synonym table.
func DefaultAliases() Aliases {
	return Aliases{
		"regueton":  "Reggaeton",
		"reggeaton": "Reggaeton",
		"reggaetón": "Reggaeton",
		"dembow":    "Reggaeton",

		"latino":   "Latin",
		"latina":   "Latin",
		"tropical": "Latin",

		"edm":         "Electronic",
		"electro":     "Electronic",
		"electronica": "Electronic",
		"dance":       "Electronic",

		"deep house":        "House",
		"tech house":        "House",
		"progressive house": "House",
		"funky house":       "House",
		"tribal house":      "House",

		"hip hop": "Hip-Hop",
		"hiphop":  "Hip-Hop",
		"rap":     "Hip-Hop",
		"trap":    "Hip-Hop",
		"drill":   "Hip-Hop",

		"r&b":              "R&B",
		"rnb":              "R&B",
		"rhythm and blues": "R&B",
		"soul":             "R&B",
		"neo soul":         "R&B",

		"drum and bass": "Drum & Bass",
		"drum & bass":   "Drum & Bass",
		"dnb":           "Drum & Bass",
		"d&b":           "Drum & Bass",
		"jungle":        "Drum & Bass",
	}
}

// Normalize maps g to its canonical genre name. The operation is
// idempotent: canonical names are never themselves aliased.
func (a Aliases) Normalize(g string) string {
	if canonical, ok := a[strings.ToLower(strings.TrimSpace(g))]; ok {
		return canonical
	}
	return g
}

// KeywordRule associates a genre with the title/artist keywords that
// imply it. Rules are evaluated in order; the first keyword hit wins.
type KeywordRule struct {
	Genre    string
	Keywords []string
}

// DefaultKeywordRules returns the ordered keyword table used to guess a
// genre from artist and title text. Order is priority: more specific
// genres come before catch-alls.
func DefaultKeywordRules() []KeywordRule {
	return []KeywordRule{
		{"Reggaeton", []string{"reggaeton", "reggaetón", "perreo", "dembow", "kuduro", "gasolina", "bellaqueo", "sandungueo"}},
		{"Latin", []string{"salsa", "bachata", "merengue", "cumbia", "vallenato", "banda", "mariachi", "tango"}},
		{"Hip-Hop", []string{"hip hop", "hip-hop", "rap", "trap", "freestyle", "boom bap", "drill", "grime", "old school"}},
		{"House", []string{"house", "deep house", "tech house", "progressive house", "funky house", "soulful house", "tribal house", "jackin"}},
		{"Techno", []string{"techno", "minimal", "acid", "detroit", "berlin", "industrial", "hard techno", "melodic techno"}},
		{"Drum & Bass", []string{"drum and bass", "drum & bass", "dnb", "d&b", "jungle", "liquid", "neurofunk", "jump up"}},
		{"Dancehall", []string{"dancehall", "ragga", "bashment", "riddim", "dutty wine", "bubble"}},
		{"Afrobeat", []string{"afrobeat", "afrobeats", "afro", "amapiano", "gqom", "azonto", "kizomba"}},
		{"Pop", []string{"pop", "mainstream", "chart", "hit single", "radio edit", "top 40"}},
		{"Rock", []string{"rock", "metal", "punk", "grunge", "indie", "alternative", "classic rock", "hard rock"}},
		{"R&B", []string{"r&b", "rnb", "soul", "neo soul", "contemporary r&b", "rhythm and blues", "slow jam"}},
		{"Funk", []string{"funk", "funky", "groove", "p-funk", "g-funk", "boogie", "electro funk"}},
		{"Disco", []string{"disco", "nu disco", "nu-disco", "italo disco", "space disco", "disco house", "filter house"}},
		{"Jazz", []string{"jazz", "swing", "bebop", "smooth jazz", "acid jazz", "fusion", "bossa nova"}},
		{"Electronic", []string{"electronic", "edm", "electro", "synth", "future bass", "dubstep", "breaks"}},
	}
}

// DetectFromText guesses a genre from artist and title text using the
// ordered keyword rules. Returns "" when nothing matches.
func DetectFromText(rules []KeywordRule, artist, title string) string {
	combined := strings.ToLower(title) + " " + strings.ToLower(artist)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(combined, kw) {
				return r.Genre
			}
		}
	}
	// Remix markers hint at the remix's own genre rather than the
	// original recording's.
	if strings.Contains(combined, "remix") || strings.Contains(combined, "bootleg") ||
		strings.Contains(combined, "edit") || strings.Contains(combined, "rework") {
		switch {
		case strings.Contains(combined, "house"), strings.Contains(combined, "club"):
			return "House"
		case strings.Contains(combined, "techno"):
			return "Techno"
		case strings.Contains(combined, "trap"):
			return "Hip-Hop"
		}
	}
	return ""
}

// ContextHints maps a canonical genre to the performance contexts it
// usually suits.
var ContextHints = map[string][]string{
	"Pop":        {"Mariage", "Anniversaire", "CorporateEvent", "Bar"},
	"Rock":       {"Bar", "Festival", "Anniversaire"},
	"Electronic": {"Club", "Festival", "PoolParty"},
	"Hip-Hop":    {"Club", "Bar", "Anniversaire", "Festival"},
	"R&B":        {"CocktailChic", "Restaurant", "Bar", "Club"},
	"Jazz":       {"CocktailChic", "Restaurant", "CorporateEvent"},
	"Latin":      {"Club", "PoolParty", "Festival", "Mariage"},
	"Reggaeton":  {"Club", "PoolParty", "Festival", "Mariage"},
	"Reggae":     {"PoolParty", "Bar", "Festival", "Brunch"},
	"Country":    {"Bar", "CorporateEvent", "Mariage"},
}

// ContextsFor returns the context hints for a genre, falling back to a
// neutral pair when the genre is unknown.
func ContextsFor(g string) []string {
	if hints, ok := ContextHints[g]; ok {
		return hints
	}
	for name, hints := range ContextHints {
		if g != "" && strings.Contains(strings.ToLower(name), strings.ToLower(g)) {
			return hints
		}
	}
	return []string{"Bar", "CorporateEvent"}
}
