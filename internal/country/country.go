// Package country resolves an artist's likely country of origin from a
// static reference table. Used to fill the label field of an analysis.
package country

import (
	"sort"
	"strings"
)

// Info is a resolved country: emoji flag plus display name.
type Info struct {
	Flag string
	Name string
}

// Label renders the country in the external label notation.
func (i Info) Label() string {
	return i.Flag + " " + i.Name
}

// International is returned when no country can be determined.
var International = Info{Flag: "🌍", Name: "International"}

var countries = map[string]Info{
	"france":             {"🇫🇷", "France"},
	"united kingdom":     {"🇬🇧", "UK"},
	"uk":                 {"🇬🇧", "UK"},
	"england":            {"🇬🇧", "UK"},
	"germany":            {"🇩🇪", "Allemagne"},
	"spain":              {"🇪🇸", "Espagne"},
	"italy":              {"🇮🇹", "Italie"},
	"netherlands":        {"🇳🇱", "Pays-Bas"},
	"belgium":            {"🇧🇪", "Belgique"},
	"sweden":             {"🇸🇪", "Suède"},
	"norway":             {"🇳🇴", "Norvège"},
	"denmark":            {"🇩🇰", "Danemark"},
	"switzerland":        {"🇨🇭", "Suisse"},
	"austria":            {"🇦🇹", "Autriche"},
	"poland":             {"🇵🇱", "Pologne"},
	"portugal":           {"🇵🇹", "Portugal"},
	"ireland":            {"🇮🇪", "Irlande"},
	"greece":             {"🇬🇷", "Grèce"},
	"romania":            {"🇷🇴", "Roumanie"},
	"ukraine":            {"🇺🇦", "Ukraine"},
	"russia":             {"🇷🇺", "Russie"},
	"usa":                {"🇺🇸", "USA"},
	"united states":      {"🇺🇸", "USA"},
	"canada":             {"🇨🇦", "Canada"},
	"mexico":             {"🇲🇽", "Mexique"},
	"brazil":             {"🇧🇷", "Brésil"},
	"argentina":          {"🇦🇷", "Argentine"},
	"colombia":           {"🇨🇴", "Colombie"},
	"chile":              {"🇨🇱", "Chili"},
	"peru":               {"🇵🇪", "Pérou"},
	"venezuela":          {"🇻🇪", "Venezuela"},
	"puerto rico":        {"🇵🇷", "Porto Rico"},
	"dominican republic": {"🇩🇴", "République Dominicaine"},
	"cuba":               {"🇨🇺", "Cuba"},
	"jamaica":            {"🇯🇲", "Jamaïque"},
	"haiti":              {"🇭🇹", "Haïti"},
	"panama":             {"🇵🇦", "Panama"},
	"south africa":       {"🇿🇦", "Afrique du Sud"},
	"nigeria":            {"🇳🇬", "Nigéria"},
	"egypt":              {"🇪🇬", "Égypte"},
	"morocco":            {"🇲🇦", "Maroc"},
	"algeria":            {"🇩🇿", "Algérie"},
	"ghana":              {"🇬🇭", "Ghana"},
	"senegal":            {"🇸🇳", "Sénégal"},
	"ivory coast":        {"🇨🇮", "Côte d'Ivoire"},
	"congo":              {"🇨🇩", "Congo"},
	"angola":             {"🇦🇴", "Angola"},
	"japan":              {"🇯🇵", "Japon"},
	"china":              {"🇨🇳", "Chine"},
	"south korea":        {"🇰🇷", "Corée du Sud"},
	"korea":              {"🇰🇷", "Corée du Sud"},
	"india":              {"🇮🇳", "Inde"},
	"thailand":           {"🇹🇭", "Thaïlande"},
	"indonesia":          {"🇮🇩", "Indonésie"},
	"philippines":        {"🇵🇭", "Philippines"},
	"turkey":             {"🇹🇷", "Turquie"},
	"israel":             {"🇮🇱", "Israël"},
	"lebanon":            {"🇱🇧", "Liban"},
	"australia":          {"🇦🇺", "Australie"},
	"new zealand":        {"🇳🇿", "Nouvelle-Zélande"},
}

// Keys sorted longest first so "united kingdom" matches before "uk".
var sortedKeys = func() []string {
	keys := make([]string, 0, len(countries))
	for k := range countries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// Detect resolves a country from an artist name: exact table match
// first, then longest substring match, else International.
func Detect(artist string) Info {
	if artist == "" {
		return International
	}
	normalized := strings.ToLower(strings.TrimSpace(artist))
	if info, ok := countries[normalized]; ok {
		return info
	}
	for _, key := range sortedKeys {
		if strings.Contains(normalized, key) {
			return countries[key]
		}
	}
	return International
}
