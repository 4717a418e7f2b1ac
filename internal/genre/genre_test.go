package genre

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	aliases := DefaultAliases()
	tests := []struct {
		in   string
		want string
	}{
		{"regueton", "Reggaeton"},
		{"Dembow", "Reggaeton"},
		{"EDM", "Electronic"},
		{"deep house", "House"},
		{"rap", "Hip-Hop"},
		{"dnb", "Drum & Bass"},
		{"House", "House"},      // already canonical
		{"Zouk", "Zouk"},        // unmapped passes through
		{" tropical ", "Latin"}, // whitespace tolerated
	}
	for _, tt := range tests {
		if got := aliases.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	aliases := DefaultAliases()
	for alias := range aliases {
		once := aliases.Normalize(alias)
		twice := aliases.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", alias, once, twice)
		}
	}
}

func TestDetectFromText(t *testing.T) {
	rules := DefaultKeywordRules()
	tests := []struct {
		artist string
		title  string
		want   string
	}{
		{"Don Omar", "Danza Kuduro", "Reggaeton"},
		{"Marc Anthony", "Vivir Mi Vida (Salsa)", "Latin"},
		{"Unknown", "Midnight Deep House Mix", "House"},
		{"Some Band", "Untitled", ""},
		{"DJ X", "Summer Anthem (Club Remix)", "House"}, // remix heuristic
	}
	for _, tt := range tests {
		if got := DetectFromText(rules, tt.artist, tt.title); got != tt.want {
			t.Errorf("DetectFromText(%q, %q) = %q, want %q", tt.artist, tt.title, got, tt.want)
		}
	}
}

func TestDetectFromText_FirstRuleWins(t *testing.T) {
	rules := DefaultKeywordRules()
	// "reggaeton house party" hits both Reggaeton and House keywords;
	// the earlier rule decides.
	if got := DetectFromText(rules, "", "reggaeton house party"); got != "Reggaeton" {
		t.Errorf("expected Reggaeton, got %q", got)
	}
}

func TestContextsFor(t *testing.T) {
	if got := ContextsFor("Reggaeton"); !reflect.DeepEqual(got, []string{"Club", "PoolParty", "Festival", "Mariage"}) {
		t.Errorf("ContextsFor(Reggaeton) = %v", got)
	}
	if got := ContextsFor("Obscure Genre"); !reflect.DeepEqual(got, []string{"Bar", "CorporateEvent"}) {
		t.Errorf("ContextsFor(unknown) = %v, want neutral default", got)
	}
}
