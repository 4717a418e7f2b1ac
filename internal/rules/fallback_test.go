package rules

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/flowtag/flowtag/internal/tags"
)

func TestFallbackAnalysis_Bounds(t *testing.T) {
	e := NewEngine()
	rng := rand.New(rand.NewSource(1))

	// Many draws: every one must stay inside its genre's bounds.
	for i := 0; i < 200; i++ {
		fb := e.FallbackAnalysis(tags.TrackHint{Artist: "Unknown", Title: "Untitled", Genre: "House"}, rng)

		if fb.Genre != "House" {
			t.Fatalf("genre = %q", fb.Genre)
		}
		if fb.Energy < 6 || fb.Energy > 8 {
			t.Errorf("house energy %d out of [6,8]", fb.Energy)
		}
		bpm, err := strconv.Atoi(fb.BPM)
		if err != nil {
			t.Fatalf("bpm %q not numeric", fb.BPM)
		}
		if bpm < 120 || bpm > 130 {
			t.Errorf("house bpm %d out of [120,130]", bpm)
		}
		if !validCamelot(fb.Key) {
			t.Errorf("key %q not in the wheel", fb.Key)
		}
		if len(fb.Contexts) == 0 || len(fb.Moments) == 0 || len(fb.Styles) == 0 {
			t.Error("fallback sets must be non-empty")
		}
	}
}

func validCamelot(key string) bool {
	for _, k := range camelotKeys {
		if k == key {
			return true
		}
	}
	return false
}

func TestFallbackAnalysis_GenreDefault(t *testing.T) {
	e := NewEngine()
	rng := rand.New(rand.NewSource(2))

	fb := e.FallbackAnalysis(tags.TrackHint{Artist: "Someone", Title: "Something"}, rng)
	if fb.Genre != "Electronic" {
		t.Errorf("genre = %q, want Electronic default", fb.Genre)
	}
}

func TestFallbackAnalysis_GenreFromKeywords(t *testing.T) {
	e := NewEngine()
	rng := rand.New(rand.NewSource(3))

	fb := e.FallbackAnalysis(tags.TrackHint{Artist: "Don Omar", Title: "Danza Kuduro"}, rng)
	if fb.Genre != "Reggaeton" {
		t.Errorf("genre = %q, want Reggaeton from keywords", fb.Genre)
	}
	if !containsString(fb.Styles, "Latino") {
		t.Errorf("styles %v should carry Latino", fb.Styles)
	}
	if fb.Energy < 7 || fb.Energy > 9 {
		t.Errorf("reggaeton energy %d out of [7,9]", fb.Energy)
	}
	bpm, _ := strconv.Atoi(fb.BPM)
	if bpm < 90 || bpm > 105 {
		t.Errorf("reggaeton bpm %d out of [90,105]", bpm)
	}
}

func TestFallbackAnalysis_HintBPMAndKeyKept(t *testing.T) {
	e := NewEngine()
	rng := rand.New(rand.NewSource(4))

	fb := e.FallbackAnalysis(tags.TrackHint{Artist: "X", Title: "Y", Genre: "Techno", BPM: "133", Key: "4A"}, rng)
	if fb.BPM != "133" {
		t.Errorf("bpm = %q, hint should win", fb.BPM)
	}
	if fb.Key != "4A" {
		t.Errorf("key = %q, hint should win", fb.Key)
	}
}

func TestFallbackAnalysis_AliasNormalized(t *testing.T) {
	e := NewEngine()
	rng := rand.New(rand.NewSource(5))

	fb := e.FallbackAnalysis(tags.TrackHint{Artist: "X", Title: "Y", Genre: "regueton"}, rng)
	if fb.Genre != "Reggaeton" {
		t.Errorf("genre = %q, alias should normalize", fb.Genre)
	}
}
