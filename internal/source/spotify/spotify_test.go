package spotify

import (
	"testing"

	spot "github.com/zmb3/spotify/v2"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		artist, title, want string
	}{
		{"Don Omar", "Danza Kuduro", "artist:Don Omar track:Danza Kuduro"},
		{"Don Omar", "", "artist:Don Omar"},
		{"", "Danza Kuduro", "track:Danza Kuduro"},
	}
	for _, tt := range tests {
		if got := buildQuery(tt.artist, tt.title); got != tt.want {
			t.Errorf("buildQuery(%q, %q) = %q, want %q", tt.artist, tt.title, got, tt.want)
		}
	}
}

func fullTrack(name, artist, releaseDate string, popularity int) spot.FullTrack {
	return spot.FullTrack{
		SimpleTrack: spot.SimpleTrack{
			ID:      "track-id",
			Name:    name,
			Artists: []spot.SimpleArtist{{ID: "artist-id", Name: artist}},
		},
		Album:      spot.SimpleAlbum{Name: "Meet the Orphans", ReleaseDate: releaseDate},
		Popularity: spot.Numeric(popularity),
	}
}

func TestPickTrack(t *testing.T) {
	hits := []spot.FullTrack{
		fullTrack("Danza Kuduro (Karaoke Version)", "Karaoke Hits", "2015", 10),
		fullTrack("Danza Kuduro", "Don Omar", "2010-11-16", 82),
	}

	got := pickTrack(hits, "Don Omar")
	if got.Name != "Danza Kuduro" {
		t.Errorf("picked %q, want the artist match", got.Name)
	}

	// Partial artist matches count both ways.
	got = pickTrack(hits, "don omar & lucenzo")
	if got.Name != "Danza Kuduro" {
		t.Errorf("picked %q for superset artist", got.Name)
	}

	// No match falls back to the top hit.
	got = pickTrack(hits, "Daddy Yankee")
	if got.Name != "Danza Kuduro (Karaoke Version)" {
		t.Errorf("picked %q, want top hit fallback", got.Name)
	}

	got = pickTrack(hits, "")
	if got.Name != "Danza Kuduro (Karaoke Version)" {
		t.Errorf("picked %q for empty artist", got.Name)
	}
}

func TestCandidateFromTrack(t *testing.T) {
	track := fullTrack("Danza Kuduro", "Don Omar", "2010-11-16", 82)
	track.Artists = append(track.Artists, spot.SimpleArtist{Name: "Lucenzo"})

	c := candidateFromTrack(track)
	if c.Artist != "Don Omar, Lucenzo" {
		t.Errorf("Artist = %q", c.Artist)
	}
	if c.Title != "Danza Kuduro" || c.Album != "Meet the Orphans" {
		t.Errorf("Title=%q Album=%q", c.Title, c.Album)
	}
	if c.Year != "2010" {
		t.Errorf("Year = %q, want release date truncated", c.Year)
	}
	if c.Popularity == nil || *c.Popularity != 82 {
		t.Errorf("Popularity = %v", c.Popularity)
	}
	if c.Source != "spotify" {
		t.Errorf("Source = %q", c.Source)
	}
}

func TestCandidateFromTrack_ShortReleaseDate(t *testing.T) {
	c := candidateFromTrack(fullTrack("T", "A", "", 0))
	if c.Year != "" {
		t.Errorf("Year = %q, want empty for missing release date", c.Year)
	}
}

func TestCandidateFromFeatures(t *testing.T) {
	f := &spot.AudioFeatures{
		Energy:       0.83,
		Danceability: 0.76,
		Valence:      0.91,
		Tempo:        130.02,
		Key:          5,
		Mode:         0,
	}

	c := candidateFromFeatures(f)
	if c.Energy == nil || *c.Energy < 0.82 || *c.Energy > 0.84 {
		t.Errorf("Energy = %v", c.Energy)
	}
	if c.Tempo == nil || *c.Tempo < 130 || *c.Tempo > 130.1 {
		t.Errorf("Tempo = %v", c.Tempo)
	}
	if c.KeyIndex == nil || *c.KeyIndex != 5 {
		t.Errorf("KeyIndex = %v", c.KeyIndex)
	}
	if c.Mode == nil || *c.Mode != 0 {
		t.Errorf("Mode = %v", c.Mode)
	}
}

func TestMergeFeatures(t *testing.T) {
	dst := candidateFromTrack(fullTrack("Danza Kuduro", "Don Omar", "2010-11-16", 82))
	features := candidateFromFeatures(&spot.AudioFeatures{Energy: 0.8, Tempo: 130})

	mergeFeatures(dst, features)
	if dst.Energy == nil || dst.Tempo == nil {
		t.Fatal("features not merged")
	}
	if dst.Title != "Danza Kuduro" || dst.Popularity == nil {
		t.Error("merge clobbered track fields")
	}
}

func TestHintsFromGenres(t *testing.T) {
	c := hintsFromGenres([]string{"latin pop", "dembow", "urbano latino"})
	if c.Genre != "Reggaeton" {
		t.Errorf("Genre = %q", c.Genre)
	}
	if len(c.Contexts) == 0 {
		t.Error("expected context hints for a known genre")
	}
}

func TestHintsFromGenres_Unmapped(t *testing.T) {
	c := hintsFromGenres([]string{"zeuhl"})
	if c.Genre == "" {
		t.Error("unmapped genre should still pass through")
	}
}
