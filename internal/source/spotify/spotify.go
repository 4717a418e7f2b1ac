// Package spotify adapts the Spotify Web API as the primary catalog
// connector: track search, audio features, and artist-genre hints.
package spotify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	spot "github.com/zmb3/spotify/v2"

	"github.com/flowtag/flowtag/internal/genre"
	"github.com/flowtag/flowtag/internal/source"
	"github.com/flowtag/flowtag/internal/tags"
)

// Adapter implements source.Connector backed by a client-credentials
// authorized Spotify client.
type Adapter struct {
	client  *spot.Client
	limiter *source.RateLimiterMap
	logger  *slog.Logger
}

// New creates a Spotify adapter. The client must already carry its
// OAuth transport (client-credentials flow).
func New(client *spot.Client, limiter *source.RateLimiterMap, logger *slog.Logger) *Adapter {
	return &Adapter{
		client:  client,
		limiter: limiter,
		logger:  logger.With(slog.String("source", "spotify")),
	}
}

// Name returns the source identifier.
func (a *Adapter) Name() source.Name { return source.NameSpotify }

// RequiresAuth reports that Spotify needs client credentials.
func (a *Adapter) RequiresAuth() bool { return true }

// Search looks up the track and folds in audio features and artist
// genre hints. A track that cannot be found is a nil candidate, not an
// error; feature and hint fetches are best-effort.
func (a *Adapter) Search(ctx context.Context, artist, title string) (*tags.CandidateMetadata, error) {
	if artist == "" && title == "" {
		return nil, nil
	}

	if err := a.limiter.Wait(ctx, source.NameSpotify); err != nil {
		return nil, &source.ErrUnavailable{Source: source.NameSpotify, Cause: fmt.Errorf("rate limiter: %w", err)}
	}

	query := buildQuery(artist, title)
	result, err := a.client.Search(ctx, query, spot.SearchTypeTrack, spot.Limit(5))
	if err != nil {
		return nil, &source.ErrUnavailable{Source: source.NameSpotify, Cause: err}
	}
	if result.Tracks == nil || len(result.Tracks.Tracks) == 0 {
		return nil, nil
	}

	track := pickTrack(result.Tracks.Tracks, artist)
	candidate := candidateFromTrack(track)

	if features, err := a.AudioFeatures(ctx, string(track.ID)); err != nil {
		a.logger.Debug("audio features unavailable",
			slog.String("track", string(track.ID)),
			slog.String("error", err.Error()))
	} else if features != nil {
		mergeFeatures(candidate, features)
	}

	if len(track.Artists) > 0 {
		if hints, err := a.CategoryHints(ctx, string(track.Artists[0].ID)); err != nil {
			a.logger.Debug("category hints unavailable",
				slog.String("artist", string(track.Artists[0].ID)),
				slog.String("error", err.Error()))
		} else if hints != nil {
			if candidate.Genre == "" {
				candidate.Genre = hints.Genre
			}
			candidate.Contexts = append(candidate.Contexts, hints.Contexts...)
			candidate.Styles = append(candidate.Styles, hints.Styles...)
		}
	}

	a.logger.Debug("track search completed",
		slog.String("query", query),
		slog.String("track", candidate.Title))

	return candidate, nil
}

// AudioFeatures fetches the numeric audio features for a track ID.
func (a *Adapter) AudioFeatures(ctx context.Context, id string) (*tags.CandidateMetadata, error) {
	if id == "" {
		return nil, nil
	}

	if err := a.limiter.Wait(ctx, source.NameSpotify); err != nil {
		return nil, &source.ErrUnavailable{Source: source.NameSpotify, Cause: fmt.Errorf("rate limiter: %w", err)}
	}

	features, err := a.client.GetAudioFeatures(ctx, spot.ID(id))
	if err != nil {
		return nil, &source.ErrUnavailable{Source: source.NameSpotify, Cause: err}
	}
	if len(features) == 0 || features[0] == nil {
		return nil, nil
	}
	return candidateFromFeatures(features[0]), nil
}

// CategoryHints derives context/style hints from the artist's genres.
func (a *Adapter) CategoryHints(ctx context.Context, id string) (*tags.CandidateMetadata, error) {
	if id == "" {
		return nil, nil
	}

	if err := a.limiter.Wait(ctx, source.NameSpotify); err != nil {
		return nil, &source.ErrUnavailable{Source: source.NameSpotify, Cause: fmt.Errorf("rate limiter: %w", err)}
	}

	artist, err := a.client.GetArtist(ctx, spot.ID(id))
	if err != nil {
		return nil, &source.ErrUnavailable{Source: source.NameSpotify, Cause: err}
	}
	if artist == nil || len(artist.Genres) == 0 {
		return nil, nil
	}
	return hintsFromGenres(artist.Genres), nil
}

func buildQuery(artist, title string) string {
	var parts []string
	if artist != "" {
		parts = append(parts, "artist:"+artist)
	}
	if title != "" {
		parts = append(parts, "track:"+title)
	}
	return strings.Join(parts, " ")
}

// pickTrack prefers the first hit whose artist list contains the
// requested artist, falling back to the top hit.
func pickTrack(hits []spot.FullTrack, artist string) spot.FullTrack {
	want := strings.ToLower(strings.TrimSpace(artist))
	if want == "" {
		return hits[0]
	}
	for _, t := range hits {
		for _, a := range t.Artists {
			if strings.Contains(strings.ToLower(a.Name), want) ||
				strings.Contains(want, strings.ToLower(a.Name)) {
				return t
			}
		}
	}
	return hits[0]
}

func candidateFromTrack(t spot.FullTrack) *tags.CandidateMetadata {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}

	popularity := int(t.Popularity)
	c := &tags.CandidateMetadata{
		Source:     string(source.NameSpotify),
		Artist:     strings.Join(names, ", "),
		Title:      t.Name,
		Album:      t.Album.Name,
		Popularity: &popularity,
	}
	if len(t.Album.ReleaseDate) >= 4 {
		c.Year = t.Album.ReleaseDate[:4]
	}
	return c
}

func candidateFromFeatures(f *spot.AudioFeatures) *tags.CandidateMetadata {
	energy := float64(f.Energy)
	danceability := float64(f.Danceability)
	valence := float64(f.Valence)
	tempo := float64(f.Tempo)
	keyIndex := int(f.Key)
	mode := int(f.Mode)

	return &tags.CandidateMetadata{
		Source:       string(source.NameSpotify),
		Energy:       &energy,
		Danceability: &danceability,
		Valence:      &valence,
		Tempo:        &tempo,
		KeyIndex:     &keyIndex,
		Mode:         &mode,
	}
}

func mergeFeatures(dst, features *tags.CandidateMetadata) {
	dst.Energy = features.Energy
	dst.Danceability = features.Danceability
	dst.Valence = features.Valence
	dst.Tempo = features.Tempo
	dst.KeyIndex = features.KeyIndex
	dst.Mode = features.Mode
}

// hintsFromGenres reduces Spotify's free-form artist genres to a genre
// guess plus context hints from the static genre table.
func hintsFromGenres(genres []string) *tags.CandidateMetadata {
	aliases := genre.DefaultAliases()
	c := &tags.CandidateMetadata{Source: string(source.NameSpotify)}
	for _, g := range genres {
		normalized := aliases.Normalize(g)
		if c.Genre == "" && normalized != g {
			c.Genre = normalized
		}
	}
	if c.Genre == "" {
		c.Genre = aliases.Normalize(genres[0])
	}
	c.Contexts = genre.ContextsFor(c.Genre)
	return c
}
