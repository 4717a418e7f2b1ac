// Package discogs adapts the Discogs release database as the
// secondary catalog connector, contributing year, genre, and style.
package discogs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/flowtag/flowtag/internal/source"
	"github.com/flowtag/flowtag/internal/tags"
)

const defaultBaseURL = "https://api.discogs.com"

// Adapter implements source.Connector for Discogs.
type Adapter struct {
	client  *http.Client
	limiter *source.RateLimiterMap
	logger  *slog.Logger
	token   string
	baseURL string
}

// New creates a Discogs adapter with the default base URL.
func New(token string, limiter *source.RateLimiterMap, logger *slog.Logger) *Adapter {
	return NewWithBaseURL(token, limiter, logger, defaultBaseURL)
}

// NewWithBaseURL creates a Discogs adapter with a custom base URL (for testing).
func NewWithBaseURL(token string, limiter *source.RateLimiterMap, logger *slog.Logger, baseURL string) *Adapter {
	return &Adapter{
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: limiter,
		logger:  logger.With(slog.String("source", "discogs")),
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the source identifier.
func (a *Adapter) Name() source.Name { return source.NameDiscogs }

// RequiresAuth returns whether this source needs an API token.
func (a *Adapter) RequiresAuth() bool { return true }

// Search queries the Discogs release database for the track. A release
// that cannot be found is a nil candidate, not an error.
func (a *Adapter) Search(ctx context.Context, artist, title string) (*tags.CandidateMetadata, error) {
	if a.token == "" {
		return nil, &source.ErrAuthRequired{Source: source.NameDiscogs}
	}

	if err := a.limiter.Wait(ctx, source.NameDiscogs); err != nil {
		return nil, &source.ErrUnavailable{Source: source.NameDiscogs, Cause: fmt.Errorf("rate limiter: %w", err)}
	}

	params := url.Values{
		"q":        {strings.TrimSpace(artist + " " + title)},
		"type":     {"release"},
		"per_page": {"5"},
	}
	reqURL := a.baseURL + "/database/search?" + params.Encode()

	body, err := a.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &source.ErrMalformedResponse{Source: source.NameDiscogs, Cause: err}
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	candidate := mapRelease(&resp.Results[0])
	a.logger.Debug("release search completed",
		slog.String("artist", artist),
		slog.String("title", title),
		slog.Int("results", len(resp.Results)))

	return candidate, nil
}

func (a *Adapter) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Discogs token="+a.token)
	req.Header.Set("User-Agent", "Flowtag/1.0")
	req.Header.Set("Accept", "application/json")

	a.logger.Debug("requesting", slog.String("url", reqURL))

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &source.ErrUnavailable{Source: source.NameDiscogs, Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &source.ErrAuthRequired{Source: source.NameDiscogs}
	case resp.StatusCode != http.StatusOK:
		return nil, &source.ErrUnavailable{
			Source: source.NameDiscogs,
			Cause:  fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	return io.ReadAll(resp.Body)
}

// searchResponse models the subset of the Discogs search payload the
// adapter consumes.
type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Year       string   `json:"year"`
	Genre      []string `json:"genre"`
	Style      []string `json:"style"`
	Label      []string `json:"label"`
	CoverImage string   `json:"cover_image"`
}

// mapRelease converts a Discogs search hit into candidate metadata.
// Discogs titles come back as "Artist - Title".
func mapRelease(r *searchResult) *tags.CandidateMetadata {
	c := &tags.CandidateMetadata{
		Source: string(source.NameDiscogs),
		Year:   r.Year,
	}

	if artist, title, found := strings.Cut(r.Title, " - "); found {
		c.Artist = strings.TrimSpace(artist)
		c.Title = strings.TrimSpace(title)
	} else {
		c.Title = strings.TrimSpace(r.Title)
	}

	if len(r.Genre) > 0 {
		c.Genre = r.Genre[0]
	}
	if len(r.Style) > 0 {
		c.Subgenre = r.Style[0]
		c.Styles = append(c.Styles, r.Style...)
	}
	if len(r.Label) > 0 {
		c.Label = r.Label[0]
	}
	if r.CoverImage != "" {
		c.ArtworkURL = r.CoverImage
	}
	if r.ID != 0 {
		c.SourceID = strconv.Itoa(r.ID)
	}
	return c
}
