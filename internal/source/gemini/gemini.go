// Package gemini adapts the Gemini generative API as the AI analysis
// connector. It asks for a strict JSON verdict about a track and falls
// back to local keyword heuristics when the model answer cannot be
// parsed, so a chatty response degrades this source instead of the
// whole analysis.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/flowtag/flowtag/internal/genre"
	"github.com/flowtag/flowtag/internal/source"
	"github.com/flowtag/flowtag/internal/tags"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-1.5-flash"
)

// Adapter implements source.Connector for Gemini.
type Adapter struct {
	client   *http.Client
	limiter  *source.RateLimiterMap
	logger   *slog.Logger
	apiKey   string
	model    string
	baseURL  string
	keywords []genre.KeywordRule
}

// New creates a Gemini adapter with the default base URL and model.
func New(apiKey string, limiter *source.RateLimiterMap, logger *slog.Logger) *Adapter {
	return NewWithBaseURL(apiKey, limiter, logger, defaultBaseURL)
}

// NewWithBaseURL creates a Gemini adapter with a custom base URL (for testing).
func NewWithBaseURL(apiKey string, limiter *source.RateLimiterMap, logger *slog.Logger, baseURL string) *Adapter {
	return &Adapter{
		client:   &http.Client{Timeout: 20 * time.Second},
		limiter:  limiter,
		logger:   logger.With(slog.String("source", "gemini")),
		apiKey:   apiKey,
		model:    defaultModel,
		baseURL:  strings.TrimRight(baseURL, "/"),
		keywords: genre.DefaultKeywordRules(),
	}
}

// Name returns the source identifier.
func (a *Adapter) Name() source.Name { return source.NameGemini }

// RequiresAuth returns whether this source needs an API key.
func (a *Adapter) RequiresAuth() bool { return true }

// Search asks the model for a structured analysis of the track.
func (a *Adapter) Search(ctx context.Context, artist, title string) (*tags.CandidateMetadata, error) {
	if a.apiKey == "" {
		return nil, &source.ErrAuthRequired{Source: source.NameGemini}
	}

	if err := a.limiter.Wait(ctx, source.NameGemini); err != nil {
		return nil, &source.ErrUnavailable{Source: source.NameGemini, Cause: fmt.Errorf("rate limiter: %w", err)}
	}

	text, err := a.generate(ctx, buildPrompt(artist, title))
	if err != nil {
		return nil, err
	}

	verdict, err := parseVerdict(text)
	if err != nil {
		// A garbled answer only degrades this source. Keyword
		// heuristics stand in for the model's verdict.
		a.logger.Warn("unparseable model response, using heuristics",
			slog.String("artist", artist),
			slog.String("title", title),
			slog.String("error", err.Error()))
		return a.heuristicCandidate(artist, title), nil
	}

	return verdict.candidate(), nil
}

// generate performs one generateContent call and returns the text of
// the first candidate part.
func (a *Adapter) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:     0.7,
			MaxOutputTokens: 500,
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", a.baseURL, a.model, a.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &source.ErrUnavailable{Source: source.NameGemini, Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", &source.ErrAuthRequired{Source: source.NameGemini}
	case resp.StatusCode != http.StatusOK:
		return "", &source.ErrUnavailable{
			Source: source.NameGemini,
			Cause:  fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &source.ErrUnavailable{Source: source.NameGemini, Cause: err}
	}

	var gen generateResponse
	if err := json.Unmarshal(body, &gen); err != nil {
		return "", &source.ErrMalformedResponse{Source: source.NameGemini, Cause: err}
	}
	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		return "", &source.ErrMalformedResponse{
			Source: source.NameGemini,
			Cause:  fmt.Errorf("no candidates in response"),
		}
	}
	return gen.Candidates[0].Content.Parts[0].Text, nil
}

// heuristicCandidate builds a keyword-based stand-in when the model
// answer cannot be used.
func (a *Adapter) heuristicCandidate(artist, title string) *tags.CandidateMetadata {
	g := genre.DetectFromText(a.keywords, artist, title)
	c := &tags.CandidateMetadata{
		Source:   string(source.NameGemini),
		Genre:    g,
		Contexts: genre.ContextsFor(g),
		Notes:    "heuristic",
	}
	for _, ctx := range c.Contexts {
		c.Moments = append(c.Moments, momentFor(ctx))
	}
	c.Moments = tags.Dedup(c.Moments)
	return c
}

// momentFor pairs a context with its usual set moment.
func momentFor(context string) string {
	switch context {
	case "Club", "Festival", "PoolParty":
		return "Peaktime"
	case "Restaurant", "CocktailChic", "Brunch":
		return "Warmup"
	default:
		return "Warmup"
	}
}

func buildPrompt(artist, title string) string {
	var b strings.Builder
	b.WriteString("Analyze this track for a DJ set: ")
	b.WriteString(strconv.Quote(title))
	b.WriteString(" by ")
	b.WriteString(strconv.Quote(artist))
	b.WriteString(".\n")
	b.WriteString("Reply with ONLY a JSON object, no prose, with these fields:\n")
	b.WriteString(`{"genre": "main genre", "subgenre": "optional subgenre",` + "\n")
	b.WriteString(` "energy_level": 1-10, "key": "Camelot notation like 8A", "bpm": "number",` + "\n")
	b.WriteString(` "year": "release year",` + "\n")
	b.WriteString(` "context_moment_pairs": [{"context": "Club", "moment": "Peaktime"}],` + "\n")
	b.WriteString(` "additional_styles": ["style tags"],` + "\n")
	b.WriteString(` "sample_info": "sampled track if any, else empty"}` + "\n")
	b.WriteString("Contexts are venues or occasions (Club, Bar, Mariage, Festival, ...); ")
	b.WriteString("moments are set phases (Warmup, Peaktime, Closing).")
	return b.String()
}

// Request/response shapes for the generateContent endpoint.
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}
