// Package source defines the contract between the fusion orchestrator
// and the external metadata connectors, together with the shared error
// taxonomy and per-source rate limiting.
package source

import (
	"context"
	"fmt"

	"github.com/flowtag/flowtag/internal/tags"
)

// Name uniquely identifies a metadata source.
type Name string

// Known source names, in merge-priority order: the primary catalog
// outranks the secondary catalog, which outranks the AI connector.
const (
	NameSpotify Name = "spotify"
	NameDiscogs Name = "discogs"
	NameGemini  Name = "gemini"
)

// AllNames returns the known source names in merge-priority order.
func AllNames() []Name {
	return []Name{NameSpotify, NameDiscogs, NameGemini}
}

// Connector is the interface all metadata source adapters implement.
// "Not found" is a nil candidate with a nil error, never an error;
// errors signal the source itself misbehaving.
type Connector interface {
	// Name returns the unique source identifier.
	Name() Name

	// RequiresAuth reports whether this source needs credentials.
	RequiresAuth() bool

	// Search looks the track up by artist and title and returns the
	// source's candidate metadata, or nil when the source has no data.
	Search(ctx context.Context, artist, title string) (*tags.CandidateMetadata, error)
}

// ErrUnavailable indicates a transient source failure (network error,
// rate limiting, server error). The orchestrator treats it as absence
// of data for that source only.
type ErrUnavailable struct {
	Source Name
	Cause  error
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Cause)
}

func (e *ErrUnavailable) Unwrap() error { return e.Cause }

// ErrAuthRequired indicates the source needs credentials but none are
// configured. The source is disabled for the run, not fatal.
type ErrAuthRequired struct {
	Source Name
}

func (e *ErrAuthRequired) Error() string {
	return fmt.Sprintf("source %s: credentials not configured", e.Source)
}

// ErrMalformedResponse indicates the source answered but its payload
// could not be parsed. Triggers the local rule-based fallback for that
// source only.
type ErrMalformedResponse struct {
	Source Name
	Cause  error
}

func (e *ErrMalformedResponse) Error() string {
	return fmt.Sprintf("source %s: malformed response: %v", e.Source, e.Cause)
}

func (e *ErrMalformedResponse) Unwrap() error { return e.Cause }
