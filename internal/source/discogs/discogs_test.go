package discogs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/flowtag/flowtag/internal/source"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("loading fixture %s: %v", name, err)
	}
	return data
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Discogs token=test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/database/search"):
			w.Write(loadFixture(t, "search_danza_kuduro.json")) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	a := NewWithBaseURL("test-token", source.NewRateLimiterMap(), testLogger(), srv.URL)
	c, err := a.Search(context.Background(), "Don Omar", "Danza Kuduro")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if c == nil {
		t.Fatal("expected a candidate")
	}

	if c.Artist != "Don Omar Feat. Lucenzo" {
		t.Errorf("Artist = %q", c.Artist)
	}
	if c.Title != "Danza Kuduro" {
		t.Errorf("Title = %q", c.Title)
	}
	if c.Year != "2010" {
		t.Errorf("Year = %q", c.Year)
	}
	if c.Genre != "Latin" {
		t.Errorf("Genre = %q", c.Genre)
	}
	if c.Subgenre != "Reggaeton" {
		t.Errorf("Subgenre = %q", c.Subgenre)
	}
	if c.Label != "Machete Music" {
		t.Errorf("Label = %q", c.Label)
	}
	if c.SourceID != "2526491" {
		t.Errorf("SourceID = %q", c.SourceID)
	}
	if c.Source != "discogs" {
		t.Errorf("Source = %q", c.Source)
	}
}

func TestSearch_NotFoundIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	a := NewWithBaseURL("test-token", source.NewRateLimiterMap(), testLogger(), srv.URL)
	c, err := a.Search(context.Background(), "Nobody", "Nothing")
	if err != nil {
		t.Fatalf("404 should not be an error, got %v", err)
	}
	if c != nil {
		t.Errorf("expected nil candidate, got %+v", c)
	}
}

func TestSearch_EmptyResultsIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": []}`)) //nolint:errcheck
	}))
	defer srv.Close()

	a := NewWithBaseURL("test-token", source.NewRateLimiterMap(), testLogger(), srv.URL)
	c, err := a.Search(context.Background(), "Nobody", "Nothing")
	if err != nil || c != nil {
		t.Errorf("empty results: candidate=%v err=%v", c, err)
	}
}

func TestSearch_UnauthorizedError(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	a := NewWithBaseURL("wrong-token", source.NewRateLimiterMap(), testLogger(), srv.URL)
	_, err := a.Search(context.Background(), "Don Omar", "Danza Kuduro")

	var authErr *source.ErrAuthRequired
	if !errors.As(err, &authErr) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if authErr.Source != source.NameDiscogs {
		t.Errorf("Source = %q", authErr.Source)
	}
}

func TestSearch_MissingTokenError(t *testing.T) {
	a := New("", source.NewRateLimiterMap(), testLogger())
	_, err := a.Search(context.Background(), "A", "T")

	var authErr *source.ErrAuthRequired
	if !errors.As(err, &authErr) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
}

func TestSearch_ServerErrorUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewWithBaseURL("test-token", source.NewRateLimiterMap(), testLogger(), srv.URL)
	_, err := a.Search(context.Background(), "A", "T")

	var unavailable *source.ErrUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSearch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{broken json`)) //nolint:errcheck
	}))
	defer srv.Close()

	a := NewWithBaseURL("test-token", source.NewRateLimiterMap(), testLogger(), srv.URL)
	_, err := a.Search(context.Background(), "A", "T")

	var malformed *source.ErrMalformedResponse
	if !errors.As(err, &malformed) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestMapRelease_TitleWithoutSeparator(t *testing.T) {
	c := mapRelease(&searchResult{Title: "Untitled Release", Year: "1999"})
	if c.Artist != "" || c.Title != "Untitled Release" {
		t.Errorf("Artist=%q Title=%q", c.Artist, c.Title)
	}
}
