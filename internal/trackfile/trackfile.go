// Package trackfile extracts analysis hints from audio files. Embedded
// tags win; the filename fills whatever they leave empty.
package trackfile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/dhowden/tag"

	"github.com/flowtag/flowtag/internal/tags"
)

var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".aac":  true,
	".ogg":  true,
	".wav":  true,
	".aiff": true,
	".aif":  true,
}

// IsAudioFile reports whether the path has a supported audio extension.
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// ReadHint builds a TrackHint for the file. Unreadable or absent
// embedded tags are not an error as long as the filename yields an
// artist/title split; a file with no usable identity at all is.
func ReadHint(path string) (tags.TrackHint, error) {
	hint := hintFromFilename(filepath.Base(path))

	f, err := os.Open(path)
	if err != nil {
		return tags.TrackHint{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	meta, err := tag.ReadFrom(f)
	if err == nil {
		mergeEmbedded(&hint, meta)
	}

	if hint.Artist == "" && hint.Title == "" {
		return tags.TrackHint{}, fmt.Errorf("no usable metadata in %s", path)
	}
	return hint, nil
}

func mergeEmbedded(hint *tags.TrackHint, meta tag.Metadata) {
	if v := strings.TrimSpace(meta.Artist()); v != "" {
		hint.Artist = v
	}
	if v := strings.TrimSpace(meta.Title()); v != "" {
		hint.Title = v
	}
	if v := strings.TrimSpace(meta.Album()); v != "" {
		hint.Album = v
	}
	if v := strings.TrimSpace(meta.Genre()); v != "" {
		hint.Genre = v
	}
	if y := meta.Year(); y != 0 {
		hint.Year = strconv.Itoa(y)
	}
	if pic := meta.Picture(); pic != nil && len(pic.Data) > 0 {
		hint.Artwork = pic.Data
	}

	// BPM and key live in frames the generic accessors do not cover.
	raw := meta.Raw()
	if v := rawString(raw, "TBPM", "BPM", "bpm", "tmpo"); v != "" {
		hint.BPM = v
	}
	if v := rawString(raw, "TKEY", "INITIALKEY", "initialkey", "KEY"); v != "" {
		hint.Key = v
	}
}

func rawString(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case int:
			if v != 0 {
				return strconv.Itoa(v)
			}
		}
	}
	return ""
}

var (
	trackNumPrefix = regexp.MustCompile(`^\d{1,3}[\s._-]+`)
	bracketJunk    = regexp.MustCompile(`(?i)[\(\[][^)\]]*(official|video|audio|lyric|hd|4k)[^)\]]*[\)\]]`)
)

// hintFromFilename parses the common "Artist - Title" naming scheme,
// stripping track-number prefixes and upload junk like "(Official Video)".
func hintFromFilename(name string) tags.TrackHint {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = trackNumPrefix.ReplaceAllString(stem, "")
	stem = bracketJunk.ReplaceAllString(stem, "")
	stem = strings.Join(strings.Fields(stem), " ")

	if artist, title, found := strings.Cut(stem, " - "); found {
		return tags.TrackHint{
			Artist: strings.TrimSpace(artist),
			Title:  strings.TrimSpace(title),
		}
	}
	return tags.TrackHint{Title: strings.TrimSpace(stem)}
}
