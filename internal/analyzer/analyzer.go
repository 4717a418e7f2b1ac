// Package analyzer fuses connector responses, user corrections, and
// rule heuristics into one final per-track analysis. Analyze never
// returns an error: every failure path degrades to a lower-confidence
// result instead.
package analyzer

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/flowtag/flowtag/internal/cache"
	"github.com/flowtag/flowtag/internal/corrections"
	"github.com/flowtag/flowtag/internal/country"
	"github.com/flowtag/flowtag/internal/rules"
	"github.com/flowtag/flowtag/internal/source"
	"github.com/flowtag/flowtag/internal/tags"
)

const (
	// cacheService namespaces analysis results in the shared cache.
	cacheService = "analysis"

	// schemaVersion is folded into the cache key so a format change
	// orphans old entries instead of mis-decoding them.
	schemaVersion = 2

	defaultSourceTimeout = 10 * time.Second
)

// Orchestrator runs the per-track analysis pipeline.
type Orchestrator struct {
	registry    *source.Registry
	corrections *corrections.Store
	cache       *cache.Store
	engine      *rules.Engine
	logger      *slog.Logger
	timeout     time.Duration

	// rand.Rand is not safe for concurrent use; batch workers share it.
	rngMu sync.Mutex
	rng   *rand.Rand

	analyzed       atomic.Int64
	cacheHits      atomic.Int64
	correctionHits atomic.Int64
	fused          atomic.Int64
	fallbacks      atomic.Int64
	sourceErrors   atomic.Int64
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSourceTimeout overrides the per-connector call timeout.
func WithSourceTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithRand injects the random source used by the offline fallback.
func WithRand(rng *rand.Rand) Option {
	return func(o *Orchestrator) { o.rng = rng }
}

// New creates an Orchestrator. The cache store may be nil, which
// disables result caching.
func New(registry *source.Registry, corr *corrections.Store, cacheStore *cache.Store, engine *rules.Engine, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry:    registry,
		corrections: corr,
		cache:       cacheStore,
		engine:      engine,
		logger:      logger.With(slog.String("component", "analyzer")),
		timeout:     defaultSourceTimeout,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Analyze runs the full pipeline for one track: verified correction,
// cached result, concurrent source fan-out with rule fusion, and
// finally the offline fallback. It always produces a result.
func (o *Orchestrator) Analyze(ctx context.Context, hint tags.TrackHint) *tags.FinalAnalysis {
	o.analyzed.Add(1)

	log := o.logger.With(
		slog.String("analysis", uuid.NewString()[:8]),
		slog.String("artist", hint.Artist),
		slog.String("title", hint.Title))

	rec := o.corrections.Get(hint.Artist, hint.Title)
	if rec != nil && rec.Verified {
		o.correctionHits.Add(1)
		log.Info("verified correction hit")
		return o.analysisFromRecord(hint, rec)
	}

	key := cacheKey(hint.Artist, hint.Title)
	if cached := o.cachedResult(ctx, log, key); cached != nil {
		o.cacheHits.Add(1)
		log.Info("cache hit")
		return cached
	}

	if rec == nil {
		if rec = o.remixSeed(hint.Artist, hint.Title); rec != nil {
			log.Info("remix of corrected track", slog.String("genre", rec.Genre))
		}
	}

	candidates := o.gather(ctx, log, hint.Artist, hint.Title)

	var result *tags.FinalAnalysis
	if len(candidates) == 0 {
		o.fallbacks.Add(1)
		result = o.fallbackAnalysis(hint, rec)
		log.Info("no source data, offline fallback",
			slog.String("genre", result.Genre))
	} else {
		o.fused.Add(1)
		result = o.fuse(hint, candidates, rec)
		log.Info("analysis fused",
			slog.Int("sources", len(candidates)),
			slog.Float64("confidence", result.Confidence))
	}

	o.writeCache(ctx, log, key, result)
	return result
}

// cachedResult returns a fresh, decodable cached analysis or nil.
func (o *Orchestrator) cachedResult(ctx context.Context, log *slog.Logger, key string) *tags.FinalAnalysis {
	if o.cache == nil {
		return nil
	}
	entry, err := o.cache.Get(ctx, cacheService, key)
	if err != nil {
		log.Warn("cache lookup failed", slog.String("error", err.Error()))
		return nil
	}
	if entry == nil {
		return nil
	}

	var cached tags.FinalAnalysis
	if err := entry.DecodeInto(&cached); err != nil || cached.Artist == "" && cached.Title == "" {
		return nil
	}
	cached.Source = tags.SourceCache
	return &cached
}

func (o *Orchestrator) writeCache(ctx context.Context, log *slog.Logger, key string, result *tags.FinalAnalysis) {
	if o.cache == nil {
		return
	}
	if err := o.cache.Put(ctx, cacheService, key, result); err != nil {
		log.Warn("cache write failed", slog.String("error", err.Error()))
	}
}

// gather fans out to every registered connector concurrently, each
// call bounded by its own timeout, and joins before returning. A
// failed or empty source simply contributes nothing.
func (o *Orchestrator) gather(ctx context.Context, log *slog.Logger, artist, title string) map[source.Name]*tags.CandidateMetadata {
	out := make(map[source.Name]*tags.CandidateMetadata)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, conn := range o.registry.All() {
		wg.Add(1)
		go func(conn source.Connector) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, o.timeout)
			defer cancel()

			candidate, err := conn.Search(callCtx, artist, title)
			if err != nil {
				o.sourceErrors.Add(1)
				log.Warn("source search failed",
					slog.String("source", string(conn.Name())),
					slog.String("error", err.Error()))
				return
			}
			if candidate.Empty() {
				return
			}

			mu.Lock()
			out[conn.Name()] = candidate
			mu.Unlock()
		}(conn)
	}
	wg.Wait()

	return out
}

// analysisFromRecord turns a verified correction into a final analysis
// verbatim, with full confidence.
func (o *Orchestrator) analysisFromRecord(hint tags.TrackHint, rec *corrections.Record) *tags.FinalAnalysis {
	artist := firstNonEmpty(rec.Artist, hint.Artist)
	title := firstNonEmpty(rec.Title, hint.Title)

	return &tags.FinalAnalysis{
		Artist:      artist,
		Title:       title,
		Album:       firstNonEmpty(rec.Album, hint.Album),
		Year:        firstNonEmpty(rec.Year, hint.Year),
		Genre:       o.engine.NormalizeGenre(rec.Genre),
		Key:         firstNonEmpty(rec.Key, hint.Key),
		BPM:         firstNonEmpty(rec.BPM, hint.BPM),
		Energy:      rec.Energy,
		CommentTags: rules.CombineTags(capTags(rec.Contexts, tags.MaxContexts), capTags(rec.Moments, tags.MaxMoments)),
		Grouping:    rules.GroupingTags(capTags(rec.Styles, tags.MaxStyles)),
		Label:       o.label(artist, ""),
		Artwork:     hint.Artwork,
		Confidence:  1.0,
		Source:      tags.SourceCorrections,
	}
}

// fallbackAnalysis produces the offline guess. An unverified or remix
// correction seeds every field it carries; a known artist still
// contributes genre, country, and the tag profile of similar verified
// tracks even with every source down.
func (o *Orchestrator) fallbackAnalysis(hint tags.TrackHint, seed *corrections.Record) *tags.FinalAnalysis {
	known := o.corrections.LookupArtist(hint.Artist)
	if hint.Genre == "" && seed != nil && seed.Genre != "" {
		hint.Genre = seed.Genre
	}
	if hint.Genre == "" && known != nil {
		hint.Genre = known.Genre
	}

	o.rngMu.Lock()
	fb := o.engine.FallbackAnalysis(hint, o.rng)
	o.rngMu.Unlock()

	year := hint.Year
	contexts, moments, styles := fb.Contexts, fb.Moments, fb.Styles
	if seed != nil {
		fb.BPM = firstNonEmpty(seed.BPM, fb.BPM)
		fb.Key = firstNonEmpty(seed.Key, fb.Key)
		year = firstNonEmpty(seed.Year, year)
		if seed.Energy > 0 {
			fb.Energy = seed.Energy
		}
		if len(seed.Contexts) > 0 {
			contexts = seed.Contexts
		}
		if len(seed.Moments) > 0 {
			moments = seed.Moments
		}
		if len(seed.Styles) > 0 {
			styles = seed.Styles
		}
	} else if known != nil {
		sc, sm, ss := o.similarTags(hint.Genre, fb.Energy)
		if len(sc) > 0 {
			contexts = sc
		}
		if len(sm) > 0 {
			moments = sm
		}
		if len(ss) > 0 {
			styles = ss
		}
	}
	contexts = capTags(contexts, tags.MaxContexts)
	moments = capTags(moments, tags.MaxMoments)
	styles = capTags(styles, tags.MaxStyles)

	label := o.label(hint.Artist, "")
	if known != nil && known.Country != "" {
		label = known.Country
	}

	return &tags.FinalAnalysis{
		Artist:      hint.Artist,
		Title:       hint.Title,
		Album:       hint.Album,
		Year:        year,
		Genre:       fb.Genre,
		Key:         fb.Key,
		BPM:         fb.BPM,
		Energy:      fb.Energy,
		CommentTags: rules.CombineTags(contexts, moments),
		Grouping:    rules.GroupingTags(styles),
		Label:       label,
		Artwork:     hint.Artwork,
		Confidence:  rules.FallbackConfidence,
		Source:      tags.SourceFallback,
	}
}

// remixSeed resolves a remix or edit title to the correction of its
// base track and derives a seed record for it: the base genre and
// scalars carry over, the tag sets shift toward the club floor.
func (o *Orchestrator) remixSeed(artist, title string) *corrections.Record {
	base := o.corrections.LookupRemixOriginal(artist, title)
	if base == nil {
		return nil
	}
	return &corrections.Record{
		Genre:    base.Genre,
		BPM:      base.BPM,
		Key:      base.Key,
		Energy:   base.Energy,
		Year:     base.Year,
		Contexts: append(append([]string{}, base.Contexts...), "Club"),
		Moments:  []string{"Peaktime"},
		Styles:   append(append([]string{}, base.Styles...), "Remix"),
	}
}

// similarTags aggregates the tag sets of verified corrections close to
// the given genre and energy into their most common contexts, moments,
// and styles.
func (o *Orchestrator) similarTags(genre string, energy int) (contexts, moments, styles []string) {
	similar := o.corrections.GetSimilar(genre, energy)
	if len(similar) == 0 {
		return nil, nil, nil
	}
	var allContexts, allMoments, allStyles []string
	for _, rec := range similar {
		allContexts = append(allContexts, rec.Contexts...)
		allMoments = append(allMoments, rec.Moments...)
		allStyles = append(allStyles, rec.Styles...)
	}
	return mostCommon(allContexts, 3), mostCommon(allMoments, 2), mostCommon(allStyles, 3)
}

// mostCommon returns the k most frequent values, ties broken by first
// appearance so the result is deterministic.
func mostCommon(values []string, k int) []string {
	counts := make(map[string]int, len(values))
	var order []string
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > k {
		order = order[:k]
	}
	return order
}

func capTags(values []string, n int) []string {
	return tags.Cap(tags.Dedup(values), n)
}

// label renders the country label, with the AI's sample note appended
// when present.
func (o *Orchestrator) label(artist, sampleInfo string) string {
	l := country.Detect(artist).Label()
	if sampleInfo != "" {
		l += " | Sample: " + sampleInfo
	}
	return l
}

// SaveCorrection records a user-verified analysis, which wins over
// every automated stage on the next Analyze of the same pair.
func (o *Orchestrator) SaveCorrection(artist, title string, rec corrections.Record) error {
	return o.corrections.Save(artist, title, rec)
}

// Suggestions returns verified corrections resembling the given genre
// and energy, for pre-filling a correction form.
func (o *Orchestrator) Suggestions(genre string, energy int) []*corrections.Record {
	return o.corrections.GetSimilar(genre, energy)
}

// Stats is a point-in-time snapshot of the pipeline counters.
type Stats struct {
	Analyzed       int64 `json:"analyzed"`
	CacheHits      int64 `json:"cache_hits"`
	CorrectionHits int64 `json:"correction_hits"`
	Fused          int64 `json:"fused"`
	Fallbacks      int64 `json:"fallbacks"`
	SourceErrors   int64 `json:"source_errors"`
}

// Stats returns the current pipeline counters.
func (o *Orchestrator) Stats() Stats {
	return Stats{
		Analyzed:       o.analyzed.Load(),
		CacheHits:      o.cacheHits.Load(),
		CorrectionHits: o.correctionHits.Load(),
		Fused:          o.fused.Load(),
		Fallbacks:      o.fallbacks.Load(),
		SourceErrors:   o.sourceErrors.Load(),
	}
}

// cacheKey derives the stable cache key for a track. The normalized
// pair makes cosmetic spelling differences collide; the schema version
// fences off entries written by older formats.
func cacheKey(artist, title string) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("v%d:%s", schemaVersion, tags.NormalizeKey(artist, title))))
	return hex.EncodeToString(sum[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
