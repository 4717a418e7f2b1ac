package analyzer

import (
	"math"
	"strconv"

	"github.com/flowtag/flowtag/internal/corrections"
	"github.com/flowtag/flowtag/internal/rules"
	"github.com/flowtag/flowtag/internal/source"
	"github.com/flowtag/flowtag/internal/tags"
)

// fuse merges the candidates into one analysis. Scalar fields follow
// strict priority (file tags, then sources in catalog order); set
// fields are unioned across every contributor and reduced by the rule
// engine. An unverified correction seeds but does not decide.
func (o *Orchestrator) fuse(hint tags.TrackHint, candidates map[source.Name]*tags.CandidateMetadata, seed *corrections.Record) *tags.FinalAnalysis {
	sp := candidates[source.NameSpotify]
	dg := candidates[source.NameDiscogs]
	gm := candidates[source.NameGemini]

	known := o.corrections.LookupArtist(hint.Artist)

	artist := firstNonEmpty(hint.Artist, candidateField(sp, dg, gm, func(c *tags.CandidateMetadata) string { return c.Artist }))
	title := firstNonEmpty(hint.Title, candidateField(sp, dg, gm, func(c *tags.CandidateMetadata) string { return c.Title }))

	genre := firstNonEmpty(
		hint.Genre,
		seedField(seed, func(r *corrections.Record) string { return r.Genre }),
		knownField(known),
		candidateField(sp, dg, gm, func(c *tags.CandidateMetadata) string { return c.Genre }))
	genre = o.engine.NormalizeGenre(genre)
	if genre == "" {
		genre = o.engine.DetectGenre(artist, title)
	}

	year := firstNonEmpty(hint.Year,
		seedField(seed, func(r *corrections.Record) string { return r.Year }),
		candidateField(sp, dg, gm, func(c *tags.CandidateMetadata) string { return c.Year }))

	key := firstNonEmpty(hint.Key,
		seedField(seed, func(r *corrections.Record) string { return r.Key }),
		camelotFromCandidate(sp),
		candidateField(sp, dg, gm, func(c *tags.CandidateMetadata) string { return c.Key }))

	bpm := firstNonEmpty(hint.BPM,
		seedField(seed, func(r *corrections.Record) string { return r.BPM }),
		tempoString(sp),
		candidateField(sp, dg, gm, func(c *tags.CandidateMetadata) string { return c.BPM }))

	energy := fuseEnergy(seed, gm, sp)

	asm := rules.Assembly{}
	if seed != nil {
		asm.Contexts = append(asm.Contexts, seed.Contexts...)
		asm.Moments = append(asm.Moments, seed.Moments...)
		asm.Styles = append(asm.Styles, seed.Styles...)
	} else if known != nil {
		// A known artist with no per-track correction still pulls in
		// the tag profile of similar verified tracks.
		sc, sm, ss := o.similarTags(genre, energy)
		asm.Contexts = append(asm.Contexts, sc...)
		asm.Moments = append(asm.Moments, sm...)
		asm.Styles = append(asm.Styles, ss...)
	}
	for _, c := range []*tags.CandidateMetadata{sp, dg, gm} {
		if c == nil {
			continue
		}
		asm.Contexts = append(asm.Contexts, c.Contexts...)
		asm.Moments = append(asm.Moments, c.Moments...)
		asm.Styles = append(asm.Styles, c.Styles...)
	}

	sig := rules.Signals{
		Genre:       genre,
		Year:        year,
		EnergyLevel: energy,
	}
	if sp != nil {
		sig.Popularity = sp.Popularity
		sig.Energy = sp.Energy
		sig.Danceability = sp.Danceability
		sig.Valence = sp.Valence
		sig.Tempo = sp.Tempo
	}
	asm = o.engine.Reduce(asm, sig)

	contrib := rules.Contribution{
		Primary:       !sp.Empty(),
		SecondaryYear: !dg.Empty() && dg.Year != "",
		AIGenre:       !gm.Empty() && gm.Genre != "",
	}
	if sp != nil && sp.Popularity != nil {
		contrib.PrimaryPopularity = *sp.Popularity
	}

	sampleInfo := ""
	if gm != nil {
		sampleInfo = gm.SampleInfo
	}
	label := o.label(artist, sampleInfo)
	if known != nil && known.Country != "" {
		label = known.Country
		if sampleInfo != "" {
			label += " | Sample: " + sampleInfo
		}
	}

	if energy == 0 {
		energy = 5
	}

	return &tags.FinalAnalysis{
		Artist: artist,
		Title:  title,
		Album: firstNonEmpty(hint.Album,
			seedField(seed, func(r *corrections.Record) string { return r.Album }),
			candidateField(sp, dg, gm, func(c *tags.CandidateMetadata) string { return c.Album })),
		Year:        year,
		Genre:       genre,
		Key:         key,
		BPM:         bpm,
		Energy:      energy,
		CommentTags: rules.CombineTags(asm.Contexts, asm.Moments),
		Grouping:    rules.GroupingTags(asm.Styles),
		Label:       label,
		Artwork:     hint.Artwork,
		Confidence:  rules.Confidence(contrib),
		Source:      tags.SourceFusion,
	}
}

// candidateField walks the candidates in merge priority order and
// returns the first non-empty value of the extracted field.
func candidateField(sp, dg, gm *tags.CandidateMetadata, get func(*tags.CandidateMetadata) string) string {
	for _, c := range []*tags.CandidateMetadata{sp, dg, gm} {
		if c == nil {
			continue
		}
		if v := get(c); v != "" {
			return v
		}
	}
	return ""
}

func seedField(seed *corrections.Record, get func(*corrections.Record) string) string {
	if seed == nil {
		return ""
	}
	return get(seed)
}

func knownField(known *corrections.ArtistInfo) string {
	if known == nil {
		return ""
	}
	return known.Genre
}

// camelotFromCandidate converts the primary catalog's raw key index
// and mode to Camelot notation.
func camelotFromCandidate(c *tags.CandidateMetadata) string {
	if c == nil || c.KeyIndex == nil || c.Mode == nil {
		return ""
	}
	return rules.CamelotKey(*c.KeyIndex, *c.Mode)
}

func tempoString(c *tags.CandidateMetadata) string {
	if c == nil || c.Tempo == nil || *c.Tempo <= 0 {
		return ""
	}
	return strconv.Itoa(int(math.Round(*c.Tempo)))
}

// fuseEnergy resolves the 1-10 energy rating: correction seed first,
// then the AI's explicit level, then the primary catalog's 0..1
// energy feature scaled up. Zero means undecided.
func fuseEnergy(seed *corrections.Record, gm, sp *tags.CandidateMetadata) int {
	if seed != nil && seed.Energy >= 1 && seed.Energy <= 10 {
		return seed.Energy
	}
	if gm != nil && gm.EnergyLevel != nil {
		return *gm.EnergyLevel
	}
	if sp != nil && sp.Energy != nil {
		level := int(math.Round(*sp.Energy * 10))
		if level < 1 {
			level = 1
		}
		if level > 10 {
			level = 10
		}
		return level
	}
	return 0
}
