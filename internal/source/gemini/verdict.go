package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flowtag/flowtag/internal/source"
	"github.com/flowtag/flowtag/internal/tags"
)

// verdict is the structured analysis the model is asked to return.
type verdict struct {
	Genre       string    `json:"genre"`
	Subgenre    string    `json:"subgenre"`
	EnergyLevel int       `json:"energy_level"`
	Key         string    `json:"key"`
	BPM         string    `json:"bpm"`
	Year        string    `json:"year"`
	Pairs       []tagPair `json:"context_moment_pairs"`
	Styles      []string  `json:"additional_styles"`
	SampleInfo  string    `json:"sample_info"`
}

// tagPair tolerates both the requested object form and a bare
// two-element array, which the model occasionally produces.
type tagPair struct {
	Context string `json:"context"`
	Moment  string `json:"moment"`
}

func (p *tagPair) UnmarshalJSON(data []byte) error {
	type plain tagPair
	var obj plain
	if err := json.Unmarshal(data, &obj); err == nil && (obj.Context != "" || obj.Moment != "") {
		*p = tagPair(obj)
		return nil
	}
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil && len(arr) >= 2 {
		p.Context, p.Moment = arr[0], arr[1]
		return nil
	}
	return fmt.Errorf("unrecognized pair shape: %s", data)
}

// parseVerdict extracts the outermost JSON object from the model text
// and decodes it strictly. Models wrap answers in prose or code fences
// often enough that plain Unmarshal on the raw text is useless.
func parseVerdict(text string) (*verdict, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, &source.ErrMalformedResponse{
			Source: source.NameGemini,
			Cause:  fmt.Errorf("no JSON object in response"),
		}
	}

	var v verdict
	if err := json.Unmarshal([]byte(text[start:end+1]), &v); err != nil {
		return nil, &source.ErrMalformedResponse{Source: source.NameGemini, Cause: err}
	}
	if v.Genre == "" && len(v.Pairs) == 0 && v.EnergyLevel == 0 {
		return nil, &source.ErrMalformedResponse{
			Source: source.NameGemini,
			Cause:  fmt.Errorf("verdict carries no usable fields"),
		}
	}
	return &v, nil
}

func (v *verdict) candidate() *tags.CandidateMetadata {
	c := &tags.CandidateMetadata{
		Source:     string(source.NameGemini),
		Genre:      v.Genre,
		Subgenre:   v.Subgenre,
		Key:        v.Key,
		BPM:        v.BPM,
		Year:       v.Year,
		SampleInfo: v.SampleInfo,
	}

	if v.EnergyLevel >= 1 && v.EnergyLevel <= 10 {
		level := v.EnergyLevel
		c.EnergyLevel = &level
	}

	for _, p := range v.Pairs {
		if p.Context != "" {
			c.Contexts = append(c.Contexts, p.Context)
		}
		if p.Moment != "" {
			c.Moments = append(c.Moments, p.Moment)
		}
	}
	c.Contexts = tags.Dedup(c.Contexts)
	c.Moments = tags.Dedup(c.Moments)

	for _, s := range v.Styles {
		c.Styles = append(c.Styles, strings.TrimPrefix(strings.TrimSpace(s), "#"))
	}
	c.Styles = tags.Dedup(c.Styles)

	return c
}
