package entities

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Theme is a proposed topical span of the recording
type Theme struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	StartApproximate float64  `json:"start_approximate"`
	EndApproximate   float64  `json:"end_approximate"`
	Keywords         []string `json:"keywords"`
	Importance       int      `json:"importance"` // 1-5, 0 when the model omitted it
	ChunkSource      *int     `json:"chunk_source,omitempty"`
	HasTitle         bool     `json:"-"` // false when the reply had no title key
}

// Duration returns EndApproximate - StartApproximate
func (t Theme) Duration() float64 {
	return t.EndApproximate - t.StartApproximate
}

// CutPoint is a suggested boundary between two parts of the recording
type CutPoint struct {
	Timestamp   float64 `json:"timestamp"`
	Reason      string  `json:"reason"`
	Confidence  int     `json:"confidence"` // 1-5
	ChunkSource *int    `json:"chunk_source,omitempty"`
}

// ChunkAnalysis is the structured analysis of a single chunk, as parsed from the model reply.
// Timestamps are chunk-relative until the merge step re-anchors them.
type ChunkAnalysis struct {
	Themes         []Theme    `json:"themes"`
	CutPoints      []CutPoint `json:"cut_points"`
	Locations      []string   `json:"locations"`
	GlobalKeywords []string   `json:"global_keywords"`
}

// Normalize replaces nil collections with empty ones
func (a *ChunkAnalysis) Normalize() {
	if a.Themes == nil {
		a.Themes = make([]Theme, 0)
	}
	if a.CutPoints == nil {
		a.CutPoints = make([]CutPoint, 0)
	}
	if a.Locations == nil {
		a.Locations = make([]string, 0)
	}
	if a.GlobalKeywords == nil {
		a.GlobalKeywords = make([]string, 0)
	}
	for i := range a.Themes {
		if a.Themes[i].Keywords == nil {
			a.Themes[i].Keywords = make([]string, 0)
		}
	}
}

// GlobalAnalysis is the merge of every chunk analysis on the absolute timeline
type GlobalAnalysis struct {
	Locations      []string   `json:"locations"`
	GlobalKeywords []string   `json:"global_keywords"`
	CutPoints      []CutPoint `json:"cut_points"` // ascending by Timestamp
	Themes         []Theme    `json:"themes"`     // overlap-cleaned
}

// IsEmpty reports whether the analysis carries neither themes nor cut points
func (g GlobalAnalysis) IsEmpty() bool {
	return len(g.Themes) == 0 && len(g.CutPoints) == 0
}

// Model replies are untrusted: numbers may arrive as strings, ranges ("1-5") or
// be missing altogether. These decoders accept whatever they can and fall back to 0.

type rawTheme struct {
	Title            looseString     `json:"title"`
	Description      looseString     `json:"description"`
	StartApproximate looseNumber     `json:"start_approximate"`
	EndApproximate   looseNumber     `json:"end_approximate"`
	Keywords         looseStringList `json:"keywords"`
	Importance       looseNumber     `json:"importance"`
	ChunkSource      *int            `json:"chunk_source,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Theme) UnmarshalJSON(data []byte) error {
	var raw rawTheme
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, hasTitle := keys["title"]
	*t = Theme{
		Title:            string(raw.Title),
		Description:      string(raw.Description),
		StartApproximate: float64(raw.StartApproximate),
		EndApproximate:   float64(raw.EndApproximate),
		Keywords:         []string(raw.Keywords),
		Importance:       int(raw.Importance),
		ChunkSource:      raw.ChunkSource,
		HasTitle:         hasTitle,
	}
	return nil
}

type rawCutPoint struct {
	Timestamp   looseNumber `json:"timestamp"`
	Reason      looseString `json:"reason"`
	Confidence  looseNumber `json:"confidence"`
	ChunkSource *int        `json:"chunk_source,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler
func (c *CutPoint) UnmarshalJSON(data []byte) error {
	var raw rawCutPoint
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = CutPoint{
		Timestamp:   float64(raw.Timestamp),
		Reason:      string(raw.Reason),
		Confidence:  int(raw.Confidence),
		ChunkSource: raw.ChunkSource,
	}
	return nil
}

type looseNumber float64

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		*n = 0
		return nil
	}
	switch x := v.(type) {
	case float64:
		*n = looseNumber(x)
	case string:
		*n = looseNumber(parseLeadingNumber(x))
	default:
		*n = 0
	}
	return nil
}

// parseLeadingNumber reads "4", " 12.5s" or "1-5" as 4, 12.5 and 1
func parseLeadingNumber(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}

type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		*s = looseString(x)
	case nil:
		*s = ""
	default:
		*s = looseString(strings.Trim(string(data), `"`))
	}
	return nil
}

type looseStringList []string

func (l *looseStringList) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	out := make([]string, 0)
	switch x := v.(type) {
	case []interface{}:
		for _, item := range x {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case string:
		for _, part := range strings.Split(x, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	*l = out
	return nil
}

type rawChunkAnalysis struct {
	Themes         []Theme         `json:"themes"`
	CutPoints      []CutPoint      `json:"cut_points"`
	Locations      looseStringList `json:"locations"`
	GlobalKeywords looseStringList `json:"global_keywords"`
}

// UnmarshalJSON implements json.Unmarshaler
func (a *ChunkAnalysis) UnmarshalJSON(data []byte) error {
	var raw rawChunkAnalysis
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = ChunkAnalysis{
		Themes:         raw.Themes,
		CutPoints:      raw.CutPoints,
		Locations:      []string(raw.Locations),
		GlobalKeywords: []string(raw.GlobalKeywords),
	}
	a.Normalize()
	return nil
}
