package entities

import (
	"fmt"
	"math"
)

// Default values used when building output segments
const (
	DefaultImportance = 3
	DefaultTitle      = "Extrait"
)

// OutputSegment is one clip of the final cut list
type OutputSegment struct {
	Title             string   `json:"title"`
	StartSeconds      float64  `json:"start_seconds"`
	EndSeconds        float64  `json:"end_seconds"`
	Summary           string   `json:"summary"`
	Keywords          []string `json:"keywords"`
	Importance        int      `json:"importance"`
	DurationFormatted string   `json:"duration"`
	ThemeBased        bool     `json:"theme_based"`
	ChunkSource       *int     `json:"chunk_source,omitempty"`
}

// Duration returns EndSeconds - StartSeconds
func (s OutputSegment) Duration() float64 {
	return s.EndSeconds - s.StartSeconds
}

// FormatDuration renders seconds as "<minutes>m<seconds two digits>s", e.g. "2m05s"
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	if seconds > 1<<53 {
		seconds = 1 << 53
	}
	total := int(seconds)
	return fmt.Sprintf("%dm%02ds", total/60, total%60)
}
