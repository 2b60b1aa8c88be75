package entities

import (
	"fmt"
	"strings"
)

// MaxTranscriptSeconds is the longest recording accepted, seven days
const MaxTranscriptSeconds = 7 * 24 * 3600

// TranscriptSegment is one speech-recognition unit
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// WordCount returns the number of whitespace-separated words in the segment text
func (s TranscriptSegment) WordCount() int {
	return len(strings.Fields(s.Text))
}

// TranscriptMetadata carries aggregate figures produced by the transcription step
type TranscriptMetadata struct {
	TotalDuration      float64 `json:"total_duration"`
	TotalWords         int     `json:"total_words,omitempty"`
	WordsPerMinute     float64 `json:"words_per_minute,omitempty"`
	AverageConfidence  float64 `json:"average_confidence,omitempty"`
	SegmentsCount      int     `json:"segments_count,omitempty"`
	TranscriptionModel string  `json:"transcription_model,omitempty"`
}

// Transcript is the full, time-ordered transcript of a recording
type Transcript struct {
	Text     string              `json:"text"`
	Segments []TranscriptSegment `json:"segments"`
	Metadata TranscriptMetadata  `json:"metadata"`
}

// FullText returns Text, or the segment texts joined by spaces when Text is empty
func (t Transcript) FullText() string {
	if t.Text != "" {
		return t.Text
	}
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}

// WordCount returns the number of words in the full transcript text
func (t Transcript) WordCount() int {
	return len(strings.Fields(t.FullText()))
}

// TotalDuration returns the duration recorded in the metadata, or the
// end of the last segment when the metadata carries none
func (t Transcript) TotalDuration() float64 {
	if t.Metadata.TotalDuration > 0 {
		return t.Metadata.TotalDuration
	}
	var end float64
	for _, seg := range t.Segments {
		if seg.End > end {
			end = seg.End
		}
	}
	return end
}

// Validate checks structural well-formedness only. An empty segment list is valid.
func (t Transcript) Validate() error {
	if t.Metadata.TotalDuration < 0 {
		return ErrNegativeDuration
	}
	if t.Metadata.TotalDuration > MaxTranscriptSeconds {
		return ErrDurationTooLong
	}
	for i, seg := range t.Segments {
		if seg.Start < 0 || seg.End <= seg.Start {
			return fmt.Errorf("segment %d (%v -> %v): %w", i, seg.Start, seg.End, ErrInvalidSegmentSpan)
		}
		if seg.End > MaxTranscriptSeconds {
			return fmt.Errorf("segment %d ends at %v: %w", i, seg.End, ErrDurationTooLong)
		}
	}
	return nil
}
