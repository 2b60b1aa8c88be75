package segment

import "github.com/johnquangdev/interview-segmenter/internal/domain/entities"

// TranscriptSegmentRequest is one speech-recognition unit
type TranscriptSegmentRequest struct {
	Start float64 `json:"start" validate:"gte=0,lte=604800"`
	End   float64 `json:"end" validate:"gtfield=Start,lte=604800"`
	Text  string  `json:"text" validate:"required"`
}

// TranscriptMetadataRequest carries the aggregate figures of the transcription
type TranscriptMetadataRequest struct {
	TotalDuration      float64 `json:"total_duration" validate:"gte=0,lte=604800"` // entities.MaxTranscriptSeconds
	TotalWords         int     `json:"total_words,omitempty" validate:"gte=0"`
	WordsPerMinute     float64 `json:"words_per_minute,omitempty"`
	AverageConfidence  float64 `json:"average_confidence,omitempty"`
	SegmentsCount      int     `json:"segments_count,omitempty"`
	TranscriptionModel string  `json:"transcription_model,omitempty"`
}

// SegmentTranscriptRequest is the body of POST /v1/segments.
// An empty segment list is accepted and answered with fallback segments.
type SegmentTranscriptRequest struct {
	Text     string                     `json:"text"`
	Segments []TranscriptSegmentRequest `json:"segments" validate:"dive"`
	Metadata TranscriptMetadataRequest  `json:"metadata"`
}

// ToEntity converts the request into a domain transcript
func (r SegmentTranscriptRequest) ToEntity() entities.Transcript {
	segs := make([]entities.TranscriptSegment, len(r.Segments))
	for i, s := range r.Segments {
		segs[i] = entities.TranscriptSegment{Start: s.Start, End: s.End, Text: s.Text}
	}
	return entities.Transcript{
		Text:     r.Text,
		Segments: segs,
		Metadata: entities.TranscriptMetadata{
			TotalDuration:      r.Metadata.TotalDuration,
			TotalWords:         r.Metadata.TotalWords,
			WordsPerMinute:     r.Metadata.WordsPerMinute,
			AverageConfidence:  r.Metadata.AverageConfidence,
			SegmentsCount:      r.Metadata.SegmentsCount,
			TranscriptionModel: r.Metadata.TranscriptionModel,
		},
	}
}
