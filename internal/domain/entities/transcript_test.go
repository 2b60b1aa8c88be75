package entities

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestTranscriptFullTextAndDuration(t *testing.T) {
	tr := Transcript{
		Segments: []TranscriptSegment{
			{Start: 0, End: 15.5, Text: "bonjour à tous"},
			{Start: 16, End: 35.2, Text: "on commence"},
		},
	}
	if got := tr.FullText(); got != "bonjour à tous on commence" {
		t.Fatalf("unexpected full text %q", got)
	}
	if got := tr.WordCount(); got != 5 {
		t.Fatalf("expected 5 words, got %d", got)
	}
	if got := tr.TotalDuration(); got != 35.2 {
		t.Fatalf("expected duration from last segment, got %v", got)
	}

	tr.Metadata.TotalDuration = 50.8
	if got := tr.TotalDuration(); got != 50.8 {
		t.Fatalf("expected metadata duration, got %v", got)
	}
}

func TestTranscriptValidate(t *testing.T) {
	cases := []struct {
		name string
		tr   Transcript
		want error
	}{
		{"empty", Transcript{}, nil},
		{"ok", Transcript{Segments: []TranscriptSegment{{Start: 0, End: 1, Text: "a"}}}, nil},
		{"negative duration", Transcript{Metadata: TranscriptMetadata{TotalDuration: -1}}, ErrNegativeDuration},
		{"end before start", Transcript{Segments: []TranscriptSegment{{Start: 5, End: 5, Text: "a"}}}, ErrInvalidSegmentSpan},
		{"negative start", Transcript{Segments: []TranscriptSegment{{Start: -1, End: 5, Text: "a"}}}, ErrInvalidSegmentSpan},
		{"duration too long", Transcript{Metadata: TranscriptMetadata{TotalDuration: 1e18}}, ErrDurationTooLong},
		{"segment too late", Transcript{Segments: []TranscriptSegment{{Start: 0, End: MaxTranscriptSeconds + 1, Text: "a"}}}, ErrDurationTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tr.Validate()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[float64]string{
		0:    "0m00s",
		14.8: "0m14s",
		125:  "2m05s",
		300:  "5m00s",
		-3:   "0m00s",
		3725: "62m05s",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestSegmentationRunLifecycle(t *testing.T) {
	run := NewSegmentationRun(uuid.New(), 240, "ollama/qwen2.5:3b")
	if run.Status != RunStatusProcessing {
		t.Fatalf("new run should be processing, got %s", run.Status)
	}

	segs := []OutputSegment{{Title: "A", StartSeconds: 0, EndSeconds: 60}}
	run.MarkAsCompleted(RunStrategyCutPoints, segs)
	if run.Status != RunStatusCompleted || run.Strategy != RunStrategyCutPoints || run.CompletedAt == nil {
		t.Fatalf("unexpected completed run: %+v", run)
	}
	if _, ok := run.Metadata["processing_time_ms"]; !ok {
		t.Fatalf("expected processing time in metadata")
	}

	run.MarkAsCompleted(RunStrategyUniform, segs)
	if run.Status != RunStatusFallback {
		t.Fatalf("uniform strategy should mark the run as fallback, got %s", run.Status)
	}

	run.MarkAsFallback("model unavailable", segs)
	if run.LastError == nil || *run.LastError != "model unavailable" {
		t.Fatalf("expected last error to be recorded")
	}
}
