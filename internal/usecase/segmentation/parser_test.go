package segmentation

import (
	"errors"
	"testing"

	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
)

func TestParseAnalysis_Wrapped(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"plain", `{"themes": [{"title": "A", "start_approximate": 1, "end_approximate": 40}]}`},
		{"fenced json", "```json\n{\"themes\": [{\"title\": \"A\", \"start_approximate\": 1, \"end_approximate\": 40}]}\n```"},
		{"fenced", "```\n{\"themes\": [{\"title\": \"A\", \"start_approximate\": 1, \"end_approximate\": 40}]}\n```"},
		{"prose", "Voici l'analyse :\n{\"themes\": [{\"title\": \"A\", \"start_approximate\": 1, \"end_approximate\": 40}]}\nBonne journée."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAnalysis(tt.reply)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(a.Themes) != 1 || a.Themes[0].Title != "A" || a.Themes[0].EndApproximate != 40 {
				t.Fatalf("unexpected themes %+v", a.Themes)
			}
		})
	}
}

func TestParseAnalysis_MissingKeysDefaultToEmpty(t *testing.T) {
	a, err := ParseAnalysis(`{}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Themes == nil || a.CutPoints == nil || a.Locations == nil || a.GlobalKeywords == nil {
		t.Fatalf("expected empty, non-nil collections: %+v", a)
	}
}

func TestParseAnalysis_LenientNumbers(t *testing.T) {
	reply := `{
		"themes": [{"title": "T", "start_approximate": "12.5", "end_approximate": 80, "importance": "1-5", "keywords": "a, b"}],
		"cut_points": [{"timestamp": 60, "reason": "pause", "confidence": 4.0}, {"timestamp": "90"}],
		"locations": ["Paris"],
		"global_keywords": ["pain"]
	}`
	a, err := ParseAnalysis(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	th := a.Themes[0]
	if th.StartApproximate != 12.5 || th.Importance != 1 || len(th.Keywords) != 2 {
		t.Fatalf("unexpected theme %+v", th)
	}
	if a.CutPoints[0].Confidence != 4 || a.CutPoints[1].Timestamp != 90 || a.CutPoints[1].Confidence != 0 {
		t.Fatalf("unexpected cut points %+v", a.CutPoints)
	}
}

func TestParseAnalysis_Invalid(t *testing.T) {
	if _, err := ParseAnalysis(""); !errors.Is(err, entities.ErrNoJSONInReply) {
		t.Fatalf("expected ErrNoJSONInReply, got %v", err)
	}
	if _, err := ParseAnalysis("je ne sais pas"); err == nil {
		t.Fatalf("expected error for prose-only reply")
	}
	if _, err := ParseAnalysis(`{"themes": [`); err == nil {
		t.Fatalf("expected error for truncated JSON")
	}
	if _, err := ParseAnalysis(`{"themes": "none"}`); err == nil {
		t.Fatalf("expected error for wrong shape")
	}
}

func TestExtractJSON_Greedy(t *testing.T) {
	got := extractJSON(`a {"x": {"y": 1}} b {"z": 2} c`)
	if got != `{"x": {"y": 1}} b {"z": 2}` {
		t.Fatalf("expected greedy span, got %q", got)
	}
}
