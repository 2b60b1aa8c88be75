package segmentation

import (
	"math"
	"strings"
	"testing"

	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
)

func cuts(confidence int, timestamps ...float64) []entities.CutPoint {
	out := make([]entities.CutPoint, 0, len(timestamps))
	for _, ts := range timestamps {
		out = append(out, entities.CutPoint{Timestamp: ts, Confidence: confidence, Reason: "transition"})
	}
	return out
}

func transcriptOfDuration(total float64) entities.Transcript {
	return entities.Transcript{Metadata: entities.TranscriptMetadata{TotalDuration: total}}
}

func TestBuild_ScenarioA_OnlyLastShortThemeSurvives(t *testing.T) {
	analysis := entities.GlobalAnalysis{
		Themes: []entities.Theme{
			{Title: "Présentation de l'artisan", Description: "Jean se présente", StartApproximate: 0, EndApproximate: 15.5, Importance: 4},
			{Title: "Apprentissage du métier", Description: "Avec son père", StartApproximate: 16, EndApproximate: 35.2, Importance: 5},
			{Title: "Évolution des techniques", Description: "L'essentiel reste", StartApproximate: 36, EndApproximate: 50.8, Importance: 3, Keywords: []string{"techniques"}},
		},
	}

	segs, strategy := NewBuilder(DefaultBuilderOptions(), nil).BuildWithStrategy(analysis, sampleTranscript())
	if strategy != entities.RunStrategyThemes {
		t.Fatalf("expected themes strategy, got %s", strategy)
	}
	if len(segs) != 1 {
		t.Fatalf("expected exactly 1 segment, got %d: %+v", len(segs), segs)
	}
	s := segs[0]
	if !s.ThemeBased || s.Importance != 3 {
		t.Fatalf("unexpected segment %+v", s)
	}
	if s.StartSeconds != 36 || s.EndSeconds != 50.8 {
		t.Fatalf("unexpected span %v-%v", s.StartSeconds, s.EndSeconds)
	}
	if s.Title != "Évolution Des Techniques" {
		t.Fatalf("unexpected title %q", s.Title)
	}
	if s.DurationFormatted != "0m14s" {
		t.Fatalf("unexpected duration %q", s.DurationFormatted)
	}
	if s.Summary != "L'essentiel reste" || len(s.Keywords) != 1 {
		t.Fatalf("expected description and keywords carried over, got %+v", s)
	}
}

func TestBuild_ScenarioB_CutPointsOnly(t *testing.T) {
	analysis := entities.GlobalAnalysis{CutPoints: cuts(4, 60, 95, 200)}

	segs, strategy := NewBuilder(DefaultBuilderOptions(), nil).BuildWithStrategy(analysis, transcriptOfDuration(240))
	if strategy != entities.RunStrategyCutPoints {
		t.Fatalf("expected cut_points strategy, got %s", strategy)
	}
	want := [][2]float64{{0, 60}, {60, 95}, {95, 200}, {200, 240}}
	if len(segs) != len(want) {
		t.Fatalf("expected %d segments, got %d", len(want), len(segs))
	}
	for i, w := range want {
		if segs[i].StartSeconds != w[0] || segs[i].EndSeconds != w[1] {
			t.Errorf("segment %d: got %v-%v, want %v-%v", i, segs[i].StartSeconds, segs[i].EndSeconds, w[0], w[1])
		}
		if segs[i].ThemeBased || segs[i].Importance != 3 {
			t.Errorf("segment %d: unexpected provenance %+v", i, segs[i])
		}
	}
	if segs[0].Title != "Segment 1" || segs[3].Title != "Segment 4" {
		t.Fatalf("unexpected titles %q %q", segs[0].Title, segs[3].Title)
	}
	if segs[0].Summary != "Segment créé automatiquement (transition)" || segs[3].Summary != "Segment final" {
		t.Fatalf("unexpected summaries %q %q", segs[0].Summary, segs[3].Summary)
	}
}

func TestFromCutPoints_StartOnlyAdvancesOnEmit(t *testing.T) {
	b := NewBuilder(DefaultBuilderOptions(), nil)
	segs := b.FromCutPoints([]entities.CutPoint{{Timestamp: 10}, {Timestamp: 20}, {Timestamp: 45}}, 50)

	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].StartSeconds != 0 || segs[0].EndSeconds != 45 {
		t.Fatalf("expected 0-45, got %v-%v", segs[0].StartSeconds, segs[0].EndSeconds)
	}
	if segs[0].Summary != "Segment créé automatiquement (point de coupe détecté)" {
		t.Fatalf("unexpected summary %q", segs[0].Summary)
	}
}

func TestBuild_ScenarioC_UniformFallback(t *testing.T) {
	segs, strategy := NewBuilder(DefaultBuilderOptions(), nil).BuildWithStrategy(entities.GlobalAnalysis{}, transcriptOfDuration(900))
	if strategy != entities.RunStrategyUniform {
		t.Fatalf("expected uniform strategy, got %s", strategy)
	}
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	for i, s := range segs {
		if s.StartSeconds != float64(i)*300 || s.EndSeconds != float64(i+1)*300 {
			t.Errorf("segment %d: got %v-%v", i, s.StartSeconds, s.EndSeconds)
		}
		if s.Importance != 3 || s.ThemeBased || s.DurationFormatted != "5m00s" {
			t.Errorf("segment %d: unexpected %+v", i, s)
		}
	}
	if segs[2].Title != "Extrait 3" {
		t.Fatalf("unexpected title %q", segs[2].Title)
	}
}

func TestBuild_CutPointsTooCloseFallToUniform(t *testing.T) {
	_, strategy := NewBuilder(DefaultBuilderOptions(), nil).BuildWithStrategy(
		entities.GlobalAnalysis{CutPoints: cuts(5, 10)}, transcriptOfDuration(20))
	if strategy != entities.RunStrategyUniform {
		t.Fatalf("expected uniform strategy, got %s", strategy)
	}
}

func TestUniform_TilesWholeDuration(t *testing.T) {
	b := NewBuilder(DefaultBuilderOptions(), nil)
	for _, total := range []float64{0.5, 10, 50.8, 100, 899, 900, 1000, 3600.25} {
		segs := b.Uniform(total)
		if len(segs) == 0 {
			t.Fatalf("total %v: expected segments", total)
		}
		size := math.Min(300, total/3)
		if segs[0].StartSeconds != 0 {
			t.Fatalf("total %v: first segment must start at 0", total)
		}
		for i, s := range segs {
			if i > 0 && s.StartSeconds != segs[i-1].EndSeconds {
				t.Fatalf("total %v: gap or overlap at segment %d", total, i)
			}
			if s.EndSeconds <= s.StartSeconds {
				t.Fatalf("total %v: degenerate segment %d", total, i)
			}
			if i < len(segs)-1 && math.Abs(s.Duration()-size) > 1e-6 {
				t.Fatalf("total %v: segment %d has length %v, want %v", total, i, s.Duration(), size)
			}
		}
		last := segs[len(segs)-1]
		if last.EndSeconds != total || last.Duration() > size+1e-6 {
			t.Fatalf("total %v: last segment %v-%v", total, last.StartSeconds, last.EndSeconds)
		}
	}
}

func TestUniform_HugeDurationStaysBounded(t *testing.T) {
	b := NewBuilder(DefaultBuilderOptions(), nil)
	for _, total := range []float64{3e6 + 1, 1e11, 1e18, 1e300} {
		segs := b.Uniform(total)
		if len(segs) < 2 || len(segs) > maxUniformSegments {
			t.Fatalf("total %v: got %d segments", total, len(segs))
		}
		if segs[0].StartSeconds != 0 {
			t.Fatalf("total %v: first segment must start at 0", total)
		}
		for i := 1; i < len(segs); i++ {
			if segs[i].StartSeconds != segs[i-1].EndSeconds {
				t.Fatalf("total %v: gap or overlap at segment %d", total, i)
			}
		}
		if last := segs[len(segs)-1]; last.EndSeconds != total {
			t.Fatalf("total %v: last segment ends at %v", total, last.EndSeconds)
		}
		if strings.HasPrefix(segs[0].DurationFormatted, "-") {
			t.Fatalf("total %v: negative duration label %q", total, segs[0].DurationFormatted)
		}
	}
}

func TestUniform_ZeroDuration(t *testing.T) {
	if segs := NewBuilder(DefaultBuilderOptions(), nil).Uniform(0); len(segs) != 0 {
		t.Fatalf("expected no segment for zero duration, got %d", len(segs))
	}
}

func TestBuild_NonEmptyForPositiveDuration(t *testing.T) {
	b := NewBuilder(DefaultBuilderOptions(), nil)
	analyses := []entities.GlobalAnalysis{
		{},
		{Themes: []entities.Theme{{StartApproximate: 10, EndApproximate: 10}}},
		{CutPoints: cuts(1, 5, 6)},
	}
	for i, a := range analyses {
		if segs := b.Build(a, transcriptOfDuration(75)); len(segs) == 0 {
			t.Fatalf("case %d: expected segments", i)
		}
	}
}

func TestSnap(t *testing.T) {
	b := NewBuilder(DefaultBuilderOptions(), nil)
	tests := []struct {
		name   string
		target float64
		cps    []entities.CutPoint
		want   float64
	}{
		{"no cut points", 42, nil, 42},
		{"close and confident", 100, cuts(3, 80, 110, 300), 110},
		{"exactly at window", 100, cuts(4, 130), 130},
		{"too far", 100, cuts(5, 131), 100},
		{"not confident", 100, cuts(2, 105), 100},
		{"missing confidence", 100, []entities.CutPoint{{Timestamp: 101}}, 100},
		{"closest is not confident", 100, append(cuts(1, 101), cuts(5, 110)...), 100},
		{"tie keeps first", 100, append(cuts(4, 90), cuts(4, 110)...), 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, kind := range []SnapKind{SnapStart, SnapEnd} {
				if got := b.Snap(tt.target, tt.cps, kind); got != tt.want {
					t.Fatalf("%s: got %v, want %v", kind, got, tt.want)
				}
			}
		})
	}
}

func TestSnap_Bounded(t *testing.T) {
	b := NewBuilder(DefaultBuilderOptions(), nil)
	cps := []entities.CutPoint{
		{Timestamp: 12.5, Confidence: 5},
		{Timestamp: 47, Confidence: 2},
		{Timestamp: 61, Confidence: 3},
		{Timestamp: 200, Confidence: 4},
	}
	for target := -50.0; target <= 300; target += 3.7 {
		got := b.Snap(target, cps, SnapStart)
		ok := got == target
		for _, cp := range cps {
			if got == cp.Timestamp {
				ok = true
			}
		}
		if !ok {
			t.Fatalf("snap(%v) = %v is neither the target nor a cut point", target, got)
		}
	}
}

func TestFromThemes_LastThemeAlwaysKept(t *testing.T) {
	b := NewBuilder(DefaultBuilderOptions(), nil)
	segs := b.FromThemes([]entities.Theme{
		{Title: "court", StartApproximate: 0, EndApproximate: 10},
		{Title: "long", StartApproximate: 20, EndApproximate: 100},
		{Title: "fin", StartApproximate: 120, EndApproximate: 130},
	}, nil)

	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].Title != "Long" || segs[1].Title != "Fin" {
		t.Fatalf("unexpected titles %q %q", segs[0].Title, segs[1].Title)
	}
	if segs[0].Importance != 3 {
		t.Fatalf("expected default importance 3, got %d", segs[0].Importance)
	}
}

func TestFromThemes_DegenerateLastThemeDropped(t *testing.T) {
	segs := NewBuilder(DefaultBuilderOptions(), nil).FromThemes([]entities.Theme{
		{Title: "x", StartApproximate: 50, EndApproximate: 40},
	}, nil)
	if len(segs) != 0 {
		t.Fatalf("expected no segment for an inverted span, got %+v", segs)
	}
}

func TestFromThemes_SnapsToCutPoints(t *testing.T) {
	segs := NewBuilder(DefaultBuilderOptions(), nil).FromThemes([]entities.Theme{
		{Title: "t", StartApproximate: 8, EndApproximate: 95},
	}, cuts(4, 0, 100))
	if len(segs) != 1 || segs[0].StartSeconds != 0 || segs[0].EndSeconds != 100 {
		t.Fatalf("expected snapped 0-100, got %+v", segs)
	}
	if segs[0].DurationFormatted != "1m40s" {
		t.Fatalf("unexpected duration %q", segs[0].DurationFormatted)
	}
}

func TestFromThemes_MissingTitleUsesPosition(t *testing.T) {
	segs := NewBuilder(DefaultBuilderOptions(), nil).FromThemes([]entities.Theme{
		{StartApproximate: 0, EndApproximate: 60},
		{StartApproximate: 60, EndApproximate: 120},
	}, nil)
	if segs[1].Title != "Extrait 2" {
		t.Fatalf("expected positional title, got %q", segs[1].Title)
	}
}

func TestFromThemes_EmptyTitleIsPlainExtrait(t *testing.T) {
	analysis, err := ParseAnalysis(`{"themes": [
		{"title": "", "start_approximate": 0, "end_approximate": 60},
		{"start_approximate": 60, "end_approximate": 120}
	]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	segs := NewBuilder(DefaultBuilderOptions(), nil).FromThemes(analysis.Themes, nil)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].Title != "Extrait" {
		t.Fatalf("empty title should clean to %q, got %q", "Extrait", segs[0].Title)
	}
	if segs[1].Title != "Extrait 2" {
		t.Fatalf("missing title should be positional, got %q", segs[1].Title)
	}
}

func TestBuild_DeduplicatesSpans(t *testing.T) {
	analysis := entities.GlobalAnalysis{
		Themes: []entities.Theme{
			{Title: "a", StartApproximate: 2, EndApproximate: 58},
			{Title: "b", StartApproximate: 5, EndApproximate: 61},
		},
		CutPoints: cuts(5, 0, 60),
	}
	segs := NewBuilder(DefaultBuilderOptions(), nil).Build(analysis, transcriptOfDuration(60))
	if len(segs) != 1 || segs[0].Title != "A" {
		t.Fatalf("expected the first of two identical spans, got %+v", segs)
	}
}
