package segmentation

import (
	"sort"

	"go.uber.org/zap"

	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
)

// DefaultOverlapThreshold is the overlap ratio above which two themes are merged
const DefaultOverlapThreshold = 0.5

// Merger combines per-chunk analyses into one analysis on the absolute timeline
type Merger struct {
	threshold float64
	logger    *zap.Logger
}

// NewMerger creates a merger; a non-positive threshold selects DefaultOverlapThreshold
func NewMerger(threshold float64, logger *zap.Logger) *Merger {
	if threshold <= 0 {
		threshold = DefaultOverlapThreshold
	}
	return &Merger{threshold: threshold, logger: logger}
}

// Merge pairs analyses[i] with chunks[i]. Nil analyses contribute nothing, so
// an all-nil input yields an empty analysis.
func (m *Merger) Merge(analyses []*entities.ChunkAnalysis, chunks []entities.Chunk) entities.GlobalAnalysis {
	global := entities.GlobalAnalysis{
		Locations:      make([]string, 0),
		GlobalKeywords: make([]string, 0),
		CutPoints:      make([]entities.CutPoint, 0),
		Themes:         make([]entities.Theme, 0),
	}
	seenLocations := make(map[string]struct{})
	seenKeywords := make(map[string]struct{})

	n := len(analyses)
	if len(chunks) < n {
		n = len(chunks)
	}

	for i := 0; i < n; i++ {
		analysis := analyses[i]
		if analysis == nil {
			continue
		}
		offset := chunks[i].StartTime
		source := i

		for _, theme := range analysis.Themes {
			merged := theme
			merged.StartApproximate += offset
			merged.EndApproximate += offset
			merged.Keywords = append([]string(nil), theme.Keywords...)
			merged.ChunkSource = intPtr(source)
			global.Themes = append(global.Themes, merged)
		}

		for _, cp := range analysis.CutPoints {
			merged := cp
			merged.Timestamp += offset
			merged.ChunkSource = intPtr(source)
			global.CutPoints = append(global.CutPoints, merged)
		}

		global.Locations = appendUnique(global.Locations, seenLocations, analysis.Locations)
		global.GlobalKeywords = appendUnique(global.GlobalKeywords, seenKeywords, analysis.GlobalKeywords)
	}

	sort.SliceStable(global.CutPoints, func(a, b int) bool {
		return global.CutPoints[a].Timestamp < global.CutPoints[b].Timestamp
	})

	before := len(global.Themes)
	global.Themes = m.CleanOverlaps(global.Themes)

	if m.logger != nil {
		m.logger.Debug("chunk analyses merged",
			zap.Int("chunks", n),
			zap.Int("themes_before", before),
			zap.Int("themes_after", len(global.Themes)),
			zap.Int("cut_points", len(global.CutPoints)),
		)
	}
	return global
}

// CleanOverlaps sorts themes by start and sweeps once left to right, merging a
// theme into the last accepted one when their overlap ratio exceeds the threshold.
func (m *Merger) CleanOverlaps(themes []entities.Theme) []entities.Theme {
	sorted := append([]entities.Theme(nil), themes...)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].StartApproximate < sorted[b].StartApproximate
	})

	cleaned := make([]entities.Theme, 0, len(sorted))
	for _, theme := range sorted {
		if len(cleaned) > 0 {
			last := cleaned[len(cleaned)-1]
			if OverlapRatio(last, theme) > m.threshold {
				cleaned[len(cleaned)-1] = MergeThemes(last, theme)
				continue
			}
		}
		cleaned = append(cleaned, theme)
	}
	return cleaned
}

// OverlapRatio is the shared duration of a and b divided by the shorter of the two.
// It is 0 when they do not overlap or either has zero duration.
func OverlapRatio(a, b entities.Theme) float64 {
	overlapStart := max(a.StartApproximate, b.StartApproximate)
	overlapEnd := min(a.EndApproximate, b.EndApproximate)
	if overlapEnd <= overlapStart {
		return 0
	}

	da, db := a.Duration(), b.Duration()
	if da == 0 || db == 0 {
		return 0
	}
	return (overlapEnd - overlapStart) / min(da, db)
}

// MergeThemes combines two overlapping themes. The result keeps a's chunk source.
func MergeThemes(a, b entities.Theme) entities.Theme {
	seen := make(map[string]struct{}, len(a.Keywords)+len(b.Keywords))
	keywords := appendUnique(make([]string, 0, len(a.Keywords)+len(b.Keywords)), seen, a.Keywords)
	keywords = appendUnique(keywords, seen, b.Keywords)

	return entities.Theme{
		Title:            a.Title + " / " + b.Title,
		Description:      a.Description + " - " + b.Description,
		StartApproximate: min(a.StartApproximate, b.StartApproximate),
		EndApproximate:   max(a.EndApproximate, b.EndApproximate),
		Keywords:         keywords,
		Importance:       max(importanceOr(a.Importance, 1), importanceOr(b.Importance, 1)),
		ChunkSource:      a.ChunkSource,
		HasTitle:         true,
	}
}

// appendUnique appends the values of src not yet in seen, preserving first-seen order
func appendUnique(dst []string, seen map[string]struct{}, src []string) []string {
	for _, v := range src {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}

func importanceOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func intPtr(v int) *int {
	return &v
}
