package segmentation

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
)

// SnapKind names which boundary of a theme is being snapped
type SnapKind int

const (
	SnapStart SnapKind = iota
	SnapEnd
)

func (k SnapKind) String() string {
	if k == SnapEnd {
		return "end"
	}
	return "start"
}

const defaultCutReason = "point de coupe détecté"

// maxUniformSegments bounds the uniform fallback; longer recordings get wider slices
const maxUniformSegments = 10000

// BuilderOptions tunes segment construction
type BuilderOptions struct {
	MinSegmentSeconds  float64 // shorter spans are dropped
	SnapWindowSeconds  float64 // max distance between a theme boundary and a cut point
	SnapMinConfidence  int     // min cut point confidence to snap to
	FallbackMaxSeconds float64 // upper bound of a uniform segment
}

// DefaultBuilderOptions returns 30s minimum, 30s snap window, confidence 3 and 300s uniform slices
func DefaultBuilderOptions() BuilderOptions {
	return BuilderOptions{
		MinSegmentSeconds:  30,
		SnapWindowSeconds:  30,
		SnapMinConfidence:  3,
		FallbackMaxSeconds: 300,
	}
}

// Builder turns a merged analysis into the final segment list
type Builder struct {
	opts   BuilderOptions
	logger *zap.Logger
}

// NewBuilder creates a builder, replacing non-positive options with defaults
func NewBuilder(opts BuilderOptions, logger *zap.Logger) *Builder {
	def := DefaultBuilderOptions()
	if opts.MinSegmentSeconds <= 0 {
		opts.MinSegmentSeconds = def.MinSegmentSeconds
	}
	if opts.SnapWindowSeconds <= 0 {
		opts.SnapWindowSeconds = def.SnapWindowSeconds
	}
	if opts.SnapMinConfidence <= 0 {
		opts.SnapMinConfidence = def.SnapMinConfidence
	}
	if opts.FallbackMaxSeconds <= 0 {
		opts.FallbackMaxSeconds = def.FallbackMaxSeconds
	}
	return &Builder{opts: opts, logger: logger}
}

// Build returns the segments for the analysis, see BuildWithStrategy
func (b *Builder) Build(analysis entities.GlobalAnalysis, t entities.Transcript) []entities.OutputSegment {
	segments, _ := b.BuildWithStrategy(analysis, t)
	return segments
}

// BuildWithStrategy tries themes, then cut points, then uniform slices, and
// reports which path produced the segments. The result is ordered by start
// with duplicate spans removed.
func (b *Builder) BuildWithStrategy(analysis entities.GlobalAnalysis, t entities.Transcript) ([]entities.OutputSegment, entities.RunStrategy) {
	total := t.TotalDuration()

	strategy := entities.RunStrategyThemes
	segments := b.FromThemes(analysis.Themes, analysis.CutPoints)
	if len(segments) == 0 {
		strategy = entities.RunStrategyCutPoints
		segments = b.FromCutPoints(analysis.CutPoints, total)
	}
	if len(segments) == 0 {
		strategy = entities.RunStrategyUniform
		segments = b.Uniform(total)
	}

	segments = sortAndDedup(segments)

	if b.logger != nil {
		b.logger.Info("video segments built",
			zap.String("strategy", string(strategy)),
			zap.Int("segments", len(segments)),
			zap.Float64("total_duration", total),
		)
	}
	return segments, strategy
}

// Snap returns the timestamp of the cut point closest to target when it lies
// within the snap window and is confident enough, otherwise target itself.
// kind does not change the result.
func (b *Builder) Snap(target float64, cutPoints []entities.CutPoint, kind SnapKind) float64 {
	if len(cutPoints) == 0 {
		return target
	}

	best := cutPoints[0]
	bestDist := math.Abs(best.Timestamp - target)
	for _, cp := range cutPoints[1:] {
		if d := math.Abs(cp.Timestamp - target); d < bestDist {
			best, bestDist = cp, d
		}
	}

	if bestDist <= b.opts.SnapWindowSeconds && best.Confidence >= b.opts.SnapMinConfidence {
		return best.Timestamp
	}
	return target
}

// FromThemes builds one segment per theme with snapped boundaries. Spans shorter
// than the minimum are skipped except for the last theme, which is always kept
// unless its span is empty or negative.
func (b *Builder) FromThemes(themes []entities.Theme, cutPoints []entities.CutPoint) []entities.OutputSegment {
	sorted := append([]entities.Theme(nil), themes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartApproximate < sorted[j].StartApproximate
	})

	segments := make([]entities.OutputSegment, 0, len(sorted))
	for i, theme := range sorted {
		start := b.Snap(theme.StartApproximate, cutPoints, SnapStart)
		end := b.Snap(theme.EndApproximate, cutPoints, SnapEnd)

		last := i == len(sorted)-1
		if end-start < b.opts.MinSegmentSeconds && !last {
			continue
		}
		if end <= start {
			continue
		}

		title := theme.Title
		if !theme.HasTitle && title == "" {
			title = fmt.Sprintf("%s %d", entities.DefaultTitle, i+1)
		}

		segments = append(segments, entities.OutputSegment{
			Title:             CleanTitle(title),
			StartSeconds:      start,
			EndSeconds:        end,
			Summary:           theme.Description,
			Keywords:          append(make([]string, 0, len(theme.Keywords)), theme.Keywords...),
			Importance:        importanceOr(theme.Importance, entities.DefaultImportance),
			DurationFormatted: entities.FormatDuration(end - start),
			ThemeBased:        true,
			ChunkSource:       theme.ChunkSource,
		})
	}
	return segments
}

// FromCutPoints slices [0, total] at the cut points. The running start only
// advances when a segment longer than the minimum is emitted; a tail longer
// than the minimum closes the list.
func (b *Builder) FromCutPoints(cutPoints []entities.CutPoint, total float64) []entities.OutputSegment {
	if len(cutPoints) == 0 {
		return nil
	}

	sorted := append([]entities.CutPoint(nil), cutPoints...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	segments := make([]entities.OutputSegment, 0, len(sorted)+1)
	current := 0.0
	for _, cp := range sorted {
		end := cp.Timestamp
		if end-current <= b.opts.MinSegmentSeconds {
			continue
		}
		reason := cp.Reason
		if reason == "" {
			reason = defaultCutReason
		}
		segments = append(segments, b.plainSegment(
			fmt.Sprintf("Segment %d", len(segments)+1),
			current, end,
			fmt.Sprintf("Segment créé automatiquement (%s)", reason),
		))
		current = end
	}

	if current < total-b.opts.MinSegmentSeconds {
		segments = append(segments, b.plainSegment(
			fmt.Sprintf("Segment %d", len(segments)+1),
			current, total,
			"Segment final",
		))
	}
	return segments
}

// Uniform tiles [0, total] with slices of min(FallbackMaxSeconds, total/3);
// the last slice is truncated to end exactly at total. Past maxUniformSegments
// slices the slice width grows so the count stays bounded.
func (b *Builder) Uniform(total float64) []entities.OutputSegment {
	if !(total > 0) || math.IsInf(total, 0) {
		return []entities.OutputSegment{}
	}

	size := math.Min(b.opts.FallbackMaxSeconds, total/3)
	n := math.Ceil(total/size - 1e-9)
	if n > maxUniformSegments {
		if b.logger != nil {
			b.logger.Warn("uniform fallback capped",
				zap.Float64("total_duration", total),
				zap.Int("segments", maxUniformSegments),
			)
		}
		n = maxUniformSegments
		size = total / n
	}
	count := int(n)
	if count < 1 {
		count = 1
	}

	var segments []entities.OutputSegment
	for k := 0; k < count; k++ {
		start := float64(k) * size
		end := float64(k+1) * size
		if k == count-1 || end > total {
			end = total
		}
		segments = append(segments, b.plainSegment(
			fmt.Sprintf("%s %d", entities.DefaultTitle, k+1),
			start, end,
			"Segment créé automatiquement",
		))
	}

	if b.logger != nil {
		b.logger.Warn("uniform fallback segments created",
			zap.Int("segments", len(segments)),
			zap.Float64("segment_duration", size),
		)
	}
	return segments
}

func (b *Builder) plainSegment(title string, start, end float64, summary string) entities.OutputSegment {
	return entities.OutputSegment{
		Title:             title,
		StartSeconds:      start,
		EndSeconds:        end,
		Summary:           summary,
		Keywords:          make([]string, 0),
		Importance:        entities.DefaultImportance,
		DurationFormatted: entities.FormatDuration(end - start),
		ThemeBased:        false,
	}
}

func sortAndDedup(segments []entities.OutputSegment) []entities.OutputSegment {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].StartSeconds < segments[j].StartSeconds
	})

	type span struct{ start, end float64 }
	seen := make(map[span]struct{}, len(segments))
	out := make([]entities.OutputSegment, 0, len(segments))
	for _, seg := range segments {
		key := span{seg.StartSeconds, seg.EndSeconds}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, seg)
	}
	return out
}
