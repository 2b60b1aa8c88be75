package export

import "github.com/johnquangdev/interview-segmenter/internal/domain/entities"

// SegmentRequest is one clip to export. start_time and end_time are
// accepted in place of start_seconds and end_seconds.
type SegmentRequest struct {
	Title        string   `json:"title"`
	StartSeconds *float64 `json:"start_seconds"`
	EndSeconds   *float64 `json:"end_seconds"`
	StartTime    *float64 `json:"start_time"`
	EndTime      *float64 `json:"end_time"`
	Summary      string   `json:"summary"`
	Keywords     []string `json:"keywords"`
	Importance   int      `json:"importance"`
}

// PlanRequest is the body of POST /v1/exports/plan. Field checks are left
// to the planner so every problem is reported at once.
type PlanRequest struct {
	VideoPath string           `json:"video_path"`
	OutputDir string           `json:"output_dir"`
	Segments  []SegmentRequest `json:"segments"`
}

// ToEntity resolves the time aliases; a missing time reads as zero
func (s SegmentRequest) ToEntity() entities.OutputSegment {
	start := firstSet(s.StartSeconds, s.StartTime)
	end := firstSet(s.EndSeconds, s.EndTime)
	return entities.OutputSegment{
		Title:             s.Title,
		StartSeconds:      start,
		EndSeconds:        end,
		Summary:           s.Summary,
		Keywords:          s.Keywords,
		Importance:        s.Importance,
		DurationFormatted: entities.FormatDuration(end - start),
	}
}

// Entities converts every requested segment
func (r PlanRequest) Entities() []entities.OutputSegment {
	out := make([]entities.OutputSegment, len(r.Segments))
	for i, s := range r.Segments {
		out[i] = s.ToEntity()
	}
	return out
}

func firstSet(vals ...*float64) float64 {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}
