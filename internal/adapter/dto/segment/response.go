package segment

import (
	"time"

	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
)

// SegmentResponse is one clip of the cut list. start_time and end_time
// repeat the *_seconds fields for older clients.
type SegmentResponse struct {
	Title             string   `json:"title"`
	StartSeconds      float64  `json:"start_seconds"`
	EndSeconds        float64  `json:"end_seconds"`
	StartTime         float64  `json:"start_time"`
	EndTime           float64  `json:"end_time"`
	Summary           string   `json:"summary"`
	Keywords          []string `json:"keywords"`
	Importance        int      `json:"importance"`
	DurationFormatted string   `json:"duration"`
	ThemeBased        bool     `json:"theme_based"`
	ChunkSource       *int     `json:"chunk_source,omitempty"`
}

// SegmentationResponse is the body returned by POST /v1/segments
type SegmentationResponse struct {
	RunID          string            `json:"run_id"`
	Strategy       string            `json:"strategy"`
	Fallback       bool              `json:"fallback"`
	Model          string            `json:"model,omitempty"`
	ChunkCount     int               `json:"chunk_count"`
	FailedChunks   int               `json:"failed_chunks"`
	Locations      []string          `json:"locations"`
	GlobalKeywords []string          `json:"global_keywords"`
	Segments       []SegmentResponse `json:"segments"`
	ElapsedMS      int64             `json:"elapsed_ms"`
	PlanURL        string            `json:"plan_url,omitempty"`
}

// RunResponse is the body returned by GET /v1/segments/runs/:id
type RunResponse struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	Strategy      string            `json:"strategy,omitempty"`
	TotalDuration float64           `json:"total_duration"`
	ChunkCount    int               `json:"chunk_count"`
	FailedChunks  int               `json:"failed_chunks"`
	Model         string            `json:"model,omitempty"`
	Locations     []string          `json:"locations"`
	Keywords      []string          `json:"keywords"`
	Segments      []SegmentResponse `json:"segments"`
	PlanObject    string            `json:"plan_object,omitempty"`
	LastError     *string           `json:"last_error,omitempty"`
	StartedAt     time.Time         `json:"started_at"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
}

// FromSegment converts a domain segment
func FromSegment(s entities.OutputSegment) SegmentResponse {
	keywords := s.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return SegmentResponse{
		Title:             s.Title,
		StartSeconds:      s.StartSeconds,
		EndSeconds:        s.EndSeconds,
		StartTime:         s.StartSeconds,
		EndTime:           s.EndSeconds,
		Summary:           s.Summary,
		Keywords:          keywords,
		Importance:        s.Importance,
		DurationFormatted: s.DurationFormatted,
		ThemeBased:        s.ThemeBased,
		ChunkSource:       s.ChunkSource,
	}
}

// FromSegments converts a domain cut list, never returning nil
func FromSegments(segs []entities.OutputSegment) []SegmentResponse {
	out := make([]SegmentResponse, len(segs))
	for i, s := range segs {
		out[i] = FromSegment(s)
	}
	return out
}

// FromRun converts a stored run
func FromRun(r *entities.SegmentationRun) RunResponse {
	return RunResponse{
		ID:            r.ID.String(),
		Status:        string(r.Status),
		Strategy:      string(r.Strategy),
		TotalDuration: r.TotalDuration,
		ChunkCount:    r.ChunkCount,
		FailedChunks:  r.FailedChunks,
		Model:         r.ModelUsed,
		Locations:     nonNil(r.Locations),
		Keywords:      nonNil(r.Keywords),
		Segments:      FromSegments(r.Segments),
		PlanObject:    r.PlanObject,
		LastError:     r.LastError,
		StartedAt:     r.StartedAt,
		CompletedAt:   r.CompletedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
