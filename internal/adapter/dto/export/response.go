package export

import (
	"time"

	usecase "github.com/johnquangdev/interview-segmenter/internal/usecase/export"
)

// PlanResponse is the body returned by POST /v1/exports/plan
type PlanResponse struct {
	PlanID    string         `json:"plan_id"`
	VideoPath string         `json:"video_path"`
	OutputDir string         `json:"output_dir"`
	Items     []usecase.Item `json:"items"`
	Info      usecase.Info   `json:"info"`
	CreatedAt time.Time      `json:"created_at"`
	PlanURL   string         `json:"plan_url,omitempty"`
}

// FromPlan converts a built plan
func FromPlan(id string, p *usecase.Plan) PlanResponse {
	items := p.Items
	if items == nil {
		items = []usecase.Item{}
	}
	return PlanResponse{
		PlanID:    id,
		VideoPath: p.VideoPath,
		OutputDir: p.OutputDir,
		Items:     items,
		Info:      p.Info,
		CreatedAt: p.CreatedAt,
	}
}
