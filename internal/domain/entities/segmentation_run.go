package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RunStatus represents the status of a segmentation run
type RunStatus string

const (
	RunStatusProcessing RunStatus = "processing" // Chunks are being analysed
	RunStatusCompleted  RunStatus = "completed"  // Segments built from the model analysis
	RunStatusFallback   RunStatus = "fallback"   // Analysis failed, uniform segments returned
)

// RunStrategy records which construction path produced the segments
type RunStrategy string

const (
	RunStrategyThemes    RunStrategy = "themes"
	RunStrategyCutPoints RunStrategy = "cut_points"
	RunStrategyUniform   RunStrategy = "uniform"
)

// SegmentationRun is the stored record of one transcript analysis
type SegmentationRun struct {
	ID            uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Status        RunStatus         `json:"status" gorm:"type:varchar(50);not null;index;default:'processing'"`
	Strategy      RunStrategy       `json:"strategy,omitempty" gorm:"type:varchar(50)"`
	TotalDuration float64           `json:"total_duration"`
	ChunkCount    int               `json:"chunk_count" gorm:"type:integer;default:0"`
	FailedChunks  int               `json:"failed_chunks" gorm:"type:integer;default:0"`
	Segments      []OutputSegment   `json:"segments,omitempty" gorm:"type:jsonb;serializer:json"`
	Locations     []string          `json:"locations,omitempty" gorm:"type:jsonb;serializer:json"`
	Keywords      []string          `json:"keywords,omitempty" gorm:"type:jsonb;serializer:json"`
	ModelUsed     string            `json:"model_used,omitempty" gorm:"type:varchar(100)"`
	PlanObject    string            `json:"plan_object,omitempty" gorm:"type:text"`
	LastError     *string           `json:"last_error,omitempty" gorm:"type:text"`
	Metadata      datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (SegmentationRun) TableName() string {
	return "segmentation_runs"
}

// NewSegmentationRun creates a run in the processing state
func NewSegmentationRun(id uuid.UUID, totalDuration float64, model string) *SegmentationRun {
	now := time.Now()
	return &SegmentationRun{
		ID:            id,
		Status:        RunStatusProcessing,
		TotalDuration: totalDuration,
		ModelUsed:     model,
		Metadata:      datatypes.JSONMap{},
		StartedAt:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// MarkAsCompleted records the produced segments
func (r *SegmentationRun) MarkAsCompleted(strategy RunStrategy, segments []OutputSegment) {
	r.Status = RunStatusCompleted
	if strategy == RunStrategyUniform {
		r.Status = RunStatusFallback
	}
	r.Strategy = strategy
	r.Segments = segments
	now := time.Now()
	r.CompletedAt = &now
	r.UpdatedAt = now
	if r.Metadata == nil {
		r.Metadata = datatypes.JSONMap{}
	}
	r.Metadata["processing_time_ms"] = now.Sub(r.StartedAt).Milliseconds()
}

// MarkAsFallback records a run that was answered with uniform segments after an error
func (r *SegmentationRun) MarkAsFallback(errMsg string, segments []OutputSegment) {
	r.MarkAsCompleted(RunStrategyUniform, segments)
	r.LastError = &errMsg
}
