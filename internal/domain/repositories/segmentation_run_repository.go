package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
)

// SegmentationRunRepository persists segmentation runs
type SegmentationRunRepository interface {
	Create(ctx context.Context, run *entities.SegmentationRun) error
	Update(ctx context.Context, run *entities.SegmentationRun) error
	// GetByID returns entities.ErrRunNotFound when no run has the id
	GetByID(ctx context.Context, id uuid.UUID) (*entities.SegmentationRun, error)
	ListRecent(ctx context.Context, limit int) ([]entities.SegmentationRun, error)
}
