package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
	"github.com/johnquangdev/interview-segmenter/internal/domain/repositories"
)

const defaultListLimit = 20

// SegmentationRunRepository stores runs in Postgres through GORM
type SegmentationRunRepository struct {
	db *gorm.DB
}

var _ repositories.SegmentationRunRepository = (*SegmentationRunRepository)(nil)

// NewSegmentationRunRepository creates a new run repository
func NewSegmentationRunRepository(db *gorm.DB) *SegmentationRunRepository {
	return &SegmentationRunRepository{db: db}
}

// Create inserts a new run
func (r *SegmentationRunRepository) Create(ctx context.Context, run *entities.SegmentationRun) error {
	if run == nil {
		return errors.New("run cannot be nil")
	}
	return r.db.WithContext(ctx).Create(run).Error
}

// Update saves every column of an existing run
func (r *SegmentationRunRepository) Update(ctx context.Context, run *entities.SegmentationRun) error {
	if run == nil {
		return errors.New("run cannot be nil")
	}
	return r.db.WithContext(ctx).
		Model(&entities.SegmentationRun{}).
		Where("id = ?", run.ID).
		Save(run).Error
}

// GetByID retrieves a run by ID
func (r *SegmentationRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.SegmentationRun, error) {
	var run entities.SegmentationRun
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrRunNotFound
		}
		return nil, err
	}
	return &run, nil
}

// ListRecent returns the newest runs first
func (r *SegmentationRunRepository) ListRecent(ctx context.Context, limit int) ([]entities.SegmentationRun, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var runs []entities.SegmentationRun
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
