package handler

import (
	"context"
	stdErrors "errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/interview-segmenter/errors"
	"github.com/johnquangdev/interview-segmenter/internal/adapter/dto/segment"
	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
	"github.com/johnquangdev/interview-segmenter/internal/domain/repositories"
	"github.com/johnquangdev/interview-segmenter/internal/infrastructure/storage"
	"github.com/johnquangdev/interview-segmenter/internal/usecase/segmentation"
	"github.com/johnquangdev/interview-segmenter/pkg/validator"
)

const (
	planURLExpiry    = 24 * time.Hour
	persistTimeout   = 10 * time.Second
	maxRunsListLimit = 100
)

// SegmentRunner runs the segmentation engine on one transcript
type SegmentRunner interface {
	RunWithID(ctx context.Context, runID uuid.UUID, t entities.Transcript) *segmentation.Result
}

// ObjectStore keeps JSON documents next to the run history
type ObjectStore interface {
	PutJSON(ctx context.Context, objectName string, v any) error
	GetJSON(ctx context.Context, objectName string, v any) error
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}

// Segment serves the transcript segmentation endpoints
type Segment struct {
	runner SegmentRunner
	runs   repositories.SegmentationRunRepository // nil when run history is disabled
	store  ObjectStore                            // nil when object storage is disabled
	logger *zap.Logger
}

// NewSegment creates the segmentation handler. runs and store may be nil.
func NewSegment(runner SegmentRunner, runs repositories.SegmentationRunRepository, store ObjectStore, logger *zap.Logger) *Segment {
	return &Segment{runner: runner, runs: runs, store: store, logger: logger}
}

// Create segments a transcript into clips.
// Storage failures are logged and never fail the request.
func (h *Segment) Create(c echo.Context) error {
	var req segment.SegmentTranscriptRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		appErr := errors.ErrTranscriptInvalid("request validation failed")
		for i, msg := range validator.Messages(err) {
			appErr = appErr.WithDetail("field_"+strconv.Itoa(i+1), msg)
		}
		return HandleError(h.logger, c, appErr)
	}

	transcript := req.ToEntity()
	if err := transcript.Validate(); err != nil {
		return HandleError(h.logger, c, errors.ErrTranscriptInvalid(err.Error()))
	}

	runID := uuid.New()
	run := entities.NewSegmentationRun(runID, transcript.TotalDuration(), "")
	h.createRun(c.Request().Context(), run)

	res := h.runner.RunWithID(c.Request().Context(), runID, transcript)

	resp := segment.SegmentationResponse{
		RunID:          runID.String(),
		Strategy:       string(res.Strategy),
		Fallback:       res.Fallback(),
		Model:          res.Model,
		ChunkCount:     res.ChunkCount,
		FailedChunks:   res.FailedChunks,
		Locations:      nonNilStrings(res.Locations),
		GlobalKeywords: nonNilStrings(res.GlobalKeywords),
		Segments:       segment.FromSegments(res.Segments),
		ElapsedMS:      res.Elapsed.Milliseconds(),
	}
	resp.PlanURL = h.finishRun(run, res)

	return HandleSuccess(h.logger, c, resp)
}

// GetRun returns one stored run
func (h *Segment) GetRun(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("run id must be a UUID"))
	}
	if h.runs == nil {
		return HandleError(h.logger, c, errors.ErrRunNotFound(id.String()).WithDetail("reason", "run history is disabled"))
	}

	run, err := h.runs.GetByID(c.Request().Context(), id)
	if err != nil {
		if stdErrors.Is(err, entities.ErrRunNotFound) {
			return HandleError(h.logger, c, errors.ErrRunNotFound(id.String()))
		}
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("get segmentation run", err))
	}
	return HandleSuccess(h.logger, c, segment.FromRun(run))
}

// ListRuns returns the most recent runs, newest first
func (h *Segment) ListRuns(c echo.Context) error {
	if h.runs == nil {
		return HandleSuccess(h.logger, c, []segment.RunResponse{})
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("limit must be a positive integer"))
		}
		limit = min(n, maxRunsListLimit)
	}

	runs, err := h.runs.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("list segmentation runs", err))
	}
	out := make([]segment.RunResponse, len(runs))
	for i := range runs {
		out[i] = segment.FromRun(&runs[i])
	}
	return HandleSuccess(h.logger, c, out)
}

func (h *Segment) createRun(ctx context.Context, run *entities.SegmentationRun) {
	if h.runs == nil {
		return
	}
	if err := h.runs.Create(ctx, run); err != nil && h.logger != nil {
		h.logger.Warn("failed to record segmentation run",
			zap.String("run_id", run.ID.String()),
			zap.Error(err),
		)
	}
}

// finishRun stores the cut list and the final run state, returning a
// download URL for the stored cut list when there is one
func (h *Segment) finishRun(run *entities.SegmentationRun, res *segmentation.Result) string {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	run.ModelUsed = res.Model
	run.ChunkCount = res.ChunkCount
	run.FailedChunks = res.FailedChunks
	run.Locations = res.Locations
	run.Keywords = res.GlobalKeywords
	if res.Err != nil {
		run.MarkAsFallback(res.Err.Error(), res.Segments)
	} else {
		run.MarkAsCompleted(res.Strategy, res.Segments)
	}

	var planURL string
	if h.store != nil {
		object := storage.RunObjectName(run.ID.String())
		if err := h.store.PutJSON(ctx, object, segment.FromSegments(res.Segments)); err != nil {
			h.warn("failed to store cut list", run.ID, err)
		} else {
			run.PlanObject = object
			if u, err := h.store.GetFileURL(ctx, object, planURLExpiry); err != nil {
				h.warn("failed to presign cut list", run.ID, err)
			} else {
				planURL = u
			}
		}
	}

	if h.runs != nil {
		if err := h.runs.Update(ctx, run); err != nil {
			h.warn("failed to update segmentation run", run.ID, err)
		}
	}
	return planURL
}

func (h *Segment) warn(msg string, runID uuid.UUID, err error) {
	if h.logger != nil {
		h.logger.Warn(msg, zap.String("run_id", runID.String()), zap.Error(err))
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
