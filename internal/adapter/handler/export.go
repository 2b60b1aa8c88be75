package handler

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/interview-segmenter/errors"
	dto "github.com/johnquangdev/interview-segmenter/internal/adapter/dto/export"
	"github.com/johnquangdev/interview-segmenter/internal/infrastructure/storage"
	"github.com/johnquangdev/interview-segmenter/internal/usecase/export"
)

// Export serves export planning
type Export struct {
	planner *export.Planner
	store   ObjectStore // nil when object storage is disabled
	logger  *zap.Logger
}

// NewExport creates the export handler. store may be nil.
func NewExport(planner *export.Planner, store ObjectStore, logger *zap.Logger) *Export {
	return &Export{planner: planner, store: store, logger: logger}
}

// Plan validates a cut list and returns the per-clip cutting instructions
// with size and time estimates
func (h *Export) Plan(c echo.Context) error {
	var req dto.PlanRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	plan, err := h.planner.Plan(req.VideoPath, req.OutputDir, req.Entities())
	if err != nil {
		var ve *export.ValidationError
		if stdErrors.As(err, &ve) {
			return HandleError(h.logger, c, errors.ErrExportInvalid(ve.Problems))
		}
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	planID := uuid.New().String()
	resp := dto.FromPlan(planID, plan)
	resp.PlanURL = h.storePlan(c.Request().Context(), planID, resp)

	return HandleCreated(h.logger, c, resp)
}

// GetPlan returns a previously stored export plan
func (h *Export) GetPlan(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("plan id must be a UUID"))
	}
	if h.store == nil {
		return HandleError(h.logger, c, errors.ErrNotFound("Export plan").WithDetail("reason", "object storage is disabled"))
	}

	var plan dto.PlanResponse
	if err := h.store.GetJSON(c.Request().Context(), storage.PlanObjectName(id.String()), &plan); err != nil {
		if storage.IsNotFound(err) {
			return HandleError(h.logger, c, errors.ErrNotFound("Export plan"))
		}
		return HandleError(h.logger, c, errors.ErrStorageFailed("get export plan", err))
	}
	return HandleSuccess(h.logger, c, plan)
}

func (h *Export) storePlan(ctx context.Context, planID string, plan dto.PlanResponse) string {
	if h.store == nil {
		return ""
	}
	object := storage.PlanObjectName(planID)
	if err := h.store.PutJSON(ctx, object, plan); err != nil {
		if h.logger != nil {
			h.logger.Warn("failed to store export plan", zap.String("plan_id", planID), zap.Error(err))
		}
		return ""
	}
	u, err := h.store.GetFileURL(ctx, object, planURLExpiry)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("failed to presign export plan", zap.String("plan_id", planID), zap.Error(err))
		}
		return ""
	}
	return u
}
