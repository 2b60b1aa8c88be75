package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/interview-segmenter/errors"
	"github.com/johnquangdev/interview-segmenter/internal/adapter/dto/common"
	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
)

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized 200 response
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return handleStatus(logger, c, http.StatusOK, data)
}

// HandleCreated writes a standardized 201 response
func HandleCreated(logger *zap.Logger, c echo.Context, data interface{}) error {
	return handleStatus(logger, c, http.StatusCreated, data)
}

func handleStatus(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := common.SuccessResponse{
		Code:    errors.ErrorCode_HTTP_OK,
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = toAppError(err)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Stringer("app_code", appErr.Code),
			zap.Error(err),
		)
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	return c.JSON(appErr.HTTPCode, common.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	})
}

// toAppError maps domain errors that reach the HTTP layer unwrapped
func toAppError(err error) errors.AppError {
	switch {
	case stdErrors.Is(err, entities.ErrRunNotFound):
		return errors.ErrNotFound("Segmentation run")
	case stdErrors.Is(err, entities.ErrInvalidSegmentSpan),
		stdErrors.Is(err, entities.ErrNegativeDuration),
		stdErrors.Is(err, entities.ErrDurationTooLong):
		return errors.ErrTranscriptInvalid(err.Error())
	case stdErrors.Is(err, entities.ErrModelNotAvailable):
		return errors.ErrGeneratorUnavailable("", err)
	default:
		return errors.ErrInternal(err)
	}
}
