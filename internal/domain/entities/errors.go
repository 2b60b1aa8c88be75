package entities

import "errors"

// Domain errors
var (
	// Transcript errors
	ErrInvalidSegmentSpan = errors.New("segment end must be after a non-negative start")
	ErrNegativeDuration   = errors.New("transcript total duration must not be negative")
	ErrDurationTooLong    = errors.New("transcript is longer than seven days")

	// Analysis errors
	ErrNoJSONInReply     = errors.New("model reply contains no JSON object")
	ErrGeneratorFailed   = errors.New("generation request failed")
	ErrModelNotAvailable = errors.New("model not available")

	// Run errors
	ErrRunNotFound = errors.New("segmentation run not found")

	// Export errors
	ErrNoSegments = errors.New("no segment to export")
)
