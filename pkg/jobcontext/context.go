package jobcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type KeyContext string

var (
	keyRunID        KeyContext = "run_id"
	keyChunkIndex   KeyContext = "chunk_index"
	keyChunkTotal   KeyContext = "chunk_total"
	keyRunStartTime KeyContext = "run_start_time"
)

// RunMetadata holds metadata for a segmentation run
type RunMetadata struct {
	RunID      uuid.UUID
	ChunkIndex int
	ChunkTotal int
	StartTime  time.Time
}

// RunBegin initializes a run context with a fresh run ID.
// A positive timeout bounds the whole run; the returned cancel must always be called.
func RunBegin(parentCtx context.Context, runID uuid.UUID, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parentCtx, timeout)
	} else {
		ctx, cancel = context.WithCancel(parentCtx)
	}

	ctx = context.WithValue(ctx, keyRunID, runID)
	ctx = context.WithValue(ctx, keyChunkIndex, -1)
	ctx = context.WithValue(ctx, keyRunStartTime, time.Now())

	return ctx, cancel
}

// WithChunk records which chunk is being analysed
func WithChunk(ctx context.Context, index, total int) context.Context {
	ctx = context.WithValue(ctx, keyChunkIndex, index)
	return context.WithValue(ctx, keyChunkTotal, total)
}

// GetRunID extracts run ID from context
func GetRunID(ctx context.Context) (uuid.UUID, bool) {
	runID, ok := ctx.Value(keyRunID).(uuid.UUID)
	return runID, ok
}

// GetChunkIndex extracts the current chunk index, -1 outside chunk analysis
func GetChunkIndex(ctx context.Context) int {
	idx, ok := ctx.Value(keyChunkIndex).(int)
	if !ok {
		return -1
	}
	return idx
}

// GetChunkTotal extracts the number of chunks of the run
func GetChunkTotal(ctx context.Context) int {
	total, ok := ctx.Value(keyChunkTotal).(int)
	if !ok {
		return 0
	}
	return total
}

// GetRunStartTime extracts run start time from context
func GetRunStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyRunStartTime).(time.Time)
	return startTime, ok
}

// GetRunMetadata extracts all run metadata from context
func GetRunMetadata(ctx context.Context) *RunMetadata {
	runID, _ := GetRunID(ctx)
	startTime, _ := GetRunStartTime(ctx)

	return &RunMetadata{
		RunID:      runID,
		ChunkIndex: GetChunkIndex(ctx),
		ChunkTotal: GetChunkTotal(ctx),
		StartTime:  startTime,
	}
}

// Fields returns zap fields describing the run for structured logs
func Fields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 3)
	if runID, ok := GetRunID(ctx); ok {
		fields = append(fields, zap.String("run_id", runID.String()))
	}
	if idx := GetChunkIndex(ctx); idx >= 0 {
		fields = append(fields, zap.Int("chunk", idx+1), zap.Int("chunks", GetChunkTotal(ctx)))
	}
	return fields
}
