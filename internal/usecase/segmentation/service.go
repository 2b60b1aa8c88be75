package segmentation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
	"github.com/johnquangdev/interview-segmenter/pkg/ai"
	"github.com/johnquangdev/interview-segmenter/pkg/config"
	"github.com/johnquangdev/interview-segmenter/pkg/jobcontext"
	"github.com/johnquangdev/interview-segmenter/pkg/retry"
)

// Result is the outcome of one transcript analysis
type Result struct {
	RunID          uuid.UUID
	Segments       []entities.OutputSegment
	Strategy       entities.RunStrategy
	ChunkCount     int
	FailedChunks   int
	Locations      []string
	GlobalKeywords []string
	Model          string
	Err            error // set when the uniform fallback replaced a failed analysis
	Elapsed        time.Duration
}

// Fallback reports whether the segments come from the uniform fallback
func (r *Result) Fallback() bool {
	return r.Strategy == entities.RunStrategyUniform
}

// Service runs the chunk, analyse, merge and build pipeline
type Service struct {
	generator  ai.Generator
	chunker    *Chunker
	requestor  *Requestor
	merger     *Merger
	builder    *Builder
	runTimeout time.Duration
	logger     *zap.Logger
}

// NewService wires the pipeline from the segmentation tunables
func NewService(generator ai.Generator, cfg config.SegmentationConfig, runTimeout time.Duration, logger *zap.Logger) *Service {
	retrier := retry.New(retry.Policy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
	}, logger)

	return &Service{
		generator: generator,
		chunker:   NewChunker(cfg.MaxWordsPerChunk),
		requestor: NewRequestor(generator, retrier, logger),
		merger:    NewMerger(cfg.OverlapThreshold, logger),
		builder: NewBuilder(BuilderOptions{
			MinSegmentSeconds:  cfg.MinSegmentSeconds,
			SnapWindowSeconds:  cfg.SnapWindowSeconds,
			SnapMinConfidence:  cfg.SnapMinConfidence,
			FallbackMaxSeconds: cfg.FallbackMaxSeconds,
		}, logger),
		runTimeout: runTimeout,
		logger:     logger,
	}
}

// Builder exposes the segment builder, e.g. for fallback slicing by callers
func (s *Service) Builder() *Builder {
	return s.builder
}

// CheckModel verifies the generator's model is usable when the backend supports it
func (s *Service) CheckModel(ctx context.Context) error {
	if s.generator == nil {
		return fmt.Errorf("%w: no generator configured", entities.ErrModelNotAvailable)
	}
	checker, ok := s.generator.(ai.ModelChecker)
	if !ok {
		return nil
	}
	if err := checker.EnsureModel(ctx); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrModelNotAvailable, err)
	}
	return nil
}

// AnalyzeTranscript returns the segments for t. It never fails: any error is
// answered with uniform segments over the transcript duration.
func (s *Service) AnalyzeTranscript(ctx context.Context, t entities.Transcript) []entities.OutputSegment {
	return s.Run(ctx, t).Segments
}

// Run is AnalyzeTranscript with the run details
func (s *Service) Run(ctx context.Context, t entities.Transcript) *Result {
	return s.RunWithID(ctx, uuid.New(), t)
}

// RunWithID is Run with a caller-chosen run id
func (s *Service) RunWithID(ctx context.Context, runID uuid.UUID, t entities.Transcript) (res *Result) {
	ctx, cancel := jobcontext.RunBegin(ctx, runID, s.runTimeout)
	defer cancel()

	started := time.Now()
	res = &Result{RunID: runID}
	if s.generator != nil {
		res.Model = s.generator.Name()
	}

	if s.logger != nil {
		s.logger.Info("🎬 transcript analysis started",
			append(jobcontext.Fields(ctx),
				zap.Int("segments", len(t.Segments)),
				zap.Float64("total_duration", t.TotalDuration()),
			)...,
		)
	}

	defer func() {
		if r := recover(); r != nil {
			s.fallback(ctx, res, t, fmt.Errorf("panic during analysis: %v", r))
		}
		res.Elapsed = time.Since(started)
		if s.logger != nil {
			s.logger.Info("✅ transcript analysis finished",
				append(jobcontext.Fields(ctx),
					zap.String("strategy", string(res.Strategy)),
					zap.Int("segments", len(res.Segments)),
					zap.Int("chunks", res.ChunkCount),
					zap.Int("failed_chunks", res.FailedChunks),
					zap.Duration("elapsed", res.Elapsed),
				)...,
			)
		}
	}()

	if err := s.analyze(ctx, t, res); err != nil {
		s.fallback(ctx, res, t, err)
	}
	return res
}

func (s *Service) analyze(ctx context.Context, t entities.Transcript, res *Result) error {
	if err := s.CheckModel(ctx); err != nil {
		return err
	}

	chunks := s.chunker.Split(t)
	res.ChunkCount = len(chunks)
	if s.logger != nil && len(chunks) > 1 {
		s.logger.Info("transcript split into chunks",
			append(jobcontext.Fields(ctx), zap.Int("chunks", len(chunks)))...,
		)
	}

	analyses := make([]*entities.ChunkAnalysis, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("analysis interrupted before chunk %d: %w", i+1, err)
		}
		chunkCtx := jobcontext.WithChunk(ctx, i, len(chunks))
		if s.logger != nil {
			s.logger.Info("analysing chunk", jobcontext.Fields(chunkCtx)...)
		}

		analyses[i] = s.requestor.Analyze(chunkCtx, chunk, entities.ChunkPosition{Index: i, Total: len(chunks)})
		if analyses[i] == nil {
			res.FailedChunks++
		}
	}

	if res.FailedChunks == len(chunks) && s.logger != nil {
		s.logger.Error("every chunk analysis failed", jobcontext.Fields(ctx)...)
	}

	global := s.merger.Merge(analyses, chunks)
	res.Locations = global.Locations
	res.GlobalKeywords = global.GlobalKeywords
	res.Segments, res.Strategy = s.builder.BuildWithStrategy(global, t)
	return nil
}

func (s *Service) fallback(ctx context.Context, res *Result, t entities.Transcript, err error) {
	if s.logger != nil {
		s.logger.Error("analysis failed, using uniform segments",
			append(jobcontext.Fields(ctx), zap.Error(err))...,
		)
	}
	res.Err = err
	res.Strategy = entities.RunStrategyUniform
	res.Segments = s.uniform(ctx, t.TotalDuration())
}

// uniform runs the uniform fallback; should it panic, the whole recording
// becomes a single segment
func (s *Service) uniform(ctx context.Context, total float64) (segments []entities.OutputSegment) {
	defer func() {
		if r := recover(); r != nil {
			if s.logger != nil {
				s.logger.Error("uniform fallback failed, returning one segment",
					append(jobcontext.Fields(ctx), zap.Any("panic", r))...,
				)
			}
			segments = wholeRecording(total)
		}
	}()
	return s.builder.Uniform(total)
}

func wholeRecording(total float64) []entities.OutputSegment {
	if !(total > 0) {
		return []entities.OutputSegment{}
	}
	return []entities.OutputSegment{{
		Title:             fmt.Sprintf("%s 1", entities.DefaultTitle),
		StartSeconds:      0,
		EndSeconds:        total,
		Summary:           "Segment créé automatiquement",
		Keywords:          make([]string, 0),
		Importance:        entities.DefaultImportance,
		DurationFormatted: entities.FormatDuration(total),
	}}
}
