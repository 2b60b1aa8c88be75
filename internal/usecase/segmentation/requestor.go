package segmentation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
	"github.com/johnquangdev/interview-segmenter/pkg/ai"
	"github.com/johnquangdev/interview-segmenter/pkg/jobcontext"
	"github.com/johnquangdev/interview-segmenter/pkg/retry"
)

// Requestor asks the generator for one chunk's analysis and parses the reply
type Requestor struct {
	generator ai.Generator
	retrier   *retry.Retrier
	logger    *zap.Logger
}

// NewRequestor creates a requestor. A nil retrier makes a single attempt.
func NewRequestor(generator ai.Generator, retrier *retry.Retrier, logger *zap.Logger) *Requestor {
	if retrier == nil {
		retrier = retry.New(retry.Policy{MaxAttempts: 1}, logger)
	}
	return &Requestor{generator: generator, retrier: retrier, logger: logger}
}

// Analyze returns the chunk's analysis, or nil when the generator kept failing
// or its reply could not be parsed.
func (r *Requestor) Analyze(ctx context.Context, chunk entities.Chunk, pos entities.ChunkPosition) *entities.ChunkAnalysis {
	reply, err := r.query(ctx, BuildPrompt(chunk.Text, pos))
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("chunk analysis failed",
				append(jobcontext.Fields(ctx), zap.Error(err))...,
			)
		}
		return nil
	}

	analysis, err := ParseAnalysis(reply)
	if err != nil {
		if r.logger != nil {
			r.logger.Error("failed to parse model reply",
				append(jobcontext.Fields(ctx),
					zap.Error(err),
					zap.String("reply_preview", preview(reply, 500)),
				)...,
			)
		}
		return nil
	}

	if r.logger != nil {
		r.logger.Debug("chunk analysed",
			append(jobcontext.Fields(ctx),
				zap.Int("themes", len(analysis.Themes)),
				zap.Int("cut_points", len(analysis.CutPoints)),
			)...,
		)
	}
	return analysis
}

func (r *Requestor) query(ctx context.Context, prompt string) (string, error) {
	if r.generator == nil {
		return "", fmt.Errorf("%w: no generator configured", entities.ErrGeneratorFailed)
	}

	var reply string
	err := r.retrier.Do(ctx, "chunk analysis", func(ctx context.Context, attempt int) error {
		out, err := r.generator.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		reply = out
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", entities.ErrGeneratorFailed, err)
	}
	if reply == "" {
		return "", fmt.Errorf("%w: empty reply", entities.ErrGeneratorFailed)
	}
	return reply, nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
