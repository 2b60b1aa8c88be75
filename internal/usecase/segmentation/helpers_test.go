package segmentation

import (
	"context"
	"errors"
	"sync"

	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
)

func sampleTranscript() entities.Transcript {
	return entities.Transcript{
		Text: "Bonjour, je m'appelle Jean et je suis artisan boulanger depuis 30 ans. J'ai appris le métier avec mon père dans notre village de Provence. Aujourd'hui, les techniques ont évolué mais l'essentiel reste le même.",
		Segments: []entities.TranscriptSegment{
			{Start: 0.0, End: 15.5, Text: "Bonjour, je m'appelle Jean et je suis artisan boulanger depuis 30 ans."},
			{Start: 16.0, End: 35.2, Text: "J'ai appris le métier avec mon père dans notre village de Provence."},
			{Start: 36.0, End: 50.8, Text: "Aujourd'hui, les techniques ont évolué mais l'essentiel reste le même."},
		},
		Metadata: entities.TranscriptMetadata{TotalDuration: 50.8, TotalWords: 35, SegmentsCount: 3},
	}
}

// scriptedGenerator replays replies and errors in order, repeating the last step
type scriptedGenerator struct {
	mu      sync.Mutex
	steps   []step
	calls   int
	prompts []string
}

type step struct {
	reply string
	err   error
	panic bool
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prompts = append(g.prompts, prompt)
	idx := g.calls
	if idx >= len(g.steps) {
		idx = len(g.steps) - 1
	}
	g.calls++
	s := g.steps[idx]
	if s.panic {
		panic("generator exploded")
	}
	return s.reply, s.err
}

func (g *scriptedGenerator) Name() string { return "fake/scripted" }

func replyOK(reply string) step { return step{reply: reply} }

func replyErr(msg string) step { return step{err: errors.New(msg)} }

type checkingGenerator struct {
	scriptedGenerator
	ensureErr error
	ensured   int
}

func (g *checkingGenerator) EnsureModel(ctx context.Context) error {
	g.ensured++
	return g.ensureErr
}
