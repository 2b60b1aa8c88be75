package segmentation

import (
	"strings"

	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
)

// DefaultMaxWordsPerChunk is the word budget of a chunk sent to the model
const DefaultMaxWordsPerChunk = 4000

// Chunker splits a transcript into word-budgeted runs of whole segments
type Chunker struct {
	maxWords int
}

// NewChunker creates a chunker; a non-positive budget selects DefaultMaxWordsPerChunk
func NewChunker(maxWords int) *Chunker {
	if maxWords <= 0 {
		maxWords = DefaultMaxWordsPerChunk
	}
	return &Chunker{maxWords: maxWords}
}

// MaxWords returns the configured budget
func (c *Chunker) MaxWords() int {
	return c.maxWords
}

// Split returns the ordered chunks of t. A transcript within budget yields a
// single chunk; a segment larger than the budget forms a chunk on its own.
func (c *Chunker) Split(t entities.Transcript) []entities.Chunk {
	if t.WordCount() <= c.maxWords {
		chunk := entities.Chunk{
			Text:     t.FullText(),
			Segments: append([]entities.TranscriptSegment(nil), t.Segments...),
			Index:    0,
		}
		if len(t.Segments) > 0 {
			chunk.StartTime = t.Segments[0].Start
			chunk.EndTime = t.Segments[len(t.Segments)-1].End
		}
		return []entities.Chunk{chunk}
	}

	chunks := make([]entities.Chunk, 0)
	var (
		parts    []string
		current  []entities.TranscriptSegment
		curWords int
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, entities.Chunk{
			Text:      strings.Join(parts, " "),
			Segments:  current,
			StartTime: current[0].Start,
			EndTime:   current[len(current)-1].End,
			Index:     len(chunks),
		})
	}

	for _, seg := range t.Segments {
		words := seg.WordCount()
		if curWords+words > c.maxWords {
			flush()
			parts = []string{seg.Text}
			current = []entities.TranscriptSegment{seg}
			curWords = words
			continue
		}
		parts = append(parts, seg.Text)
		current = append(current, seg)
		curWords += words
	}
	flush()

	return chunks
}
