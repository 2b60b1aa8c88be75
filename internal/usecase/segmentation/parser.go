package segmentation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
)

// ParseAnalysis decodes a model reply into a chunk analysis.
// The reply may wrap the JSON object in prose or markdown fences.
func ParseAnalysis(reply string) (*entities.ChunkAnalysis, error) {
	content := extractJSON(reply)
	if content == "" {
		return nil, entities.ErrNoJSONInReply
	}

	var analysis entities.ChunkAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	analysis.Normalize()
	return &analysis, nil
}

// extractJSON strips code fences then keeps the span from the first '{' to the
// last '}'. Without such a span the whole trimmed reply is returned.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		return content[start : end+1]
	}
	return content
}
