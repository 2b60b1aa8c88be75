package segmentation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
)

const maxTitleRunes = 50

// word characters, whitespace and hyphen; accented letters are covered by \p{L}
var unsafeTitleChars = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s\p{Zs}\-]`)

// CleanTitle strips unsafe characters, truncates to 50 runes with "...",
// and title-cases the result. An empty result becomes "Extrait".
func CleanTitle(title string) string {
	cleaned := unsafeTitleChars.ReplaceAllString(title, "")

	if r := []rune(cleaned); len(r) > maxTitleRunes {
		cleaned = string(r[:maxTitleRunes-3]) + "..."
	}

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return entities.DefaultTitle
	}
	return titleCase(cleaned)
}

// titleCase upper-cases the first letter of each run of letters and lower-cases the rest
func titleCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				sb.WriteRune(unicode.ToLower(r))
			} else {
				sb.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		sb.WriteRune(r)
		prevLetter = false
	}
	return sb.String()
}
