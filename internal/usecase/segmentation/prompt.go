package segmentation

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
)

const analysisPromptTemplate = `Tu es un expert en analyse de contenu vidéo d'interviews. Analyse cette transcription d'interview%s et identifie:

1. THÈMES PRINCIPAUX: Les différents sujets abordés
2. POINTS DE DÉCOUPE: Moments naturels pour diviser la vidéo (transitions entre sujets, pauses)
3. LIEUX MENTIONNÉS: Villes, villages, lieux géographiques
4. MOTS-CLÉS: Concepts importants, noms propres

TRANSCRIPTION À ANALYSER:
%s

RÉPONDS UNIQUEMENT EN JSON avec cette structure exacte:
{
  "themes": [
    {
      "title": "Titre du thème",
      "description": "Description courte",
      "start_approximate": 123.45,
      "end_approximate": 234.56,
      "keywords": ["mot1", "mot2"],
      "importance": 1-5
    }
  ],
  "cut_points": [
    {
      "timestamp": 123.45,
      "reason": "Transition vers nouveau sujet",
      "confidence": 1-5
    }
  ],
  "locations": ["Paris", "Marseille"],
  "global_keywords": ["métier", "tradition", "famille"]
}

IMPORTANT:
- Utilise les timestamps réels de la transcription
- Privilégie les transitions naturelles
- Évite de couper au milieu de phrases importantes
- Les thèmes doivent être cohérents et distincts`

// PartMarker returns the "(partie i/n)" marker, empty for a single-chunk transcript
func PartMarker(pos entities.ChunkPosition) string {
	if pos.Total <= 1 {
		return ""
	}
	return fmt.Sprintf("(partie %d/%d)", pos.Index+1, pos.Total)
}

// BuildPrompt embeds the chunk text into the analysis instruction
func BuildPrompt(text string, pos entities.ChunkPosition) string {
	marker := PartMarker(pos)
	if marker != "" {
		marker = " " + marker
	}
	return fmt.Sprintf(analysisPromptTemplate, marker, strings.TrimSpace(text))
}
