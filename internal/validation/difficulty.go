package validation

import (
	"strings"
	"unicode"

	"github.com/windoze95/recipefinder-api/internal/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// difficultyAliases maps folded spellings to the canonical difficulty.
var difficultyAliases = map[string]models.Difficulty{
	"easy":         models.DifficultyEasy,
	"facil":        models.DifficultyEasy,
	"sencillo":     models.DifficultyEasy,
	"simple":       models.DifficultyEasy,
	"beginner":     models.DifficultyEasy,
	"medium":       models.DifficultyMedium,
	"medio":        models.DifficultyMedium,
	"media":        models.DifficultyMedium,
	"intermedio":   models.DifficultyMedium,
	"intermediate": models.DifficultyMedium,
	"moderate":     models.DifficultyMedium,
	"hard":         models.DifficultyHard,
	"dificil":      models.DifficultyHard,
	"difficult":    models.DifficultyHard,
	"advanced":     models.DifficultyHard,
}

// NormalizeDifficulty maps a free-form difficulty to its canonical value.
// Matching ignores case, surrounding whitespace and accents, so "FÁCIL"
// becomes Easy. The second result is false for unrecognized input.
func NormalizeDifficulty(s string) (models.Difficulty, bool) {
	d, ok := difficultyAliases[foldDifficulty(s)]
	return d, ok
}

func foldDifficulty(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
