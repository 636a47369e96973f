package validation

import (
	"testing"

	"github.com/windoze95/recipefinder-api/internal/models"
)

func TestNormalizeDifficulty(t *testing.T) {
	tests := []struct {
		in     string
		want   models.Difficulty
		wantOK bool
	}{
		{"Easy", models.DifficultyEasy, true},
		{"easy", models.DifficultyEasy, true},
		{"  EASY ", models.DifficultyEasy, true},
		{"facil", models.DifficultyEasy, true},
		{"Fácil", models.DifficultyEasy, true},
		{"FÁCIL", models.DifficultyEasy, true},
		{"Medium", models.DifficultyMedium, true},
		{"intermedio", models.DifficultyMedium, true},
		{"Moderate", models.DifficultyMedium, true},
		{"hard", models.DifficultyHard, true},
		{"Difícil", models.DifficultyHard, true},
		{"advanced", models.DifficultyHard, true},
		{"", "", false},
		{"extreme", "", false},
		{"easy-ish", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeDifficulty(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeDifficulty(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
