package segmentation

import (
	"strings"
	"testing"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "Extrait"},
		{"   ", "Extrait"},
		{"!!!", "Extrait"},
		{"le pain de mon père", "Le Pain De Mon Père"},
		{"Présentation de l'artisan", "Présentation De Lartisan"},
		{"ÉVOLUTION des techniques", "Évolution Des Techniques"},
		{"métier: boulanger (30 ans)", "Métier Boulanger 30 Ans"},
		{"avant-guerre", "Avant-Guerre"},
		{"Enfance / Apprentissage", "Enfance  Apprentissage"},
	}
	for _, tt := range tests {
		if got := CleanTitle(tt.in); got != tt.want {
			t.Errorf("CleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanTitle_Truncates(t *testing.T) {
	long := strings.Repeat("abcdefghij ", 8)
	got := CleanTitle(long)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if n := len([]rune(got)); n != 50 {
		t.Fatalf("expected 50 runes, got %d (%q)", n, got)
	}
}
