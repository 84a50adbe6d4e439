package stats

import (
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/classicrypt/internal/vigenere"
)

const pangrams = "The quick brown fox jumps over the lazy dog. " +
	"The artist is the creator of beautiful things. To reveal art and conceal the artist is art's aim. " +
	"The critic is he who can translate into another manner or a new material his impression of beautiful things."

func TestLetterStats(t *testing.T) {
	got := LetterStats("aAb!")
	if len(got) != 26 {
		t.Fatalf("expected 26 letters, got %d", len(got))
	}
	if got[0].Letter != 'A' || got[0].Count != 2 {
		t.Fatalf("unexpected stats for A: %+v", got[0])
	}
	if math.Abs(got[0].Observed-66.666) > 0.01 || math.Abs(got[1].Observed-33.333) > 0.01 {
		t.Fatalf("unexpected percentages: %+v %+v", got[0], got[1])
	}
	if got[4].Expected != 12.7 {
		t.Fatalf("expected English reference for E, got %f", got[4].Expected)
	}
	empty := LetterStats("")
	if empty[0].Observed != 0 {
		t.Fatalf("expected zero observed share for empty text")
	}
}

func TestIndexOfCoincidence(t *testing.T) {
	if IndexOfCoincidence("A") != 0 {
		t.Fatalf("expected 0 for a single letter")
	}
	if IndexOfCoincidence("AAAA") != 1 {
		t.Fatalf("expected 1 for a uniform text")
	}
	if got := IndexOfCoincidence("ABCD"); got != 0 {
		t.Fatalf("expected 0 for distinct letters, got %f", got)
	}
	if got := IndexOfCoincidence("AABB"); math.Abs(got-1.0/3.0) > 1e-9 {
		t.Fatalf("expected 1/3, got %f", got)
	}
}

func TestColumnICPeaksAtKeyLength(t *testing.T) {
	text := strings.Repeat(pangrams, 3)
	enc, err := vigenere.Encode(text, "LEMON")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	right := ColumnIC(enc, 5)
	wrong := ColumnIC(enc, 3)
	if right <= wrong {
		t.Fatalf("expected higher column IC at the key length: %f <= %f", right, wrong)
	}
	if ColumnIC(enc, 0) != 0 {
		t.Fatalf("expected 0 for zero key length")
	}
}

func TestSparkline(t *testing.T) {
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}
