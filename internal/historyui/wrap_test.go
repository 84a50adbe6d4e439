package historyui

import "testing"

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("the quick brown fox", 10)
	want := "the quick\nbrown fox"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapTextHardBreaksLongWords(t *testing.T) {
	got := wrapText("CRYPTOGRAPHY", 5)
	want := "CRYPT\nOGRAP\nHY"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapTextKeepsNewlines(t *testing.T) {
	got := wrapText("ab cd\nef", 3)
	want := "ab\ncd\nef"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if wrapText("abc", 0) != "abc" {
		t.Fatalf("expected unwrapped text for zero width")
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
