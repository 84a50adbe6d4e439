// Package alphabet holds the Latin alphabet and the English reference letter frequencies.
package alphabet

import (
	"errors"
	"strings"
)

// Letters is the ordered 26-letter alphabet shared by every cipher.
const Letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Size is the number of letters in the alphabet.
const Size = len(Letters)

// ErrInvalidKey is returned by every key-consuming operation when the key cannot be used.
var ErrInvalidKey = errors.New("invalid key")

// English letter frequencies in percent, A-Z.
var english = [Size]float64{
	8.2, 1.5, 2.8, 4.3, 12.7, 2.2, 2.0, // A-G
	6.1, 6.7, 0.2, 0.8, 4.0, 2.4, 6.7, // H-N
	7.5, 1.9, 0.1, 6.0, 6.3, 9.1, 2.8, // O-U
	1.0, 2.4, 0.2, 2.0, 0.1, // V-Z
}

// EnglishTable returns a copy of the English reference frequency table.
func EnglishTable() [Size]float64 {
	return english
}

// Frequency returns the expected English frequency of a letter in percent.
// Non-letters have frequency 0.
func Frequency(letter byte) float64 {
	idx := Index(letter)
	if idx < 0 {
		return 0
	}
	return english[idx]
}

// IsLetter reports whether b is an ASCII letter of either case.
func IsLetter(b byte) bool {
	return ('A' <= b && b <= 'Z') || ('a' <= b && b <= 'z')
}

// IsUpper reports whether b is an uppercase ASCII letter.
func IsUpper(b byte) bool {
	return 'A' <= b && b <= 'Z'
}

// Index returns the case-insensitive alphabet position of b, or -1 for non-letters.
func Index(b byte) int {
	switch {
	case 'A' <= b && b <= 'Z':
		return int(b - 'A')
	case 'a' <= b && b <= 'z':
		return int(b - 'a')
	default:
		return -1
	}
}

// Letter returns the uppercase letter at position i, wrapping modulo Size.
func Letter(i int) byte {
	return Letters[Mod(i)]
}

// Mod reduces i into [0, Size).
func Mod(i int) int {
	i %= Size
	if i < 0 {
		i += Size
	}
	return i
}

// Clean drops every non-letter and folds the rest to uppercase.
func Clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if !IsLetter(ch) {
			continue
		}
		b.WriteByte(Letter(Index(ch)))
	}
	return b.String()
}

// CountLetters returns how many bytes of text are letters.
func CountLetters(text string) int {
	n := 0
	for i := 0; i < len(text); i++ {
		if IsLetter(text[i]) {
			n++
		}
	}
	return n
}
