package input

import "github.com/verte-zerg/classicrypt/internal/alphabet"

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// LettersOnly keeps words made entirely of ASCII letters, so every character
// of generated text takes part in the ciphers.
func LettersOnly(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		if !alphabet.IsLetter(word[i]) {
			return false
		}
	}
	return true
}
