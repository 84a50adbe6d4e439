// Package vigenere implements the Vigenère polyalphabetic substitution cipher.
//
// Only ASCII letters are transformed. Every other byte is copied through at
// its original position and does not consume a key letter, so the key stays
// aligned with the letters of the text rather than with raw offsets.
package vigenere

import (
	"strings"

	"github.com/verte-zerg/classicrypt/internal/alphabet"
)

// Encode shifts every letter of plaintext forward by the matching key letter.
func Encode(plaintext, key string) (string, error) {
	return transform(plaintext, key, 1)
}

// Decode shifts every letter of ciphertext back by the matching key letter.
func Decode(ciphertext, key string) (string, error) {
	return transform(ciphertext, key, -1)
}

// Shifts converts a key into its per-position shift amounts.
func Shifts(key string) ([]int, error) {
	if key == "" {
		return nil, alphabet.ErrInvalidKey
	}
	shifts := make([]int, len(key))
	for i := 0; i < len(key); i++ {
		idx := alphabet.Index(key[i])
		if idx < 0 {
			return nil, alphabet.ErrInvalidKey
		}
		shifts[i] = idx
	}
	return shifts, nil
}

func transform(text, key string, direction int) (string, error) {
	shifts, err := Shifts(key)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(text))
	keyIndex := 0
	for i := 0; i < len(text); i++ {
		ch := text[i]
		idx := alphabet.Index(ch)
		if idx < 0 {
			b.WriteByte(ch)
			continue
		}
		out := alphabet.Letter(idx + direction*shifts[keyIndex%len(shifts)])
		if !alphabet.IsUpper(ch) {
			out += 'a' - 'A'
		}
		b.WriteByte(out)
		keyIndex++
	}
	return b.String(), nil
}
