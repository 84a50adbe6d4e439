// Package transposition implements the columnar transposition cipher and its
// double variant.
//
// Text is written row by row into a grid with one column per key character
// and read back column by column in key order. Incomplete trailing cells are
// padded with spaces. Decode strips trailing whitespace, so plaintext that
// itself ends in whitespace does not survive a round trip.
package transposition

import (
	"sort"
	"strings"
	"unicode"

	"github.com/verte-zerg/classicrypt/internal/alphabet"
)

const padding = ' '

// Order returns the column read order for key: column indices stable-sorted
// by their key character, so repeated characters keep left-to-right order.
func Order(key string) []int {
	runes := []rune(key)
	order := make([]int, len(runes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return runes[order[i]] < runes[order[j]]
	})
	return order
}

// Encode writes text into the grid row by row and reads it out column by
// column in key order.
func Encode(text, key string) (string, error) {
	order, err := keyOrder(key)
	if err != nil {
		return "", err
	}
	runes := []rune(text)
	cols := len(order)
	rows := ceilDiv(len(runes), cols)

	var b strings.Builder
	b.Grow(rows * cols)
	for _, col := range order {
		for row := 0; row < rows; row++ {
			idx := row*cols + col
			if idx < len(runes) {
				b.WriteRune(runes[idx])
			} else {
				b.WriteRune(padding)
			}
		}
	}
	return b.String(), nil
}

// Decode writes ciphertext back into the columns it was read from, reads the
// grid row by row and strips trailing whitespace.
func Decode(ciphertext, key string) (string, error) {
	order, err := keyOrder(key)
	if err != nil {
		return "", err
	}
	runes := []rune(ciphertext)
	cols := len(order)
	rows := ceilDiv(len(runes), cols)

	grid := make([]rune, rows*cols)
	filled := make([]bool, rows*cols)
	idx := 0
	for _, col := range order {
		for row := 0; row < rows && idx < len(runes); row++ {
			grid[row*cols+col] = runes[idx]
			filled[row*cols+col] = true
			idx++
		}
	}

	var b strings.Builder
	b.Grow(len(runes))
	for i, r := range grid {
		if filled[i] {
			b.WriteRune(r)
		}
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace), nil
}

// DoubleEncode applies Encode with key1 and then with key2.
func DoubleEncode(text, key1, key2 string) (string, error) {
	first, err := Encode(text, key1)
	if err != nil {
		return "", err
	}
	return Encode(first, key2)
}

// DoubleDecode undoes DoubleEncode: Decode with key2 and then with key1.
func DoubleDecode(ciphertext, key1, key2 string) (string, error) {
	if key1 == "" {
		return "", alphabet.ErrInvalidKey
	}
	first, err := Decode(ciphertext, key2)
	if err != nil {
		return "", err
	}
	return Decode(first, key1)
}

func keyOrder(key string) ([]int, error) {
	if key == "" {
		return nil, alphabet.ErrInvalidKey
	}
	return Order(key), nil
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
