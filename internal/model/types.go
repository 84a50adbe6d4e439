// Package model defines shared data structures.
package model

import "time"

// KeyLengthCandidate is a possible Vigenère key length ranked by how many
// repeat distances it divides.
type KeyLengthCandidate struct {
	Length int
	Count  int
}

// Attempt is one frequency attack at a fixed key length.
type Attempt struct {
	KeyLength    int
	CandidateKey string
	Key          string
	BigramScore  int
	Accepted     bool
}

// CrackResult is the outcome of the full Kasiski + frequency attack.
type CrackResult struct {
	Letters     int
	Candidates  []KeyLengthCandidate
	Estimated   int
	HasEstimate bool
	Manual      bool
	Attempts    []Attempt
	Best        Attempt
	Key         string
	Plaintext   string
	Success     bool
}

// AttackConfig defines heuristics for the attack commands.
type AttackConfig struct {
	MinLength  int
	Prior      int
	Candidates int
	Threshold  int
	Save       bool
}

// HistoryConfig defines filters for listing stored runs.
type HistoryConfig struct {
	Since       *time.Time
	Last        int
	SuccessOnly bool
}

// Run is a stored crack attempt.
type Run struct {
	ID           int64
	CreatedAt    time.Time
	Digest       string
	CipherLen    int
	Letters      int
	Estimated    int
	KeyLength    int
	Manual       bool
	RecoveredKey string
	BigramScore  int
	Success      bool
	DurationMs   int64
}

// RunSummary aggregates stored runs for reporting.
type RunSummary struct {
	Runs       int
	Successes  int
	AvgLetters float64
	AvgKeyLen  float64
}
