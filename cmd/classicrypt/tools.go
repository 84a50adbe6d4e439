package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/classicrypt/internal/generator"
	"github.com/verte-zerg/classicrypt/internal/input"
	"github.com/verte-zerg/classicrypt/internal/vigenere"
)

var (
	keygenLength int
	keygenCount  int

	sampleWords    string
	sampleCount    int
	sampleCaps     float64
	samplePunct    float64
	samplePunctSet string
	sampleKey      string
)

func newKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate random Vigenère keys",
		Args:  cobra.NoArgs,
		RunE:  runKeygenCmd,
	}
	cmd.Flags().IntVar(&keygenLength, "length", defaultKeyLength, "key length")
	cmd.Flags().IntVar(&keygenCount, "count", 1, "number of keys")
	addOutputFlag(cmd)
	return cmd
}

func runKeygenCmd(cmd *cobra.Command, _ []string) error {
	if keygenLength <= 0 {
		return fmt.Errorf("--length must be > 0")
	}
	if keygenCount <= 0 {
		return fmt.Errorf("--count must be > 0")
	}
	keys := generator.New().Keys(keygenCount, keygenLength, keygenLength)
	return writeOutput(cmd, strings.Join(keys, "\n"))
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate random plaintext from a word list",
		Args:  cobra.NoArgs,
		RunE:  runSampleCmd,
	}
	cmd.Flags().StringVar(&sampleWords, "words", "", "word list file, one word per line")
	cmd.Flags().IntVar(&sampleCount, "count", defaultSampleLen, "number of words")
	cmd.Flags().Float64Var(&sampleCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	cmd.Flags().Float64Var(&samplePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	cmd.Flags().StringVar(&samplePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	cmd.Flags().StringVarP(&sampleKey, "key", "k", "", "encrypt the sample with this Vigenère key")
	_ = cmd.MarkFlagRequired("words")
	addOutputFlag(cmd)
	return cmd
}

func runSampleCmd(cmd *cobra.Command, _ []string) error {
	if sampleCount <= 0 {
		return fmt.Errorf("--count must be > 0")
	}
	if sampleCaps < 0 || sampleCaps > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if samplePunct < 0 || samplePunct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if samplePunct > 0 && samplePunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}

	words, err := input.LoadWords(sampleWords, input.LettersOnly)
	if err != nil {
		return fmt.Errorf("failed to load word list %s: %w", sampleWords, err)
	}
	text := strings.Join(generator.New().Generate(words, sampleCount, sampleCaps, samplePunct, []rune(samplePunctSet)), " ")
	if sampleKey != "" {
		text, err = vigenere.Encode(text, sampleKey)
		if err != nil {
			return fmt.Errorf("failed to encode: %w", err)
		}
	}
	return writeOutput(cmd, text)
}
