package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/classicrypt/internal/alphabet"
	"github.com/verte-zerg/classicrypt/internal/transposition"
	"github.com/verte-zerg/classicrypt/internal/vigenere"
)

var (
	vigenereKey   string
	vigenereClean bool

	transpositionKey  string
	transpositionKey2 string
)

func newVigenereCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vigenere",
		Short: "Vigenère cipher",
	}
	cmd.AddCommand(newVigenereActionCmd("encode", "Encrypt text", vigenere.Encode))
	cmd.AddCommand(newVigenereActionCmd("decode", "Decrypt text", vigenere.Decode))
	return cmd
}

func newVigenereActionCmd(use, short string, fn func(text, key string) (string, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVigenereCmd(cmd, use, fn)
		},
	}
	cmd.Flags().StringVarP(&vigenereKey, "key", "k", "", "cipher key (letters only)")
	cmd.Flags().BoolVar(&vigenereClean, "clean", false, "drop non-letters and uppercase the input first")
	addInputFlags(cmd)
	addOutputFlag(cmd)
	return cmd
}

func runVigenereCmd(cmd *cobra.Command, action string, fn func(text, key string) (string, error)) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "key", &vigenereKey, fileCfg.Vigenere.Key)
	if vigenereKey == "" {
		return fmt.Errorf("--key is required (or set [vigenere] key in config)")
	}

	text, err := readInput(cmd)
	if err != nil {
		return err
	}
	if vigenereClean {
		text = alphabet.Clean(text)
	}
	out, err := fn(text, vigenereKey)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	return writeOutput(cmd, out)
}

func newTranspositionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transposition",
		Short: "Columnar transposition cipher",
	}
	cmd.AddCommand(newTranspositionActionCmd("encode", "Encrypt text", transposition.Encode, transposition.DoubleEncode))
	cmd.AddCommand(newTranspositionActionCmd("decode", "Decrypt text", transposition.Decode, transposition.DoubleDecode))
	return cmd
}

func newTranspositionActionCmd(
	use, short string,
	single func(text, key string) (string, error),
	double func(text, key1, key2 string) (string, error),
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTranspositionCmd(cmd, use, single, double)
		},
	}
	cmd.Flags().StringVarP(&transpositionKey, "key", "k", "", "column key")
	cmd.Flags().StringVar(&transpositionKey2, "key2", "", "second column key (double transposition)")
	addInputFlags(cmd)
	addOutputFlag(cmd)
	return cmd
}

func runTranspositionCmd(
	cmd *cobra.Command,
	action string,
	single func(text, key string) (string, error),
	double func(text, key1, key2 string) (string, error),
) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "key", &transpositionKey, fileCfg.Transposition.Key)
	applyStringConfig(cmd, "key2", &transpositionKey2, fileCfg.Transposition.Key2)
	if transpositionKey == "" {
		return fmt.Errorf("--key is required (or set [transposition] key in config)")
	}

	text, err := readInput(cmd)
	if err != nil {
		return err
	}
	var out string
	if transpositionKey2 != "" {
		out, err = double(text, transpositionKey, transpositionKey2)
	} else {
		out, err = single(text, transpositionKey)
	}
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	return writeOutput(cmd, out)
}
