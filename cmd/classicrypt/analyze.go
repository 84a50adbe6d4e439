package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/classicrypt/internal/alphabet"
	"github.com/verte-zerg/classicrypt/internal/attack"
	"github.com/verte-zerg/classicrypt/internal/kasiski"
	"github.com/verte-zerg/classicrypt/internal/model"
	"github.com/verte-zerg/classicrypt/internal/store"
)

var (
	kasiskiCfg     model.AttackConfig
	kasiskiRepeats int

	crackCfg       model.AttackConfig
	crackKeyLength int
	crackAll       bool
	crackNoSave    bool
)

func newKasiskiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kasiski",
		Short: "Estimate the Vigenère key length from repeated sequences",
		Args:  cobra.NoArgs,
		RunE:  runKasiskiCmd,
	}
	cmd.Flags().IntVar(&kasiskiCfg.MinLength, "min-length", kasiski.DefaultMinLength, "length of repeated substrings")
	cmd.Flags().IntVar(&kasiskiCfg.Prior, "prior", kasiski.DefaultPrior, "expected key length used to pick among candidates")
	cmd.Flags().IntVar(&kasiskiCfg.Candidates, "candidates", kasiski.DefaultCandidates, "number of key length candidates to keep")
	cmd.Flags().IntVar(&kasiskiRepeats, "repeats", defaultRepeats, "number of repeated sequences to list")
	addInputFlags(cmd)
	return cmd
}

func runKasiskiCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAttackConfig(cmd, &kasiskiCfg, fileCfg.Attack)
	if err := validateAttackConfig(kasiskiCfg); err != nil {
		return err
	}
	if kasiskiRepeats < 0 {
		return fmt.Errorf("--repeats must be >= 0")
	}

	text, err := readInput(cmd)
	if err != nil {
		return err
	}
	opts := kasiski.Options{
		MinLength:  kasiskiCfg.MinLength,
		Prior:      kasiskiCfg.Prior,
		Candidates: kasiskiCfg.Candidates,
	}
	candidates := opts.Rank(text)
	estimate, ok := kasiski.Closest(candidates, opts.Prior)

	report := newReporter(cmd)
	if kasiskiRepeats > 0 {
		repeats := kasiski.FindRepeats(alphabet.Clean(text), opts.MinLength)
		if err := report.RenderRepeats(repeats, kasiskiRepeats); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := report.RenderCandidates(text, candidates, estimate, ok); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crack",
		Short: "Recover a Vigenère key and plaintext",
		Args:  cobra.NoArgs,
		RunE:  runCrackCmd,
	}
	addAttackFlags(cmd, &crackCfg)
	cmd.Flags().IntVar(&crackKeyLength, "key-length", 0, "skip the estimate and attack this key length")
	cmd.Flags().BoolVar(&crackAll, "all", false, "attack every key length candidate and keep the best")
	cmd.Flags().BoolVar(&crackNoSave, "no-save", false, "do not store the run in history")
	cmd.MarkFlagsMutuallyExclusive("key-length", "all")
	addInputFlags(cmd)
	addOutputFlag(cmd)
	return cmd
}

func runCrackCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAttackConfig(cmd, &crackCfg, fileCfg.Attack)
	crackCfg.Save = !crackNoSave
	if fileCfg.Attack.Save != nil && !cmd.Flags().Changed("no-save") {
		crackCfg.Save = *fileCfg.Attack.Save
	}
	if err := validateAttackConfig(crackCfg); err != nil {
		return err
	}
	if crackKeyLength < 0 {
		return fmt.Errorf("--key-length must be >= 0")
	}

	text, err := readInput(cmd)
	if err != nil {
		return err
	}

	attacker := attack.New(attackOptions(crackCfg))
	start := time.Now()
	var result model.CrackResult
	if crackAll {
		result, err = attacker.CrackAll(cmd.Context(), text)
	} else {
		result, err = attacker.Crack(text, crackKeyLength)
	}
	if err != nil {
		return fmt.Errorf("failed to crack: %w", err)
	}
	elapsed := time.Since(start)

	report := newReporter(cmd)
	if !result.Manual {
		if err := report.RenderCandidates(text, result.Candidates, result.Estimated, result.HasEstimate); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	// Without --output the report carries the whole plaintext.
	if err := report.RenderCrack(result, outputPath == ""); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if outputPath != "" && result.Success {
		if err := writeOutput(cmd, result.Plaintext); err != nil {
			return err
		}
	}

	if crackCfg.Save {
		if err := saveRun(cmd.Context(), text, result, elapsed); err != nil {
			return err
		}
	}
	if !result.Success {
		logErrln("key not recovered; try --all or --key-length")
	}
	return nil
}

func saveRun(ctx context.Context, text string, result model.CrackResult, elapsed time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	run := model.Run{
		CreatedAt:    time.Now().UTC(),
		Digest:       store.Digest(text),
		CipherLen:    len(text),
		Letters:      result.Letters,
		Estimated:    result.Estimated,
		KeyLength:    result.Best.KeyLength,
		Manual:       result.Manual,
		RecoveredKey: result.Key,
		BigramScore:  result.Best.BigramScore,
		Success:      result.Success,
		DurationMs:   elapsed.Milliseconds(),
	}
	if result.Success {
		run.KeyLength = len(result.Key)
	}
	if _, err := st.InsertRun(ctx, run, result.Candidates); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func newFreqCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "freq",
		Short: "Compare letter frequencies with English",
		Args:  cobra.NoArgs,
		RunE:  runFreqCmd,
	}
	addInputFlags(cmd)
	return cmd
}

func runFreqCmd(cmd *cobra.Command, _ []string) error {
	text, err := readInput(cmd)
	if err != nil {
		return err
	}
	if alphabet.CountLetters(text) == 0 {
		return fmt.Errorf("input has no letters")
	}
	if err := newReporter(cmd).RenderFrequencies(text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
