// Package main provides the CLI entrypoint for classicrypt.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/classicrypt/internal/attack"
	"github.com/verte-zerg/classicrypt/internal/config"
	"github.com/verte-zerg/classicrypt/internal/input"
	"github.com/verte-zerg/classicrypt/internal/kasiski"
	"github.com/verte-zerg/classicrypt/internal/model"
	"github.com/verte-zerg/classicrypt/internal/stats"
	"github.com/verte-zerg/classicrypt/internal/store"
)

const (
	defaultKeyLength = 8
	defaultSampleLen = 300
	defaultCaps      = 0.2
	defaultPunct     = 0.15
	defaultRepeats   = 10
)

const defaultPunctSet = ".,;:!?"

var errNoInput = errors.New("no input text provided. Use --text, --file, or pipe to stdin")

var (
	rootColor bool

	inputText  string
	inputFile  string
	outputPath string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "classicrypt",
		Short:         "Classical ciphers and Vigenère cryptanalysis",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().BoolVar(&rootColor, "color", false, "force styled output")

	rootCmd.AddCommand(newVigenereCmd())
	rootCmd.AddCommand(newTranspositionCmd())
	rootCmd.AddCommand(newKasiskiCmd())
	rootCmd.AddCommand(newCrackCmd())
	rootCmd.AddCommand(newFreqCmd())
	rootCmd.AddCommand(newKeygenCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&inputText, "text", "t", "", "input text")
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "read input from file")
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
}

func addAttackFlags(cmd *cobra.Command, cfg *model.AttackConfig) {
	cmd.Flags().IntVar(&cfg.MinLength, "min-length", kasiski.DefaultMinLength, "length of repeated substrings")
	cmd.Flags().IntVar(&cfg.Prior, "prior", kasiski.DefaultPrior, "expected key length used to pick among candidates")
	cmd.Flags().IntVar(&cfg.Candidates, "candidates", kasiski.DefaultCandidates, "number of key length candidates to keep")
	cmd.Flags().IntVar(&cfg.Threshold, "threshold", attack.DefaultThreshold, "minimum common-bigram count to accept a key")
}

// readInput returns --text, the --file contents or piped stdin, in that
// order. One trailing newline is dropped from file and stdin input.
func readInput(cmd *cobra.Command) (string, error) {
	if inputText != "" {
		return inputText, nil
	}
	if inputFile != "" {
		text, err := input.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read file %s: %w", inputFile, err)
		}
		return trimNewline(text), nil
	}
	in := cmd.InOrStdin()
	if in == os.Stdin && stats.StdinIsTerminal() {
		return "", errNoInput
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", errNoInput
	}
	return trimNewline(string(data)), nil
}

func trimNewline(text string) string {
	text = strings.TrimSuffix(text, "\n")
	return strings.TrimSuffix(text, "\r")
}

// writeOutput writes text and a newline to --output or stdout.
func writeOutput(cmd *cobra.Command, text string) error {
	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(text+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func loadConfig() (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return fileCfg, nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func newReporter(cmd *cobra.Command) *stats.Reporter {
	out := cmd.OutOrStdout()
	return stats.NewReporter(out, stats.UseColor(out, rootColor)).WithWidth(stats.TerminalWidth())
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyAttackConfig(cmd *cobra.Command, cfg *model.AttackConfig, fileCfg config.AttackConfig) {
	applyIntConfig(cmd, "min-length", &cfg.MinLength, fileCfg.MinLength)
	applyIntConfig(cmd, "prior", &cfg.Prior, fileCfg.Prior)
	applyIntConfig(cmd, "candidates", &cfg.Candidates, fileCfg.Candidates)
	if cmd.Flags().Lookup("threshold") != nil {
		applyIntConfig(cmd, "threshold", &cfg.Threshold, fileCfg.Threshold)
	}
}

func validateAttackConfig(cfg model.AttackConfig) error {
	if cfg.MinLength < 1 {
		return fmt.Errorf("--min-length must be >= 1")
	}
	if cfg.Prior < 1 {
		return fmt.Errorf("--prior must be >= 1")
	}
	if cfg.Candidates < 1 {
		return fmt.Errorf("--candidates must be >= 1")
	}
	if cfg.Threshold < 0 {
		return fmt.Errorf("--threshold must be >= 0")
	}
	return nil
}

func attackOptions(cfg model.AttackConfig) attack.Options {
	opts := attack.DefaultOptions()
	opts.Threshold = cfg.Threshold
	opts.Kasiski = kasiski.Options{
		MinLength:  cfg.MinLength,
		Prior:      cfg.Prior,
		Candidates: cfg.Candidates,
	}
	return opts
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# classicrypt configuration
# Uncomment a value to enable it. CLI flags override config values.

[vigenere]
# key = "LEMON"           # Default key for vigenere encode/decode

[transposition]
# key = "SECRET"          # Default column key
# key2 = "CRYPTO"         # Second key; enables double transposition

[attack]
# min-length = %d          # Length of repeated substrings (Kasiski)
# prior = %d              # Expected key length used to pick among candidates
# candidates = %d          # Number of key length candidates to keep
# threshold = %d           # Minimum common-bigram count to accept a key
# save = true             # Store crack runs in the history database
`,
		kasiski.DefaultMinLength,
		kasiski.DefaultPrior,
		kasiski.DefaultCandidates,
		attack.DefaultThreshold,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
