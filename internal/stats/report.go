package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/classicrypt/internal/model"
)

const (
	barWidth     = 30
	previewLines = 3
	timeLayout   = "2006-01-02 15:04:05"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD787"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Reporter writes text reports, optionally styled for a terminal.
type Reporter struct {
	w        io.Writer
	useColor bool
	width    int
}

// NewReporter returns a Reporter writing to w, assuming an 80-column display.
func NewReporter(w io.Writer, useColor bool) *Reporter {
	return &Reporter{w: w, useColor: useColor, width: terminalWidthBackup}
}

// WithWidth sets the display width used to size previews.
func (r *Reporter) WithWidth(width int) *Reporter {
	if width > 0 {
		r.width = width
	}
	return r
}

func (r *Reporter) heading(title string) error {
	if r.useColor {
		title = headingStyle.Render(title)
	}
	_, err := fmt.Fprintln(r.w, title)
	return err
}

func (r *Reporter) status(ok bool, text string) string {
	if !r.useColor {
		return text
	}
	if ok {
		return successStyle.Render(text)
	}
	return failureStyle.Render(text)
}

func (r *Reporter) lines(lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.w, "")
	return err
}

// RenderFrequencies prints the letter distribution of text against English.
func (r *Reporter) RenderFrequencies(text string) error {
	letterStats := LetterStats(text)
	if err := r.heading("Letter Frequencies"); err != nil {
		return err
	}
	maxShare := 0.0
	for _, s := range letterStats {
		if s.Observed > maxShare {
			maxShare = s.Observed
		}
		if s.Expected > maxShare {
			maxShare = s.Expected
		}
	}
	headers := []string{"Letter", "Count", "Observed", "English", ""}
	rows := make([][]string, 0, len(letterStats))
	observed := make([]float64, 0, len(letterStats))
	expected := make([]float64, 0, len(letterStats))
	for _, s := range letterStats {
		rows = append(rows, []string{
			string(s.Letter),
			strconv.Itoa(s.Count),
			fmt.Sprintf("%.2f%%", s.Observed),
			fmt.Sprintf("%.2f%%", s.Expected),
			bar(s.Observed, maxShare),
		})
		observed = append(observed, s.Observed)
		expected = append(expected, s.Expected)
	}
	lines := formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true})
	lines = append(lines,
		"",
		"         ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		"Observed "+Sparkline(observed),
		"English  "+Sparkline(expected),
		"",
		fmt.Sprintf("Index of coincidence: %.4f (English %.3f)", IndexOfCoincidence(text), EnglishIC),
	)
	return r.lines(lines)
}

// RenderRepeats prints the most frequent repeated substrings and their spacing.
func (r *Reporter) RenderRepeats(repeats map[string][]int, limit int) error {
	if err := r.heading("Repeated Sequences"); err != nil {
		return err
	}
	top := TopRepeats(repeats, limit)
	if len(top) == 0 {
		return r.lines([]string{"No repeated sequences found."})
	}
	headers := []string{"Sequence", "Count", "Offsets", "Distances"}
	rows := make([][]string, 0, len(top))
	for _, rep := range top {
		distances := make([]string, 0, len(rep.Offsets))
		for i := 1; i < len(rep.Offsets); i++ {
			distances = append(distances, strconv.Itoa(rep.Offsets[i]-rep.Offsets[i-1]))
		}
		rows = append(rows, []string{
			rep.Seq,
			strconv.Itoa(len(rep.Offsets)),
			joinInts(rep.Offsets, 8),
			strings.Join(distances, ","),
		})
	}
	lines := formatTable(headers, rows, map[int]bool{1: true})
	if len(repeats) > len(top) {
		lines = append(lines, fmt.Sprintf("... %d more", len(repeats)-len(top)))
	}
	return r.lines(lines)
}

// RenderCandidates prints the ranked key lengths with the column index of
// coincidence of text at each length.
func (r *Reporter) RenderCandidates(text string, candidates []model.KeyLengthCandidate, estimate int, ok bool) error {
	if err := r.heading("Key Length Candidates"); err != nil {
		return err
	}
	if len(candidates) == 0 {
		return r.lines([]string{"No key length candidates (no repeated sequences)."})
	}
	headers := []string{"Rank", "Length", "Divides", "Column IC", ""}
	rows := make([][]string, 0, len(candidates))
	for i, c := range candidates {
		mark := ""
		if ok && c.Length == estimate {
			mark = "<- estimate"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(c.Length),
			strconv.Itoa(c.Count),
			fmt.Sprintf("%.4f", ColumnIC(text, c.Length)),
			mark,
		})
	}
	return r.lines(formatTable(headers, rows, map[int]bool{0: true, 1: true, 2: true, 3: true}))
}

// RenderCrack prints the outcome of an attack. The recovered plaintext is
// printed in full when full is set, otherwise as a short preview.
func (r *Reporter) RenderCrack(result model.CrackResult, full bool) error {
	if err := r.heading("Attack"); err != nil {
		return err
	}
	lines := []string{fmt.Sprintf("Letters: %d", result.Letters)}
	switch {
	case !result.HasEstimate:
		lines = append(lines, "Key length: unknown (no repeated sequences)")
	case result.Manual:
		lines = append(lines, fmt.Sprintf("Key length: %d (manual)", result.Estimated))
	default:
		lines = append(lines, fmt.Sprintf("Key length: %d (estimated)", result.Estimated))
	}
	if len(result.Attempts) > 1 {
		headers := []string{"Length", "Candidate", "Bigrams", "Result"}
		rows := make([][]string, 0, len(result.Attempts))
		for _, a := range result.Attempts {
			rows = append(rows, []string{
				strconv.Itoa(a.KeyLength),
				a.CandidateKey,
				strconv.Itoa(a.BigramScore),
				r.status(a.Accepted, acceptedLabel(a.Accepted)),
			})
		}
		lines = append(lines, "")
		lines = append(lines, formatTable(headers, rows, map[int]bool{0: true, 2: true})...)
		lines = append(lines, "")
	} else if result.HasEstimate {
		lines = append(lines, fmt.Sprintf("Candidate key: %s (bigrams %d)", result.Best.CandidateKey, result.Best.BigramScore))
	}
	lines = append(lines, "Recovered key: "+r.status(result.Success, result.Key))
	if result.Success {
		plaintext := result.Plaintext
		if !full {
			plaintext = Preview(plaintext, previewLines*r.width)
		}
		lines = append(lines, "", "Plaintext:", plaintext)
	}
	return r.lines(lines)
}

// RenderHistory prints stored runs.
func (r *Reporter) RenderHistory(runs []model.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(r.w, "No runs found.")
		return err
	}
	if err := r.heading("History"); err != nil {
		return err
	}
	headers := []string{"ID", "When", "Digest", "Letters", "Length", "Key", "Bigrams"}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		length := strconv.Itoa(run.KeyLength)
		if run.KeyLength == 0 {
			length = "-"
		} else if run.Manual {
			length += "*"
		}
		rows = append(rows, []string{
			strconv.FormatInt(run.ID, 10),
			run.CreatedAt.Local().Format(timeLayout),
			run.Digest,
			strconv.Itoa(run.Letters),
			length,
			r.status(run.Success, run.RecoveredKey),
			strconv.Itoa(run.BigramScore),
		})
	}
	return r.lines(formatTable(headers, rows, map[int]bool{0: true, 3: true, 4: true, 6: true}))
}

// RenderSummary prints aggregate attack statistics.
func (r *Reporter) RenderSummary(summary model.RunSummary) error {
	if err := r.heading("Summary"); err != nil {
		return err
	}
	rate := 0.0
	if summary.Runs > 0 {
		rate = float64(summary.Successes) / float64(summary.Runs) * 100
	}
	return r.lines([]string{
		fmt.Sprintf("Runs: %d", summary.Runs),
		fmt.Sprintf("Recovered: %d (%.1f%%)", summary.Successes, rate),
		fmt.Sprintf("Avg letters: %.1f", summary.AvgLetters),
		fmt.Sprintf("Avg recovered key length: %.1f", summary.AvgKeyLen),
	})
}

// Preview shortens text to at most limit runes.
func Preview(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

func acceptedLabel(ok bool) string {
	if ok {
		return "accepted"
	}
	return "rejected"
}

func bar(value, maxValue float64) string {
	if maxValue <= 0 {
		return ""
	}
	n := int(value / maxValue * barWidth)
	return strings.Repeat("#", n)
}

func joinInts(values []int, limit int) string {
	parts := make([]string, 0, len(values))
	for i, v := range values {
		if i == limit {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ",")
}
