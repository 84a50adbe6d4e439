package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/classicrypt/internal/historyui"
	"github.com/verte-zerg/classicrypt/internal/model"
)

var (
	historySince   string
	historyLast    int
	historySuccess bool
	historyTUI     bool
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored crack runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	cmd.Flags().BoolVar(&historySuccess, "success", false, "only runs that recovered a key")
	cmd.Flags().BoolVar(&historyTUI, "tui", false, "browse runs interactively")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	cfg := model.HistoryConfig{
		Since:       sinceTime,
		Last:        historyLast,
		SuccessOnly: historySuccess,
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if historyTUI {
		program := tea.NewProgram(historyui.NewModel(st, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history TUI: %w", err)
		}
		return nil
	}

	runs, err := st.ListRuns(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to load runs: %w", err)
	}
	summary, err := st.Summary(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load summary: %w", err)
	}
	report := newReporter(cmd)
	if err := report.RenderHistory(runs); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(runs) > 0 {
		if err := report.RenderSummary(summary); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
