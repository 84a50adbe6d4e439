// Package historyui provides the Bubble Tea browser for stored attack runs.
package historyui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/classicrypt/internal/model"
	"github.com/verte-zerg/classicrypt/internal/store"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02 15:04:05"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	successStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD787")).Bold(true)
	labelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	detailStyle     = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// Model implements the Bubble Tea history UI.
type Model struct {
	store *store.Store
	cfg   model.HistoryConfig

	runs    []model.Run
	summary model.RunSummary
	errMsg  string

	runTable table.Model
	detail   viewport.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a history UI model and loads the runs matching cfg.
func NewModel(st *store.Store, cfg model.HistoryConfig) *Model {
	m := &Model{
		store:  st,
		cfg:    cfg,
		detail: viewport.New(0, 0),
	}
	m.runTable = buildRunTable(nil, 80, 10)
	m.initInputs()
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderDetail()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "/":
			return m.startFilter()
		case "s":
			m.cfg.SuccessOnly = !m.cfg.SuccessOnly
			m.refresh()
			return m, nil
		case "g", "home":
			m.runTable.GotoTop()
			m.renderDetail()
			return m, nil
		case "G", "end":
			m.runTable.GotoBottom()
			m.renderDetail()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		default:
			var cmd tea.Cmd
			m.runTable, cmd = m.runTable.Update(msg)
			m.renderDetail()
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Runs returns the runs currently listed.
func (m *Model) Runs() []model.Run {
	return m.runs
}

// Selected returns the highlighted run, if any.
func (m *Model) Selected() (model.Run, bool) {
	idx := m.runTable.Cursor()
	if idx < 0 || idx >= len(m.runs) {
		return model.Run{}, false
	}
	return m.runs[idx], true
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if m.cfg.Since != nil {
		m.filterInputs[0].SetValue(m.cfg.Since.Format(dateLayout))
	} else {
		m.filterInputs[0].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[1].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[1].SetValue("")
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(titleStyle.Render("X")) + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

// tableWidth splits the body between the run table and the detail pane.
func (m *Model) tableWidth() int {
	if m.width < 100 {
		return m.width
	}
	return m.width * 3 / 5
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	tableWidth := m.tableWidth()
	tableHeight := bodyHeight
	detailWidth := m.width - tableWidth - 1
	detailHeight := bodyHeight - 2
	if tableWidth == m.width {
		tableHeight = maxInt(3, bodyHeight/2)
		detailWidth = m.width
		detailHeight = bodyHeight - tableHeight - 2
	}
	m.runTable.SetWidth(tableWidth)
	m.runTable.SetHeight(maxInt(1, tableHeight-1))
	m.detail.Width = maxInt(10, detailWidth-4)
	m.detail.Height = maxInt(1, detailHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) refresh() {
	ctx := context.Background()
	runs, err := m.store.ListRuns(ctx, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.runs = nil
		m.runTable.SetRows(nil)
		m.detail.SetContent("Failed to load history.")
		return
	}
	summary, err := m.store.Summary(ctx)
	if err != nil {
		m.errMsg = err.Error()
	} else {
		m.errMsg = ""
		m.summary = summary
	}
	m.runs = runs
	m.runTable.SetRows(runRows(runs))
	m.runTable.GotoBottom()
	m.runTable.Focus()
	m.renderDetail()
}

func (m *Model) renderDetail() {
	run, ok := m.Selected()
	if !ok {
		m.detail.SetContent("No runs found.")
		return
	}
	candidates, err := m.store.ListCandidates(context.Background(), run.ID)
	width := m.detail.Width
	if width <= 0 {
		width = 40
	}
	m.detail.SetContent(renderRun(run, candidates, err, width))
	m.detail.GotoTop()
}

func renderRun(run model.Run, candidates []model.KeyLengthCandidate, candErr error, width int) string {
	keyLine := run.RecoveredKey
	if run.Success {
		keyLine = successStyle.Render(keyLine)
	}
	length := "unknown"
	switch {
	case run.KeyLength > 0 && run.Manual:
		length = fmt.Sprintf("%d (manual)", run.KeyLength)
	case run.KeyLength > 0:
		length = fmt.Sprintf("%d (estimated %d)", run.KeyLength, run.Estimated)
	}
	lines := []string{
		field("Run", strconv.FormatInt(run.ID, 10)),
		field("When", run.CreatedAt.Local().Format(timeLayout)),
		field("Digest", run.Digest),
		field("Length", fmt.Sprintf("%d bytes, %d letters", run.CipherLen, run.Letters)),
		field("Key length", length),
		field("Key", keyLine),
		field("Bigrams", strconv.Itoa(run.BigramScore)),
		field("Took", (time.Duration(run.DurationMs) * time.Millisecond).String()),
		"",
		labelStyle.Render("Candidates"),
	}
	switch {
	case candErr != nil:
		lines = append(lines, errorStyle.Render(candErr.Error()))
	case len(candidates) == 0:
		lines = append(lines, "none")
	default:
		parts := make([]string, 0, len(candidates))
		for _, c := range candidates {
			parts = append(parts, fmt.Sprintf("%d (%d)", c.Length, c.Count))
		}
		lines = append(lines, wrapText(strings.Join(parts, "  "), width))
	}
	return strings.Join(lines, "\n")
}

func field(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-11s", label)) + value
}

func buildRunTable(runs []model.Run, width, height int) table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "When", Width: 16},
		{Title: "Letters", Width: 7},
		{Title: "Len", Width: 4},
		{Title: "Key", Width: 16},
		{Title: "Bigrams", Width: 7},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(runRows(runs)),
		table.WithHeight(maxInt(1, height-1)),
		table.WithFocused(true),
	)
	t.SetWidth(width)
	t.SetStyles(runTableStyles())
	return t
}

func runRows(runs []model.Run) []table.Row {
	rows := make([]table.Row, 0, len(runs))
	for _, run := range runs {
		length := "-"
		if run.KeyLength > 0 {
			length = strconv.Itoa(run.KeyLength)
		}
		rows = append(rows, table.Row{
			strconv.FormatInt(run.ID, 10),
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(run.Letters),
			length,
			truncateLine(run.RecoveredKey, 16),
			strconv.Itoa(run.BigramScore),
		})
	}
	return rows
}

func runTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#5A4A2A")).
		Bold(false)
	return styles
}

func (m *Model) renderHeader() string {
	title := titleStyle.Render("History")
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format(dateLayout)
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	rate := 0.0
	if m.summary.Runs > 0 {
		rate = float64(m.summary.Successes) / float64(m.summary.Runs) * 100
	}
	summary := fmt.Sprintf("Filter: since=%s  last=%s  recovered-only=%t   Total: %d runs, %.1f%% recovered",
		since, last, m.cfg.SuccessOnly, m.summary.Runs, rate)
	return title + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	_, bodyHeight, _ := m.layoutHeights()
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, bodyHeight)
	}
	var tableView string
	if len(m.runs) == 0 {
		tableView = "No runs found."
	} else {
		tableView = tableMutedStyle.Render(m.runTable.View())
	}
	detail := detailStyle.Width(m.detail.Width + 2).Render(m.detail.View())
	if m.tableWidth() == m.width {
		return lipgloss.JoinVertical(lipgloss.Left, tableView, detail)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tableView, " ", detail)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Select: up/down  Detail: pgup/pgdn  Recovered only: s  Filter: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filter (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refresh()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	sinceInput := strings.TrimSpace(m.filterInputs[0].Value())
	var since *time.Time
	if sinceInput != "" {
		parsed, err := time.ParseInLocation(dateLayout, sinceInput, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}
	lastInput := strings.TrimSpace(m.filterInputs[1].Value())
	last := 0
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}
	m.cfg.Since = since
	m.cfg.Last = last
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
