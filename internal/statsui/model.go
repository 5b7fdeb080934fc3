// Package statsui provides the Bubble Tea profile viewer.
package statsui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/movwise/internal/game"
	"github.com/verte-zerg/movwise/internal/model"
	"github.com/verte-zerg/movwise/internal/stats"
)

const (
	tabOverview = iota
	tabHistory
	tabAchievements
)

const maxWindow = 20

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	unlockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	lockedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Source is the part of the game store the viewer reads and resets.
type Source interface {
	GetStatistics() game.Statistics
	ResetProgress(ctx context.Context) error
}

// Model implements the Bubble Tea profile viewer.
type Model struct {
	source Source
	cfg    model.StatsConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	history   table.Model

	confirmReset bool

	width  int
	height int
}

// NewModel constructs a viewer over source.
func NewModel(source Source, cfg model.StatsConfig) *Model {
	m := &Model{
		source: source,
		cfg:    cfg,
		tabs:   []string{"Overview", "History", "Achievements"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.history = table.New(table.WithHeight(1))
	m.history.SetStyles(historyTableStyles())
	m.refreshReport()
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
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.confirmReset {
			return m.updateConfirm(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.Window = min(m.cfg.Window+1, maxWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.Window = max(m.cfg.Window-1, 1)
			m.refreshReport()
			return m, nil
		case "d":
			m.cfg.Difficulty = nextDifficulty(m.cfg.Difficulty)
			m.refreshReport()
			return m, nil
		case "x":
			m.confirmReset = true
			return m, nil
		case "g", "home":
			if m.activeTab == tabHistory {
				m.history.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHistory {
				m.history.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabHistory {
				var cmd tea.Cmd
				m.history, cmd = m.history.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirmReset = false
		if err := m.source.ResetProgress(context.Background()); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.refreshReport()
	case "n", "N", "esc":
		m.confirmReset = false
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.confirmReset {
		return fitLines(m.renderConfirm(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.history.SetWidth(m.width)
	// One line goes to the header border.
	m.history.SetHeight(max(bodyHeight-1, 1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabHistory {
		m.history.Focus()
	} else {
		m.history.Blur()
	}
}

func (m *Model) refreshReport() {
	if m.cfg.Window < 1 {
		m.cfg.Window = 1
	}
	m.errMsg = ""
	m.report = stats.BuildReport(m.source.GetStatistics(), m.cfg)
	cols, rows := historyTableData(m.report.History)
	// Columns must shrink before rows change shape.
	m.history.SetRows(nil)
	m.history.SetColumns(cols)
	m.history.SetRows(rows)
	m.updateLayout()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabAchievements].SetContent(renderAchievements(m.report.Achievements))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return m.renderTabs() + "\n" + m.renderFilterSummary()
}

func (m *Model) renderFilterSummary() string {
	difficulty := string(m.cfg.Difficulty)
	if difficulty == "" {
		difficulty = "any"
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: difficulty=%s  last=%s  window=%d", difficulty, last, m.cfg.Window)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down  Difficulty: d  Window: -/=  Reset: x  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabHistory {
		if len(m.report.History) == 0 {
			return fitLines("No rounds found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.history.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderConfirm() string {
	body := []string{
		cardValueStyle.Render("Reset progress?"),
		"",
		headerStyle.Render("Score, history and achievements are cleared. Preferences are kept."),
		headerStyle.Render("y to confirm / n to cancel"),
	}
	width := max(40, min(m.width-4, 80))
	return modalStyle.Width(width).Render(strings.Join(body, "\n"))
}

func renderOverview(r stats.Report, width int) string {
	p := r.Profile
	cards := []string{
		metricCard("Games", strconv.Itoa(p.TotalGamesPlayed)),
		metricCard("Best score", strconv.Itoa(p.BestScore)),
		metricCard("Mastery", fmt.Sprintf("%.1f%%", p.Mastery)),
		metricCard("Avg score", fmt.Sprintf("%.1f", r.Summary.AvgScore)),
		metricCard("Avg reaction", fmt.Sprintf("%dms", r.Summary.AvgReaction.Milliseconds())),
		metricCard("Best combo", strconv.Itoa(r.Summary.BestCombo)),
	}
	var grid string
	if width < 80 {
		grid = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		grid = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	if len(r.Trend) < 2 {
		return grid
	}
	trend := r.Trend
	if len(trend) > width-8 && width > 8 {
		trend = trend[len(trend)-(width-8):]
	}
	return grid + "\n\n" + headerStyle.Render("Score trend") + "\n" + stats.Sparkline(trend)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderAchievements(rows []stats.AchievementRow) string {
	lines := make([]string, 0, len(rows))
	for _, a := range rows {
		if a.Unlocked {
			lines = append(lines, unlockedStyle.Render("★ "+a.Title)+"  "+a.Description)
		} else {
			lines = append(lines, lockedStyle.Render("☆ "+a.Title+"  "+a.Description))
		}
	}
	return strings.Join(lines, "\n")
}

func historyTableData(history []game.HistoryEntry) ([]table.Column, []table.Row) {
	headers, data := stats.HistoryTable(history)
	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		w := lipgloss.Width(h)
		for _, row := range data {
			w = max(w, lipgloss.Width(row[i]))
		}
		columns[i] = table.Column{Title: h, Width: w}
	}
	rows := make([]table.Row, len(data))
	for i, row := range data {
		rows[i] = table.Row(row)
	}
	return columns, rows
}

func historyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func nextDifficulty(d model.Difficulty) model.Difficulty {
	if d == "" {
		return model.Difficulties[0]
	}
	for i, v := range model.Difficulties {
		if v == d && i+1 < len(model.Difficulties) {
			return model.Difficulties[i+1]
		}
	}
	return ""
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

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
