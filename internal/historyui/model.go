// Package historyui provides the Bubble Tea history browser.
package historyui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/akhutsishvili/hit-reflex-trainer/internal/model"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/stats"
)

const (
	tabOverview = iota
	tabSessions
)

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
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea history UI.
type Model struct {
	entries []model.SessionHistoryEntry

	tabs      []string
	activeTab int
	overview  viewport.Model
	sessions  table.Model

	width  int
	height int
}

// NewModel constructs a history UI model over recorded sessions,
// newest first.
func NewModel(entries []model.SessionHistoryEntry) *Model {
	m := &Model{
		entries: entries,
		tabs:    []string{"Overview", "Sessions"},
	}
	m.overview = viewport.New(0, 0)
	m.sessions = buildSessionTable(entries, 0, 1)
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
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "g", "home":
			if m.activeTab == tabSessions {
				m.sessions.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabSessions {
				m.sessions.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabSessions {
				var cmd tea.Cmd
				m.sessions, cmd = m.sessions.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.overview, cmd = m.overview.Update(msg)
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

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.sessions.SetWidth(m.width)
	m.sessions.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabSessions {
		m.sessions.Focus()
	} else {
		m.sessions.Blur()
	}
}

func (m *Model) renderHeader() string {
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

func (m *Model) renderBody() string {
	_, bodyHeight, _ := m.layoutHeights()
	if len(m.entries) == 0 {
		return fitLines("No sessions recorded yet.", m.width, bodyHeight)
	}
	if m.activeTab == tabSessions {
		return fitLines(tableMutedStyle.Render(m.sessions.View()), m.width, bodyHeight)
	}
	return fitLines(m.overview.View(), m.width, bodyHeight)
}

func (m *Model) renderFooter() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Quit: q")
}

func (m *Model) renderTabContents() {
	m.overview.SetContent(renderOverview(m.entries, m.width))
	m.sessions = buildSessionTable(m.entries, m.width, maxInt(1, m.overview.Height-1))
}

func renderOverview(entries []model.SessionHistoryEntry, width int) string {
	if len(entries) == 0 {
		return "No sessions recorded yet."
	}
	totalHits := 0
	var totalDuration int64
	bestHPM := 0.0
	for _, e := range entries {
		totalHits += e.HitsCompleted
		totalDuration += e.DurationMs
		if hpm := stats.HitsPerMinute(e.HitsCompleted, e.DurationMs); hpm > bestHPM {
			bestHPM = hpm
		}
	}
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", len(entries))),
		metricCard("Total hits", fmt.Sprintf("%d", totalHits)),
		metricCard("Time trained", stats.FormatClock(float64(totalDuration))),
		metricCard("Avg pace", fmt.Sprintf("%.1f hits/min", stats.HitsPerMinute(totalHits, totalDuration))),
		metricCard("Best session", fmt.Sprintf("%.1f hits/min", bestHPM)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	hpms := make([]float64, len(entries))
	for i, e := range entries {
		hpms[len(entries)-1-i] = stats.HitsPerMinute(e.HitsCompleted, e.DurationMs)
	}
	trend := headerStyle.Render("Pace trend: ") + stats.Sparkline(hpms)
	return strings.TrimRight(summary+"\n\n"+trend, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func buildSessionTable(entries []model.SessionHistoryEntry, width, height int) table.Model {
	columns := []table.Column{
		{Title: "When", Width: 16},
		{Title: "Difficulty", Width: 10},
		{Title: "Type", Width: 6},
		{Title: "Session", Width: 7},
		{Title: "Hits", Width: 5},
		{Title: "Done", Width: 6},
		{Title: "Pace", Width: 7},
		{Title: "Duration", Width: 8},
		{Title: "", Width: 7},
	}
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		pace := "n/a"
		if p, ok := stats.AveragePace(e.HitsCompleted, e.DurationMs); ok {
			pace = fmt.Sprintf("%dms", p)
		}
		done := fmt.Sprintf("%d%%", stats.CompletionRate(e.HitsCompleted, e.TargetHits))
		if e.TrainingType == model.TypeCombo {
			done = fmt.Sprintf("%d/%d", e.CombosCompleted, e.TargetCombos)
		}
		note := ""
		if e.Aborted {
			note = "stopped"
		}
		rows = append(rows, table.Row{
			e.EndedAt.Local().Format("2006-01-02 15:04"),
			e.Difficulty,
			string(e.TrainingType),
			fmt.Sprintf("%d/%d", e.SessionIndex, e.TotalSessions),
			fmt.Sprintf("%d", e.HitsCompleted),
			done,
			pace,
			stats.FormatClock(float64(e.DurationMs)),
			note,
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height)),
	)
	if width > 0 {
		t.SetWidth(width)
	}
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
	t.SetStyles(styles)
	return t
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
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

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}
