// Package tui provides the Bubble Tea training interface.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/akhutsishvili/hit-reflex-trainer/internal/model"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/schedule"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/stats"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/stimulus"
)

const holdTickSpacing = 50 * time.Millisecond

type timerMsg struct {
	id int64
}

type holdTickMsg time.Time

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	strikeAStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true).Padding(1, 4).Border(lipgloss.ThickBorder(), true).BorderForeground(lipgloss.Color("#C89A3A"))
	strikeBStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true).Padding(1, 4).Border(lipgloss.ThickBorder(), true).BorderForeground(lipgloss.Color("#FF4D4F"))
	waitingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	countdownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Padding(1, 4)
	breakStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E9E6E"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Model implements the Bubble Tea training UI. It is the scheduler's
// presentation sink and forwards recorded sessions to the real recorder.
type Model struct {
	sched    *schedule.Scheduler
	hold     *schedule.HoldGauge
	wake     *WakeHold
	recorder schedule.Recorder

	width  int
	height int

	view       schedule.View
	holdPct    int
	runLog     []model.SessionHistoryEntry
	sessionBar progress.Model
	holdBar    progress.Model

	quitting bool
}

// NewModel constructs a training TUI model wired to a fresh scheduler.
func NewModel(profile model.DifficultyProfile, program model.TrainingProgram, gen *stimulus.Generator, recorder schedule.Recorder, audio schedule.AudioSink) *Model {
	m := &Model{
		hold:       &schedule.HoldGauge{},
		wake:       &WakeHold{},
		recorder:   recorder,
		sessionBar: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		holdBar:    progress.New(progress.WithSolidFill("#FF4D4F"), progress.WithoutPercentage()),
	}
	m.sched = schedule.New(profile, program, gen, schedule.Collaborators{
		Presenter: m,
		Audio:     audio,
		Wake:      m.wake,
		Recorder:  m,
	})
	return m
}

// Show implements schedule.Presenter.
func (m *Model) Show(v schedule.View) {
	m.view = v
}

// Record implements schedule.Recorder: keep a run-local log for the
// results screen and forward to the persistent recorder.
func (m *Model) Record(entry model.SessionHistoryEntry) {
	m.runLog = append(m.runLog, entry)
	if m.recorder != nil {
		m.recorder.Record(entry)
	}
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
		barWidth := msg.Width / 2
		if barWidth < 10 {
			barWidth = 10
		}
		m.sessionBar.Width = barWidth
		m.holdBar.Width = barWidth
		return m, nil
	case tea.FocusMsg:
		if m.runActive() {
			m.wake.Reacquire()
		}
		return m, nil
	case tea.BlurMsg:
		m.wake.Revoke()
		return m, nil
	case timerMsg:
		return m, timerCmds(m.sched.TimerFired(msg.id, time.Now()))
	case holdTickMsg:
		return m, m.updateHold(time.Time(msg))
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.sched.Stop(time.Now())
		m.quitting = true
		return m, tea.Quit
	case "enter", " ":
		return m, m.handleConfirm()
	case "esc":
		return m, m.handleHoldPress()
	case "q":
		if phase := m.sched.Phase(); phase == model.PhaseIdle || phase == model.PhaseComplete {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleConfirm() tea.Cmd {
	switch m.sched.Phase() {
	case model.PhaseIdle:
		return timerCmds(m.sched.Start(time.Now()))
	case model.PhaseComplete:
		// Train again: back to idle, keep configuration, fresh counters.
		m.sched.Reset()
		m.runLog = nil
		m.view = schedule.View{}
		return timerCmds(m.sched.Start(time.Now()))
	}
	return nil
}

func (m *Model) handleHoldPress() tea.Cmd {
	if !m.runActive() {
		return nil
	}
	now := time.Now()
	wasActive := m.hold.Active()
	m.hold.Press(now)
	m.holdPct = m.hold.Progress(now)
	if !wasActive {
		return holdTickCmd()
	}
	return nil
}

func (m *Model) updateHold(now time.Time) tea.Cmd {
	if !m.runActive() {
		m.hold.Release()
		m.holdPct = 0
		return nil
	}
	if m.hold.Done(now) {
		m.hold.Release()
		m.holdPct = 0
		m.sched.Stop(now)
		return nil
	}
	m.holdPct = m.hold.Progress(now)
	if !m.hold.Active() {
		return nil
	}
	return holdTickCmd()
}

func (m *Model) runActive() bool {
	switch m.sched.Phase() {
	case model.PhaseIdle, model.PhaseComplete:
		return false
	}
	return true
}

func timerCmds(timers []schedule.Timer) tea.Cmd {
	if len(timers) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(timers))
	for _, t := range timers {
		cmds = append(cmds, timerCmd(t))
	}
	return tea.Batch(cmds...)
}

func timerCmd(t schedule.Timer) tea.Cmd {
	id := t.ID
	return tea.Tick(t.Delay, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	})
}

func holdTickCmd() tea.Cmd {
	return tea.Tick(holdTickSpacing, func(t time.Time) tea.Msg {
		return holdTickMsg(t)
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	body := m.renderPhase()
	footer := footerStyle.Render(m.footerText())
	if m.width == 0 || m.height == 0 {
		return body + "\n" + footer
	}
	bodyHeight := m.height - 1
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return placed + "\n" + footerLine
}

func (m *Model) renderPhase() string {
	switch m.sched.Phase() {
	case model.PhaseIdle:
		return m.renderIdle()
	case model.PhaseCountdown:
		return m.renderCountdown()
	case model.PhaseTraining:
		return m.renderTraining()
	case model.PhaseMidRest:
		return m.renderMidRest()
	case model.PhaseSessionEnd:
		return m.renderSessionEnd()
	case model.PhaseBreak:
		return m.renderBreak()
	case model.PhaseComplete:
		return m.renderComplete()
	}
	return ""
}

func (m *Model) renderIdle() string {
	profile := m.sched.Profile()
	program := m.sched.Program()
	lines := []string{
		titleStyle.Render("REFLEX"),
		"",
		labelStyle.Render("Difficulty ") + valueStyle.Render(profile.Name),
		labelStyle.Render("Mode       ") + valueStyle.Render(modeLabel(program.Mode)),
		labelStyle.Render("Type       ") + valueStyle.Render(string(program.TrainingType)),
		labelStyle.Render("Sessions   ") + valueStyle.Render(fmt.Sprintf("%d", program.Sessions)),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderCountdown() string {
	session := m.sched.Run().Index
	total := m.sched.Program().Sessions
	head := labelStyle.Render(fmt.Sprintf("Session %d of %d", session, total))
	count := countdownStyle.Render(fmt.Sprintf("%d", m.sched.CountdownLeft()))
	return head + "\n\n" + count
}

func (m *Model) renderTraining() string {
	var cue string
	if m.view.Visible {
		cue = renderAction(m.view.Action)
	} else {
		cue = waitingStyle.Render("· · ·")
	}
	return cue + "\n\n" + m.renderProgress() + m.renderHold()
}

func (m *Model) renderMidRest() string {
	return breakStyle.Render("Breathe") + "\n\n" + m.renderProgress() + m.renderHold()
}

func (m *Model) renderSessionEnd() string {
	return titleStyle.Render(fmt.Sprintf("Session %d complete", m.sched.Run().Index)) + m.renderHold()
}

func (m *Model) renderBreak() string {
	remaining := m.sched.BreakRemaining()
	next := m.sched.Run().Index + 1
	line := fmt.Sprintf("Break · session %d in %s", next, stats.FormatClock(float64(remaining)*1000))
	if remaining <= 5 {
		return warnStyle.Render(line) + m.renderHold()
	}
	return breakStyle.Render(line) + m.renderHold()
}

func (m *Model) renderComplete() string {
	var hits, targetHits, combos, targetCombos int
	var durationMs int64
	for _, e := range m.runLog {
		hits += e.HitsCompleted
		targetHits += e.TargetHits
		combos += e.CombosCompleted
		targetCombos += e.TargetCombos
		durationMs += e.DurationMs
	}
	lines := []string{
		titleStyle.Render("Training complete"),
		"",
		labelStyle.Render("Duration   ") + valueStyle.Render(stats.FormatClock(float64(m.sched.ProgramDuration().Milliseconds()))),
		labelStyle.Render("Hits       ") + valueStyle.Render(fmt.Sprintf("%d", hits)),
	}
	if m.sched.Program().TrainingType == model.TypeCombo {
		lines = append(lines, labelStyle.Render("Combos     ")+valueStyle.Render(fmt.Sprintf("%d of %d", combos, targetCombos)))
	} else {
		lines = append(lines, labelStyle.Render("Completed  ")+valueStyle.Render(fmt.Sprintf("%d%%", stats.CompletionRate(hits, targetHits))))
	}
	if pace, ok := stats.AveragePace(hits, durationMs); ok {
		lines = append(lines, labelStyle.Render("Avg pace   ")+valueStyle.Render(fmt.Sprintf("%dms", pace)))
	} else {
		lines = append(lines, labelStyle.Render("Avg pace   ")+valueStyle.Render("unavailable"))
	}
	lines = append(lines, labelStyle.Render("Pace       ")+valueStyle.Render(fmt.Sprintf("%.1f hits/min", stats.HitsPerMinute(hits, durationMs))))
	return strings.Join(lines, "\n")
}

func (m *Model) renderProgress() string {
	done, total := m.view.Done, m.view.Total
	if total == 0 {
		done, total = m.sched.Progress()
	}
	ratio := 0.0
	if total > 0 {
		ratio = float64(done) / float64(total)
	}
	unit := "Hits"
	if m.sched.Program().TrainingType == model.TypeCombo {
		unit = "Combos"
	}
	label := labelStyle.Render(fmt.Sprintf("%s %d/%d", unit, done, total))
	return m.sessionBar.ViewAs(ratio) + "\n" + label
}

func (m *Model) renderHold() string {
	if m.holdPct <= 0 {
		return ""
	}
	return "\n\n" + warnStyle.Render("Stopping…") + "\n" + m.holdBar.ViewAs(float64(m.holdPct)/100)
}

func (m *Model) footerText() string {
	switch m.sched.Phase() {
	case model.PhaseIdle:
		return "enter start · q quit"
	case model.PhaseComplete:
		return "enter train again · q quit"
	default:
		return "hold esc to stop"
	}
}

func renderAction(action model.Action) string {
	if action == model.ActionStrikeB {
		return strikeBStyle.Render("STRIKE B")
	}
	return strikeAStyle.Render("STRIKE A")
}

func modeLabel(mode model.Mode) string {
	switch mode {
	case model.ModeStrikeA:
		return "strike A only"
	case model.ModeStrikeB:
		return "strike B only"
	default:
		return "both strikes"
	}
}
