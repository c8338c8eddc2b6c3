package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/istighfar/internal/ledger"
	"github.com/sadopc/istighfar/internal/tracker"
)

const recentDays = 5

type counterModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	formActive bool
	form       *huh.Form
	formType   string // "target", "reset"

	// Form values as pointers (survive value copies)
	targetInput  *string
	confirmReset *bool
}

func newCounterModel(t *tracker.Tracker) counterModel {
	target, confirm := "", false
	return counterModel{
		tracker:      t,
		targetInput:  &target,
		confirmReset: &confirm,
	}
}

func (c *counterModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c counterModel) update(msg tea.Msg) (counterModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch {
	case key.Matches(km, keys.Increment):
		return c, c.add(1)
	case key.Matches(km, keys.Decrement):
		return c, c.add(-1)
	case key.Matches(km, keys.Target):
		return c.showTargetForm()
	case key.Matches(km, keys.Reset):
		return c.showResetForm()
	}
	return c, nil
}

func (c counterModel) add(delta int) tea.Cmd {
	res, err := c.tracker.Add(delta)
	if err != nil {
		return errorCmd("Save failed", err)
	}
	return tea.Batch(changedCmd, recordStatus(res))
}

func recordStatus(res ledger.RecordResult) tea.Cmd {
	if res.TargetJustMet {
		text := fmt.Sprintf("Target of %s reached. May it be accepted.", formatCount(res.Entry.Target))
		return func() tea.Msg { return statusMsg{text: text, bell: true} }
	}
	return nil
}

func (c counterModel) showTargetForm() (counterModel, tea.Cmd) {
	*c.targetInput = strconv.Itoa(c.tracker.TodayEntry().Target)
	c.formType = "target"

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Today's target").
				Description("Applies to today only; plan other days in the Planner").
				Value(c.targetInput).
				Validate(validatePositive),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c counterModel) showResetForm() (counterModel, tea.Cmd) {
	*c.confirmReset = false
	c.formType = "reset"

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Reset today's count of %s to zero?", formatCount(c.tracker.TodayEntry().Count))).
				Affirmative("Reset").
				Negative("Cancel").
				Value(c.confirmReset),
		),
	).WithShowHelp(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c counterModel) updateForm(msg tea.Msg) (counterModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	switch c.form.State {
	case huh.StateCompleted:
		c.formActive = false
		return c, c.submitForm()
	case huh.StateAborted:
		c.formActive = false
		c.form = nil
		return c, nil
	}
	return c, cmd
}

func (c counterModel) submitForm() tea.Cmd {
	switch c.formType {
	case "target":
		n, err := parsePositive(*c.targetInput)
		if err != nil {
			return errorCmd("Invalid target", err)
		}
		if err := c.tracker.SetTarget(c.tracker.Today(), n); err != nil {
			return errorCmd("Set target failed", err)
		}
		return tea.Batch(changedCmd, statusCmd(fmt.Sprintf("Today's target set to %s", formatCount(n))))
	case "reset":
		if !*c.confirmReset {
			return nil
		}
		if _, err := c.tracker.Reset(); err != nil {
			return errorCmd("Reset failed", err)
		}
		return tea.Batch(changedCmd, statusCmd("Today's count reset"))
	}
	return nil
}

func (c counterModel) view() string {
	if c.width < 20 {
		return "Terminal too small"
	}
	w := c.width - 4

	if c.formActive && c.form != nil {
		title := titleStyle.Render("Counter")
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View()),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		c.renderCountPanel(w),
		c.renderStatsPanel(w),
		c.renderRecentPanel(w),
	)
}

func (c counterModel) renderCountPanel(w int) string {
	today := c.tracker.TodayEntry()
	pct := ledger.Progress(today.Count, today.Target)
	met := ledger.Met(today)

	style := countStyle
	indicator := mutedStyle.Render(fmt.Sprintf("%s remaining", formatCount(max(0, today.Target-today.Count))))
	if met {
		style = countMetStyle
		indicator = successStyle.Render("✓  TARGET MET")
	}

	count := style.Width(w - 6).Render(formatCount(today.Count))
	target := mutedStyle.Width(w - 6).Align(lipgloss.Center).
		Render(fmt.Sprintf("of %s  ·  %s", formatCount(today.Target), formatLongDay(today.Date)))

	barWidth := max(10, w-16)
	bar := lipgloss.JoinHorizontal(lipgloss.Center,
		progressBar(pct, barWidth), "  ", highlightStyle.Render(formatPercent(pct)))

	content := lipgloss.JoinVertical(lipgloss.Center, count, target, "", bar, indicator)
	if met {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

func (c counterModel) renderStatsPanel(w int) string {
	streak := c.tracker.Streak()
	days := "days"
	if streak == 1 {
		days = "day"
	}
	row := fmt.Sprintf("%s %s   %s %s",
		titleStyle.Render("Streak"),
		accentStyle.Render(fmt.Sprintf("%d %s", streak, days)),
		titleStyle.Render("Lifetime"),
		highlightStyle.Render(formatCount(c.tracker.Lifetime())),
	)
	return panelStyle.Width(w).Render(row)
}

func (c counterModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Days")

	entries := c.tracker.Ledger().Entries()
	today := c.tracker.Today()
	var rows []string
	rows = append(rows, title)
	shown := 0
	for i := len(entries) - 1; i >= 0 && shown < recentDays; i-- {
		e := entries[i]
		if e.Date >= today {
			continue
		}
		status := mutedStyle.Render("·")
		if ledger.Met(e) {
			status = successStyle.Render("✓")
		}
		rows = append(rows, fmt.Sprintf("  %s %-12s %8s / %-8s %s",
			status, formatLongDay(e.Date), formatCount(e.Count), formatCount(e.Target),
			mutedStyle.Render(formatPercent(ledger.Progress(e.Count, e.Target)))))
		shown++
	}
	if shown == 0 {
		rows = append(rows, mutedStyle.Render("No earlier days yet"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
