package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/istighfar/internal/tracker"
)

type plannerModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	rows   []tracker.Upcoming
	cursor int

	formActive bool
	form       *huh.Form
	editing    string // date being planned

	targetInput *string
}

func newPlannerModel(t *tracker.Tracker) plannerModel {
	target := ""
	return plannerModel{
		tracker:     t,
		targetInput: &target,
	}
}

func (p *plannerModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type plannerDataMsg struct {
	rows []tracker.Upcoming
}

func (p plannerModel) refresh() tea.Cmd {
	rows, err := p.tracker.Upcoming(p.tracker.Settings().PlanDays)
	if err != nil {
		return errorCmd("Planner", err)
	}
	return func() tea.Msg { return plannerDataMsg{rows: rows} }
}

func (p plannerModel) update(msg tea.Msg) (plannerModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case plannerDataMsg:
		p.rows = msg.rows
		if p.cursor >= len(p.rows) {
			p.cursor = max(0, len(p.rows)-1)
		}
		return p, nil

	case ledgerChangedMsg:
		return p, p.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.rows)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if len(p.rows) == 0 {
				break
			}
			if row := p.rows[p.cursor]; row.Recorded {
				return p, statusCmd(fmt.Sprintf("%s already has a count; its target stays %s",
					formatLongDay(row.Date), formatCount(row.Target)))
			}
			return p.showForm()
		case key.Matches(msg, keys.Clear):
			if len(p.rows) > 0 {
				return p, p.clearSelected()
			}
		}
	}
	return p, nil
}

func (p plannerModel) clearSelected() tea.Cmd {
	row := p.rows[p.cursor]
	removed, err := p.tracker.ClearPlan(row.Date)
	if err != nil {
		return errorCmd("Clear plan failed", err)
	}
	if !removed {
		return statusCmd("No plan for " + formatLongDay(row.Date))
	}
	return tea.Batch(changedCmd, statusCmd("Plan cleared for "+formatLongDay(row.Date)))
}

func (p plannerModel) showForm() (plannerModel, tea.Cmd) {
	row := p.rows[p.cursor]
	*p.targetInput = strconv.Itoa(row.Target)
	p.editing = row.Date

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Target for " + formatLongDay(row.Date)).
				Value(p.targetInput).
				Validate(validatePositive),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p plannerModel) updateForm(msg tea.Msg) (plannerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		n, err := parsePositive(*p.targetInput)
		if err != nil {
			return p, errorCmd("Invalid target", err)
		}
		if err := p.tracker.SetTarget(p.editing, n); err != nil {
			return p, errorCmd("Plan failed", err)
		}
		return p, tea.Batch(changedCmd,
			statusCmd(fmt.Sprintf("Planned %s for %s", formatCount(n), formatLongDay(p.editing))))
	}

	return p, cmd
}

func (p plannerModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		title := titleStyle.Render("Plan Target")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return activePanelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Upcoming Days")
	if len(p.rows) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("Nothing to plan."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %10s", "Date", "Target")))

	for i, r := range p.rows {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		source := mutedStyle.Render("default")
		switch {
		case r.Recorded:
			source = warningStyle.Render("recorded")
		case r.Planned:
			source = plannedItemStyle.Render("planned")
		}
		row := style.Render(fmt.Sprintf("%s%-14s %10s", cursor, formatLongDay(r.Date), formatCount(r.Target)))
		rows = append(rows, row+"  "+source)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: set target  d: clear plan"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
