package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/istighfar/internal/ledger"
	"github.com/sadopc/istighfar/internal/tracker"
)

type historyModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	days    int
	offset  int // blocks of days back from today (0 = current)
	entries []ledger.DayEntry

	chart barchart.Model
}

func newHistoryModel(t *tracker.Tracker) historyModel {
	return historyModel{
		tracker: t,
		days:    t.Settings().HistoryDays,
		chart:   barchart.New(60, 12),
	}
}

func (h *historyModel) setSize(w, height int) {
	h.width = w
	h.height = height
}

type historyDataMsg struct {
	days    int
	entries []ledger.DayEntry
}

// refresh reads the ledger immediately so the command never touches the
// tracker from another goroutine.
func (h historyModel) refresh() tea.Cmd {
	days := h.tracker.Settings().HistoryDays
	entries, err := h.tracker.History(days, h.offset*days)
	if err != nil {
		return errorCmd("History", err)
	}
	return func() tea.Msg {
		return historyDataMsg{days: days, entries: entries}
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		h.days = msg.days
		h.entries = msg.entries
		h.buildChart()
		return h, nil

	case ledgerChangedMsg:
		return h, h.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			h.offset++
			return h, h.refresh()
		case key.Matches(msg, keys.Right):
			if h.offset > 0 {
				h.offset--
			}
			return h, h.refresh()
		}
	}
	return h, nil
}

func (h *historyModel) buildChart() {
	chartWidth := max(20, h.width-8)
	chartHeight := 12
	if h.height > 30 {
		chartHeight = 16
	}

	h.chart = barchart.New(chartWidth, chartHeight)

	bars := make([]barchart.BarData, 0, len(h.entries))
	for _, e := range h.entries {
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		switch {
		case ledger.Met(e):
			style = lipgloss.NewStyle().Foreground(colorSuccess)
		case e.Count == 0:
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: formatDay(e.Date),
			Values: []barchart.BarValue{{
				Name:  e.Date,
				Value: float64(e.Count),
				Style: style,
			}},
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) totals() (count, met int) {
	for _, e := range h.entries {
		count += e.Count
		if ledger.Met(e) {
			met++
		}
	}
	return count, met
}

func (h historyModel) view() string {
	w := h.width - 4

	rangeLabel := ""
	if len(h.entries) > 0 {
		first, last := h.entries[0].Date, h.entries[len(h.entries)-1].Date
		rangeLabel = mutedStyle.Render(fmt.Sprintf("%s to %s", formatLongDay(first), formatLongDay(last)))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ", rangeLabel,
	)

	total, met := h.totals()
	summary := fmt.Sprintf("%s %s   %s %s",
		subtitleStyle.Render("Total"),
		highlightStyle.Render(formatCount(total)),
		subtitleStyle.Render("Targets met"),
		successStyle.Render(fmt.Sprintf("%d/%d", met, len(h.entries))),
	)

	nav := mutedStyle.Render("  ←/→: older/newer")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", h.chart.View(), "", summary, "", h.renderTable(w), "", nav,
		),
	)
}

func (h historyModel) renderTable(w int) string {
	if len(h.entries) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %10s %10s %9s", "Date", "Count", "Target", "Progress")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 48)))))

	// Newest first, like the recent list on the counter.
	for i := len(h.entries) - 1; i >= 0; i-- {
		e := h.entries[i]
		mark := " "
		if ledger.Met(e) {
			mark = successStyle.Render("✓")
		}
		progress := "-"
		if e.Target > 0 {
			progress = formatPercent(ledger.Progress(e.Count, e.Target))
		}
		rows = append(rows, fmt.Sprintf("  %-14s %10s %10s %9s %s",
			formatLongDay(e.Date), formatCount(e.Count), formatTarget(e.Target), progress, mark,
		))
	}
	return strings.Join(rows, "\n")
}
