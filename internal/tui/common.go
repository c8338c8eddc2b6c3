package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/istighfar/internal/ledger"
)

// viewState represents the currently active view.
type viewState int

const (
	viewCounter viewState = iota
	viewHistory
	viewPlanner
	viewSettings
)

var viewNames = []string{"Counter", "History", "Planner", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
	bell    bool
}

// ledgerChangedMsg is sent after any successful mutation so that views
// holding derived data can rebuild it.
type ledgerChangedMsg struct{}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorCmd(prefix string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
	}
}

func changedCmd() tea.Msg { return ledgerChangedMsg{} }

func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}

// formatTarget renders a target, or a dash for past days that never had one.
func formatTarget(n int) string {
	if n <= 0 {
		return "-"
	}
	return formatCount(n)
}

// formatDay renders a ledger date as "Mon 02". Malformed dates are returned
// unchanged.
func formatDay(date string) string {
	t, err := ledger.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Mon 02")
}

func formatLongDay(date string) string {
	t, err := ledger.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Mon, Jan 02")
}

func progressBar(pct float64, width int) string {
	if width < 1 {
		return ""
	}
	filled := int(pct / 100 * float64(width))
	filled = max(0, min(filled, width))
	return progressFillStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// parsePositive validates huh inputs that must hold a positive integer.
func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("enter a whole number")
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be greater than zero")
	}
	return n, nil
}

func validatePositive(s string) error {
	_, err := parsePositive(s)
	return err
}
