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
	"github.com/sadopc/istighfar/internal/store"
	"github.com/sadopc/istighfar/internal/tracker"
)

type settingsModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	defaultTarget *string
	targetPolicy  *string
	targetStep    *string
	planDays      *string
	historyDays   *string
}

func newSettingsModel(t *tracker.Tracker) settingsModel {
	dt, tp, ts, pd, hd := "", "", "", "", ""
	return settingsModel{
		tracker:       t,
		defaultTarget: &dt,
		targetPolicy:  &tp,
		targetStep:    &ts,
		planDays:      &pd,
		historyDays:   &hd,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	settings, err := s.tracker.Store().GetAllSettings()
	if err != nil {
		return errorCmd("Settings", err)
	}
	return func() tea.Msg { return settingsDataMsg{settings: settings} }
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	st := s.tracker.Settings()
	*s.defaultTarget = strconv.Itoa(st.DefaultTarget)
	*s.targetPolicy = st.TargetPolicy
	*s.targetStep = strconv.Itoa(st.TargetStep)
	*s.planDays = strconv.Itoa(st.PlanDays)
	*s.historyDays = strconv.Itoa(st.HistoryDays)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Default daily target").Value(s.defaultTarget).Validate(validatePositive),
			huh.NewSelect[string]().Title("Target policy").
				Options(
					huh.NewOption("Fixed", ledger.PolicyFixed),
					huh.NewOption("Growing (adds a step per recorded day)", ledger.PolicyGrowing),
				).Value(s.targetPolicy),
			huh.NewInput().Title("Growth step").Value(s.targetStep).Validate(validateNonNegative),
		).Title("Targets"),
		huh.NewGroup(
			huh.NewInput().Title("Days shown in planner").Value(s.planDays).Validate(validatePositive),
			huh.NewInput().Title("Days shown in history").Value(s.historyDays).Validate(validatePositive),
		).Title("Views"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, errorCmd("Save settings failed", err)
		}
		return s, tea.Batch(s.refresh(), changedCmd, statusCmd("Settings saved"))
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	st, err := s.formSettings()
	if err != nil {
		return err
	}
	if err := s.tracker.Store().SaveSettings(st); err != nil {
		return err
	}
	return s.tracker.ReloadPolicy()
}

func (s settingsModel) formSettings() (store.Settings, error) {
	var st store.Settings
	var err error
	if st.DefaultTarget, err = parsePositive(*s.defaultTarget); err != nil {
		return st, fmt.Errorf("default target: %w", err)
	}
	if st.TargetStep, err = strconv.Atoi(strings.TrimSpace(*s.targetStep)); err != nil {
		return st, fmt.Errorf("growth step: enter a whole number")
	}
	if st.PlanDays, err = parsePositive(*s.planDays); err != nil {
		return st, fmt.Errorf("planner days: %w", err)
	}
	if st.HistoryDays, err = parsePositive(*s.historyDays); err != nil {
		return st, fmt.Errorf("history days: %w", err)
	}
	st.TargetPolicy = *s.targetPolicy
	return st, nil
}

func validateNonNegative(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("enter a whole number")
	}
	if n < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(settingLabel(setting.Key))
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-24s %s", "Ledger", s.tracker.Namespace())))
	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingLabel(k string) string {
	switch k {
	case store.KeyDefaultTarget:
		return "Default target"
	case store.KeyTargetPolicy:
		return "Target policy"
	case store.KeyTargetStep:
		return "Growth step"
	case store.KeyPlanDays:
		return "Planner days"
	case store.KeyHistoryDays:
		return "History days"
	}
	return k
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.KeyDefaultTarget, store.KeyTargetStep:
		if n, err := strconv.Atoi(v); err == nil {
			return formatCount(n)
		}
	case store.KeyPlanDays, store.KeyHistoryDays:
		if n, err := strconv.Atoi(v); err == nil {
			if n == 1 {
				return "1 day"
			}
			return fmt.Sprintf("%d days", n)
		}
	}
	return v
}
