// Package planner implements the study planner view: describe an exam
// and the time available, get a day-by-day schedule.
package planner

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edumind/edumind/internal/gateway"
	"github.com/edumind/edumind/internal/history"
	"github.com/edumind/edumind/internal/screen"
	"github.com/edumind/edumind/internal/store"
	"github.com/edumind/edumind/internal/studyplan"
	"github.com/edumind/edumind/internal/ui/components"
	"github.com/edumind/edumind/internal/ui/layout"
	"github.com/edumind/edumind/internal/ui/theme"
)

type phase int

const (
	phaseForm phase = iota
	phasePlan
	phaseHistory
)

// form focus targets.
const (
	focusExam = iota
	focusDays
	focusHours
)

// PlannerScreen implements screen.Screen for study plan generation.
type PlannerScreen struct {
	gw      *gateway.Service
	history *history.Store[studyplan.Record]

	phase phase

	exam   components.TextInput
	days   components.TextInput
	hours  components.TextInput
	focus  int
	busy   bool
	errMsg string

	record     studyplan.Record
	dayIdx     int
	historyIdx int
}

var _ screen.Screen = (*PlannerScreen)(nil)
var _ screen.KeyHintProvider = (*PlannerScreen)(nil)

// New creates a PlannerScreen.
func New(kv *store.Store, gw *gateway.Service) *PlannerScreen {
	s := &PlannerScreen{
		gw:      gw,
		history: history.New[studyplan.Record](kv, store.KeyPlanHistory),
	}
	s.resetForm()
	return s
}

func (s *PlannerScreen) resetForm() {
	s.phase = phaseForm
	s.exam = components.NewTextInput("Exam name, e.g. Physics Finals", false, 100)
	s.days = components.NewTextInput(fmt.Sprintf("%d", studyplan.DefaultDays), true, 3)
	s.hours = components.NewTextInput(fmt.Sprintf("%d", studyplan.DefaultHours), true, 2)
	s.focus = focusExam
	s.errMsg = ""
	s.exam.Model.Focus()
	s.days.Model.Blur()
	s.hours.Model.Blur()
}

func (s *PlannerScreen) Init() tea.Cmd {
	return s.exam.Init()
}

func (s *PlannerScreen) Title() string {
	switch s.phase {
	case phasePlan:
		return "Study Plan"
	case phaseHistory:
		return "Plan History"
	}
	return "Study Planner"
}

func (s *PlannerScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phasePlan:
		return []layout.KeyHint{
			{Key: "←→", Description: "Day"},
			{Key: "N", Description: "New plan"},
			{Key: "H", Description: "History"},
		}
	case phaseHistory:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Select"},
			{Key: "Enter", Description: "Open"},
			{Key: "Tab", Description: "New plan"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Generate"},
		{Key: "Ctrl+H", Description: "History"},
	}
}

func (s *PlannerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case planReadyMsg:
		return s.handlePlanReady(msg)
	case tea.KeyMsg:
		switch s.phase {
		case phaseForm:
			return s.handleFormKey(msg)
		case phasePlan:
			return s.handlePlanKey(msg)
		case phaseHistory:
			return s.handleHistoryKey(msg)
		}
	}
	return s, nil
}

func (s *PlannerScreen) handleFormKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}

	switch msg.String() {
	case "tab", "down":
		s.setFocus((s.focus + 1) % 3)
		return s, nil
	case "shift+tab", "up":
		s.setFocus((s.focus + 2) % 3)
		return s, nil
	case "ctrl+h":
		s.phase = phaseHistory
		s.historyIdx = 0
		return s, nil
	case "enter":
		return s.startGeneration()
	}

	var cmd tea.Cmd
	switch s.focus {
	case focusExam:
		s.exam, cmd = s.exam.Update(msg)
	case focusDays:
		s.days, cmd = s.days.Update(msg)
	case focusHours:
		s.hours, cmd = s.hours.Update(msg)
	}
	return s, cmd
}

func (s *PlannerScreen) setFocus(f int) {
	s.focus = f
	inputs := []*components.TextInput{&s.exam, &s.days, &s.hours}
	for i, in := range inputs {
		if i == f {
			in.Model.Focus()
		} else {
			in.Model.Blur()
		}
	}
}

// numericField parses a bounded numeric input, using def when blank.
func numericField(in components.TextInput, def, lo, hi int) (int, error) {
	if strings.TrimSpace(in.Value()) == "" {
		return def, nil
	}
	n, err := in.NumericValue()
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("out of range %d-%d", lo, hi)
	}
	return n, nil
}

// startGeneration validates the form. Invalid input shows a message
// and stays on the form; nothing is cleared.
func (s *PlannerScreen) startGeneration() (screen.Screen, tea.Cmd) {
	exam := strings.TrimSpace(s.exam.Value())
	if exam == "" {
		s.errMsg = "Please enter an exam name"
		return s, nil
	}

	days, err := numericField(s.days, studyplan.DefaultDays, studyplan.MinDays, studyplan.MaxDays)
	if err != nil {
		s.errMsg = fmt.Sprintf("Days until exam must be %d-%d", studyplan.MinDays, studyplan.MaxDays)
		return s, nil
	}
	hours, err := numericField(s.hours, studyplan.DefaultHours, studyplan.MinHours, studyplan.MaxHours)
	if err != nil {
		s.errMsg = fmt.Sprintf("Hours per day must be %d-%d", studyplan.MinHours, studyplan.MaxHours)
		return s, nil
	}

	s.busy = true
	s.errMsg = ""
	gw := s.gw

	return s, func() tea.Msg {
		plan, err := gw.GeneratePlan(context.Background(), exam, days, hours)
		return planReadyMsg{Plan: plan, Err: err}
	}
}

// handlePlanReady shows the plan on success. On failure the form is
// untouched so the student can retry.
func (s *PlannerScreen) handlePlanReady(msg planReadyMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	exam := strings.TrimSpace(s.exam.Value())
	days, _ := numericField(s.days, studyplan.DefaultDays, studyplan.MinDays, studyplan.MaxDays)
	hours, _ := numericField(s.hours, studyplan.DefaultHours, studyplan.MinHours, studyplan.MaxHours)

	rec := studyplan.NewRecord(exam, days, hours, msg.Plan)
	if err := s.history.Append(rec); err != nil {
		s.errMsg = err.Error()
	}

	s.record = rec
	s.dayIdx = 0
	s.phase = phasePlan
	return s, nil
}

func (s *PlannerScreen) handlePlanKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		if s.dayIdx > 0 {
			s.dayIdx--
		}
	case "right", "l":
		if s.dayIdx < len(s.record.Plan)-1 {
			s.dayIdx++
		}
	case "n":
		s.resetForm()
		return s, s.exam.Init()
	case "ctrl+h":
		s.phase = phaseHistory
		s.historyIdx = 0
	}
	return s, nil
}

func (s *PlannerScreen) handleHistoryKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	records := s.history.Items()
	switch msg.String() {
	case "up", "k":
		if s.historyIdx > 0 {
			s.historyIdx--
		}
	case "down", "j":
		if s.historyIdx < len(records)-1 {
			s.historyIdx++
		}
	case "enter":
		if s.historyIdx >= 0 && s.historyIdx < len(records) {
			s.record = records[s.historyIdx]
			s.dayIdx = 0
			s.phase = phasePlan
		}
	case "tab", "esc":
		s.resetForm()
		return s, s.exam.Init()
	}
	return s, nil
}

func (s *PlannerScreen) View(width, height int) string {
	switch s.phase {
	case phasePlan:
		return s.viewPlan(width, height)
	case phaseHistory:
		return s.viewHistory(width, height)
	}
	return s.viewForm(width, height)
}

func (s *PlannerScreen) viewForm(width, height int) string {
	label := func(text string, focus int) string {
		if s.focus == focus {
			return theme.Selected.Render(text)
		}
		return theme.Body.Render(text)
	}

	rows := []string{
		theme.Title.Render("Study Planner"),
		"",
		label("Exam", focusExam),
		s.exam.View(),
		"",
		label(fmt.Sprintf("Days until exam (%d-%d)", studyplan.MinDays, studyplan.MaxDays), focusDays),
		s.days.View(),
		"",
		label(fmt.Sprintf("Study hours per day (%d-%d)", studyplan.MinHours, studyplan.MaxHours), focusHours),
		s.hours.View(),
	}

	if s.busy {
		rows = append(rows, "", theme.Hint.Render("Building your plan..."))
	}
	if s.errMsg != "" {
		rows = append(rows, "", theme.Incorrect.Render(s.errMsg))
	}

	card := theme.Card.Width(min(width-4, 60)).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *PlannerScreen) viewPlan(width, height int) string {
	if len(s.record.Plan) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No plan to show."))
	}

	day := s.record.Plan[s.dayIdx]

	header := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render(s.record.ExamName),
		theme.Hint.Render(fmt.Sprintf("%d days · %d hours/day", s.record.Days, s.record.Hours)),
		"",
		theme.Selected.Render(fmt.Sprintf("%s  (%d/%d)", day.Day, s.dayIdx+1, len(s.record.Plan))),
	)

	var b strings.Builder
	for _, task := range day.Tasks {
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			theme.Hint.Render(task.Time),
			theme.Body.Render(task.Task),
			priorityStyle(task.Priority).Render(task.Priority),
		))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", b.String())
	card := theme.Card.Width(min(width-4, 80)).Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func priorityStyle(priority string) lipgloss.Style {
	switch priority {
	case "High":
		return theme.Incorrect
	case "Low":
		return theme.Hint
	}
	return theme.Selected
}

func (s *PlannerScreen) viewHistory(width, height int) string {
	records := s.history.Items()
	if len(records) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No plans yet."))
	}

	var b strings.Builder
	for i, rec := range records {
		line := fmt.Sprintf("%s  %-30s %d days",
			rec.Timestamp.Format("Jan 02 15:04"), rec.ExamName, rec.Days)
		if i == s.historyIdx {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
