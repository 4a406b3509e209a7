package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edumind/edumind/internal/ui/theme"
)

// NoChoice marks a question with no selected option.
const NoChoice = -1

// MultiChoice is a multiple-choice selector. The chosen option is held
// by the caller so selections survive question navigation.
type MultiChoice struct {
	Question string
	Options  []string

	// Cursor is the highlighted option.
	Cursor int

	// Chosen is the selected option, or NoChoice.
	Chosen int
}

// NewMultiChoice creates a selector with a prior selection restored.
// Pass NoChoice for a fresh question.
func NewMultiChoice(question string, options []string, chosen int) MultiChoice {
	cursor := 0
	if chosen >= 0 && chosen < len(options) {
		cursor = chosen
	}
	return MultiChoice{
		Question: question,
		Options:  options,
		Cursor:   cursor,
		Chosen:   chosen,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter", " ":
		m.Chosen = m.Cursor
	}

	return m, nil
}

// View renders the selector.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor {
			prefix = "▸ "
		}
		marker := "( )"
		if i == m.Chosen {
			marker = "(●)"
		}

		line := fmt.Sprintf("%s%s %s)  %s", prefix, marker, optionLabel(i), opt)

		switch {
		case i == m.Chosen:
			s += lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(line) + "\n"
		case i == m.Cursor:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}

	return s
}

// ViewRevealed renders the selector with the correct answer revealed,
// for result review.
func (m MultiChoice) ViewRevealed(correct int) string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		line := fmt.Sprintf("  %s)  %s", optionLabel(i), opt)

		switch {
		case i == correct:
			s += lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(line+"  ✓") + "\n"
		case i == m.Chosen:
			s += lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(line+"  ✗") + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		}
	}

	return s
}

func optionLabel(i int) string {
	return string(rune('A' + i))
}
