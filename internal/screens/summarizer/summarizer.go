// Package summarizer implements the note summarizer view: paste study
// notes, get a quick-read summary, browse past summaries.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edumind/edumind/internal/gateway"
	"github.com/edumind/edumind/internal/history"
	"github.com/edumind/edumind/internal/screen"
	"github.com/edumind/edumind/internal/store"
	"github.com/edumind/edumind/internal/summarize"
	"github.com/edumind/edumind/internal/ui/layout"
	"github.com/edumind/edumind/internal/ui/theme"
)

type mode int

const (
	modeActive mode = iota
	modeHistory
)

// SummarizerScreen implements screen.Screen for note summarization.
type SummarizerScreen struct {
	gw      *gateway.Service
	history *history.Store[summarize.Record]

	mode       mode
	notes      textarea.Model
	summary    string
	busy       bool
	errMsg     string
	historyIdx int
}

var _ screen.Screen = (*SummarizerScreen)(nil)
var _ screen.KeyHintProvider = (*SummarizerScreen)(nil)

// New creates a SummarizerScreen.
func New(kv *store.Store, gw *gateway.Service) *SummarizerScreen {
	ta := textarea.New()
	ta.Placeholder = "Paste your study notes here..."
	ta.CharLimit = 0

	return &SummarizerScreen{
		gw:      gw,
		history: history.New[summarize.Record](kv, store.KeySummaryHistory),
		notes:   ta,
	}
}

func (s *SummarizerScreen) Init() tea.Cmd {
	return s.notes.Focus()
}

func (s *SummarizerScreen) Title() string {
	if s.mode == modeHistory {
		return "Summary History"
	}
	return "Note Summarizer"
}

func (s *SummarizerScreen) KeyHints() []layout.KeyHint {
	if s.mode == modeHistory {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Select"},
			{Key: "Enter", Description: "Open"},
			{Key: "Tab", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Ctrl+S", Description: "Summarize"},
		{Key: "Tab", Description: "History"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummarizerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryReadyMsg:
		return s.handleSummary(msg)
	case tea.KeyMsg:
		if s.mode == modeHistory {
			return s.handleHistoryKey(msg)
		}
		return s.handleActiveKey(msg)
	}
	return s, nil
}

func (s *SummarizerScreen) handleActiveKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return s.summarize()
	case "tab":
		if s.busy {
			return s, nil
		}
		s.mode = modeHistory
		s.historyIdx = 0
		return s, nil
	}

	if s.busy {
		return s, nil
	}
	var cmd tea.Cmd
	s.notes, cmd = s.notes.Update(msg)
	return s, cmd
}

// summarize fires the gateway call. The notes stay in place so a
// failure loses nothing.
func (s *SummarizerScreen) summarize() (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	notes := strings.TrimSpace(s.notes.Value())
	if notes == "" {
		s.errMsg = "Please enter some notes to summarize"
		return s, nil
	}

	s.busy = true
	s.errMsg = ""
	gw := s.gw

	return s, func() tea.Msg {
		summary, err := gw.Summarize(context.Background(), notes)
		return summaryReadyMsg{Summary: summary, Err: err}
	}
}

func (s *SummarizerScreen) handleSummary(msg summaryReadyMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	s.summary = msg.Summary
	rec := summarize.NewRecord(strings.TrimSpace(s.notes.Value()), msg.Summary)
	if err := s.history.Append(rec); err != nil {
		s.errMsg = err.Error()
	}
	return s, nil
}

func (s *SummarizerScreen) handleHistoryKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
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
		// Restore both panes from the stored record.
		if s.historyIdx >= 0 && s.historyIdx < len(records) {
			rec := records[s.historyIdx]
			s.notes.SetValue(rec.OriginalText)
			s.summary = rec.Summary
			s.mode = modeActive
		}
	case "tab", "esc":
		s.mode = modeActive
	}
	return s, nil
}

func (s *SummarizerScreen) View(width, height int) string {
	if s.mode == modeHistory {
		return s.viewHistory(width, height)
	}
	return s.viewActive(width, height)
}

func (s *SummarizerScreen) viewActive(width, height int) string {
	paneWidth := (width - 8) / 2
	if paneWidth < 20 {
		paneWidth = 20
	}
	paneHeight := height - 6
	if paneHeight < 5 {
		paneHeight = 5
	}

	s.notes.SetWidth(paneWidth)
	s.notes.SetHeight(paneHeight)

	left := lipgloss.JoinVertical(lipgloss.Left,
		theme.Subtitle.Render("Your Notes"),
		s.notes.View(),
	)

	var rightBody string
	switch {
	case s.busy:
		rightBody = theme.Hint.Render("Summarizing...")
	case s.summary != "":
		rightBody = lipgloss.NewStyle().Width(paneWidth).Render(s.summary)
	default:
		rightBody = theme.Hint.Render("Your summary will appear here.")
	}
	right := lipgloss.JoinVertical(lipgloss.Left,
		theme.Subtitle.Render("Quick-Read Summary"),
		rightBody,
	)

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Padding(0, 1).Render(left),
		lipgloss.NewStyle().Padding(0, 1).Render(right),
	)

	out := panes
	if s.errMsg != "" {
		out += "\n" + theme.Incorrect.Render(s.errMsg)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(out)
}

func (s *SummarizerScreen) viewHistory(width, height int) string {
	records := s.history.Items()
	if len(records) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No summaries yet."))
	}

	var b strings.Builder
	for i, rec := range records {
		line := fmt.Sprintf("%s  %s",
			rec.Timestamp.Format("Jan 02 15:04"), preview(rec.OriginalText, 50))
		if i == s.historyIdx {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// preview flattens text to one line capped at n runes.
func preview(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n]) + "..."
}
