// Package quizscreen implements the quiz module: topic setup, taking
// the generated quiz, the scored result, and past attempts.
package quizscreen

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edumind/edumind/internal/gateway"
	"github.com/edumind/edumind/internal/history"
	"github.com/edumind/edumind/internal/profile"
	"github.com/edumind/edumind/internal/quiz"
	"github.com/edumind/edumind/internal/screen"
	"github.com/edumind/edumind/internal/store"
	"github.com/edumind/edumind/internal/ui/components"
	"github.com/edumind/edumind/internal/ui/layout"
	"github.com/edumind/edumind/internal/ui/theme"
)

type phase int

const (
	phaseSetup phase = iota
	phaseQuiz
	phaseResult
	phaseHistory
)

// setup form focus targets.
const (
	focusTopic = iota
	focusDifficulty
	focusCount
)

// defaultQuestionCount is used when the count field is left blank.
const defaultQuestionCount = 5

// QuizScreen implements screen.Screen for the quiz module.
type QuizScreen struct {
	session *profile.Session
	gw      *gateway.Service
	history *history.Store[quiz.Attempt]

	phase phase

	// Setup form.
	topic   components.TextInput
	count   components.TextInput
	diffIdx int
	focus   int
	busy    bool
	errMsg  string

	// Active quiz.
	questions []quiz.Question
	answers   []int
	idx       int
	mc        components.MultiChoice

	// Result view. attempt is the persisted (or replayed) record.
	attempt   quiz.Attempt
	reviewIdx int

	historyIdx int
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a QuizScreen.
func New(kv *store.Store, session *profile.Session, gw *gateway.Service) *QuizScreen {
	s := &QuizScreen{
		session: session,
		gw:      gw,
		history: history.New[quiz.Attempt](kv, store.KeyQuizHistory),
	}
	s.resetSetup()
	return s
}

func (s *QuizScreen) resetSetup() {
	s.phase = phaseSetup
	s.topic = components.NewTextInput("Topic, e.g. Photosynthesis", false, 100)
	s.count = components.NewTextInput("5", true, 3)
	s.diffIdx = 1 // Medium
	s.focus = focusTopic
	s.errMsg = ""
	s.questions = nil
	s.answers = nil
	s.idx = 0
	s.topic.Model.Focus()
	s.count.Model.Blur()
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.topic.Init()
}

func (s *QuizScreen) Title() string {
	switch s.phase {
	case phaseQuiz:
		return "Quiz"
	case phaseResult:
		return "Quiz Result"
	case phaseHistory:
		return "Quiz History"
	}
	return "Smart Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseQuiz:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Option"},
			{Key: "Enter", Description: "Select"},
			{Key: "←→", Description: "Question"},
			{Key: "F", Description: "Finish"},
		}
	case phaseResult:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Review"},
			{Key: "T", Description: "Try another"},
			{Key: "H", Description: "History"},
		}
	case phaseHistory:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Select"},
			{Key: "Enter", Description: "View result"},
			{Key: "Tab", Description: "New quiz"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Difficulty"},
		{Key: "Enter", Description: "Generate"},
		{Key: "Ctrl+H", Description: "History"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsReadyMsg:
		return s.handleQuestionsReady(msg)
	case tea.KeyMsg:
		switch s.phase {
		case phaseSetup:
			return s.handleSetupKey(msg)
		case phaseQuiz:
			return s.handleQuizKey(msg)
		case phaseResult:
			return s.handleResultKey(msg)
		case phaseHistory:
			return s.handleHistoryKey(msg)
		}
	}
	return s, nil
}

func (s *QuizScreen) handleSetupKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
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
	case "left", "right":
		if s.focus == focusDifficulty {
			delta := 1
			if msg.String() == "left" {
				delta = len(quiz.Difficulties) - 1
			}
			s.diffIdx = (s.diffIdx + delta) % len(quiz.Difficulties)
			return s, nil
		}
	case "ctrl+h":
		s.phase = phaseHistory
		s.historyIdx = 0
		return s, nil
	case "enter":
		return s.startGeneration()
	}

	var cmd tea.Cmd
	switch s.focus {
	case focusTopic:
		s.topic, cmd = s.topic.Update(msg)
	case focusCount:
		s.count, cmd = s.count.Update(msg)
	}
	return s, cmd
}

func (s *QuizScreen) setFocus(f int) {
	s.focus = f
	if f == focusTopic {
		s.topic.Model.Focus()
	} else {
		s.topic.Model.Blur()
	}
	if f == focusCount {
		s.count.Model.Focus()
	} else {
		s.count.Model.Blur()
	}
}

// startGeneration validates the form. Invalid input shows a message
// and stays on setup; nothing is cleared.
func (s *QuizScreen) startGeneration() (screen.Screen, tea.Cmd) {
	topic := strings.TrimSpace(s.topic.Value())
	if topic == "" {
		s.errMsg = "Please enter a topic"
		return s, nil
	}

	count := defaultQuestionCount
	if strings.TrimSpace(s.count.Value()) != "" {
		n, err := s.count.NumericValue()
		if err != nil || n < 1 {
			s.errMsg = "Please enter a valid number of questions"
			return s, nil
		}
		count = n
	}
	count = quiz.ClampCount(count)

	difficulty := quiz.Difficulties[s.diffIdx]
	s.busy = true
	s.errMsg = ""
	gw := s.gw

	return s, func() tea.Msg {
		questions, err := gw.GenerateQuiz(context.Background(), topic, difficulty, count)
		return questionsReadyMsg{Questions: questions, Err: err}
	}
}

// handleQuestionsReady enters the quiz on success. On failure the setup
// form is untouched so the student can retry.
func (s *QuizScreen) handleQuestionsReady(msg questionsReadyMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	s.questions = msg.Questions
	s.answers = make([]int, len(msg.Questions))
	for i := range s.answers {
		s.answers[i] = quiz.Unanswered
	}
	s.idx = 0
	s.phase = phaseQuiz
	s.loadQuestion()
	return s, nil
}

func (s *QuizScreen) loadQuestion() {
	q := s.questions[s.idx]
	s.mc = components.NewMultiChoice(
		fmt.Sprintf("Q%d. %s", s.idx+1, q.Text),
		q.Options,
		s.answers[s.idx],
	)
}

func (s *QuizScreen) handleQuizKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		// Going back is always allowed.
		if s.idx > 0 {
			s.idx--
			s.loadQuestion()
		}
		return s, nil
	case "right", "l":
		// Advancing requires an answer for the current question.
		if s.answers[s.idx] == quiz.Unanswered {
			return s, nil
		}
		if s.idx < len(s.questions)-1 {
			s.idx++
			s.loadQuestion()
		}
		return s, nil
	case "f":
		return s.finish()
	}

	var cmd tea.Cmd
	s.mc, cmd = s.mc.Update(msg)
	s.answers[s.idx] = s.mc.Chosen
	return s, cmd
}

// finish is only legal on the last question with an answer selected.
// This is the single transition that touches the performance profile.
func (s *QuizScreen) finish() (screen.Screen, tea.Cmd) {
	if s.idx != len(s.questions)-1 || s.answers[s.idx] == quiz.Unanswered {
		return s, nil
	}

	topic := strings.TrimSpace(s.topic.Value())
	attempt := quiz.NewAttempt(topic, quiz.Difficulties[s.diffIdx], s.questions, s.answers)

	if err := s.history.Append(attempt); err != nil {
		s.errMsg = err.Error()
	}
	if err := s.session.RecordQuizResult(attempt.Score, topic); err != nil {
		s.errMsg = err.Error()
	}

	s.attempt = attempt
	s.reviewIdx = 0
	s.phase = phaseResult
	return s, nil
}

func (s *QuizScreen) handleResultKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.reviewIdx > 0 {
			s.reviewIdx--
		}
	case "down", "j":
		if s.reviewIdx < len(s.attempt.Questions)-1 {
			s.reviewIdx++
		}
	case "t":
		s.resetSetup()
		return s, s.topic.Init()
	case "h":
		s.phase = phaseHistory
		s.historyIdx = 0
	}
	return s, nil
}

func (s *QuizScreen) handleHistoryKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	attempts := s.history.Items()
	switch msg.String() {
	case "up", "k":
		if s.historyIdx > 0 {
			s.historyIdx--
		}
	case "down", "j":
		if s.historyIdx < len(attempts)-1 {
			s.historyIdx++
		}
	case "enter":
		// Replay a stored result. Read-only: the profile is not
		// touched again.
		if s.historyIdx >= 0 && s.historyIdx < len(attempts) {
			s.attempt = attempts[s.historyIdx]
			s.reviewIdx = 0
			s.phase = phaseResult
		}
	case "tab", "esc":
		s.resetSetup()
		return s, s.topic.Init()
	}
	return s, nil
}

func (s *QuizScreen) View(width, height int) string {
	switch s.phase {
	case phaseQuiz:
		return s.viewQuiz(width, height)
	case phaseResult:
		return s.viewResult(width, height)
	case phaseHistory:
		return s.viewHistory(width, height)
	}
	return s.viewSetup(width, height)
}

func (s *QuizScreen) viewSetup(width, height int) string {
	label := func(text string, focus int) string {
		if s.focus == focus {
			return theme.Selected.Render(text)
		}
		return theme.Body.Render(text)
	}

	diff := ""
	for i, d := range quiz.Difficulties {
		entry := string(d)
		if i == s.diffIdx {
			entry = theme.Selected.Render("[" + entry + "]")
		} else {
			entry = theme.Hint.Render(" " + entry + " ")
		}
		diff += entry + " "
	}

	rows := []string{
		theme.Title.Render("Smart Quiz"),
		"",
		label("Topic", focusTopic),
		s.topic.View(),
		"",
		label("Difficulty", focusDifficulty),
		diff,
		"",
		label(fmt.Sprintf("Questions (max %d)", quiz.MaxQuestions), focusCount),
		s.count.View(),
	}

	if s.busy {
		rows = append(rows, "", theme.Hint.Render("Generating quiz..."))
	}
	if s.errMsg != "" {
		rows = append(rows, "", theme.Incorrect.Render(s.errMsg))
	}

	card := theme.Card.Width(min(width-4, 60)).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *QuizScreen) viewQuiz(width, height int) string {
	progress := theme.Hint.Render(
		fmt.Sprintf("Question %d of %d", s.idx+1, len(s.questions)))

	body := s.mc.View()

	footer := ""
	if s.idx == len(s.questions)-1 && s.answers[s.idx] != quiz.Unanswered {
		footer = theme.Selected.Render("Press F to finish")
	} else if s.answers[s.idx] == quiz.Unanswered {
		footer = theme.Hint.Render("Select an answer to continue")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, progress, "", body, "", footer)
	card := theme.Card.Width(min(width-4, 80)).Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *QuizScreen) viewResult(width, height int) string {
	a := s.attempt
	marks := quiz.Marks(a.Questions, a.Answers)

	scoreStyle := theme.Correct
	if a.Score < profile.WeakScoreThreshold {
		scoreStyle = theme.Incorrect
	}

	header := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render(a.Topic),
		scoreStyle.Render(fmt.Sprintf("%.0f%%", a.Score)),
		theme.Hint.Render(fmt.Sprintf("%s · %d questions", a.Difficulty, len(a.Questions))),
	)

	q := a.Questions[s.reviewIdx]
	mc := components.NewMultiChoice(
		fmt.Sprintf("Q%d. %s", s.reviewIdx+1, q.Text),
		q.Options,
		a.Answers[s.reviewIdx],
	)
	review := mc.ViewRevealed(q.CorrectAnswer)

	var verdict string
	switch marks[s.reviewIdx] {
	case quiz.Correct:
		verdict = theme.Correct.Render("Correct")
	case quiz.Incorrect:
		verdict = theme.Incorrect.Render("Incorrect")
	default:
		verdict = theme.Hint.Render("Unanswered")
	}

	explanation := theme.Hint.Render(q.Explanation)

	content := lipgloss.JoinVertical(lipgloss.Left,
		header, "", review, verdict, "", explanation)
	card := theme.Card.Width(min(width-4, 80)).Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *QuizScreen) viewHistory(width, height int) string {
	attempts := s.history.Items()
	if len(attempts) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No quizzes taken yet."))
	}

	var b strings.Builder
	for i, a := range attempts {
		line := fmt.Sprintf("%s  %-30s %s  %.0f%%",
			a.Timestamp.Format("Jan 02 15:04"), a.Topic, a.Difficulty, a.Score)
		if i == s.historyIdx {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
