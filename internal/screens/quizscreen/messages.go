package quizscreen

import "github.com/edumind/edumind/internal/quiz"

// questionsReadyMsg is sent when quiz generation completes.
type questionsReadyMsg struct {
	Questions []quiz.Question
	Err       error
}
