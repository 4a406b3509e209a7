// Package quiz holds quiz attempt records and scoring.
package quiz

import (
	"fmt"
	"time"
)

// MaxQuestions caps how many questions one quiz may request.
const MaxQuestions = 50

// Unanswered marks a question with no selected option.
const Unanswered = -1

// Difficulty levels a quiz can be generated at.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties lists the levels in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// Question is one multiple-choice question. CorrectAnswer indexes
// into Options.
type Question struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Attempt is one completed quiz, stored in history.
type Attempt struct {
	ID           string     `json:"id"`
	Topic        string     `json:"topic"`
	Difficulty   Difficulty `json:"difficulty"`
	NumQuestions int        `json:"numQuestions"`
	Score        float64    `json:"score"`
	Questions    []Question `json:"questions"`
	Answers      []int      `json:"answers"`
	Timestamp    time.Time  `json:"timestamp"`
}

// RecordID implements history.Record.
func (a Attempt) RecordID() string { return a.ID }

// NewAttempt builds a completed attempt with a time-based id.
func NewAttempt(topic string, difficulty Difficulty, questions []Question, answers []int) Attempt {
	now := time.Now()
	return Attempt{
		ID:           fmt.Sprintf("%d", now.UnixMilli()),
		Topic:        topic,
		Difficulty:   difficulty,
		NumQuestions: len(questions),
		Score:        Score(questions, answers),
		Questions:    questions,
		Answers:      answers,
		Timestamp:    now,
	}
}

// Score returns the percentage of correct answers. An empty quiz
// scores zero.
func Score(questions []Question, answers []int) float64 {
	if len(questions) == 0 {
		return 0
	}
	correct := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectAnswer {
			correct++
		}
	}
	return float64(correct) / float64(len(questions)) * 100
}

// Mark classifies one answered question.
type Mark int

const (
	Correct Mark = iota
	Incorrect
	MarkUnanswered
)

// Marks classifies every question of an attempt.
func Marks(questions []Question, answers []int) []Mark {
	marks := make([]Mark, len(questions))
	for i, q := range questions {
		switch {
		case i >= len(answers) || answers[i] == Unanswered:
			marks[i] = MarkUnanswered
		case answers[i] == q.CorrectAnswer:
			marks[i] = Correct
		default:
			marks[i] = Incorrect
		}
	}
	return marks
}

// ClampCount limits a requested question count to MaxQuestions.
func ClampCount(n int) int {
	if n > MaxQuestions {
		return MaxQuestions
	}
	return n
}
