// Package gateway exposes the four AI capabilities the app offers:
// doubt solving, quiz generation, note summarization, and study plan
// generation. Each call is single-shot: the caller gets the whole
// response or an error, never a partial result.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edumind/edumind/internal/chat"
	"github.com/edumind/edumind/internal/llm"
	"github.com/edumind/edumind/internal/quiz"
	"github.com/edumind/edumind/internal/studyplan"
)

// Config bounds the generation calls.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns generation limits suitable for interactive use.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   8192,
		Temperature: 0.4,
	}
}

// Service routes capability calls through an llm.Provider.
type Service struct {
	provider llm.Provider
	config   Config
}

// New creates a Service over the given provider.
func New(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, config: cfg}
}

// SolveDoubt answers a tutoring question. The conversation history is
// sent in full; att, when set, is an inline image or PDF accompanying
// the prompt.
func (s *Service) SolveDoubt(ctx context.Context, history []chat.Message, prompt string, att *llm.Attachment) (string, error) {
	ctx = llm.WithPurpose(ctx, "doubt-solving")

	msgs := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == chat.RoleModel {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: m.Text})
	}
	msgs = append(msgs, llm.Message{
		Role:       llm.RoleUser,
		Content:    prompt,
		Attachment: att,
	})

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      doubtSystemPrompt,
		Messages:    msgs,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("doubt solving failed: %w", err)
	}
	return string(resp.Content), nil
}

// quizOutput is the raw LLM envelope before unwrapping.
type quizOutput struct {
	Questions []quiz.Question `json:"questions"`
}

// GenerateQuiz produces count multiple-choice questions on topic.
func (s *Service) GenerateQuiz(ctx context.Context, topic string, difficulty quiz.Difficulty, count int) ([]quiz.Question, error) {
	ctx = llm.WithPurpose(ctx, "quiz-gen")

	prompt := fmt.Sprintf(quizPromptTemplate, count, topic, difficulty, count)

	resp, err := s.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		Schema:      QuizSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("quiz generation failed: %w", err)
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse quiz response: %w", err)
	}
	if len(raw.Questions) == 0 {
		return nil, fmt.Errorf("quiz response contained no questions")
	}
	for i, q := range raw.Questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, fmt.Errorf("question %d: correct answer index %d out of range", i+1, q.CorrectAnswer)
		}
	}
	return raw.Questions, nil
}

// Summarize condenses study notes into a quick-read summary.
func (s *Service) Summarize(ctx context.Context, notes string) (string, error) {
	ctx = llm.WithPurpose(ctx, "summarize")

	prompt := fmt.Sprintf(summarizePromptTemplate, notes)

	resp, err := s.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("summarization failed: %w", err)
	}
	return string(resp.Content), nil
}

// planOutput is the raw LLM envelope before unwrapping.
type planOutput struct {
	Days []studyplan.DailyPlan `json:"days"`
}

// GeneratePlan produces a day-by-day study plan for an exam.
func (s *Service) GeneratePlan(ctx context.Context, examName string, days, hours int) ([]studyplan.DailyPlan, error) {
	ctx = llm.WithPurpose(ctx, "plan-gen")

	prompt := fmt.Sprintf(planPromptTemplate, examName, days, hours)

	resp, err := s.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		Schema:      PlanSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	var raw planOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse plan response: %w", err)
	}
	if len(raw.Days) == 0 {
		return nil, fmt.Errorf("plan response contained no days")
	}
	return raw.Days, nil
}
