package store

// Logical keys. Each holds one whole JSON document.
const (
	KeyCurrentUser    = "user.current"
	KeyCurrentChat    = "chat.current"
	KeyChatHistory    = "chat.history"
	KeyQuizHistory    = "quiz.history"
	KeySummaryHistory = "summary.history"
	KeyPlanHistory    = "plan.history"
	KeyLLMLog         = "llm.log"
)
