// Package profile holds the signed-in user and the performance profile
// updated after every completed quiz.
package profile

// Weak-topic thresholds, in percent.
const (
	WeakScoreThreshold   = 60.0
	StrongScoreThreshold = 80.0
)

// Performance aggregates quiz outcomes for one user.
type Performance struct {
	TotalQuizzes int      `json:"totalQuizzes"`
	AverageScore float64  `json:"averageScore"`
	WeakTopics   []string `json:"weakTopics"`
}

// User is the signed-in identity.
type User struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Progress Performance `json:"progress"`
}

// ApplyQuizResult folds one quiz outcome into p and returns the updated
// profile. The running mean weights the previous average by the old quiz
// count. Scores below WeakScoreThreshold add the topic to the weak list
// (once); scores at or above StrongScoreThreshold remove it; scores in
// between leave the list untouched.
func ApplyQuizResult(p Performance, score float64, topic string) Performance {
	next := Performance{
		TotalQuizzes: p.TotalQuizzes + 1,
	}
	next.AverageScore = (p.AverageScore*float64(p.TotalQuizzes) + score) / float64(next.TotalQuizzes)

	switch {
	case score < WeakScoreThreshold:
		next.WeakTopics = appendUnique(p.WeakTopics, topic)
	case score >= StrongScoreThreshold:
		next.WeakTopics = remove(p.WeakTopics, topic)
	default:
		next.WeakTopics = append([]string(nil), p.WeakTopics...)
	}
	return next
}

func appendUnique(topics []string, topic string) []string {
	out := append([]string(nil), topics...)
	for _, t := range out {
		if t == topic {
			return out
		}
	}
	return append(out, topic)
}

func remove(topics []string, topic string) []string {
	var out []string
	for _, t := range topics {
		if t != topic {
			out = append(out, t)
		}
	}
	return out
}
