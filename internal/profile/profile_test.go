package profile

import (
	"math"
	"testing"

	"github.com/edumind/edumind/internal/store"
)

func TestApplyQuizResultFirstQuiz(t *testing.T) {
	p := ApplyQuizResult(Performance{}, 70, "algebra")

	if p.TotalQuizzes != 1 {
		t.Errorf("totalQuizzes = %d, want 1", p.TotalQuizzes)
	}
	if p.AverageScore != 70 {
		t.Errorf("averageScore = %v, want 70", p.AverageScore)
	}
	if len(p.WeakTopics) != 0 {
		t.Errorf("weakTopics = %v, want empty", p.WeakTopics)
	}
}

func TestApplyQuizResultRunningMean(t *testing.T) {
	// Fold a score sequence and compare against the arithmetic mean.
	scores := []float64{100, 40, 75, 62.5, 0, 88}

	var p Performance
	var sum float64
	for _, s := range scores {
		p = ApplyQuizResult(p, s, "topic")
		sum += s
	}

	want := sum / float64(len(scores))
	if math.Abs(p.AverageScore-want) > 1e-9 {
		t.Errorf("averageScore = %v, want %v", p.AverageScore, want)
	}
	if p.TotalQuizzes != len(scores) {
		t.Errorf("totalQuizzes = %d, want %d", p.TotalQuizzes, len(scores))
	}
}

func TestApplyQuizResultWeakTopicRules(t *testing.T) {
	tests := []struct {
		name  string
		start []string
		score float64
		topic string
		want  []string
	}{
		{"low score adds", nil, 59.9, "algebra", []string{"algebra"}},
		{"low score no duplicate", []string{"algebra"}, 30, "algebra", []string{"algebra"}},
		{"high score removes", []string{"algebra", "geometry"}, 80, "algebra", []string{"geometry"}},
		{"high score absent topic", []string{"geometry"}, 95, "algebra", []string{"geometry"}},
		{"middle band no change low edge", []string{"geometry"}, 60, "algebra", []string{"geometry"}},
		{"middle band no change high edge", []string{"geometry"}, 79.9, "geometry", []string{"geometry"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ApplyQuizResult(Performance{WeakTopics: tt.start}, tt.score, tt.topic)
			if len(p.WeakTopics) != len(tt.want) {
				t.Fatalf("weakTopics = %v, want %v", p.WeakTopics, tt.want)
			}
			for i := range tt.want {
				if p.WeakTopics[i] != tt.want[i] {
					t.Errorf("weakTopics = %v, want %v", p.WeakTopics, tt.want)
					break
				}
			}
		})
	}
}

func TestApplyQuizResultWeakTopicIdempotent(t *testing.T) {
	var p Performance
	for i := 0; i < 4; i++ {
		p = ApplyQuizResult(p, 20, "fractions")
	}
	if len(p.WeakTopics) != 1 || p.WeakTopics[0] != "fractions" {
		t.Errorf("weakTopics = %v, want exactly [fractions]", p.WeakTopics)
	}
}

func TestApplyQuizResultPure(t *testing.T) {
	in := Performance{TotalQuizzes: 2, AverageScore: 50, WeakTopics: []string{"algebra"}}
	_ = ApplyQuizResult(in, 90, "algebra")

	if in.TotalQuizzes != 2 || in.AverageScore != 50 {
		t.Errorf("input mutated: %+v", in)
	}
	if len(in.WeakTopics) != 1 || in.WeakTopics[0] != "algebra" {
		t.Errorf("input weakTopics mutated: %v", in.WeakTopics)
	}
}

// Scenario: two quizzes on the same topic, first failed then mastered.
func TestWeakTopicLifecycle(t *testing.T) {
	var p Performance

	p = ApplyQuizResult(p, 40, "algebra")
	if len(p.WeakTopics) != 1 || p.WeakTopics[0] != "algebra" {
		t.Fatalf("after failing: weakTopics = %v, want [algebra]", p.WeakTopics)
	}

	p = ApplyQuizResult(p, 90, "algebra")
	if p.TotalQuizzes != 2 {
		t.Errorf("totalQuizzes = %d, want 2", p.TotalQuizzes)
	}
	if p.AverageScore != 65 {
		t.Errorf("averageScore = %v, want 65", p.AverageScore)
	}
	if len(p.WeakTopics) != 0 {
		t.Errorf("weakTopics = %v, want empty after mastering", p.WeakTopics)
	}
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionLoginDefaultsNameFromEmail(t *testing.T) {
	kv := openTestStore(t)
	sess := NewSession(kv)

	u, err := sess.Login("", "ada@example.com")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Name != "ada" {
		t.Errorf("name = %q, want 'ada'", u.Name)
	}
	if u.ID == "" {
		t.Error("expected non-empty id")
	}
}

func TestSessionLoadRoundTrip(t *testing.T) {
	kv := openTestStore(t)
	sess := NewSession(kv)

	if _, err := sess.Login("Ada", "ada@example.com"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := sess.RecordQuizResult(50, "algebra"); err != nil {
		t.Fatalf("record: %v", err)
	}

	// Fresh session over the same store sees the updated profile.
	sess2 := NewSession(kv)
	sess2.Load()
	u := sess2.User()
	if u == nil {
		t.Fatal("expected user after load")
	}
	if u.Progress.TotalQuizzes != 1 {
		t.Errorf("totalQuizzes = %d, want 1", u.Progress.TotalQuizzes)
	}
	if len(u.Progress.WeakTopics) != 1 || u.Progress.WeakTopics[0] != "algebra" {
		t.Errorf("weakTopics = %v, want [algebra]", u.Progress.WeakTopics)
	}
}

func TestSessionLogoutKeepsHistories(t *testing.T) {
	kv := openTestStore(t)
	sess := NewSession(kv)

	if _, err := sess.Login("Ada", "ada@example.com"); err != nil {
		t.Fatalf("login: %v", err)
	}
	// A history collection written alongside the user.
	if err := kv.Put(store.KeyQuizHistory, "[]"); err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := sess.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sess.User() != nil {
		t.Error("expected nil user after logout")
	}
	if _, err := kv.Get(store.KeyCurrentUser); err == nil {
		t.Error("expected user key deleted")
	}
	if _, err := kv.Get(store.KeyQuizHistory); err != nil {
		t.Errorf("quiz history should survive logout: %v", err)
	}
}

func TestRecordQuizResultSignedOutNoop(t *testing.T) {
	kv := openTestStore(t)
	sess := NewSession(kv)

	if err := sess.RecordQuizResult(90, "algebra"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := kv.Get(store.KeyCurrentUser); err == nil {
		t.Error("signed-out record should not write a user")
	}
}
