package chat

import (
	"strings"
	"testing"

	"github.com/edumind/edumind/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func exchange(m *Manager, t *testing.T, userText string) {
	t.Helper()
	err := m.AppendExchange(
		NewMessage(RoleUser, userText),
		NewMessage(RoleModel, "answer"),
	)
	if err != nil {
		t.Fatalf("append exchange: %v", err)
	}
}

func TestAppendExchangePersistsCurrent(t *testing.T) {
	kv := openTestStore(t)
	m := NewManager(kv)
	exchange(m, t, "what is a derivative?")

	m2 := NewManager(kv)
	if got := len(m2.Messages()); got != 2 {
		t.Errorf("reloaded messages = %d, want 2", got)
	}
}

func TestAutosaveCadence(t *testing.T) {
	kv := openTestStore(t)
	m := NewManager(kv)

	// Message counts after each exchange: 2, 4, 6, 8, 10, 12.
	// Checkpoints fire at 4, 8, 12.
	wantSaved := []bool{false, true, true, true, true, true}
	for i, want := range wantSaved {
		exchange(m, t, "question")
		saved := len(m.Sessions()) > 0
		if saved != want {
			t.Errorf("after exchange %d (%d messages): saved = %v, want %v",
				i+1, len(m.Messages()), saved, want)
		}
	}

	// All checkpoints update the one session, never duplicate it.
	if got := len(m.Sessions()); got != 1 {
		t.Errorf("sessions = %d, want 1", got)
	}
	if got := len(m.Sessions()[0].Messages); got != 12 {
		t.Errorf("checkpointed messages = %d, want 12", got)
	}
}

func TestNoAutosaveBeforeTwoFullExchanges(t *testing.T) {
	kv := openTestStore(t)
	m := NewManager(kv)

	exchange(m, t, "first")
	if len(m.Sessions()) != 0 {
		t.Errorf("sessions = %d, want 0 after one exchange", len(m.Sessions()))
	}
}

func TestCheckpointNoopWhenEmpty(t *testing.T) {
	kv := openTestStore(t)
	m := NewManager(kv)

	if err := m.Checkpoint(); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	if len(m.Sessions()) != 0 {
		t.Errorf("sessions = %d, want 0", len(m.Sessions()))
	}
}

func TestCheckpointTitleDerivation(t *testing.T) {
	kv := openTestStore(t)
	m := NewManager(kv)

	long := strings.Repeat("x", 40)
	exchange(m, t, long)
	if err := m.Checkpoint(); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}

	got := m.Sessions()[0].Title
	want := strings.Repeat("x", 30) + "..."
	if got != want {
		t.Errorf("title = %q, want %q", got, want)
	}
}

func TestCheckpointTitleShortMessage(t *testing.T) {
	kv := openTestStore(t)
	m := NewManager(kv)

	exchange(m, t, "short")
	if err := m.Checkpoint(); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	if got := m.Sessions()[0].Title; got != "short" {
		t.Errorf("title = %q, want 'short'", got)
	}
}

func TestSessionIDStableAcrossCheckpoints(t *testing.T) {
	kv := openTestStore(t)
	m := NewManager(kv)

	exchange(m, t, "first")
	if err := m.Checkpoint(); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	firstID := m.Sessions()[0].ID

	exchange(m, t, "second")
	if err := m.Checkpoint(); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}

	if got := len(m.Sessions()); got != 1 {
		t.Fatalf("sessions = %d, want 1", got)
	}
	if m.Sessions()[0].ID != firstID {
		t.Errorf("session id changed across checkpoints")
	}
	if m.Sessions()[0].ID != m.Messages()[0].ID {
		t.Errorf("session id should be the first message id")
	}
}

func TestStartNewCheckpointsAndClears(t *testing.T) {
	kv := openTestStore(t)
	m := NewManager(kv)

	exchange(m, t, "first conversation")
	if err := m.StartNew(); err != nil {
		t.Fatalf("start new: %v", err)
	}

	if len(m.Messages()) != 0 {
		t.Errorf("messages = %d, want 0 after new chat", len(m.Messages()))
	}
	if len(m.Sessions()) != 1 {
		t.Errorf("sessions = %d, want 1 (old chat checkpointed)", len(m.Sessions()))
	}

	// The current slot is gone from the store too.
	if _, err := kv.Get(store.KeyCurrentChat); err == nil {
		t.Error("expected current chat key deleted")
	}
}

func TestRestoreCheckpointsCurrentFirst(t *testing.T) {
	kv := openTestStore(t)
	m := NewManager(kv)

	exchange(m, t, "old conversation")
	if err := m.StartNew(); err != nil {
		t.Fatalf("start new: %v", err)
	}
	oldID := m.Sessions()[0].ID

	exchange(m, t, "fresh conversation")
	if err := m.Restore(oldID); err != nil {
		t.Fatalf("restore: %v", err)
	}

	// Both conversations survive: the restored one is current and the
	// fresh one was checkpointed on the way out.
	if got := len(m.Sessions()); got != 2 {
		t.Errorf("sessions = %d, want 2", got)
	}
	if got := m.Messages()[0].Text; got != "old conversation" {
		t.Errorf("current first message = %q, want 'old conversation'", got)
	}
}

func TestRestoreUnknownID(t *testing.T) {
	kv := openTestStore(t)
	m := NewManager(kv)

	if err := m.Restore("nope"); err == nil {
		t.Fatal("expected error for unknown session id")
	}
}

func TestClearHistory(t *testing.T) {
	kv := openTestStore(t)
	m := NewManager(kv)

	exchange(m, t, "a")
	if err := m.Checkpoint(); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	if err := m.ClearHistory(); err != nil {
		t.Fatalf("clear history: %v", err)
	}
	if len(m.Sessions()) != 0 {
		t.Errorf("sessions = %d, want 0", len(m.Sessions()))
	}

	// Cleared state survives reload.
	m2 := NewManager(kv)
	if len(m2.Sessions()) != 0 {
		t.Errorf("sessions after reload = %d, want 0", len(m2.Sessions()))
	}
}
