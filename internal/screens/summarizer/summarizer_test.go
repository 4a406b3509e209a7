package summarizer

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/edumind/edumind/internal/gateway"
	"github.com/edumind/edumind/internal/llm"
	"github.com/edumind/edumind/internal/store"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
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

func testScreen(t *testing.T, responses ...llm.MockResponse) (*SummarizerScreen, *store.Store, *llm.MockProvider) {
	t.Helper()
	kv := openTestStore(t)
	mock := llm.NewMockProvider(responses...)
	gw := gateway.New(mock, gateway.DefaultConfig())
	s := New(kv, gw)
	s.Init()
	return s, kv, mock
}

func typeString(t *testing.T, s *SummarizerScreen, text string) {
	t.Helper()
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

// runSummarize drives ctrl+s: the returned command runs the gateway call,
// and the resulting message is fed back.
func runSummarize(t *testing.T, s *SummarizerScreen) {
	t.Helper()
	_, cmd := s.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected a summarize command from ctrl+s")
	}
	s.Update(cmd())
}

func TestEmptyNotesRejected(t *testing.T) {
	s, _, mock := testScreen(t)
	_, cmd := s.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	if cmd != nil {
		t.Error("expected no command for empty notes")
	}
	if s.errMsg == "" {
		t.Error("expected a validation message")
	}
	if mock.CallCount() != 0 {
		t.Errorf("provider called %d times, want 0", mock.CallCount())
	}
}

func TestSummarizeStoresRecord(t *testing.T) {
	s, _, _ := testScreen(t, llm.MockResponse{
		Content: json.RawMessage("# Core Concept\nCells make energy."),
	})
	typeString(t, s, "The mitochondria is the powerhouse of the cell.")
	runSummarize(t, s)

	if !strings.Contains(s.summary, "Core Concept") {
		t.Errorf("summary = %q", s.summary)
	}

	records := s.history.Items()
	if len(records) != 1 {
		t.Fatalf("history has %d records, want 1", len(records))
	}
	if records[0].OriginalText != "The mitochondria is the powerhouse of the cell." {
		t.Errorf("original = %q", records[0].OriginalText)
	}
	if records[0].Summary != s.summary {
		t.Errorf("stored summary = %q", records[0].Summary)
	}
}

func TestFailureKeepsNotes(t *testing.T) {
	s, _, _ := testScreen(t, llm.MockResponse{Err: fmt.Errorf("unavailable")})
	typeString(t, s, "some notes")
	runSummarize(t, s)

	if got := strings.TrimSpace(s.notes.Value()); got != "some notes" {
		t.Errorf("notes after failure = %q, want preserved", got)
	}
	if s.errMsg == "" {
		t.Error("expected the failure to be surfaced")
	}
	if s.history.Len() != 0 {
		t.Errorf("history has %d records, want 0 after failure", s.history.Len())
	}
}

func TestHistoryRestoreFillsBothPanes(t *testing.T) {
	s, kv, _ := testScreen(t, llm.MockResponse{
		Content: json.RawMessage("the summary"),
	})
	typeString(t, s, "original notes")
	runSummarize(t, s)

	// A fresh screen over the same store sees the record.
	s2 := New(kv, s.gw)
	s2.Update(specialTab())
	if s2.mode != modeHistory {
		t.Fatalf("mode = %d, want history", s2.mode)
	}
	s2.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if s2.mode != modeActive {
		t.Errorf("mode = %d, want active after restore", s2.mode)
	}
	if got := s2.notes.Value(); got != "original notes" {
		t.Errorf("restored notes = %q", got)
	}
	if s2.summary != "the summary" {
		t.Errorf("restored summary = %q", s2.summary)
	}
}

func specialTab() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyTab}
}

func TestPreview(t *testing.T) {
	if got := preview("one\ntwo   three", 50); got != "one two three" {
		t.Errorf("preview = %q", got)
	}
	long := strings.Repeat("x", 60)
	if got := preview(long, 50); got != strings.Repeat("x", 50)+"..." {
		t.Errorf("preview length = %d", len(got))
	}
}
