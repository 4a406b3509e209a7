package auth

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/edumind/edumind/internal/profile"
	"github.com/edumind/edumind/internal/router"
	"github.com/edumind/edumind/internal/screen"
	"github.com/edumind/edumind/internal/store"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// stubScreen is a minimal screen used as the post-login target.
type stubScreen struct{}

func (stubScreen) Init() tea.Cmd                           { return nil }
func (stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return stubScreen{}, nil }
func (stubScreen) View(int, int) string                    { return "stub" }
func (stubScreen) Title() string                           { return "Stub" }

func testScreen(t *testing.T) (*AuthScreen, *profile.Session) {
	t.Helper()
	kv, err := store.Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { kv.Close() })

	session := profile.NewSession(kv)
	return New(session, func() screen.Screen { return stubScreen{} }), session
}

func typeString(t *testing.T, s *AuthScreen, text string) {
	t.Helper()
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

func TestLoginSignsInAndReplacesScreen(t *testing.T) {
	s, session := testScreen(t)

	typeString(t, s, "ada@example.com")
	s.Update(specialKey(tea.KeyTab))
	typeString(t, s, "secret")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a navigation command after login")
	}
	msg := cmd()
	if _, ok := msg.(router.ReplaceScreenMsg); !ok {
		t.Fatalf("command produced %T, want ReplaceScreenMsg", msg)
	}

	u := session.User()
	if u == nil {
		t.Fatal("expected a signed-in user")
	}
	if u.Email != "ada@example.com" {
		t.Errorf("email = %q", u.Email)
	}
	// Name defaults to the local part of the email on plain login.
	if u.Name != "ada" {
		t.Errorf("name = %q, want ada", u.Name)
	}
}

func TestMissingFieldsRejected(t *testing.T) {
	s, session := testScreen(t)

	typeString(t, s, "ada@example.com")
	// No password.
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command with missing password")
	}
	if s.errMsg != "Please fill in all fields" {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if session.User() != nil {
		t.Error("no user should be signed in")
	}
}

func TestRegisterRequiresName(t *testing.T) {
	s, session := testScreen(t)
	s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	if s.mode != modeRegister {
		t.Fatalf("mode = %d, want register", s.mode)
	}

	// Focus starts on the name field; skip it and fill the rest.
	s.Update(specialKey(tea.KeyTab))
	typeString(t, s, "ada@example.com")
	s.Update(specialKey(tea.KeyTab))
	typeString(t, s, "secret")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command with missing name")
	}
	if session.User() != nil {
		t.Error("no user should be signed in")
	}
}

func TestRegisterUsesGivenName(t *testing.T) {
	s, session := testScreen(t)
	s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})

	typeString(t, s, "Ada Lovelace")
	s.Update(specialKey(tea.KeyTab))
	typeString(t, s, "ada@example.com")
	s.Update(specialKey(tea.KeyTab))
	typeString(t, s, "secret")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a navigation command after registration")
	}

	u := session.User()
	if u == nil {
		t.Fatal("expected a signed-in user")
	}
	if u.Name != "Ada Lovelace" {
		t.Errorf("name = %q", u.Name)
	}
}

func TestViewRenders(t *testing.T) {
	s, _ := testScreen(t)
	if s.View(100, 30) == "" {
		t.Error("empty view")
	}
	s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	if s.View(100, 30) == "" {
		t.Error("empty register view")
	}
}
