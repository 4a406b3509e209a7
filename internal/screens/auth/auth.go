// Package auth implements the sign-in screen. There is no backend:
// submitting the form fabricates a local identity.
package auth

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edumind/edumind/internal/profile"
	"github.com/edumind/edumind/internal/router"
	"github.com/edumind/edumind/internal/screen"
	"github.com/edumind/edumind/internal/ui/components"
	"github.com/edumind/edumind/internal/ui/layout"
	"github.com/edumind/edumind/internal/ui/theme"
)

type mode int

const (
	modeLogin mode = iota
	modeRegister
)

// AuthScreen implements screen.Screen for login and registration.
type AuthScreen struct {
	session *profile.Session
	next    func() screen.Screen

	mode     mode
	name     components.TextInput
	email    components.TextInput
	password components.TextInput
	focus    int
	errMsg   string
}

var _ screen.Screen = (*AuthScreen)(nil)
var _ screen.KeyHintProvider = (*AuthScreen)(nil)

// New creates an AuthScreen. next builds the screen shown after a
// successful sign-in.
func New(session *profile.Session, next func() screen.Screen) *AuthScreen {
	s := &AuthScreen{
		session:  session,
		next:     next,
		name:     components.NewTextInput("Your name", false, 40),
		email:    components.NewTextInput("Email address", false, 60),
		password: components.NewTextInput("Password", false, 60),
	}
	s.password.Model.EchoMode = textinput.EchoPassword
	s.email.Model.Focus()
	s.name.Model.Blur()
	s.password.Model.Blur()
	return s
}

func (s *AuthScreen) Init() tea.Cmd {
	return nil
}

func (s *AuthScreen) Title() string {
	if s.mode == modeRegister {
		return "Create Account"
	}
	return "Sign In"
}

func (s *AuthScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+R", Description: "Switch login/register"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *AuthScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "ctrl+r":
		s.toggleMode()
		return s, nil
	case "tab", "down":
		s.moveFocus(1)
		return s, nil
	case "shift+tab", "up":
		s.moveFocus(-1)
		return s, nil
	case "enter":
		return s.submit()
	}

	field := s.activeField()
	updated, cmd := field.Update(msg)
	*field = updated
	return s, cmd
}

// fields returns the focusable inputs for the current mode.
func (s *AuthScreen) fields() []*components.TextInput {
	if s.mode == modeRegister {
		return []*components.TextInput{&s.name, &s.email, &s.password}
	}
	return []*components.TextInput{&s.email, &s.password}
}

func (s *AuthScreen) activeField() *components.TextInput {
	fields := s.fields()
	if s.focus < 0 || s.focus >= len(fields) {
		return fields[0]
	}
	return fields[s.focus]
}

func (s *AuthScreen) moveFocus(delta int) {
	fields := s.fields()
	s.focus = (s.focus + delta + len(fields)) % len(fields)
	for i, f := range fields {
		if i == s.focus {
			f.Model.Focus()
		} else {
			f.Model.Blur()
		}
	}
}

func (s *AuthScreen) toggleMode() {
	if s.mode == modeLogin {
		s.mode = modeRegister
	} else {
		s.mode = modeLogin
	}
	s.focus = 0
	s.errMsg = ""
	s.moveFocus(0)
}

func (s *AuthScreen) submit() (screen.Screen, tea.Cmd) {
	email := s.email.Value()
	password := s.password.Value()
	name := ""
	if s.mode == modeRegister {
		name = s.name.Value()
	}

	missing := email == "" || password == ""
	if s.mode == modeRegister && name == "" {
		missing = true
	}
	if missing {
		s.errMsg = "Please fill in all fields"
		return s, nil
	}

	if _, err := s.session.Login(name, email); err != nil {
		s.errMsg = err.Error()
		return s, nil
	}

	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: s.next()}
	}
}

func (s *AuthScreen) View(width, height int) string {
	title := theme.Title.Render("EduMind")
	subtitle := theme.Subtitle.Render("Your AI study companion")

	var rows []string
	rows = append(rows, title, subtitle, "")

	if s.mode == modeRegister {
		rows = append(rows, s.fieldRow("Name", &s.name, 0))
	}
	emailIdx := 0
	if s.mode == modeRegister {
		emailIdx = 1
	}
	rows = append(rows,
		s.fieldRow("Email", &s.email, emailIdx),
		s.fieldRow("Password", &s.password, emailIdx+1),
	)

	submitLabel := "Sign In"
	if s.mode == modeRegister {
		submitLabel = "Create Account"
	}
	rows = append(rows, "", components.NewButton(submitLabel, true, nil).View())

	if s.errMsg != "" {
		rows = append(rows, "", theme.Incorrect.Render(s.errMsg))
	}

	switchHint := "Ctrl+R to create an account"
	if s.mode == modeRegister {
		switchHint = "Ctrl+R to sign in instead"
	}
	rows = append(rows, "", theme.Hint.Render(switchHint))

	card := theme.Card.Width(min(width-4, 60)).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *AuthScreen) fieldRow(label string, field *components.TextInput, idx int) string {
	style := theme.Body
	if idx == s.focus {
		style = theme.Selected
	}
	return style.Render(label) + "\n" + field.View()
}
