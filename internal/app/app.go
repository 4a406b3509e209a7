// Package app wires the screens together and runs the Bubble Tea
// program.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edumind/edumind/internal/chat"
	"github.com/edumind/edumind/internal/gateway"
	"github.com/edumind/edumind/internal/profile"
	"github.com/edumind/edumind/internal/router"
	"github.com/edumind/edumind/internal/screen"
	"github.com/edumind/edumind/internal/screens/auth"
	"github.com/edumind/edumind/internal/screens/dashboard"
	"github.com/edumind/edumind/internal/store"
	"github.com/edumind/edumind/internal/ui/layout"
)

// Deps carries the shared services every screen builds on.
type Deps struct {
	KV          *store.Store
	Session     *profile.Session
	Gateway     *gateway.Service
	ChatManager *chat.Manager
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   Deps
	router *router.Router
	width  int
	height int
}

// newAppModel creates the root model. A persisted user lands on the
// dashboard; otherwise the sign-in screen comes first.
func newAppModel(deps Deps) AppModel {
	// The auth and dashboard screens replace each other on login and
	// logout, so each is built through a factory closure.
	var newAuth, newDashboard func() screen.Screen
	newDashboard = func() screen.Screen {
		return dashboard.New(deps.KV, deps.Session, deps.Gateway, deps.ChatManager, newAuth)
	}
	newAuth = func() screen.Screen {
		return auth.New(deps.Session, newDashboard)
	}

	initial := newAuth()
	if deps.Session.User() != nil {
		initial = newDashboard()
	}

	return AppModel{
		deps:   deps,
		router: router.New(initial),
	}
}

func (m AppModel) Init() tea.Cmd {
	active := m.router.Active()
	if active == nil {
		return nil
	}
	return active.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	userName := ""
	if u := m.deps.Session.User(); u != nil {
		userName = u.Name
	}
	header := layout.RenderHeader(title, userName, m.width)

	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// footerHints takes the active screen's own hints when it provides
// them, with navigation fallbacks appended.
func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints = hp.KeyHints()
	}
	if len(hints) == 0 {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	if m.router.Depth() > 1 {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the Bubble Tea program.
func Run(deps Deps) error {
	p := tea.NewProgram(newAppModel(deps))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
