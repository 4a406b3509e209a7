// Package dashboard implements the home screen: performance stats plus
// the navigation menu into the four study modules.
package dashboard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edumind/edumind/internal/chat"
	"github.com/edumind/edumind/internal/gateway"
	"github.com/edumind/edumind/internal/profile"
	"github.com/edumind/edumind/internal/router"
	"github.com/edumind/edumind/internal/screen"
	"github.com/edumind/edumind/internal/screens/chatscreen"
	"github.com/edumind/edumind/internal/screens/planner"
	"github.com/edumind/edumind/internal/screens/quizscreen"
	"github.com/edumind/edumind/internal/screens/summarizer"
	"github.com/edumind/edumind/internal/store"
	"github.com/edumind/edumind/internal/ui/components"
	"github.com/edumind/edumind/internal/ui/theme"
)

// DashboardScreen is the signed-in home screen.
type DashboardScreen struct {
	session *profile.Session
	menu    components.Menu
}

var _ screen.Screen = (*DashboardScreen)(nil)

// New creates a DashboardScreen. signOut builds the screen shown after
// logout.
func New(kv *store.Store, session *profile.Session, gw *gateway.Service, chatMgr *chat.Manager, signOut func() screen.Screen) *DashboardScreen {
	items := []components.MenuItem{
		{Label: "AI Doubt Solving", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: chatscreen.New(chatMgr, gw)}
			}
		}},
		{Label: "Smart Quiz", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: quizscreen.New(kv, session, gw)}
			}
		}},
		{Label: "Note Summarizer", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: summarizer.New(kv, gw)}
			}
		}},
		{Label: "Study Planner", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: planner.New(kv, gw)}
			}
		}},
		{Label: "Log Out", Action: func() tea.Cmd {
			return func() tea.Msg {
				_ = session.Logout()
				return router.ReplaceScreenMsg{Screen: signOut()}
			}
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &DashboardScreen{
		session: session,
		menu:    components.NewMenu(items),
	}
}

func (d *DashboardScreen) Init() tea.Cmd {
	return nil
}

func (d *DashboardScreen) Title() string {
	return "Dashboard"
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	d.menu, cmd = d.menu.Update(msg)
	return d, cmd
}

func (d *DashboardScreen) View(width, height int) string {
	u := d.session.User()

	greeting := "Welcome back"
	if u != nil && u.Name != "" {
		greeting = fmt.Sprintf("Welcome back, %s", u.Name)
	}

	var progress profile.Performance
	if u != nil {
		progress = u.Progress
	}

	stats := renderStats(progress)
	weak := renderWeakTopics(progress.WeakTopics)

	bar := components.NewProgressBar("Average", progress.AverageScore/100, true, 50)

	sections := []string{
		theme.Title.Render(greeting),
		"",
		stats,
		"",
		bar.View(),
	}
	if weak != "" {
		sections = append(sections, "", weak)
	}
	sections = append(sections, "", d.menu.View())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	card := theme.Card.Width(min(width-4, 70)).Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func renderStats(p profile.Performance) string {
	avg := lipgloss.JoinVertical(lipgloss.Center,
		theme.Selected.Render(fmt.Sprintf("%.1f%%", p.AverageScore)),
		theme.Hint.Render("Average Score"),
	)
	total := lipgloss.JoinVertical(lipgloss.Center,
		theme.Selected.Render(fmt.Sprintf("%d", p.TotalQuizzes)),
		theme.Hint.Render("Quizzes Taken"),
	)
	weak := lipgloss.JoinVertical(lipgloss.Center,
		theme.Selected.Render(fmt.Sprintf("%d", len(p.WeakTopics))),
		theme.Hint.Render("Weak Topics"),
	)

	cell := lipgloss.NewStyle().Padding(0, 3)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cell.Render(avg), cell.Render(total), cell.Render(weak))
}

func renderWeakTopics(topics []string) string {
	if len(topics) == 0 {
		return ""
	}
	chip := lipgloss.NewStyle().
		Foreground(theme.Error).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	chips := make([]string, 0, len(topics))
	for _, t := range topics {
		chips = append(chips, chip.Render(t))
	}
	return theme.Hint.Render("Needs attention:") + "\n" +
		strings.Join(chips, " ")
}
