// Package chatscreen implements the AI doubt-solving conversation view.
package chatscreen

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edumind/edumind/internal/chat"
	"github.com/edumind/edumind/internal/gateway"
	"github.com/edumind/edumind/internal/llm"
	"github.com/edumind/edumind/internal/screen"
	"github.com/edumind/edumind/internal/ui/components"
	"github.com/edumind/edumind/internal/ui/layout"
	"github.com/edumind/edumind/internal/ui/theme"
)

type mode int

const (
	modeActive mode = iota
	modeAttach
	modeHistory
)

// attachmentFallbackPrompt is sent when a file is attached with no text.
const attachmentFallbackPrompt = "Analyze this document/image for me."

// ChatScreen implements screen.Screen for the tutoring conversation.
type ChatScreen struct {
	manager *chat.Manager
	gw      *gateway.Service

	mode         mode
	input        components.TextInput
	attachInput  components.TextInput
	attachment   *llm.Attachment
	attachName   string
	busy         bool
	notice       string
	historyIdx   int
	confirmClear bool
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates a ChatScreen over the shared chat manager.
func New(manager *chat.Manager, gw *gateway.Service) *ChatScreen {
	return &ChatScreen{
		manager:     manager,
		gw:          gw,
		input:       components.NewTextInput("Ask anything...", false, 500),
		attachInput: components.NewTextInput("Path to image or PDF", false, 200),
	}
}

func (c *ChatScreen) Init() tea.Cmd {
	return c.input.Init()
}

func (c *ChatScreen) Title() string {
	if c.mode == modeHistory {
		return "Chat History"
	}
	return "AI Doubt Solving"
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	switch c.mode {
	case modeAttach:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Attach"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeHistory:
		if c.confirmClear {
			return []layout.KeyHint{
				{Key: "Y", Description: "Delete all"},
				{Key: "N", Description: "Keep"},
			}
		}
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Select"},
			{Key: "Enter", Description: "Resume"},
			{Key: "Ctrl+X", Description: "Clear all"},
			{Key: "Tab", Description: "Back to chat"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Send"},
			{Key: "Ctrl+A", Description: "Attach file"},
			{Key: "Ctrl+N", Description: "New chat"},
			{Key: "Tab", Description: "History"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case answerReadyMsg:
		return c.handleAnswer(msg)
	case attachmentLoadedMsg:
		return c.handleAttachmentLoaded(msg)
	case tea.KeyMsg:
		return c.handleKey(msg)
	}
	return c, nil
}

func (c *ChatScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch c.mode {
	case modeAttach:
		return c.handleAttachKey(msg)
	case modeHistory:
		return c.handleHistoryKey(msg)
	}

	switch msg.String() {
	case "enter":
		return c.send()
	case "ctrl+a":
		c.mode = modeAttach
		c.notice = ""
		return c, c.attachInput.Init()
	case "ctrl+n":
		if c.busy {
			return c, nil
		}
		if err := c.manager.StartNew(); err != nil {
			c.notice = err.Error()
			return c, nil
		}
		c.notice = ""
		c.attachment = nil
		c.attachName = ""
		return c, nil
	case "tab":
		if c.busy {
			return c, nil
		}
		if err := c.manager.Checkpoint(); err != nil {
			c.notice = err.Error()
			return c, nil
		}
		c.mode = modeHistory
		c.historyIdx = 0
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *ChatScreen) handleAttachKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		c.mode = modeActive
		return c, nil
	case "enter":
		path := strings.TrimSpace(c.attachInput.Value())
		if path == "" {
			return c, nil
		}
		c.mode = modeActive
		return c, loadAttachment(path)
	}

	var cmd tea.Cmd
	c.attachInput, cmd = c.attachInput.Update(msg)
	return c, cmd
}

func (c *ChatScreen) handleHistoryKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if c.confirmClear {
		switch msg.String() {
		case "y", "Y":
			c.confirmClear = false
			if err := c.manager.ClearHistory(); err != nil {
				c.notice = err.Error()
			}
			c.historyIdx = 0
		case "n", "N", "esc":
			c.confirmClear = false
		}
		return c, nil
	}

	sessions := c.manager.Sessions()
	switch msg.String() {
	case "up", "k":
		if c.historyIdx > 0 {
			c.historyIdx--
		}
	case "down", "j":
		if c.historyIdx < len(sessions)-1 {
			c.historyIdx++
		}
	case "enter":
		if c.historyIdx >= 0 && c.historyIdx < len(sessions) {
			if err := c.manager.Restore(sessions[c.historyIdx].ID); err != nil {
				c.notice = err.Error()
				return c, nil
			}
			c.mode = modeActive
		}
	case "ctrl+x":
		if len(sessions) > 0 {
			c.confirmClear = true
		}
	case "tab":
		c.mode = modeActive
	}
	return c, nil
}

// send fires the gateway call. The typed prompt and any attachment are
// kept in place until the reply arrives, so a failure loses nothing.
func (c *ChatScreen) send() (screen.Screen, tea.Cmd) {
	if c.busy {
		return c, nil
	}
	prompt := strings.TrimSpace(c.input.Value())
	if prompt == "" && c.attachment == nil {
		return c, nil
	}
	if prompt == "" {
		prompt = attachmentFallbackPrompt
	}

	c.busy = true
	c.notice = ""

	displayText := prompt
	if c.attachName != "" {
		displayText = fmt.Sprintf("%s [Attachment: %s]", prompt, c.attachName)
	}

	history := c.manager.Messages()
	att := c.attachment
	gw := c.gw

	return c, func() tea.Msg {
		answer, err := gw.SolveDoubt(context.Background(), history, prompt, att)
		if err != nil {
			return answerReadyMsg{Err: err}
		}
		return answerReadyMsg{
			User:  chat.NewMessage(chat.RoleUser, displayText),
			Model: chat.NewMessage(chat.RoleModel, answer),
		}
	}
}

func (c *ChatScreen) handleAnswer(msg answerReadyMsg) (screen.Screen, tea.Cmd) {
	c.busy = false
	if msg.Err != nil {
		// Input and attachment stay intact for another attempt.
		c.notice = msg.Err.Error()
		return c, nil
	}

	if err := c.manager.AppendExchange(msg.User, msg.Model); err != nil {
		c.notice = err.Error()
		return c, nil
	}

	c.input = components.NewTextInput("Ask anything...", false, 500)
	c.attachment = nil
	c.attachName = ""
	return c, c.input.Init()
}

func (c *ChatScreen) handleAttachmentLoaded(msg attachmentLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		c.notice = msg.Err.Error()
		return c, nil
	}
	c.attachment = &llm.Attachment{MIME: msg.MIME, Data: msg.Data}
	c.attachName = msg.Name
	c.attachInput = components.NewTextInput("Path to image or PDF", false, 200)
	c.notice = ""
	return c, nil
}

// loadAttachment reads and MIME-sniffs a file off the event loop.
func loadAttachment(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return attachmentLoadedMsg{Err: fmt.Errorf("read attachment: %w", err)}
		}
		mime := sniffMIME(path, data)
		return attachmentLoadedMsg{
			Name: filepath.Base(path),
			MIME: mime,
			Data: data,
		}
	}
}

// sniffMIME prefers the extension for types DetectContentType cannot
// distinguish, then falls back to content sniffing.
func sniffMIME(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return http.DetectContentType(data)
}

func (c *ChatScreen) View(width, height int) string {
	switch c.mode {
	case modeAttach:
		return c.viewAttach(width, height)
	case modeHistory:
		return c.viewHistory(width, height)
	}
	return c.viewActive(width, height)
}

func (c *ChatScreen) viewActive(width, height int) string {
	var b strings.Builder

	msgs := c.manager.Messages()
	transcriptHeight := height - 6
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}

	if len(msgs) == 0 {
		b.WriteString(theme.Hint.Render("Ask your first question to get started."))
		b.WriteString("\n")
	} else {
		b.WriteString(renderTranscript(msgs, width, transcriptHeight))
	}

	b.WriteString("\n")
	if c.busy {
		b.WriteString(theme.Hint.Render("Thinking..."))
	} else {
		b.WriteString(c.input.View())
	}

	if c.attachName != "" {
		b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("Attached: %s", c.attachName)))
	}
	if c.notice != "" {
		b.WriteString("\n" + theme.Incorrect.Render(c.notice))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// renderTranscript renders the newest messages that fit.
func renderTranscript(msgs []chat.Message, width, maxLines int) string {
	userStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	modelStyle := lipgloss.NewStyle().Foreground(theme.Text)
	wrap := lipgloss.NewStyle().Width(width - 8)

	var lines []string
	for _, m := range msgs {
		label := "You"
		style := userStyle
		if m.Role == chat.RoleModel {
			label = "Tutor"
			style = modelStyle
		}
		block := style.Render(label+":") + "\n" + wrap.Render(m.Text)
		lines = append(lines, strings.Split(block, "\n")...)
		lines = append(lines, "")
	}

	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.Join(lines, "\n")
}

func (c *ChatScreen) viewAttach(width, height int) string {
	content := theme.Body.Render("Attach a file") + "\n\n" +
		c.attachInput.View() + "\n\n" +
		theme.Hint.Render("Images and PDFs are sent inline with your next question.")
	card := theme.Card.Width(min(width-4, 60)).Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (c *ChatScreen) viewHistory(width, height int) string {
	sessions := c.manager.Sessions()

	if c.confirmClear {
		content := theme.Body.Render("Delete all saved chats?") + "\n\n" +
			theme.Hint.Render("y to confirm, n to cancel")
		card := theme.Card.Render(content)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
	}

	if len(sessions) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No saved chats yet."))
	}

	var b strings.Builder
	for i, s := range sessions {
		line := fmt.Sprintf("%s  %s", s.Timestamp.Format("Jan 02 15:04"), s.Title)
		if i == c.historyIdx {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if c.notice != "" {
		b.WriteString("\n" + theme.Incorrect.Render(c.notice))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
