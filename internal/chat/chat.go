// Package chat manages the tutoring conversation: the current mutable
// session plus the saved-session history.
package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/edumind/edumind/internal/history"
	"github.com/edumind/edumind/internal/store"
)

// CheckpointInterval is the message-count period for automatic
// checkpoints: the session is saved to history whenever it holds at
// least two messages and the count is a multiple of this.
const CheckpointInterval = 4

// titleLimit caps how much of the first message becomes the title.
const titleLimit = 30

// Role identifies a message author.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one chat turn.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage builds a message with a fresh id.
func NewMessage(role Role, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// Session is one saved conversation. Its id is the id of its first
// message, so repeated checkpoints of the same conversation update one
// history entry.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordID implements history.Record.
func (s Session) RecordID() string { return s.ID }

// Manager owns the current conversation and the session history.
type Manager struct {
	kv       *store.Store
	history  *history.Store[Session]
	messages []Message
}

// NewManager loads the current conversation and the session history.
func NewManager(kv *store.Store) *Manager {
	m := &Manager{
		kv:      kv,
		history: history.New[Session](kv, store.KeyChatHistory),
	}
	var msgs []Message
	if err := kv.GetJSON(store.KeyCurrentChat, &msgs); err == nil {
		m.messages = msgs
	}
	return m
}

// Messages returns the current conversation, oldest first.
func (m *Manager) Messages() []Message {
	return m.messages
}

// Sessions returns the saved sessions, newest first.
func (m *Manager) Sessions() []Session {
	return m.history.Items()
}

// AppendExchange appends a user/model turn pair, persists the current
// conversation, and checkpoints it to history on the autosave cadence.
func (m *Manager) AppendExchange(user, model Message) error {
	m.messages = append(m.messages, user, model)
	if err := m.kv.PutJSON(store.KeyCurrentChat, m.messages); err != nil {
		return fmt.Errorf("persist current chat: %w", err)
	}
	if n := len(m.messages); n >= 2 && n%CheckpointInterval == 0 {
		return m.Checkpoint()
	}
	return nil
}

// Checkpoint saves the current conversation to history, updating the
// existing entry in place when it was checkpointed before. Conversations
// shorter than one full exchange are not worth saving.
func (m *Manager) Checkpoint() error {
	if len(m.messages) < 2 {
		return nil
	}
	return m.history.Upsert(m.snapshot())
}

// Restore checkpoints the current conversation, then makes the stored
// session with the given id current.
func (m *Manager) Restore(id string) error {
	sess, ok := m.history.Get(id)
	if !ok {
		return fmt.Errorf("session %s not found", id)
	}
	if err := m.Checkpoint(); err != nil {
		return err
	}
	m.messages = append([]Message(nil), sess.Messages...)
	if err := m.kv.PutJSON(store.KeyCurrentChat, m.messages); err != nil {
		return fmt.Errorf("persist current chat: %w", err)
	}
	return nil
}

// StartNew checkpoints the current conversation and clears the slot.
func (m *Manager) StartNew() error {
	if err := m.Checkpoint(); err != nil {
		return err
	}
	m.messages = nil
	return m.kv.Delete(store.KeyCurrentChat)
}

// ClearHistory removes every saved session.
func (m *Manager) ClearHistory() error {
	return m.history.ClearAll()
}

func (m *Manager) snapshot() Session {
	title := m.messages[0].Text
	if len([]rune(title)) > titleLimit {
		title = string([]rune(title)[:titleLimit]) + "..."
	}
	return Session{
		ID:        m.messages[0].ID,
		Title:     title,
		Messages:  append([]Message(nil), m.messages...),
		Timestamp: time.Now(),
	}
}
