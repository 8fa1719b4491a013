package session

import (
	"strings"
	"time"

	"github.com/interpretive-systems/futuresight/internal/analysis"
	"go.uber.org/zap"
)

const chatApology = "Sorry, I couldn't process that request. Please try again."

// Role is the author of a chat entry.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
)

func (r Role) String() string {
	if r == RoleAssistant {
		return "assistant"
	}
	return "user"
}

// EntryStatus tracks a chat entry through its request.
type EntryStatus int

const (
	// StatusPending is a user entry whose request is in flight.
	StatusPending EntryStatus = iota
	// StatusAnswered is a user entry that got a reply.
	StatusAnswered
	// StatusFailed is a user entry whose request failed.
	StatusFailed
	// StatusSettled marks assistant entries.
	StatusSettled
)

func (s EntryStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAnswered:
		return "answered"
	case StatusFailed:
		return "failed"
	default:
		return "settled"
	}
}

// ChatEntry is one message of the conversation.
type ChatEntry struct {
	ID      string
	Role    Role
	Content string
	Status  EntryStatus
	// ReplyTo is the user entry an assistant entry answers.
	ReplyTo string
	SentAt  time.Time
}

// ChatTicket carries one chat request from BeginChat to CompleteChat.
type ChatTicket struct {
	EntryID string
	Request analysis.ChatRequest
}

// History returns a copy of the conversation in order.
func (s *Session) History() []ChatEntry {
	return append([]ChatEntry(nil), s.history...)
}

// BeginChat appends the user's message as a pending entry and returns the
// request to send. The request carries a snapshot of the dataset columns and
// sample rows, or no context when nothing is uploaded. Blank messages are
// ignored.
func (s *Session) BeginChat(message string) (ChatTicket, bool) {
	message = strings.TrimSpace(message)
	if message == "" {
		return ChatTicket{}, false
	}
	entry := ChatEntry{
		ID:      s.opts.NewID(),
		Role:    RoleUser,
		Content: message,
		Status:  StatusPending,
		SentAt:  s.opts.Now(),
	}
	s.history = append(s.history, entry)
	s.pendingChats++
	s.ui.SendingChat = true

	s.logger.Debug("Chat message sent", zap.String("entry", entry.ID), zap.Bool("dataset", s.dataset != nil))
	return ChatTicket{
		EntryID: entry.ID,
		Request: analysis.ChatRequest{Message: message, DatasetInfo: s.dataset.Context()},
	}, true
}

// CompleteChat settles the user entry of t and appends the assistant's reply,
// or an apology when err is set. Chat completions are never discarded.
func (s *Session) CompleteChat(t ChatTicket, reply string, err error) {
	status := StatusAnswered
	content := reply
	if err != nil {
		status = StatusFailed
		content = chatApology
		s.logger.Warn("Chat request failed", zap.String("entry", t.EntryID), zap.Error(err))
	}
	for i := range s.history {
		if s.history[i].ID == t.EntryID && s.history[i].Role == RoleUser {
			s.history[i].Status = status
			break
		}
	}
	s.history = append(s.history, ChatEntry{
		ID:      s.opts.NewID(),
		Role:    RoleAssistant,
		Content: content,
		Status:  StatusSettled,
		ReplyTo: t.EntryID,
		SentAt:  s.opts.Now(),
	})

	if s.pendingChats > 0 {
		s.pendingChats--
	}
	s.ui.SendingChat = s.pendingChats > 0
}
