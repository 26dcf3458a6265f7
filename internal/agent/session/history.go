// Package session keeps the in-memory conversation history of one chat run.
package session

import (
	"github.com/cloudwego/eino/schema"
	"github.com/jinzhu/copier"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ToSchema converts m into an eino message.
func (m Message) ToSchema() *schema.Message {
	if m.Role == RoleAssistant {
		return schema.AssistantMessage(m.Content, nil)
	}
	return schema.UserMessage(m.Content)
}

// History is the ordered list of completed turns. Turns are only ever added
// as a user/assistant pair, so the roles always alternate starting with user.
// It is not safe for concurrent use.
type History struct {
	messages []Message
	// limit caps the number of pairs kept; 0 means unbounded.
	limit int
}

// NewHistory returns an empty history. A positive limit keeps only the most
// recent limit turns.
func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{limit: limit}
}

// AppendTurn records one completed turn.
func (h *History) AppendTurn(input, output string) {
	h.messages = append(h.messages,
		Message{Role: RoleUser, Content: input},
		Message{Role: RoleAssistant, Content: output},
	)
	if h.limit > 0 {
		if excess := len(h.messages) - 2*h.limit; excess > 0 {
			h.messages = append([]Message(nil), h.messages[excess:]...)
		}
	}
}

// Snapshot returns a copy that later appends do not affect.
func (h *History) Snapshot() []Message {
	out := make([]Message, 0, len(h.messages))
	if len(h.messages) == 0 {
		return out
	}
	if err := copier.CopyWithOption(&out, &h.messages, copier.Option{DeepCopy: true}); err != nil {
		return append(out[:0], h.messages...)
	}
	return out
}

// Len is the number of messages, two per turn.
func (h *History) Len() int {
	return len(h.messages)
}

// Turns is the number of completed turns.
func (h *History) Turns() int {
	return len(h.messages) / 2
}

// Clear drops every turn.
func (h *History) Clear() {
	h.messages = nil
}
