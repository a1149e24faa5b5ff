package session

import "time"

// Message represents a single consult chat turn.
type Message struct {
	Role       string    `json:"role"` // "user" or "assistant"
	Content    string    `json:"content"`
	TokenCount int       `json:"token_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// SessionData is the serializable state of one browser session.
// ClientID is empty until the identity resolver reaches RESOLVED; once set
// it is never changed for the lifetime of the session.
type SessionData struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id,omitempty"`
	ChatHistory []Message `json:"chat_history"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int64     `json:"version"` // Monotonically increasing for optimistic locking
}

// clone returns a deep copy so stores never share memory with callers.
func (d *SessionData) clone() *SessionData {
	c := *d
	if d.ChatHistory != nil {
		c.ChatHistory = make([]Message, len(d.ChatHistory))
		copy(c.ChatHistory, d.ChatHistory)
	}
	return &c
}
