package domain

import (
	"context"
	"time"
)

// Filters is the server-defined refinement state of a chat session
type Filters map[string]any

// Clone returns a deep copy of the filters
func (f Filters) Clone() Filters {
	if f == nil {
		return nil
	}
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = cloneValue(vv)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = cloneValue(vv)
		}
		return s
	default:
		return v
	}
}

// StartSessionRequest is the body of POST /chat/start-session
type StartSessionRequest struct {
	Category string `json:"category"`
}

// StartSessionResponse is returned when a chat session is opened
type StartSessionResponse struct {
	SessionID string    `json:"session_id"`
	Message   string    `json:"message"`
	Step      string    `json:"step,omitempty"`
	Products  []Product `json:"products"`
	Filters   Filters   `json:"filters,omitempty"`
}

// ChatMessageRequest is the body of POST /chat/message
type ChatMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatMessageResponse is one bot turn
type ChatMessageResponse struct {
	SessionID     string    `json:"session_id,omitempty"`
	Message       string    `json:"message"`
	Step          string    `json:"step,omitempty"`
	Products      []Product `json:"products"`
	Filters       Filters   `json:"filters,omitempty"`
	RequiresLogin bool      `json:"requires_login"`
}

// Conversation is the stored history of a session
type Conversation struct {
	SessionID string           `json:"session_id"`
	Messages  []HistoryMessage `json:"messages"`
	Filters   Filters          `json:"filters,omitempty"`
}

// SessionSummary describes a prior search session of the signed-in user
type SessionSummary struct {
	SessionID string    `json:"session_id"`
	Category  string    `json:"category,omitempty"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LastActivity returns the most recent timestamp of the summary
func (s SessionSummary) LastActivity() time.Time {
	if s.UpdatedAt.After(s.CreatedAt) {
		return s.UpdatedAt
	}
	return s.CreatedAt
}

// SessionStore defines the read/write/clear contract of client-side storage
type SessionStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Storage keys
const (
	KeyToken             = "token"
	KeyUser              = "user"
	KeyRecentChatSession = "recentChatSession"
	KeyChatSessionID     = "chatSessionId"
	KeyLastChatTime      = "lastChatTime"
)
