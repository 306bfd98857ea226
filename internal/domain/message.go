package domain

import "github.com/google/uuid"

// Sender identifies who authored a chat message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// MessageStatus tracks the delivery state of a chat message
type MessageStatus string

const (
	StatusPending   MessageStatus = "pending"
	StatusCommitted MessageStatus = "committed"
	StatusFailed    MessageStatus = "failed"
)

// Message represents one entry in the chat view
type Message struct {
	ID      uuid.UUID     `json:"id"`
	Sender  Sender        `json:"sender"`
	Text    string        `json:"text"`
	Step    string        `json:"step,omitempty"`
	Status  MessageStatus `json:"status"`
	ReplyTo *uuid.UUID    `json:"reply_to,omitempty"` // user message this bot entry answers
}

// NewUserMessage creates a pending user message
func NewUserMessage(text string) Message {
	return Message{
		ID:     uuid.New(),
		Sender: SenderUser,
		Text:   text,
		Status: StatusPending,
	}
}

// NewBotMessage creates a committed bot message
func NewBotMessage(text, step string) Message {
	return Message{
		ID:     uuid.New(),
		Sender: SenderBot,
		Text:   text,
		Step:   step,
		Status: StatusCommitted,
	}
}

// NewErrorMessage creates a failed bot message carrying an error string
func NewErrorMessage(text string, replyTo *uuid.UUID) Message {
	return Message{
		ID:      uuid.New(),
		Sender:  SenderBot,
		Text:    text,
		Status:  StatusFailed,
		ReplyTo: replyTo,
	}
}

// IsError reports whether the message is a bot-styled error entry
func (m Message) IsError() bool {
	return m.Sender == SenderBot && m.Status == StatusFailed
}

// HistoryMessage is a message as stored by the conversation endpoint
type HistoryMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
	Step   string `json:"step,omitempty"`
}

// ToMessage converts a stored message to a committed view message
func (h HistoryMessage) ToMessage() Message {
	sender := SenderBot
	if h.Sender == string(SenderUser) {
		sender = SenderUser
	}
	return Message{
		ID:     uuid.New(),
		Sender: sender,
		Text:   h.Text,
		Step:   h.Step,
		Status: StatusCommitted,
	}
}
