package apiclient

import (
	"context"
	"encoding/json"

	"github.com/Rrens/storefront-assistant/internal/domain"
)

// StartSession opens a chat session for a search query
func (c *Client) StartSession(ctx context.Context, category string) (*domain.StartSessionResponse, error) {
	var out domain.StartSessionResponse
	if err := c.post(ctx, "/chat/start-session", domain.StartSessionRequest{Category: category}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendMessage sends one user turn and returns the bot reply
func (c *Client) SendMessage(ctx context.Context, sessionID, message string) (*domain.ChatMessageResponse, error) {
	req := domain.ChatMessageRequest{SessionID: sessionID, Message: message}

	var out domain.ChatMessageResponse
	if err := c.post(ctx, "/chat/message", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetConversation returns the stored history of a session
func (c *Client) GetConversation(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	var out domain.Conversation
	if err := c.get(ctx, "/conversations/"+segment(sessionID), nil, &out); err != nil {
		return nil, err
	}
	if out.SessionID == "" {
		out.SessionID = sessionID
	}
	return &out, nil
}

// ListSearchSessions returns the signed-in user's prior sessions
func (c *Client) ListSearchSessions(ctx context.Context) ([]domain.SessionSummary, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/search-sessions", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.SessionSummary](raw, "sessions")
}

// LinkSession attaches an anonymous session to the signed-in user
func (c *Client) LinkSession(ctx context.Context, sessionID string) error {
	body := struct {
		SessionID string `json:"session_id"`
	}{SessionID: sessionID}
	return c.post(ctx, "/chat/link-session", body, nil)
}

// GetSessionProducts returns the products discovered in a session
func (c *Client) GetSessionProducts(ctx context.Context, sessionID string) ([]domain.Product, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/sessions/"+segment(sessionID)+"/products", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Product](raw, "products")
}
