package model

import (
	"encoding/json"
	"fmt"
)

// MessageRole represents the role of the message sender
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"

	// legacyRoleModel is what the browser client wrote for assistant turns
	legacyRoleModel = "model"
)

// IsValid reports whether r is a known role
func (r MessageRole) IsValid() bool {
	return r == MessageRoleUser || r == MessageRoleAssistant
}

// UnmarshalJSON accepts "user", "assistant" and the legacy "model" tag
func (r *MessageRole) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case string(MessageRoleUser):
		*r = MessageRoleUser
	case string(MessageRoleAssistant), legacyRoleModel:
		*r = MessageRoleAssistant
	default:
		return fmt.Errorf("%w: message role %q", ErrInvalidEnum, raw)
	}
	return nil
}

// ChatMessage represents a single turn of a student's assistant transcript
type ChatMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// UserMessage builds a user turn
func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: MessageRoleUser, Content: content}
}

// AssistantMessage builds an assistant turn
func AssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: MessageRoleAssistant, Content: content}
}
