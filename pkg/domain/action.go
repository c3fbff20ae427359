package domain

import (
	"time"
)

// ActionRequest represents a side-effect that the engine requests the host to perform.
type ActionRequest struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Standard Action Types
const (
	// ActionRenderContent requests the host to display content to the user.
	// Payload: string (the content)
	ActionRenderContent = "RENDER_CONTENT"

	// ActionRequestInput requests the host to collect input from the user.
	// Payload: InputRequest
	ActionRequestInput = "REQUEST_INPUT"

	// ActionSystemMessage represents a meta-message from the system (warning, status).
	// Payload: string (the message)
	ActionSystemMessage = "SYSTEM_MESSAGE"
)

// InputType defines the kind of input requested.
type InputType string

const (
	InputText    InputType = "text"
	InputConfirm InputType = "confirm"
	InputChoice  InputType = "choice"
)

// InputRequest describes the constraints and type of input needed.
type InputRequest struct {
	Prompt  string        `json:"prompt"`
	Type    InputType     `json:"type"`
	Options []string      `json:"options,omitempty"`
	Default string        `json:"default,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty"`
}

// Render is a shorthand for a RENDER_CONTENT action.
func Render(content string) ActionRequest {
	return ActionRequest{Type: ActionRenderContent, Payload: content}
}

// SystemMessage is a shorthand for a SYSTEM_MESSAGE action.
func SystemMessage(msg string) ActionRequest {
	return ActionRequest{Type: ActionSystemMessage, Payload: msg}
}
