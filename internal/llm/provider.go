package llm

import (
	"context"
	"encoding/json"
)

// Provider is the abstraction every model backend implements. Callers send
// a Request and get back JSON, validated against the request schema when
// one is given.
type Provider interface {
	// Generate runs a single completion. With a Schema set, the provider
	// uses its native structured-output mode and Response.Content is the
	// validated JSON object.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Request describes one completion.
type Request struct {
	// System is the coaching persona and output rules.
	System string

	// Messages is the conversation. Coaching requests send a single user
	// message, optionally carrying attachments.
	Messages []Message

	// Schema is the JSON Schema the response must match. Nil means the
	// raw text is returned as a JSON string.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature in the range 0.0 - 1.0. Zero when unset.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role        Role
	Content     string
	Attachments []Attachment
}

// Attachment is binary content sent alongside a message, such as a
// curriculum PDF, a classroom recording or photos of exit tickets.
type Attachment struct {
	// MIMEType of the decoded data, e.g. "application/pdf".
	MIMEType string

	// Data is the standard base64 encoding of the content.
	Data string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema to the provider and keys the compiled
	// validator cache. Kebab-case, e.g. "lesson-critique".
	Name string

	// Description tells the model what the object represents.
	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Response holds the model output.
type Response struct {
	// Content is the validated JSON object when a Schema was requested,
	// otherwise the raw text encoded as a JSON string.
	Content json.RawMessage

	// Usage reports token consumption.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// HasAttachments reports whether any message in req carries attachments.
func (req Request) HasAttachments() bool {
	for _, m := range req.Messages {
		if len(m.Attachments) > 0 {
			return true
		}
	}
	return false
}
