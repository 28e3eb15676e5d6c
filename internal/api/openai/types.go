// Package openai provides the request/response types and HTTP client for
// OpenAI-compatible chat completion endpoints, including Gemini's
// OpenAI compatibility layer.
package openai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrNoChoices is returned when a completion carries no candidates.
	ErrNoChoices = errors.New("completion response has no choices")
	// ErrEmptyContent is returned when the first candidate's content is null,
	// as Gemini sends when generation stops before any text (finish_reason "length").
	ErrEmptyContent = errors.New("completion choice has null content")
)

// ChatCompletionRequest represents an OpenAI chat completion request.
type ChatCompletionRequest struct {
	Model       string                  `json:"model"`
	Messages    []ChatCompletionMessage `json:"messages"`
	MaxTokens   int                     `json:"max_tokens,omitempty"`
	Temperature *float32                `json:"temperature,omitempty"`
	TopP        *float32                `json:"top_p,omitempty"`
	N           int                     `json:"n,omitempty"`
	Stop        []string                `json:"stop,omitempty"`
	User        string                  `json:"user,omitempty"`
	Seed        *int                    `json:"seed,omitempty"`
}

// ChatCompletionMessage represents a message in the chat completion request/response.
type ChatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
	Name    string `json:"name,omitempty"`
}

// ChatCompletionResponse represents an OpenAI chat completion response.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage,omitempty"`
}

// FirstContent returns the text of the first choice. A null content is an
// error; an empty string is not.
func (r *ChatCompletionResponse) FirstContent() (string, error) {
	if r == nil || len(r.Choices) == 0 {
		return "", ErrNoChoices
	}
	choice := r.Choices[0]
	if choice.Message.Content == nil {
		return "", fmt.Errorf("%w (finish_reason %q)", ErrEmptyContent, choice.FinishReason)
	}
	return *choice.Message.Content, nil
}

// Choice represents a completion choice.
type Choice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

// ResponseMessage is the assistant message of a choice. Content is nil when
// the upstream sent null.
type ResponseMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

// NewResponseMessage builds an assistant message with the given text.
func NewResponseMessage(content string) ResponseMessage {
	return ResponseMessage{Role: RoleAssistant, Content: &content}
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ErrorResponse represents an OpenAI API error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// APIError contains error details returned by the upstream API.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
	Code    Code   `json:"code,omitempty"`
	// Status is Gemini's canonical status name (e.g. INVALID_ARGUMENT).
	Status string `json:"status,omitempty"`

	// StatusCode is the HTTP status of the response that carried the error.
	StatusCode int `json:"-"`
}

func (e *APIError) Error() string {
	kind := e.Type
	if kind == "" {
		kind = e.Status
	}
	if e.Code != "" {
		kind = fmt.Sprintf("%s (%s)", kind, e.Code)
	}
	if kind == "" {
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("status %d: %s: %s", e.StatusCode, kind, e.Message)
}

// Code is an error code that OpenAI sends as a string and Gemini as a number.
type Code string

// UnmarshalJSON accepts both string and numeric codes.
func (c *Code) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Code(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("error code is neither string nor number: %s", string(data))
	}
	if i, err := n.Int64(); err == nil {
		*c = Code(strconv.FormatInt(i, 10))
		return nil
	}
	*c = Code(n.String())
	return nil
}

// ParseErrorResponse attempts to parse an error response from JSON.
// Gemini wraps the error object in a single-element array.
func ParseErrorResponse(data []byte) (*APIError, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var wrapped []ErrorResponse
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, err
		}
		if len(wrapped) == 0 {
			return nil, nil
		}
		return wrapped[0].Error, nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(trimmed, &errResp); err != nil {
		return nil, err
	}
	return errResp.Error, nil
}
