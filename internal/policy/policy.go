// Package policy asks a language model to approve or deny client requests.
package policy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/api/openai"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/tokens"
)

// SystemInstruction is sent with every review.
const SystemInstruction = "Approve or deny the following client request. Respond only with 'approved' or 'denied'. " +
	"Strictly deny any request that involves access to production systems, code repositories, or sensitive customer data."

// approvedMarker is matched as a substring, so "not approved" also approves.
const approvedMarker = "approved"

// ChatClient is the completion API the reviewer depends on.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req *openai.ChatCompletionRequest, opts *openai.RequestOptions) (*openai.ChatCompletionResponse, error)
}

// ReviewerConfig holds the completion parameters for a review.
type ReviewerConfig struct {
	Model       string
	Temperature float32
	MaxTokens   int
	// Timeout bounds a single completion call; zero disables it.
	Timeout time.Duration
}

// Verdict is the typed outcome of one review: a decision, or the error that
// prevented one.
type Verdict struct {
	// Decision is the trimmed, lower-cased model reply.
	Decision string
	Approved bool

	PromptTokens int
	Latency      time.Duration

	Err error
}

// Failed reports whether the completion call failed.
func (v Verdict) Failed() bool {
	return v.Err != nil
}

// Notes renders the evaluation notes recorded on the inquiry.
func (v Verdict) Notes() string {
	switch {
	case v.Failed():
		return fmt.Sprintf("Evaluation failed due to API error: %v", v.Err)
	case v.Approved:
		return "Approved: Request is within policy limits."
	default:
		return fmt.Sprintf("Denied: LLM decision was '%s'. Request violates policy.", v.Decision)
	}
}

// ParseDecision normalizes a model reply and reports whether it approves.
func ParseDecision(reply string) (decision string, approved bool) {
	decision = strings.ToLower(strings.TrimSpace(reply))
	return decision, strings.Contains(decision, approvedMarker)
}

// Reviewer issues policy completions. It never retries; a failed call
// yields a failed Verdict and the caller decides how to fail closed.
type Reviewer struct {
	client  ChatClient
	cfg     ReviewerConfig
	counter *tokens.Counter
}

// NewReviewer creates a reviewer for the given client.
func NewReviewer(client ChatClient, cfg ReviewerConfig) *Reviewer {
	return &Reviewer{
		client:  client,
		cfg:     cfg,
		counter: tokens.NewCounter(),
	}
}

// Model returns the model identifier used for reviews.
func (r *Reviewer) Model() string {
	return r.cfg.Model
}

// BuildRequest assembles the completion request for the request details.
func (r *Reviewer) BuildRequest(details string) *openai.ChatCompletionRequest {
	temperature := r.cfg.Temperature
	return &openai.ChatCompletionRequest{
		Model: r.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.RoleSystem, Content: SystemInstruction},
			{Role: openai.RoleUser, Content: "Client request: " + details},
		},
		Temperature: &temperature,
		MaxTokens:   r.cfg.MaxTokens,
	}
}

// Review sends one completion request and parses the first candidate.
func (r *Reviewer) Review(ctx context.Context, details string) Verdict {
	req := r.BuildRequest(details)

	// Estimation errors fall back to a character count; the value is informational.
	promptTokens, _ := r.counter.CountMessages(req.Model, req.Messages)

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := r.client.CreateChatCompletion(ctx, req, nil)
	latency := time.Since(start)
	if err != nil {
		return Verdict{PromptTokens: promptTokens, Latency: latency, Err: err}
	}

	reply, err := resp.FirstContent()
	if err != nil {
		return Verdict{PromptTokens: promptTokens, Latency: latency, Err: err}
	}

	decision, approved := ParseDecision(reply)
	return Verdict{
		Decision:     decision,
		Approved:     approved,
		PromptTokens: promptTokens,
		Latency:      latency,
	}
}
