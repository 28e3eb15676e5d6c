package tokens

import (
	"testing"

	"github.com/tiktoken-go/tokenizer"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/api/openai"
)

func TestCounter_CountMessages(t *testing.T) {
	c := NewCounter()

	short := []openai.ChatCompletionMessage{{Role: openai.RoleUser, Content: "hi"}}
	long := []openai.ChatCompletionMessage{
		{Role: openai.RoleSystem, Content: "Approve or deny the following client request. Respond only with 'approved' or 'denied'."},
		{Role: openai.RoleUser, Content: "Client request: Can we upgrade our team's quota to 10M requests/month?"},
	}

	shortCount, err := c.CountMessages("gemini-2.5-flash", short)
	if err != nil {
		t.Fatalf("CountMessages() error = %v", err)
	}
	longCount, err := c.CountMessages("gemini-2.5-flash", long)
	if err != nil {
		t.Fatalf("CountMessages() error = %v", err)
	}

	if shortCount <= perMessageOverhead {
		t.Errorf("short count = %d, want > %d", shortCount, perMessageOverhead)
	}
	if longCount <= shortCount {
		t.Errorf("long count %d should exceed short count %d", longCount, shortCount)
	}
}

func TestCounter_CachesCodec(t *testing.T) {
	c := NewCounter()
	msgs := []openai.ChatCompletionMessage{{Role: openai.RoleUser, Content: "hello"}}

	if _, err := c.CountMessages("gemini-2.5-flash", msgs); err != nil {
		t.Fatalf("CountMessages() error = %v", err)
	}
	if _, err := c.CountMessages("gemini-2.0-flash", msgs); err != nil {
		t.Fatalf("CountMessages() error = %v", err)
	}

	if len(c.codecCache) != 1 {
		t.Errorf("expected 1 cached codec, got %d", len(c.codecCache))
	}
}

func TestModelToEncoding(t *testing.T) {
	tests := []struct {
		model string
		want  tokenizer.Encoding
	}{
		{"gemini-2.5-flash", tokenizer.O200kBase},
		{"gpt-4o-mini", tokenizer.O200kBase},
		{"gpt-4", tokenizer.Cl100kBase},
		{"gpt-3.5-turbo", tokenizer.Cl100kBase},
	}

	for _, tt := range tests {
		if got := modelToEncoding(tt.model); got != tt.want {
			t.Errorf("modelToEncoding(%q) = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestEstimate(t *testing.T) {
	msgs := []openai.ChatCompletionMessage{{Content: "12345678"}}
	if got := estimate(msgs); got != 2+perMessageOverhead {
		t.Errorf("estimate() = %d, want %d", got, 2+perMessageOverhead)
	}
}
