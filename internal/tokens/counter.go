// Package tokens estimates prompt sizes for chat completion requests.
package tokens

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tiktoken-go/tokenizer"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/api/openai"
)

// perMessageOverhead approximates the role/separator tokens chat formats add per message.
const perMessageOverhead = 4

// Counter counts prompt tokens with tiktoken encodings. Non-OpenAI models
// (Gemini included) have no public tokenizer, so they are measured with
// o200k_base as an estimate.
type Counter struct {
	// codecCache caches tokenizer codecs by encoding name
	codecCache map[tokenizer.Encoding]tokenizer.Codec
	cacheMu    sync.RWMutex
}

// NewCounter creates a new token counter.
func NewCounter() *Counter {
	return &Counter{
		codecCache: make(map[tokenizer.Encoding]tokenizer.Codec),
	}
}

// CountMessages returns the estimated prompt tokens for a message list.
func (c *Counter) CountMessages(model string, messages []openai.ChatCompletionMessage) (int, error) {
	codec, err := c.getCodec(modelToEncoding(model))
	if err != nil {
		return estimate(messages), err
	}

	total := 0
	for _, msg := range messages {
		ids, _, err := codec.Encode(msg.Content)
		if err != nil {
			return estimate(messages), fmt.Errorf("encode %s message: %w", msg.Role, err)
		}
		total += len(ids) + perMessageOverhead
	}

	return total, nil
}

func (c *Counter) getCodec(encoding tokenizer.Encoding) (tokenizer.Codec, error) {
	c.cacheMu.RLock()
	if cached, ok := c.codecCache[encoding]; ok {
		c.cacheMu.RUnlock()
		return cached, nil
	}
	c.cacheMu.RUnlock()

	codec, err := tokenizer.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenizer encoding: %w", err)
	}

	c.cacheMu.Lock()
	c.codecCache[encoding] = codec
	c.cacheMu.Unlock()

	return codec, nil
}

func modelToEncoding(model string) tokenizer.Encoding {
	model = strings.ToLower(model)
	switch {
	case strings.HasPrefix(model, "gpt-3.5"), strings.HasPrefix(model, "gpt-4-"), model == "gpt-4":
		return tokenizer.Cl100kBase
	default:
		return tokenizer.O200kBase
	}
}

// estimate is the character-based fallback (about four characters per token).
func estimate(messages []openai.ChatCompletionMessage) int {
	total := 0
	for _, msg := range messages {
		total += (len(msg.Content)+3)/4 + perMessageOverhead
	}
	return total
}
