package companion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-companion-be/pkg/llm"
)

// Turn is one conversation turn handed to the generator, in the order it
// happened.
type Turn struct {
	Role    string // "user" or "companion"
	Content string
}

// Generator produces companion replies from conversation history. It owns
// the system guidance string and the timeout; callers treat every failure
// identically (the session manager substitutes fallback text).
type Generator struct {
	provider llm.LLMProvider
	guidance string
	timeout  time.Duration
}

func NewGenerator(provider llm.LLMProvider, guidance string, timeout time.Duration) *Generator {
	return &Generator{
		provider: provider,
		guidance: guidance,
		timeout:  timeout,
	}
}

// Reply generates the companion's next turn for the given history. The
// guidance string is prepended as a leading user turn, matching how the
// upstream model expects priming. Empty output is an error, never a valid
// reply.
func (g *Generator) Reply(ctx context.Context, turns []Turn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	history := make([]llm.Message, 0, len(turns)+1)
	history = append(history, llm.Message{Role: "user", Content: g.guidance})
	for _, t := range turns {
		role := "user"
		if t.Role != "user" {
			role = "assistant"
		}
		history = append(history, llm.Message{Role: role, Content: t.Content})
	}

	text, err := g.provider.Chat(ctx, history)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("reply generator returned empty text")
	}
	return text, nil
}
