package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/seenimoa/newspulse/internal/llm"
)

const llmSystemPrompt = `You rate the sentiment of financial news text for equity investors.
Reply with a single JSON object {"score": <number>} where score is between -1 (very bearish) and 1 (very bullish), 0 meaning neutral.
Do not add any other keys or commentary.`

// LLMModel scores text by asking a hosted language model.
type LLMModel struct {
	provider llm.Provider
	fallback Model
	logger   arbor.ILogger
}

// NewLLMModel wraps provider. When fallback is non-nil it is used for any
// chunk the provider fails on.
func NewLLMModel(provider llm.Provider, fallback Model, logger arbor.ILogger) *LLMModel {
	return &LLMModel{provider: provider, fallback: fallback, logger: logger}
}

func (m *LLMModel) Name() string { return "llm:" + m.provider.Name() }

// Score sends text to the provider and parses the {"score": x} reply.
func (m *LLMModel) Score(ctx context.Context, text string) (float64, error) {
	v, err := m.ask(ctx, text)
	if err == nil {
		return v, nil
	}
	if m.fallback == nil || ctx.Err() != nil {
		return 0, err
	}
	m.logger.Debug().Err(err).Str("fallback", m.fallback.Name()).Msg("LLM scoring failed, using fallback model")
	return m.fallback.Score(ctx, text)
}

func (m *LLMModel) ask(ctx context.Context, text string) (float64, error) {
	resp, err := m.provider.Chat(ctx, []llm.Message{
		llm.SystemMessage(llmSystemPrompt),
		llm.UserMessage(text),
	}, &llm.ChatOptions{JSON: true})
	if err != nil {
		return 0, err
	}
	m.logger.Debug().Str("response", resp.String()).Msg("LLM score reply")
	return parseScoreReply(resp.Content)
}

// parseScoreReply extracts the score from a model reply. Markdown code
// fences around the JSON are tolerated.
func parseScoreReply(content string) (float64, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var reply struct {
		Score *float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &reply); err != nil {
		return 0, fmt.Errorf("malformed score reply %q: %w", content, err)
	}
	if reply.Score == nil {
		return 0, fmt.Errorf("score missing from reply %q", content)
	}
	v := *reply.Score
	if math.IsNaN(v) || v < -1 || v > 1 {
		return 0, fmt.Errorf("score %v out of range [-1, 1]", v)
	}
	return v, nil
}
