package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider on top of the Google GenAI SDK.
type GeminiProvider struct {
	client *genai.Client
	cfg    ProviderConfig
}

// NewGeminiProvider creates a Gemini provider. An empty APIKey is rejected
// with ErrNoAPIKey; cfg.BaseURL overrides the API endpoint.
func NewGeminiProvider(ctx context.Context, cfg ProviderConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	def := DefaultProviderConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiProvider{client: client, cfg: cfg}, nil
}

func (p *GeminiProvider) Name() string { return ProviderGemini }

// Chat sends a generate content request. System messages become the
// request's system instruction.
func (p *GeminiProvider) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	start := time.Now()

	contents, system, err := toGeminiContents(messages)
	if err != nil {
		return nil, err
	}

	model := p.cfg.Model
	temperature := p.cfg.Temperature
	maxTokens := p.cfg.MaxTokens
	config := &genai.GenerateContentConfig{}
	if opts != nil {
		if opts.Model != "" {
			model = opts.Model
		}
		if opts.Temperature > 0 {
			temperature = opts.Temperature
		}
		if opts.MaxTokens > 0 {
			maxTokens = opts.MaxTokens
		}
		if opts.JSON {
			config.ResponseMIMEType = "application/json"
		}
	}
	config.Temperature = genai.Ptr(float32(temperature))
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderDown, err)
	}

	text := resp.Text()
	if text == "" {
		return nil, ErrEmptyResponse
	}

	out := &Response{
		Content:  text,
		Model:    model,
		Provider: ProviderGemini,
		Latency:  time.Since(start),
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

// toGeminiContents maps messages to Gemini contents, pulling the first
// system message out for use as the system instruction.
func toGeminiContents(messages []Message) ([]*genai.Content, string, error) {
	var (
		contents []*genai.Content
		system   string
		hasUser  bool
	)
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			if system == "" {
				system = m.Content
			}
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			hasUser = true
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if !hasUser {
		return nil, "", ErrNoUserMessage
	}
	return contents, system, nil
}
