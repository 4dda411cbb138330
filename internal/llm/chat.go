package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/pmorvan/factuel/internal/model"
	"github.com/pmorvan/factuel/internal/worker"
)

// ChatProvider implements Provider on any OpenAI-compatible chat-completions
// endpoint. DeepSeek exposes the same wire protocol, so both providers share
// this implementation and differ only in base URL and default model.
type ChatProvider struct {
	name    string
	config  model.LLMConfig
	keys    KeySource
	limiter *worker.Limiter
	host    string
}

// New creates the configured provider. The API key is resolved per call so
// key rotation in the store takes effect without a restart.
func New(cfg model.LLMConfig, keys KeySource, limiter *worker.Limiter) (Provider, error) {
	switch cfg.Provider {
	case "deepseek", "openai":
	case "":
		return nil, fmt.Errorf("no llm provider configured")
	default:
		return nil, fmt.Errorf("unknown llm provider: %s (supported: deepseek, openai)", cfg.Provider)
	}

	if cfg.BaseURL == "" && cfg.Provider == "deepseek" {
		cfg.BaseURL = "https://api.deepseek.com/v1"
	}
	if cfg.Model == "" {
		if cfg.Provider == "deepseek" {
			cfg.Model = "deepseek-chat"
		} else {
			cfg.Model = openai.GPT4oMini
		}
	}

	host := "api.openai.com"
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		host = u.Host
	}

	return &ChatProvider{
		name:    cfg.Provider,
		config:  cfg,
		keys:    keys,
		limiter: limiter,
		host:    host,
	}, nil
}

func (p *ChatProvider) Name() string {
	return p.name
}

// IsAvailable checks that a key is configured; it does not hit the network.
func (p *ChatProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.keys.Get(ctx, p.name)
	return err == nil
}

// Complete issues one chat completion. The request is paced through the
// limiter before the HTTP call goes out.
func (p *ChatProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	apiKey, err := p.keys.Get(ctx, p.name)
	if err != nil {
		return nil, err
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, p.host); err != nil {
			return nil, err
		}
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if p.config.BaseURL != "" {
		clientConfig.BaseURL = p.config.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	chatModel := req.Model
	if chatModel == "" {
		chatModel = p.config.Model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}
	if req.JSONObject {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := client.CreateChatCompletion(callCtx, chatReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &TransportError{StatusCode: apiErr.HTTPStatusCode, Err: err}
		}
		return nil, &TransportError{Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &TransportError{Err: fmt.Errorf("empty response from %s", p.name)}
	}

	return &CompletionResponse{
		Content:    resp.Choices[0].Message.Content,
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
