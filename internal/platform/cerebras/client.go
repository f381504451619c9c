// Package cerebras adapts github.com/sashabaranov/go-openai to the
// planner.Client interface, pointed at an OpenAI-compatible endpoint
// (Cerebras's inference API by default). Grounded on the teacher's
// internal/llm/client.go (rate-limited CreateChatCompletion wrapper) and
// tools.go (function-calling-as-structured-output idiom), generalized
// from five ad-hoc tools to one schema-complete forced tool call.
package cerebras

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"flashloop/internal/action"
	"flashloop/internal/planner"
)

// Config configures the transport.
type Config struct {
	APIKey            string
	Model             string
	BaseURL           string // overridable for local testing against any OpenAI-compatible server
	RequestsPerMinute int
	TokensPerHour     int
}

const defaultModel = "llama3.1-70b"
const defaultBaseURL = "https://api.cerebras.ai/v1"

// Client wraps an *openai.Client configured against an OpenAI-compatible
// endpoint, enforcing a single forced tool call per request.
type Client struct {
	oa          *openai.Client
	model       string
	rateLimiter *RateLimiter
}

// New builds a transport client from cfg, applying the teacher's defaults
// (60 RPM / 90k tokens/hour) when unset.
func New(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	oaConfig := openai.DefaultConfig(cfg.APIKey)
	oaConfig.BaseURL = cfg.BaseURL

	return &Client{
		oa:          openai.NewClientWithConfig(oaConfig),
		model:       cfg.Model,
		rateLimiter: NewRateLimiter(cfg.RequestsPerMinute, cfg.TokensPerHour),
	}
}

// Complete implements planner.Client.
func (c *Client) Complete(ctx context.Context, req planner.Request) (planner.Response, error) {
	if err := c.rateLimiter.AllowRequest(ctx); err != nil {
		return planner.Response{}, err
	}

	tool := submitPlanTool()
	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: planner.SystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: planner.BuildPrompt(req)},
		},
		Tools: []openai.Tool{tool},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: tool.Function.Name},
		},
	}

	estimatedTokens := estimateTokens(chatReq.Messages)
	if err := c.rateLimiter.AllowTokens(ctx, estimatedTokens); err != nil {
		return planner.Response{}, err
	}

	resp, err := c.oa.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return planner.Response{}, fmt.Errorf("cerebras: chat completion request failed: %w", err)
	}

	if resp.Usage.TotalTokens > estimatedTokens {
		c.rateLimiter.ConsumeTokens(resp.Usage.TotalTokens - estimatedTokens)
	}

	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return planner.Response{}, fmt.Errorf("cerebras: model did not call the forced tool")
	}

	call := resp.Choices[0].Message.ToolCalls[0]
	var plan action.Plan
	if err := json.Unmarshal([]byte(call.Function.Arguments), &plan); err != nil {
		return planner.Response{}, fmt.Errorf("cerebras: tool arguments did not unmarshal into an Action Plan: %w", err)
	}

	return planner.Response{Plan: plan, TokensUsed: resp.Usage.TotalTokens}, nil
}

func estimateTokens(messages []openai.ChatCompletionMessage) int {
	total := 0
	for _, m := range messages {
		total += len(m.Content) / 4
	}
	return total
}
